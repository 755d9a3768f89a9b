// Package routing holds the vocabulary of batch routing: capability settings,
// the closed set of routing outcomes, hub lookup, and the navigation payload
// produced for the driver.
//
// The decision logic itself lives in services.RoutingStrategySelector.
package routing
