// Package services provides the stateless domain services of the dispatch
// engine.
//
// The package includes:
//   - StopSequencer: orders delivery stops for navigation
//   - RoutingStrategySelector: classifies a batch into a routing strategy and
//     builds its navigation payload
//
// Both are synchronous transforms over their inputs. They hold no state
// between calls and can be shared between goroutines.
package services
