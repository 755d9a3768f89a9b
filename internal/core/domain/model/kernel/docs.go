// Package kernel provides the primitives shared by every dispatch aggregate.
//
// The package includes:
//   - UUID: identifier for batches, orders and drivers
//   - Coordinate: a validated latitude/longitude pair
//   - DistanceKm: straight-line (haversine) distance used as a placeholder for road distance
package kernel
