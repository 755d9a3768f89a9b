// Package offer models a single order or batch presented to a driver for a
// bounded time, together with the events its countdown produces.
package offer
