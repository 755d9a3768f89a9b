// Package errs provides the typed errors shared by the dispatch engine.
//
// Each error type follows the same pattern:
//   - a sentinel (e.g. ErrValueIsRequired) usable with errors.Is
//   - a struct carrying the offending parameter and an optional cause
//   - constructors with and without cause
//
// Messages are kept on a single line so they can be logged and returned
// to the driver UI as-is.
package errs
