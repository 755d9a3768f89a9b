// Package batch models the backend's batches and orders as the dispatch
// engine sees them: the canonical status vocabulary with its backend mapping,
// driver assignment rules, and the delivery stops handed to navigation.
package batch
