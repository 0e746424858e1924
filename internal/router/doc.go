// Package router fans decoded stream events out to registered listeners.
//
// The Router:
//   - Maps event type → insertion-ordered listener set
//   - Dispatches each envelope synchronously on the caller's goroutine,
//     preserving per-type arrival order
//   - Recovers listener panics so one consumer cannot break the stream
//     for others
//   - Drops frames with no interested listeners silently
package router
