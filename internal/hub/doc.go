// Package hub is the core of the stream client: it shares one physical
// stream connection among any number of logical subscribers.
//
// Two types cooperate:
//
//   - Manager owns zero-or-one stream client keyed by credential, redials
//     with exponential backoff while demand exists, and cancels pending
//     retries the moment demand disappears.
//   - Hub ref-counts subscribers, opens the connection on the first
//     subscribe, tears it down on the last unsubscribe, and fans
//     connection lifecycle notifications out to subscriber callbacks.
//
// Nothing here blocks the caller: Subscribe, Unsubscribe and frame dispatch
// return immediately; connecting and reconnecting happen on background
// goroutines and surface through the state store and advisory callbacks.
package hub
