// Package state exposes the observable side of the stream connection.
//
// The Store is a pure state holder: connection status, current reconnect
// attempt, active credential, and a bounded ring of recent diagnostic log
// entries. It performs no I/O; the hub mutates it and any number of
// observers read snapshots concurrently.
package state
