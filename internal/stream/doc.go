// Package stream implements the physical connection to the Recall event
// stream endpoint.
//
// Two transports share one contract: the default SSE client reads a
// long-lived text/event-stream HTTP response, and the WebSocket client
// targets servers exposing the upgrade variant of the same path. Both
// authenticate with the credential as a ?token= query parameter and are
// receive-only: frames out, errors out, no commands in.
package stream
