// Package api provides the Recall REST API client.
//
// It covers the resources the stream reports on: projects, memories and
// indexing jobs. The live event stream itself is handled by the stream
// and hub packages; this client fills in point-in-time state, for example
// re-fetching a job after a job:completed event.
package api
