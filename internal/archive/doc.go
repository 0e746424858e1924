// Package archive persists stream events to Postgres in batches.
//
// The writer subscribes to the event hub like any other consumer, buffers
// incoming envelopes in memory, and flushes them with pgx batch inserts
// either when the batch fills or on a timer. Duplicate deliveries after a
// reconnect are absorbed with ON CONFLICT DO NOTHING.
package archive
