// Package history keeps the persisted, newest-first log of visited destinations.
//
// The Store is the single owner of Entry records. Every Append and Clear is
// written through to a storage.Store under one fixed key; Load hydrates the
// in-memory log once at startup. Absent or unparsable persisted data is
// treated as an empty history and never surfaces as an error.
//
// Persisted format (compatible with the browser-history localStorage value):
//
//	[{"id":"...","url":"https://...","title":"...","timestamp":1712345678901}, ...]
//
// Formatter renders relative visit times ("5 min ago") for the presentation layer.
package history
