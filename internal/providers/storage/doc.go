// Package storage provides the durable key-value store behind browser history.
//
// Backends:
//   - Memory: process-local map, used in tests and with STORAGE_DRIVER=memory
//   - File: one JSON document per key under a directory, atomic writes, read cache
//   - SQLite: a single kv table (modernc.org/sqlite, no cgo)
//
// All backends report a missing key as ErrNotFound and treat Delete of a
// missing key as success.
//
// Example Usage:
//
//	store, err := storage.Open(storage.DriverFile, "/tmp/browsim-storage")
//	err = store.Set(ctx, "browser-history", data)
//	data, err := store.Get(ctx, "browser-history")
package storage
