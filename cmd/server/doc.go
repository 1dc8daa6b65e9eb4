// Package main is the entry point for the browsim server.
//
// browsim hosts a single simulated browser session: an address bar, a
// tab strip and a persisted visit history, driven over REST and
// WebSocket by any number of thin clients.
//
// Architecture:
//
//	Client (REST / WebSocket) → Gin router → Navigation coordinator
//	                                        → History store → Storage (memory, file, sqlite)
//
// The server provides:
//   - REST API for navigation, tabs and history
//   - WebSocket push of every state change
//   - Prometheus metrics at /metrics
//   - Rate limiting and request IDs
//
// Configuration:
//   - Defaults for development
//   - Config file via -config or BROWSIM_CONFIG (YAML or TOML)
//   - Environment variables (12-factor), overriding the file
//   - CLI flags, overriding everything
//
// Usage:
//
//	# Production mode
//	STORAGE_DRIVER=sqlite STORAGE_PATH=/var/lib/browsim ./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
