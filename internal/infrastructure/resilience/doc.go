/*
Package resilience provides a circuit breaker for the history backend.

# Overview

When the key-value store keeps failing (full disk, locked database) every
intent would otherwise pay for a doomed write. The breaker trips after
repeated failures and rejects writes until a timeout passes, then lets a
limited number of trial calls through.

# States

  - Closed: calls pass; consecutive failures are counted
  - Open: calls are rejected with ErrCircuitOpen
  - Half-Open: up to MaxRequests trial calls; success closes, failure reopens

# Usage

	breaker := resilience.New("history-store", resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c resilience.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
	})
	err := breaker.Execute(func() error {
		return kv.Set(ctx, key, data)
	})
*/
package resilience
