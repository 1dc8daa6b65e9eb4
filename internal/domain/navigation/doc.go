// Package navigation orchestrates the resolver, tab collection and history
// store in response to user intents.
//
// Intents:
//   - Submit: resolve input, append to history, point the active tab at it
//   - NewTab: add a blank active tab and clear the address bar
//   - CloseTab: close a tab; resync to the newly active tab when activation moved
//   - SwitchTab: activate a tab and resync to it
//   - OpenHistory: replay an entry into the active tab without a new visit
//   - ClearHistory: drop the history log
//
// The Coordinator owns no records itself. It caches the derived state (active
// tab, current destination, address bar text) and recomputes it after every
// tab mutation. Intents are serialized: each runs to completion, including
// subscriber notification, before the next one starts.
//
// Example Usage:
//
//	coord := navigation.New(resolver.Default(), tabs.New(), history.NewStore(kv))
//	if err := coord.Hydrate(ctx); err != nil { ... }
//	state, _ := coord.Submit(ctx, "example.com")
//	// state.Viewer.Src == "https://example.com"
package navigation
