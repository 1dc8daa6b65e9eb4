// Package resolver turns raw address-bar input into a navigable destination.
//
// Resolution rules, applied to the trimmed input in order:
//  1. Input starting with http:// or https:// is used verbatim
//  2. Input containing a dot and no whitespace is a bare domain: https:// is prepended
//  3. Anything else is a search query against the configured search endpoint
//
// This is a heuristic, not URL validation: "a..b", "foo." and hosts without a
// TLD are accepted as domains.
//
// Example Usage:
//
//	r := resolver.Default()
//	dest, err := r.Resolve("hello world")
//	// dest.ResolvedURL == "https://www.google.com/search?q=hello%20world"
package resolver
