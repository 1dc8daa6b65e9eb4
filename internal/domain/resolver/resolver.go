package resolver

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// DefaultSearchEndpoint is the search engine used for non-URL input
const DefaultSearchEndpoint = "https://www.google.com/search"

// SearchParam is the query parameter carrying the search terms
const SearchParam = "q"

// ErrEmptyInput is returned when the input is blank after trimming
var ErrEmptyInput = errors.New("empty input")

// Destination is a resolved navigation target
type Destination struct {
	RawQuery    string `json:"raw_query"`
	ResolvedURL string `json:"resolved_url"`
}

// IsZero reports whether the destination is unset
func (d Destination) IsZero() bool {
	return d.ResolvedURL == ""
}

// Resolver resolves input against a fixed search endpoint
type Resolver struct {
	searchEndpoint string
}

// New creates a resolver for the given search endpoint.
// The endpoint must be an absolute http(s) URL without a query string.
func New(searchEndpoint string) (*Resolver, error) {
	u, err := url.Parse(searchEndpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid search endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("search endpoint must be an absolute http(s) URL: %q", searchEndpoint)
	}
	if u.RawQuery != "" {
		return nil, fmt.Errorf("search endpoint must not carry a query: %q", searchEndpoint)
	}
	return &Resolver{searchEndpoint: searchEndpoint}, nil
}

// Default returns a resolver using DefaultSearchEndpoint
func Default() *Resolver {
	return &Resolver{searchEndpoint: DefaultSearchEndpoint}
}

// SearchEndpoint returns the configured search endpoint
func (r *Resolver) SearchEndpoint() string {
	return r.searchEndpoint
}

// Resolve converts input into a Destination. It has no side effects.
func (r *Resolver) Resolve(input string) (Destination, error) {
	query := strings.TrimSpace(input)
	if query == "" {
		return Destination{}, ErrEmptyInput
	}

	return Destination{
		RawQuery:    query,
		ResolvedURL: r.resolveURL(query),
	}, nil
}

func (r *Resolver) resolveURL(query string) string {
	if HasScheme(query) {
		return query
	}
	if LooksLikeDomain(query) {
		return "https://" + query
	}
	return r.SearchURL(query)
}

// SearchURL builds the search URL for a query
func (r *Resolver) SearchURL(query string) string {
	return r.searchEndpoint + "?" + SearchParam + "=" + EncodeComponent(query)
}

// HasScheme reports whether input starts with http:// or https://
func HasScheme(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// LooksLikeDomain reports whether input contains a dot and no whitespace.
// Both conditions are required: "a.b c" is a search.
func LooksLikeDomain(input string) bool {
	if !strings.Contains(input, ".") {
		return false
	}
	return !strings.ContainsFunc(input, unicode.IsSpace)
}

// componentUnescape restores the characters that url.QueryEscape escapes but
// a browser's encodeURIComponent leaves alone. Literal '+' is already %2B.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s for use as a query value, leaving
// A-Z a-z 0-9 and - _ . ! ~ * ' ( ) unescaped. Spaces become %20 rather
// than '+', matching what browsers put in the address bar.
func EncodeComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}
