// Package http exposes the navigation coordinator as JSON endpoints.
//
// Every mutating endpoint answers with the full navigation state so a
// client can render from the response alone. Unknown tab or history IDs
// yield 404 and leave the state untouched; malformed IDs yield 400.
package http
