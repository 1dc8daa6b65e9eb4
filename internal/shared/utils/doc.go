// Package utils validates untrusted input arriving through the HTTP and
// WebSocket adapters before it reaches the navigation core.
package utils
