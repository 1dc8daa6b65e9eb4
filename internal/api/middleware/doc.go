// Package middleware provides the gin middleware stack for the HTTP adapter.
//
// Middleware stack includes:
//   - Recovery: Panic recovery logged through zap
//   - RequestID: X-Request-ID propagation (uuid when absent)
//   - Logger: One zap access log line per request
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting with idle eviction
//
// Example Usage:
//
//	router.Use(middleware.Recovery(logger), middleware.RequestID(), middleware.Logger(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
