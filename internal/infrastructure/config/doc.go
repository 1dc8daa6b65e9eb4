// Package config provides 12-factor configuration management for the browser
// simulator server.
//
// Values are resolved in three layers: built-in defaults, then an optional
// YAML or TOML file named by BROWSIM_CONFIG, then environment variables.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, gzip)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Storage: History backend (memory, file, sqlite) and key
//   - Navigation: Search endpoint and display locale
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//	fmt.Printf("Server running on %s\n", cfg.Addr())
//
// Environment Variables:
//   - PORT, HOST, GZIP_ENABLED
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - STORAGE_DRIVER, STORAGE_PATH, HISTORY_KEY
//   - SEARCH_ENDPOINT, LOCALE
package config
