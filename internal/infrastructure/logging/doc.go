// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output, debug level, DPanic panics
//
// Domain packages take a plain *zap.Logger; pass logger.Named("component").
//
// Example Usage:
//
//	logger, err := logging.New(logging.ConfigFor("info", false))
//	if err != nil {
//		return err
//	}
//	defer logger.Sync()
//	logger.Info("Server starting", zap.String("port", "8000"))
package logging
