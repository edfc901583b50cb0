// Package logging provides structured logging for the casos backend.
//
// It wraps log/slog so every component logs with the same handler
// settings and default fields (service, version).
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr, discard
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting server", "port", 4000)
//
// Never log passwords or bearer tokens.
package logging
