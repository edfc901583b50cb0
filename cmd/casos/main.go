// casos is the case-management backend: a REST API over an in-memory case
// collection with bearer-token access, live WebSocket events and optional
// MQTT, InfluxDB and Redis integrations.
//
// Usage:
//
//	casos [serve] [--config path]   run the server (default)
//	casos hash-password <password>  print an Argon2id hash for config
//	casos version                   print build information
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on Ctrl+C or SIGTERM for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// getConfigPath returns the configuration file path.
// The --config flag wins, then CASOS_CONFIG, then the default.
func getConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if path := os.Getenv("CASOS_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
