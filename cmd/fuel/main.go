// Command fuel browses and downloads models from Fuel servers.
//
// Configuration is loaded from environment variables, optionally read
// from a .env file in the working directory:
//   - FUEL_CONFIG: Path to a YAML client configuration (optional)
//   - FUEL_CACHE_PATH: Override for the cache location (optional)
//   - FUEL_LOG_LEVEL: debug, info, warn or error (default: warn)
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"

	fueltools "github.com/mohamedsayed18/ign-fuel-tools"
)

// CLI exit codes for standardized error reporting.
const (
	// ExitSuccess indicates the operation completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitInvalidArgs indicates an invalid model URL or configuration.
	ExitInvalidArgs = 2

	// ExitNotCached indicates the model is not in the local cache.
	ExitNotCached = 3

	// ExitNetworkError indicates a network failure or unexpected server answer.
	ExitNetworkError = 4

	// ExitStorageError indicates a cache filesystem operation failed.
	ExitStorageError = 5

	// ExitNotImplemented indicates the server does not support the operation.
	ExitNotImplemented = 6
)

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(os.Getenv("FUEL_LOG_LEVEL"), slices.Contains(os.Args[1:], "--verbose") || slices.Contains(os.Args[1:], "-v")),
	}))

	cfg, err := loadConfig(logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(ExitInvalidArgs)
	}

	cmd := fueltools.NewCommand(cfg, fueltools.WithLogger(logger))
	if err := cmd.Execute(); err != nil {
		os.Exit(exitCodeFromError(err))
	}
}

// loadConfig reads FUEL_CONFIG if set, otherwise the built-in defaults.
func loadConfig(logger *slog.Logger) (fueltools.ClientConfig, error) {
	if path := os.Getenv("FUEL_CONFIG"); path != "" {
		return fueltools.LoadClientConfig(path, logger)
	}
	return fueltools.DefaultClientConfig()
}

// logLevel maps FUEL_LOG_LEVEL to a slog level. verbose forces debug.
func logLevel(s string, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// exitCodeFromError maps error types to exit codes.
func exitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, fueltools.ErrInvalidURL):
		return ExitInvalidArgs
	case errors.Is(err, fueltools.ErrNotCached):
		return ExitNotCached
	case errors.Is(err, fueltools.ErrNetworkError), errors.Is(err, fueltools.ErrBadStatus),
		errors.Is(err, fueltools.ErrInvalidResponse):
		return ExitNetworkError
	case errors.Is(err, fueltools.ErrStorageError), errors.Is(err, fueltools.ErrInvalidArchive):
		return ExitStorageError
	case errors.Is(err, fueltools.ErrNotImplemented):
		return ExitNotImplemented
	default:
		return ExitGeneralError
	}
}
