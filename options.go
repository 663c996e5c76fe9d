package fueltools

import (
	"net/http"
)

// ClientOption configures a FuelClient.
type ClientOption func(*clientConfig)

// clientConfig holds configuration for FuelClient construction.
type clientConfig struct {
	// httpClient is used by the default REST transport.
	httpClient HTTPClient

	// transport overrides the REST transport entirely.
	transport Transport

	// cache overrides the default on-disk cache.
	cache Cache

	// logger receives diagnostic log messages.
	logger Logger
}

// newClientConfig returns a clientConfig with default values.
func newClientConfig() *clientConfig {
	return &clientConfig{
		httpClient: http.DefaultClient,
	}
}

// WithHTTPClient sets a custom HTTP client for the default REST transport.
// Useful for testing with mock servers or customizing timeouts.
// If not set, http.DefaultClient is used.
func WithHTTPClient(client HTTPClient) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTransport replaces the REST transport.
// When set, WithHTTPClient has no effect.
func WithTransport(t Transport) ClientOption {
	return func(c *clientConfig) {
		c.transport = t
	}
}

// WithCache replaces the default on-disk LocalCache.
func WithCache(cache Cache) ClientOption {
	return func(c *clientConfig) {
		c.cache = cache
	}
}

// WithLogger sets a logger for diagnostic output and warnings.
// If not set, logging is disabled.
func WithLogger(logger Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// HTTPClient is the interface for HTTP operations.
// *http.Client satisfies this interface.
type HTTPClient interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}

// Logger is the interface for diagnostic logging.
// Compatible with slog, zap, logrus, and other structured loggers.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, keysAndValues ...any)
}

// nopLogger discards everything. Used when no Logger is configured.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// orNop returns logger, or a discarding logger if it is nil.
func orNop(logger Logger) Logger {
	if logger == nil {
		return nopLogger{}
	}
	return logger
}
