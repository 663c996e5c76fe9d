// Package fueltools is a client for Fuel servers, which host simulation
// models owned by users and organizations.
//
// The package serves two primary use cases:
//
//  1. Programmatic API via the FuelClient interface - Applications can use
//     NewClient to resolve model URLs, list models, fetch model details
//     and download model archives into a local cache.
//
//  2. Embeddable CLI via NewCommand - Parent CLI tools can attach a complete
//     "fuel" subcommand tree to their Cobra root command, providing commands
//     like "mytool fuel list", "mytool fuel download", etc.
//
// # Model URLs
//
// A model is addressed either by a versioned URL or by its unique name:
//
//	https://api.ignitionfuel.org/1.0/caguero/models/Beer
//	https://api.ignitionfuel.org/caguero/models/Beer
//
// The server part is completed from the configured servers. When a server
// is configured, its API version is used even if the URL names another.
//
// # Caching
//
// Downloaded archives are extracted below the cache location:
//
//	<cache>/models/<owner>/<name>/
//
// where <name> is lower-cased with spaces replaced by underscores.
// The cache location is taken from the FUEL_CACHE_PATH environment
// variable, then the configuration file, then a platform default:
//   - Linux: $XDG_CACHE_HOME/fuel/ or ~/.cache/fuel/
//   - macOS: ~/Library/Caches/fuel/
//   - Windows: %LOCALAPPDATA%\fuel\
//
// ModelsMatching and CachedModel answer from the cache without checking
// whether the server has a newer copy. Models falls back to the cache when
// the server cannot be reached.
//
// # Thread Safety
//
// A FuelClient is not safe for concurrent use. LocalCache serializes its
// writers, and across processes with a lock file.
package fueltools
