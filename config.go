package fueltools

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default server and cache settings.
const (
	// DefaultServerURL is the Fuel server used when no configuration is given.
	DefaultServerURL = "https://api.ignitionfuel.org"

	// DefaultServerVersion is the API version of DefaultServerURL.
	DefaultServerVersion = "1.0"

	// DefaultServerName is the local alias of DefaultServerURL.
	DefaultServerName = "ignitionfuel"

	// CachePathEnv overrides the cache location from any other source.
	CachePathEnv = "FUEL_CACHE_PATH"

	// appName names the default cache directory and the metadata directory
	// inside every cached model.
	appName = "fuel"
)

// ServerRegistry is an ordered list of known servers.
// Lookups are linear and the first exact URL match wins.
type ServerRegistry []ServerConfig

// Lookup returns the first server whose URL equals url.
// No normalization of case, trailing slashes or default ports is done.
func (r ServerRegistry) Lookup(url string) (ServerConfig, bool) {
	for _, s := range r {
		if s.URL == url {
			return s, true
		}
	}
	return ServerConfig{}, false
}

// Add appends s unless a server with the same URL is already present.
// Returns false if s was rejected as a duplicate.
func (r *ServerRegistry) Add(s ServerConfig) bool {
	if _, ok := r.Lookup(s.URL); ok {
		return false
	}
	*r = append(*r, s)
	return true
}

// ClientConfig holds the servers and cache location used by a FuelClient.
type ClientConfig struct {
	// Servers lists the known servers, used to complete parsed URLs.
	Servers ServerRegistry

	// CacheLocation is the root directory of the local model cache.
	CacheLocation string
}

// configFile mirrors the YAML configuration file:
//
//	servers:
//	  - name: ignitionfuel
//	    url: https://api.ignitionfuel.org
//	    version: "1.0"
//	cache:
//	  path: /home/me/.fuel
type configFile struct {
	Servers []ServerConfig `yaml:"servers"`
	Cache   struct {
		Path string `yaml:"path"`
	} `yaml:"cache"`
}

// DefaultClientConfig returns a configuration with the public Fuel server
// and the platform default cache location.
func DefaultClientConfig() (ClientConfig, error) {
	cacheDir, err := resolveCacheLocation("")
	if err != nil {
		return ClientConfig{}, err
	}
	return ClientConfig{
		Servers: ServerRegistry{{
			URL:       DefaultServerURL,
			Version:   DefaultServerVersion,
			LocalName: DefaultServerName,
		}},
		CacheLocation: cacheDir,
	}, nil
}

// LoadClientConfig reads a YAML configuration file.
// Servers whose URL duplicates an earlier entry are skipped with a warning.
// The cache location is taken from CachePathEnv, then the file, then the
// platform default.
func LoadClientConfig(path string, logger Logger) (ClientConfig, error) {
	logger = orNop(logger)

	data, err := os.ReadFile(path)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return ClientConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	var cfg ClientConfig
	for _, s := range file.Servers {
		if s.URL == "" {
			return ClientConfig{}, fmt.Errorf("config %s: server %q has no url", path, s.LocalName)
		}
		if !cfg.Servers.Add(s) {
			logger.Warn("duplicate server URL in config, ignoring", "url", s.URL, "name", s.LocalName)
		}
	}

	cfg.CacheLocation, err = resolveCacheLocation(file.Cache.Path)
	if err != nil {
		return ClientConfig{}, err
	}

	return cfg, nil
}

// resolveCacheLocation applies the priority env var > configured > platform default.
func resolveCacheLocation(configured string) (string, error) {
	if envDir := os.Getenv(CachePathEnv); envDir != "" {
		return envDir, nil
	}
	if configured != "" {
		return configured, nil
	}
	dir, err := getDefaultCacheDir(appName)
	if err != nil {
		return "", fmt.Errorf("failed to get default cache dir: %w", err)
	}
	return dir, nil
}

// validate checks the configuration is usable by NewClient.
func (c ClientConfig) validate() error {
	if c.CacheLocation == "" {
		return errors.New("fueltools: CacheLocation is required")
	}
	return nil
}
