package fueltools

import (
	"context"

	"github.com/spf13/afero"
)

// FuelClient resolves model URLs and fetches models from Fuel servers,
// answering from the local cache where the operation allows it.
//
// A FuelClient is not safe for concurrent use: callers sharing one across
// goroutines must serialize calls themselves.
// For CLI integration, use NewCommand instead.
type FuelClient interface {
	// Config returns the configuration the client was built with.
	Config() ClientConfig

	// ParseModelURL parses a versioned model URL
	// (scheme://host/version/owner/models/name) or a unique name
	// (scheme://host/owner/models/name) and completes the server from
	// the configured servers. Returns ErrInvalidURL if neither form matches.
	ParseModelURL(rawURL string) (ServerConfig, ModelIdentifier, error)

	// ModelDetails fetches the full description of id from srv.
	ModelDetails(ctx context.Context, srv ServerConfig, id ModelIdentifier) (ModelIdentifier, Result)

	// Models lists the models on srv. If the listing cannot be started or
	// lists nothing, every cached model is returned instead.
	Models(ctx context.Context, srv ServerConfig) ModelIter

	// ModelsMatching lists cached models matching id; only when the cache
	// has none is srv asked.
	ModelsMatching(ctx context.Context, srv ServerConfig, id ModelIdentifier) ModelIter

	// DownloadModel downloads the archive of id from srv into the cache,
	// replacing any cached copy.
	DownloadModel(ctx context.Context, srv ServerConfig, id ModelIdentifier) Result

	// DownloadModelURL parses rawURL, downloads the model and returns the
	// directory it is cached in.
	DownloadModelURL(ctx context.Context, rawURL string) (string, Result)

	// CachedModel parses rawURL and returns the cache directory of the model
	// without contacting the server.
	CachedModel(ctx context.Context, rawURL string) (string, Result)

	// UploadModel is not supported by the server API yet and always fails
	// with ResultUploadError.
	UploadModel(ctx context.Context, srv ServerConfig, modelDir string, id ModelIdentifier) Result

	// DeleteModel is not supported by the server API yet and always fails
	// with ResultDeleteError.
	DeleteModel(ctx context.Context, srv ServerConfig, id ModelIdentifier) Result
}

// Ensure fuelClient implements FuelClient interface.
var _ FuelClient = (*fuelClient)(nil)

// NewClient creates a FuelClient with the given configuration.
// Returns an error if the configuration is invalid (empty CacheLocation).
//
// Unless WithCache is given, models are cached on disk below
// cfg.CacheLocation. If that directory cannot be created a warning is
// logged and an in-memory cache is used instead.
func NewClient(cfg ClientConfig, opts ...ClientOption) (FuelClient, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	ccfg := newClientConfig()
	for _, opt := range opts {
		opt(ccfg)
	}
	logger := orNop(ccfg.logger)

	transport := ccfg.transport
	if transport == nil {
		transport = NewREST(ccfg.httpClient, logger)
	}

	cache := ccfg.cache
	if cache == nil {
		local, err := NewLocalCache(afero.NewOsFs(), cfg.CacheLocation, logger)
		if err != nil {
			logger.Warn("cannot create cache, falling back to in-memory cache",
				"location", cfg.CacheLocation, "error", err)
			local, err = NewLocalCache(afero.NewMemMapFs(), cfg.CacheLocation, logger)
			if err != nil {
				return nil, err
			}
		}
		cache = local
	}

	return &fuelClient{
		cfg:       cfg,
		transport: transport,
		cache:     cache,
		resolver:  newURLResolver(cfg.Servers, logger),
		logger:    logger,
	}, nil
}
