package fueltools

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
)

// fuelClient is the concrete implementation of the FuelClient interface.
type fuelClient struct {
	// cfg holds the client configuration.
	cfg ClientConfig

	// transport issues REST requests.
	transport Transport

	// cache stores downloaded models.
	cache Cache

	// resolver parses model URLs.
	resolver *urlResolver

	// logger receives diagnostic messages. Never nil.
	logger Logger
}

// Config returns the configuration the client was built with.
func (c *fuelClient) Config() ClientConfig {
	return c.cfg
}

// ParseModelURL parses a model URL or unique name.
func (c *fuelClient) ParseModelURL(rawURL string) (ServerConfig, ModelIdentifier, error) {
	srv, id, ok := c.resolver.resolve(rawURL)
	if !ok {
		return ServerConfig{}, ModelIdentifier{}, fmt.Errorf("%q: %w", rawURL, ErrInvalidURL)
	}
	return srv, id, nil
}

// restModelPath returns the REST path of a model, without the API version.
func restModelPath(id ModelIdentifier) string {
	return path.Join(id.Owner, "models", id.Name)
}

// ModelDetails fetches the full description of a model.
func (c *fuelClient) ModelDetails(ctx context.Context, srv ServerConfig, id ModelIdentifier) (ModelIdentifier, Result) {
	data, err := get(ctx, c.transport, srv, restModelPath(id))
	if err != nil {
		return ModelIdentifier{}, record("details", failed(ResultFetchError, err))
	}

	model, err := ParseModel(data, srv)
	if err != nil {
		return ModelIdentifier{}, record("details", failed(ResultFetchError, err))
	}

	return model, record("details", fetched())
}

// Models lists the models on srv, or the whole cache if the server listing
// cannot be started or its first page is empty.
func (c *fuelClient) Models(ctx context.Context, srv ServerConfig) ModelIter {
	iter, err := newRESTIter(ctx, c.transport, srv, "models")
	if err != nil {
		c.logger.Warn("failed to fetch models from server, returning cached models",
			"server", srv.URL, "error", err)
		offlineFallbacks.Inc()
		return c.cache.AllModels()
	}
	return iter
}

// ModelsMatching answers from the cache when it has any match, even a
// stale one, and only then asks the server.
func (c *fuelClient) ModelsMatching(ctx context.Context, srv ServerConfig, id ModelIdentifier) ModelIter {
	if local, ok := peek(c.cache.MatchingModels(id)); ok {
		cacheLookups.WithLabelValues("hit").Inc()
		return local
	}
	cacheLookups.WithLabelValues("miss").Inc()

	c.logger.Info("model not found in cache, attempting download", "model", id.UniqueName())

	iter, err := newRESTIter(ctx, c.transport, srv, restModelPath(id))
	if err != nil {
		return newErrIter(fmt.Errorf("%w: %w", ErrFetch, err))
	}
	return iter
}

// DownloadModel downloads a model archive and stores it in the cache.
// A cache write failure is reported exactly like a failed download.
func (c *fuelClient) DownloadModel(ctx context.Context, srv ServerConfig, id ModelIdentifier) Result {
	data, err := get(ctx, c.transport, srv, restModelPath(id)+".zip")
	if err != nil {
		return record("download", failed(ResultFetchError, err))
	}

	if id.Server.URL == "" {
		id.Server = srv
	}

	if err := c.cache.SaveModel(id, data, true); err != nil {
		c.logger.Warn("downloaded model could not be cached", "model", id.UniqueName(), "error", err)
		return record("download", failed(ResultFetchError, err))
	}

	c.logger.Info("model downloaded", "model", id.UniqueName(), "bytes", len(data))
	return record("download", fetched())
}

// DownloadModelURL parses rawURL and downloads the model it names.
// The returned path is derived from the identifier, not read back from
// the cache.
func (c *fuelClient) DownloadModelURL(ctx context.Context, rawURL string) (string, Result) {
	srv, id, err := c.ParseModelURL(rawURL)
	if err != nil {
		return "", record("download", failed(ResultFetchError, err))
	}

	result := c.DownloadModel(ctx, srv, id)
	if !result.OK() {
		return "", result
	}

	return c.cachePath(id), result
}

// CachedModel looks rawURL up in the cache only.
func (c *fuelClient) CachedModel(ctx context.Context, rawURL string) (string, Result) {
	_, id, err := c.ParseModelURL(rawURL)
	if err != nil {
		return "", record("cached", failed(ResultFetchError, err))
	}

	if _, ok := peek(c.cache.MatchingModels(id)); !ok {
		cacheLookups.WithLabelValues("miss").Inc()
		return "", record("cached", failed(ResultFetchError, fmt.Errorf("%s: %w", id, ErrNotCached)))
	}
	cacheLookups.WithLabelValues("hit").Inc()

	return c.cachePath(id), record("cached", cached())
}

// cachePath returns <cache location>/models/<owner>/<normalized name>.
func (c *fuelClient) cachePath(id ModelIdentifier) string {
	return filepath.Join(c.cfg.CacheLocation, modelsDir, id.Owner, normalizeName(id.Name))
}

// UploadModel always fails; the server API has no upload endpoint yet.
func (c *fuelClient) UploadModel(ctx context.Context, srv ServerConfig, modelDir string, id ModelIdentifier) Result {
	return record("upload", failed(ResultUploadError, ErrNotImplemented))
}

// DeleteModel always fails; the server API has no delete endpoint yet.
func (c *fuelClient) DeleteModel(ctx context.Context, srv ServerConfig, id ModelIdentifier) Result {
	return record("delete", failed(ResultDeleteError, ErrNotImplemented))
}
