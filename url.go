package fueltools

import (
	"regexp"
)

// Model URL grammars. Both must match the whole string.
const (
	// modelURLPattern matches scheme://host/version/owner/models/name,
	// e.g. https://api.ignitionfuel.org/1.0/caguero/models/Beer
	modelURLPattern = `^([[:alnum:]\.\+\-]+)://` + // scheme
		`([^/\s]+)/+` + // host
		`([^/\s]+)/+` + // version
		`([^/\s]+)/+` + // owner
		`models/+` +
		`([^/]+)/*$` // name

	// uniqueNamePattern is modelURLPattern without the version segment,
	// e.g. https://api.ignitionfuel.org/caguero/models/Beer
	uniqueNamePattern = `^([[:alnum:]\.\+\-]+)://` + // scheme
		`([^/\s]+)/+` + // host
		`([^/\s]+)/+` + // owner
		`models/+` +
		`([^/]+)/*$` // name
)

// urlResolver turns model URLs into a server and model identifier,
// completing the server from the configured registry.
// It is read-only after construction.
type urlResolver struct {
	modelURL   *regexp.Regexp
	uniqueName *regexp.Regexp

	servers ServerRegistry
	logger  Logger
}

// newURLResolver compiles both grammars.
func newURLResolver(servers ServerRegistry, logger Logger) *urlResolver {
	return &urlResolver{
		modelURL:   regexp.MustCompile(modelURLPattern),
		uniqueName: regexp.MustCompile(uniqueNamePattern),
		servers:    servers,
		logger:     orNop(logger),
	}
}

// parsedURL holds the raw captures of a model URL.
type parsedURL struct {
	scheme  string
	host    string
	version string
	owner   string
	name    string
}

// match tries the versioned grammar first, then the unique-name grammar.
func (r *urlResolver) match(raw string) (parsedURL, bool) {
	if m := r.modelURL.FindStringSubmatch(raw); len(m) == 6 {
		return parsedURL{scheme: m[1], host: m[2], version: m[3], owner: m[4], name: m[5]}, true
	}
	if m := r.uniqueName.FindStringSubmatch(raw); len(m) == 5 {
		return parsedURL{scheme: m[1], host: m[2], owner: m[3], name: m[4]}, true
	}
	return parsedURL{}, false
}

// resolve parses raw and fills in the server from the registry.
// Returns false, and zero values, if raw matches neither grammar.
func (r *urlResolver) resolve(raw string) (ServerConfig, ModelIdentifier, bool) {
	p, ok := r.match(raw)
	if !ok {
		return ServerConfig{}, ModelIdentifier{}, false
	}

	srv := ServerConfig{
		URL:     p.scheme + "://" + p.host,
		Version: p.version,
	}

	// The registry version always wins; a version in the URL is informational.
	if known, ok := r.servers.Lookup(srv.URL); ok {
		if p.version != "" && known.Version != p.version {
			r.logger.Warn("requested server API version differs from config, using config",
				"server", known.URL, "requested", p.version, "using", known.Version)
		}
		srv = known
	}

	if srv.Incomplete() {
		r.logger.Warn("server configuration is incomplete", "server", srv.String())
	}

	id := ModelIdentifier{
		Owner:  p.owner,
		Name:   p.name,
		Server: srv,
	}
	return srv, id, true
}
