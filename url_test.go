package fueltools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLResolverMatch(t *testing.T) {
	r := newURLResolver(nil, nil)

	tests := []struct {
		name  string
		input string
		want  parsedURL
		ok    bool
	}{
		{
			name:  "versioned",
			input: "https://api.ignitionfuel.org/1.0/caguero/models/Beer",
			want:  parsedURL{scheme: "https", host: "api.ignitionfuel.org", version: "1.0", owner: "caguero", name: "Beer"},
			ok:    true,
		},
		{
			name:  "unique name",
			input: "https://api.ignitionfuel.org/caguero/models/Beer",
			want:  parsedURL{scheme: "https", host: "api.ignitionfuel.org", owner: "caguero", name: "Beer"},
			ok:    true,
		},
		{
			name:  "trailing slashes",
			input: "https://api.ignitionfuel.org/1.0/caguero/models/Beer//",
			want:  parsedURL{scheme: "https", host: "api.ignitionfuel.org", version: "1.0", owner: "caguero", name: "Beer"},
			ok:    true,
		},
		{
			name:  "repeated separators",
			input: "http://localhost:8000//caguero//models//Beer",
			want:  parsedURL{scheme: "http", host: "localhost:8000", owner: "caguero", name: "Beer"},
			ok:    true,
		},
		{
			name:  "name with spaces",
			input: "https://fuel.example.com/1.0/openrobotics/models/Construction Cone",
			want:  parsedURL{scheme: "https", host: "fuel.example.com", version: "1.0", owner: "openrobotics", name: "Construction Cone"},
			ok:    true,
		},
		{
			name:  "scheme with plus",
			input: "git+ssh://fuel.example.com/caguero/models/Beer",
			want:  parsedURL{scheme: "git+ssh", host: "fuel.example.com", owner: "caguero", name: "Beer"},
			ok:    true,
		},
		{name: "missing models segment", input: "https://api.ignitionfuel.org/1.0/caguero/Beer"},
		{name: "missing name", input: "https://api.ignitionfuel.org/1.0/caguero/models/"},
		{name: "no scheme", input: "api.ignitionfuel.org/caguero/models/Beer"},
		{name: "extra segment", input: "https://api.ignitionfuel.org/1.0/x/caguero/models/Beer"},
		{name: "trailing garbage", input: "https://api.ignitionfuel.org/caguero/models/Beer/files/model.sdf"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.match(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestURLResolverResolve(t *testing.T) {
	servers := ServerRegistry{
		{URL: "https://api.ignitionfuel.org", Version: "1.0", LocalName: "ignitionfuel"},
		{URL: "http://localhost:8000", Version: "2.0", LocalName: "local"},
	}

	t.Run("known server fills in version and name", func(t *testing.T) {
		logger := &recordingLogger{}
		r := newURLResolver(servers, logger)

		srv, id, ok := r.resolve("https://api.ignitionfuel.org/caguero/models/Beer")
		require.True(t, ok)
		assert.Equal(t, servers[0], srv)
		assert.Equal(t, servers[0], id.Server)
		assert.Equal(t, "caguero", id.Owner)
		assert.Equal(t, "Beer", id.Name)
		assert.Empty(t, logger.warnings())
	})

	t.Run("version mismatch warns and keeps configured version", func(t *testing.T) {
		logger := &recordingLogger{}
		r := newURLResolver(servers, logger)

		srv, _, ok := r.resolve("http://localhost:8000/1.0/caguero/models/Beer")
		require.True(t, ok)
		assert.Equal(t, "2.0", srv.Version)
		assert.Equal(t, "local", srv.LocalName)
		assert.Equal(t, []string{"requested server API version differs from config, using config"}, logger.warnings())
	})

	t.Run("matching version does not warn", func(t *testing.T) {
		logger := &recordingLogger{}
		r := newURLResolver(servers, logger)

		_, _, ok := r.resolve("https://api.ignitionfuel.org/1.0/caguero/models/Beer")
		require.True(t, ok)
		assert.Empty(t, logger.warnings())
	})

	t.Run("unknown server is incomplete", func(t *testing.T) {
		logger := &recordingLogger{}
		r := newURLResolver(servers, logger)

		srv, _, ok := r.resolve("https://fuel.example.com/1.0/caguero/models/Beer")
		require.True(t, ok)
		assert.Equal(t, ServerConfig{URL: "https://fuel.example.com", Version: "1.0"}, srv)
		assert.Equal(t, []string{"server configuration is incomplete"}, logger.warnings())
	})

	t.Run("server URLs compare exactly", func(t *testing.T) {
		r := newURLResolver(servers, nil)

		srv, _, ok := r.resolve("https://API.ignitionfuel.org/caguero/models/Beer")
		require.True(t, ok)
		assert.Empty(t, srv.LocalName)
		assert.Empty(t, srv.Version)
	})

	t.Run("invalid", func(t *testing.T) {
		r := newURLResolver(servers, nil)

		srv, id, ok := r.resolve("https://api.ignitionfuel.org/caguero/Beer")
		assert.False(t, ok)
		assert.Equal(t, ServerConfig{}, srv)
		assert.Equal(t, ModelIdentifier{}, id)
	})
}
