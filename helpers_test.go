package fueltools

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// logEntry is one message captured by recordingLogger.
type logEntry struct {
	level string
	msg   string
	args  []any
}

// recordingLogger captures log messages for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) log(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.log("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("error", msg, args) }

// warnings returns the messages logged at warn level.
func (l *recordingLogger) warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.entries {
		if e.level == "warn" {
			out = append(out, e.msg)
		}
	}
	return out
}

const testCacheRoot = "/cache"

// newMemCache returns an empty LocalCache on an in-memory filesystem.
func newMemCache(t *testing.T) *LocalCache {
	t.Helper()
	c, err := NewLocalCache(afero.NewMemMapFs(), testCacheRoot, nil)
	require.NoError(t, err)
	return c
}

// buildZip returns a zip archive holding files, keyed by entry name.
// Names ending in "/" become directory entries.
func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		if !strings.HasSuffix(name, "/") {
			_, err = w.Write([]byte(content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// cacheModel stores a model with a one-file archive in c.
func cacheModel(t *testing.T, c *LocalCache, owner, name string) {
	t.Helper()
	data := buildZip(t, map[string]string{"model.config": "<model/>"})
	require.NoError(t, c.SaveModel(ModelIdentifier{Owner: owner, Name: name}, data, false))
}

// mockTransport is a Transport driven by testify expectations.
type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Request(ctx context.Context, method, baseURL, version, path string,
	query url.Values, header http.Header, body []byte) (RESTResponse, error) {
	args := m.Called(ctx, method, baseURL, version, path, query, header, body)
	return args.Get(0).(RESTResponse), args.Error(1)
}

// onRequest registers an expectation matching any request to path.
func (m *mockTransport) onRequest(path string) *mock.Call {
	return m.On("Request", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		path, mock.Anything, mock.Anything, mock.Anything)
}

// mockCache is a Cache driven by testify expectations.
type mockCache struct {
	mock.Mock
}

func (m *mockCache) AllModels() ModelIter {
	return m.Called().Get(0).(ModelIter)
}

func (m *mockCache) MatchingModels(id ModelIdentifier) ModelIter {
	return m.Called(id).Get(0).(ModelIter)
}

func (m *mockCache) SaveModel(id ModelIdentifier, data []byte, overwrite bool) error {
	return m.Called(id, data, overwrite).Error(0)
}

// fakeFuel is an in-process Fuel server.
//
//	GET /{version}/models?page=N              paged model list
//	GET /{version}/{owner}/models/{name}      model description
//	GET /{version}/{owner}/models/{name}.zip  model archive
type fakeFuel struct {
	version  string
	pageSize int
	models   []modelJSON
	archives map[string][]byte

	// failListing makes the model list answer 500.
	failListing bool

	requests atomic.Int64
	server   *httptest.Server
}

// newFakeFuel starts a server for API version "1.0" holding models,
// each with a small archive.
func newFakeFuel(t *testing.T, models ...modelJSON) *fakeFuel {
	t.Helper()

	f := &fakeFuel{
		version:  "1.0",
		pageSize: 2,
		models:   models,
		archives: make(map[string][]byte),
	}
	for _, m := range models {
		f.archives[m.Owner+"/"+m.Name] = buildZip(t, map[string]string{
			"model.config":    "<model><name>" + m.Name + "</name></model>",
			"meshes/":         "",
			"meshes/mesh.dae": "mesh",
			"materials/a.png": "png",
		})
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			f.requests.Add(1)
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/{version}", func(r chi.Router) {
		r.Use(f.checkVersion)
		r.Get("/models", f.listModels)
		r.Get("/{owner}/models/{name}", f.getModel)
	})

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeFuel) checkVersion(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "version") != f.version {
			http.NotFound(w, req)
			return
		}
		next.ServeHTTP(w, req)
	})
}

// serverConfig returns a complete configuration for the fake server.
func (f *fakeFuel) serverConfig() ServerConfig {
	return ServerConfig{URL: f.server.URL, Version: f.version, LocalName: "fake"}
}

func (f *fakeFuel) listModels(w http.ResponseWriter, req *http.Request) {
	if f.failListing {
		http.Error(w, "unavailable", http.StatusInternalServerError)
		return
	}

	page, err := strconv.Atoi(req.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	start := (page - 1) * f.pageSize
	end := start + f.pageSize
	if start > len(f.models) {
		start = len(f.models)
	}
	if end > len(f.models) {
		end = len(f.models)
	}

	writeJSON(w, f.models[start:end])
}

func (f *fakeFuel) getModel(w http.ResponseWriter, req *http.Request) {
	owner := chi.URLParam(req, "owner")
	name := chi.URLParam(req, "name")

	if base, ok := strings.CutSuffix(name, ".zip"); ok {
		data, found := f.archives[owner+"/"+base]
		if !found {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Write(data)
		return
	}

	for _, m := range f.models {
		if m.Owner == owner && m.Name == name {
			writeJSON(w, m)
			return
		}
	}
	http.NotFound(w, req)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprint(err), http.StatusInternalServerError)
	}
}

// testModel returns a wire model description.
func testModel(owner, name string) modelJSON {
	return modelJSON{
		Owner:       owner,
		Name:        name,
		Description: "A " + name,
		Likes:       3,
		Downloads:   42,
		FileSize:    2048,
		UploadDate:  "2018-01-02T03:04:05Z",
		ModifyDate:  "2018-02-03T04:05:06Z",
		LicenseName: "Creative Commons - Attribution",
		Tags:        []string{"test"},
	}
}
