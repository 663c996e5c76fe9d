package fueltools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// RESTResponse is the raw answer to a single REST request.
type RESTResponse struct {
	// StatusCode is the HTTP status code. Only 200 counts as success.
	StatusCode int

	// Header holds the response headers.
	Header http.Header

	// Data is the full response body.
	Data []byte
}

// Transport performs one blocking request against a Fuel server.
// Implemented by *REST; tests substitute their own.
type Transport interface {
	// Request issues method against baseURL/version/path.
	// version is skipped when empty. An error is returned only when no
	// response was received; any received status code is returned as-is.
	Request(ctx context.Context, method, baseURL, version, path string,
		query url.Values, header http.Header, body []byte) (RESTResponse, error)
}

// REST is the HTTP implementation of Transport.
type REST struct {
	// httpClient is used for HTTP requests.
	httpClient HTTPClient

	// logger receives diagnostic messages. May be nil.
	logger Logger
}

// Ensure REST implements Transport.
var _ Transport = (*REST)(nil)

// NewREST creates a REST transport. A nil client means http.DefaultClient.
func NewREST(client HTTPClient, logger Logger) *REST {
	if client == nil {
		client = http.DefaultClient
	}
	return &REST{
		httpClient: client,
		logger:     logger,
	}
}

// Request implements Transport.
func (r *REST) Request(ctx context.Context, method, baseURL, version, path string,
	query url.Values, header http.Header, body []byte) (RESTResponse, error) {
	target, err := buildURL(baseURL, version, path, query)
	if err != nil {
		return RESTResponse{}, err
	}

	var reqBody io.Reader
	if len(body) > 0 {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return RESTResponse{}, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if r.logger != nil {
		r.logger.Debug("rest request", "method", method, "url", target)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return RESTResponse{}, fmt.Errorf("%s %s: %w: %w", method, target, ErrNetworkError, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return RESTResponse{}, fmt.Errorf("reading %s: %w: %w", target, ErrNetworkError, err)
	}

	return RESTResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Data:       data,
	}, nil
}

// buildURL joins baseURL, version and p, and appends query.
// version and p are literal text: every byte, including '%', is
// escaped when the URL is rendered.
func buildURL(baseURL, version, p string, query url.Values) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q: missing scheme or host", baseURL)
	}

	u.Path = path.Join("/", u.Path, version, p)
	u.RawPath = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// get issues a GET with no query, headers or body and requires status 200.
func get(ctx context.Context, t Transport, srv ServerConfig, path string) ([]byte, error) {
	resp, err := t.Request(ctx, http.MethodGet, srv.URL, srv.Version, path, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d: %w", path, resp.StatusCode, ErrBadStatus)
	}
	return resp.Data, nil
}
