package fueltools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ModelIter iterates over model identifiers.
//
//	for it.Next() {
//		m := it.Model()
//	}
//	if err := it.Err(); err != nil { ... }
type ModelIter interface {
	// Next advances to the next model. Returns false when exhausted.
	Next() bool

	// Model returns the current model. Only valid after Next returned true.
	Model() ModelIdentifier

	// Err returns the error that ended iteration early, if any.
	Err() error
}

// sliceIter iterates over an in-memory list.
type sliceIter struct {
	models []ModelIdentifier
	pos    int
	err    error
}

// newSliceIter returns an iterator over models.
func newSliceIter(models []ModelIdentifier) *sliceIter {
	return &sliceIter{models: models, pos: -1}
}

// newErrIter returns an empty iterator that reports err.
func newErrIter(err error) *sliceIter {
	return &sliceIter{pos: -1, err: err}
}

func (it *sliceIter) Next() bool {
	if it.pos+1 >= len(it.models) {
		it.pos = len(it.models)
		return false
	}
	it.pos++
	return true
}

func (it *sliceIter) Model() ModelIdentifier {
	if it.pos < 0 || it.pos >= len(it.models) {
		return ModelIdentifier{}
	}
	return it.models[it.pos]
}

func (it *sliceIter) Err() error { return it.err }

// peekedIter replays one already consumed model before delegating.
type peekedIter struct {
	first   ModelIdentifier
	pending bool
	started bool
	rest    ModelIter
}

// peek reports whether it yields at least one model.
// The returned iterator yields the same sequence as it would have.
func peek(it ModelIter) (ModelIter, bool) {
	if !it.Next() {
		return it, false
	}
	return &peekedIter{first: it.Model(), pending: true, rest: it}, true
}

func (it *peekedIter) Next() bool {
	if it.pending {
		it.pending = false
		it.started = true
		return true
	}
	it.started = false
	return it.rest.Next()
}

func (it *peekedIter) Model() ModelIdentifier {
	if it.started {
		return it.first
	}
	return it.rest.Model()
}

func (it *peekedIter) Err() error { return it.rest.Err() }

// collect drains it into a slice.
func collect(it ModelIter) ([]ModelIdentifier, error) {
	var out []ModelIdentifier
	for it.Next() {
		out = append(out, it.Model())
	}
	return out, it.Err()
}

// restIter lazily walks a paginated listing on a server.
// The first page is fetched at construction; later pages on demand.
type restIter struct {
	ctx       context.Context
	transport Transport
	server    ServerConfig
	path      string

	// page is the number of the page held in models.
	page int

	// last is set once no further page should be requested.
	last bool

	models []ModelIdentifier
	pos    int
	err    error
}

// errEmptyListing reports a first page with no models.
var errEmptyListing = errors.New("server listed no models")

// newRESTIter fetches the first page of path on srv.
// It fails if the request fails, the status is not 200, the body
// cannot be decoded or it lists no models; callers decide whether that
// is fatal.
func newRESTIter(ctx context.Context, t Transport, srv ServerConfig, path string) (*restIter, error) {
	it := &restIter{
		ctx:       ctx,
		transport: t,
		server:    srv,
		path:      path,
	}

	models, more, err := it.fetchPage(1)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("listing %s: %w", path, errEmptyListing)
	}

	it.page = 1
	it.models = models
	it.pos = -1
	it.last = !more
	return it, nil
}

// fetchPage requests one page. more is false when the body was a single
// object rather than a list, or when the list was empty.
func (it *restIter) fetchPage(page int) (models []ModelIdentifier, more bool, err error) {
	query := url.Values{"page": []string{strconv.Itoa(page)}}
	resp, err := it.transport.Request(it.ctx, http.MethodGet, it.server.URL, it.server.Version, it.path, query, nil, nil)
	if err != nil {
		return nil, false, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("listing %s page %d: status %d: %w", it.path, page, resp.StatusCode, ErrBadStatus)
	}

	models, list, err := ParseModels(resp.Data, it.server)
	if err != nil {
		return nil, false, err
	}
	return models, list && len(models) > 0, nil
}

func (it *restIter) Next() bool {
	for it.pos+1 >= len(it.models) {
		if it.last {
			it.pos = len(it.models)
			return false
		}

		models, more, err := it.fetchPage(it.page + 1)
		if err != nil {
			// A bad status on a later page just means there are no more
			// pages; anything else is reported.
			if !errors.Is(err, ErrBadStatus) {
				it.err = err
			}
			it.last = true
			continue
		}
		it.page++
		it.models = models
		it.pos = -1
		it.last = !more
	}
	it.pos++
	return true
}

func (it *restIter) Model() ModelIdentifier {
	if it.pos < 0 || it.pos >= len(it.models) {
		return ModelIdentifier{}
	}
	return it.models[it.pos]
}

func (it *restIter) Err() error { return it.err }
