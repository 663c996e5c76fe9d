package fueltools

import "fmt"

// ResultType tags the outcome of a client operation.
type ResultType int

const (
	// ResultUninitialized is the zero value; no operation produced it.
	ResultUninitialized ResultType = iota

	// ResultFetch means the data was fetched from the server.
	ResultFetch

	// ResultFetchAlreadyExists means the data was answered from the local cache.
	ResultFetchAlreadyExists

	// ResultFetchError means a fetch, download or cache write failed.
	ResultFetchError

	// ResultUploadError means an upload failed.
	ResultUploadError

	// ResultDeleteError means a delete failed.
	ResultDeleteError
)

// String returns the name of the result type.
func (t ResultType) String() string {
	switch t {
	case ResultFetch:
		return "fetched"
	case ResultFetchAlreadyExists:
		return "cached"
	case ResultFetchError:
		return "fetch_error"
	case ResultUploadError:
		return "upload_error"
	case ResultDeleteError:
		return "delete_error"
	default:
		return "uninitialized"
	}
}

// Result is the tagged outcome of a client operation.
// A successful result never carries an error and a failed one always does.
type Result struct {
	// Type is the outcome tag.
	Type ResultType

	// Err is nil for ResultFetch and ResultFetchAlreadyExists.
	// Otherwise it wraps ErrFetch, ErrUpload or ErrDelete and the cause.
	Err error
}

// fetched returns a ResultFetch result.
func fetched() Result {
	return Result{Type: ResultFetch}
}

// cached returns a ResultFetchAlreadyExists result.
func cached() Result {
	return Result{Type: ResultFetchAlreadyExists}
}

// failed returns a failure result of the given type wrapping cause.
func failed(t ResultType, cause error) Result {
	var kind error
	switch t {
	case ResultUploadError:
		kind = ErrUpload
	case ResultDeleteError:
		kind = ErrDelete
	default:
		t = ResultFetchError
		kind = ErrFetch
	}
	if cause == nil {
		return Result{Type: t, Err: kind}
	}
	return Result{Type: t, Err: fmt.Errorf("%w: %w", kind, cause)}
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Type == ResultFetch || r.Type == ResultFetchAlreadyExists
}

// String returns a human readable description of the result.
func (r Result) String() string {
	switch r.Type {
	case ResultFetch:
		return "Successfully fetched from server"
	case ResultFetchAlreadyExists:
		return "Already in cache"
	case ResultFetchError:
		return "Fetch failed: " + errString(r.Err)
	case ResultUploadError:
		return "Upload failed: " + errString(r.Err)
	case ResultDeleteError:
		return "Delete failed: " + errString(r.Err)
	default:
		return "No result"
	}
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
