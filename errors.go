package fueltools

import "errors"

// Sentinel errors for Fuel client operations.
// Use errors.Is() to check for specific error conditions.
var (
	// ErrInvalidURL indicates a string matched neither model URL grammar.
	ErrInvalidURL = errors.New("fueltools: invalid model URL")

	// ErrFetch is wrapped by every failed fetch, download or listing.
	// Network failures, bad status codes and cache write failures all
	// surface as ErrFetch.
	ErrFetch = errors.New("fueltools: fetch failed")

	// ErrUpload is wrapped by every failed upload.
	ErrUpload = errors.New("fueltools: upload failed")

	// ErrDelete is wrapped by every failed delete.
	ErrDelete = errors.New("fueltools: delete failed")

	// ErrNotImplemented indicates the operation has no server-side support yet.
	ErrNotImplemented = errors.New("fueltools: not implemented")

	// ErrNetworkError indicates a network or connection failure.
	ErrNetworkError = errors.New("fueltools: network error")

	// ErrBadStatus indicates the server answered with a status other than 200.
	ErrBadStatus = errors.New("fueltools: unexpected status code")

	// ErrInvalidResponse indicates the server returned unparseable data.
	ErrInvalidResponse = errors.New("fueltools: invalid server response")

	// ErrStorageError indicates a cache filesystem operation failed.
	ErrStorageError = errors.New("fueltools: storage error")

	// ErrNotCached indicates the model is not present in the local cache.
	ErrNotCached = errors.New("fueltools: model not cached")

	// ErrAlreadyCached indicates the model exists in the cache and overwrite was not requested.
	ErrAlreadyCached = errors.New("fueltools: model already cached")

	// ErrInvalidArchive indicates downloaded bytes are not a usable model archive.
	ErrInvalidArchive = errors.New("fueltools: invalid model archive")
)
