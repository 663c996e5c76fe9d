package fueltools

import (
	"errors"
	"strings"
	"testing"
)

func TestResultTypeString(t *testing.T) {
	tests := []struct {
		t    ResultType
		want string
	}{
		{ResultUninitialized, "uninitialized"},
		{ResultFetch, "fetched"},
		{ResultFetchAlreadyExists, "cached"},
		{ResultFetchError, "fetch_error"},
		{ResultUploadError, "upload_error"},
		{ResultDeleteError, "delete_error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.t.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResultOK(t *testing.T) {
	if !fetched().OK() {
		t.Error("fetched result should be OK")
	}
	if !cached().OK() {
		t.Error("cached result should be OK")
	}
	if (Result{}).OK() {
		t.Error("zero result should not be OK")
	}
	if failed(ResultFetchError, nil).OK() {
		t.Error("fetch error should not be OK")
	}
}

func TestFailed(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name     string
		t        ResultType
		wantType ResultType
		wantKind error
	}{
		{"fetch", ResultFetchError, ResultFetchError, ErrFetch},
		{"upload", ResultUploadError, ResultUploadError, ErrUpload},
		{"delete", ResultDeleteError, ResultDeleteError, ErrDelete},
		{"success type coerced to fetch error", ResultFetch, ResultFetchError, ErrFetch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := failed(tt.t, cause)
			if r.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", r.Type, tt.wantType)
			}
			if !errors.Is(r.Err, tt.wantKind) {
				t.Errorf("Err = %v, want wrapping %v", r.Err, tt.wantKind)
			}
			if !errors.Is(r.Err, cause) {
				t.Errorf("Err = %v, want wrapping cause", r.Err)
			}
		})
	}

	t.Run("nil cause", func(t *testing.T) {
		r := failed(ResultUploadError, nil)
		if r.Err != ErrUpload {
			t.Errorf("Err = %v, want ErrUpload", r.Err)
		}
	})
}

func TestResultString(t *testing.T) {
	if got := fetched().String(); got != "Successfully fetched from server" {
		t.Errorf("fetched String() = %q", got)
	}
	if got := cached().String(); got != "Already in cache" {
		t.Errorf("cached String() = %q", got)
	}

	got := failed(ResultDeleteError, ErrNotImplemented).String()
	if !strings.HasPrefix(got, "Delete failed: ") || !strings.Contains(got, "not implemented") {
		t.Errorf("delete error String() = %q", got)
	}
}
