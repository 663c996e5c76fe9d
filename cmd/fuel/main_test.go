package main

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	fueltools "github.com/mohamedsayed18/ign-fuel-tools"
)

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"invalid url", fmt.Errorf("%w: %w", fueltools.ErrFetch, fueltools.ErrInvalidURL), ExitInvalidArgs},
		{"not cached", fmt.Errorf("%w: %w", fueltools.ErrFetch, fueltools.ErrNotCached), ExitNotCached},
		{"network", fmt.Errorf("%w: %w", fueltools.ErrFetch, fueltools.ErrNetworkError), ExitNetworkError},
		{"bad status", fmt.Errorf("%w: %w", fueltools.ErrFetch, fueltools.ErrBadStatus), ExitNetworkError},
		{"storage", fmt.Errorf("%w: %w", fueltools.ErrFetch, fueltools.ErrStorageError), ExitStorageError},
		{"archive", fueltools.ErrInvalidArchive, ExitStorageError},
		{"not implemented", fmt.Errorf("%w: %w", fueltools.ErrUpload, fueltools.ErrNotImplemented), ExitNotImplemented},
		{"other", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFromError(tt.err))
		})
	}
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, logLevel("", false))
	assert.Equal(t, slog.LevelDebug, logLevel("DEBUG", false))
	assert.Equal(t, slog.LevelInfo, logLevel("info", false))
	assert.Equal(t, slog.LevelError, logLevel("error", false))
	assert.Equal(t, slog.LevelDebug, logLevel("error", true))
}
