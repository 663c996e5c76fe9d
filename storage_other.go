//go:build !linux && !darwin && !windows

package fueltools

import (
	"os"
	"path/filepath"
)

// getDefaultCacheDir returns <user cache dir>/<appName>/ on other platforms.
func getDefaultCacheDir(appName string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}
