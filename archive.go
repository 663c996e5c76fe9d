package fueltools

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// archiveExtractor unpacks a downloaded model archive into the cache.
type archiveExtractor struct {
	cache *LocalCache
}

// newArchiveExtractor creates an extractor writing through cache's filesystem.
func newArchiveExtractor(cache *LocalCache) *archiveExtractor {
	return &archiveExtractor{cache: cache}
}

// extract writes every entry of the zip archive in data below dir.
// Entries that would land outside dir are rejected.
func (x *archiveExtractor) extract(data []byte, dir string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	if len(zr.File) == 0 {
		return fmt.Errorf("%w: archive is empty", ErrInvalidArchive)
	}

	if err := x.cache.ensureDir(dir); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}

	for _, f := range zr.File {
		target, err := safeJoin(dir, f.Name)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidArchive, f.Name, err)
		}

		if f.FileInfo().IsDir() {
			if err := x.cache.ensureDir(target); err != nil {
				return err
			}
			continue
		}

		if err := x.writeFile(f, target); err != nil {
			return err
		}
	}

	return nil
}

// writeFile copies one archive entry to target.
func (x *archiveExtractor) writeFile(f *zip.File, target string) error {
	if err := x.cache.ensureDir(filepath.Dir(target)); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", ErrInvalidArchive, f.Name, err)
	}
	defer rc.Close()

	out, err := x.cache.fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: creating file %s: %v", ErrStorageError, f.Name, err)
	}

	// Copy exact number of bytes
	size := int64(f.UncompressedSize64)
	written, err := io.CopyN(out, rc, size)
	out.Close()

	if err != nil {
		return fmt.Errorf("%w: writing file %s: %v", ErrStorageError, f.Name, err)
	}
	if written != size {
		return fmt.Errorf("%w: file %s: wrote %d bytes, expected %d", ErrInvalidArchive, f.Name, written, size)
	}

	return nil
}

// safeJoin joins an archive entry name to dir, refusing absolute names and
// names that climb out of dir.
func safeJoin(dir, name string) (string, error) {
	if name == "" || filepath.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return "", errUnsafePath
	}
	target := filepath.Join(dir, name)
	if target != filepath.Clean(dir) && !strings.HasPrefix(target, filepath.Clean(dir)+string(filepath.Separator)) {
		return "", errUnsafePath
	}
	return target, nil
}
