package fueltools

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// DefaultLockTimeout is the default timeout for acquiring the cache lock.
const DefaultLockTimeout = 30 * time.Second

// Cache stores downloaded models locally.
// Implemented by *LocalCache for production; tests substitute their own.
type Cache interface {
	// AllModels iterates over every cached model, regardless of server.
	AllModels() ModelIter

	// MatchingModels iterates over cached models whose owner and name equal
	// the populated fields of id. Empty fields match anything.
	MatchingModels(id ModelIdentifier) ModelIter

	// SaveModel extracts a model archive into the cache.
	// Returns ErrAlreadyCached if the model exists and overwrite is false.
	SaveModel(id ModelIdentifier, data []byte, overwrite bool) error
}

// Locker provides mutual exclusion for file operations.
type Locker interface {
	// Lock acquires an exclusive lock on the file.
	// Blocks until lock is acquired or timeout expires.
	// Returns error if lock cannot be acquired within timeout.
	Lock() error

	// Unlock releases the lock.
	// Safe to call multiple times.
	Unlock() error
}

// nopLock is used for filesystems no other process can see.
type nopLock struct{}

func (nopLock) Lock() error   { return nil }
func (nopLock) Unlock() error { return nil }

// modelsDir is the directory under the cache root holding all models.
const modelsDir = "models"

// LocalCache is a Cache on a filesystem.
//
// Layout:
//
//	<root>/models/<owner>/<normalized name>/...         extracted archive
//	<root>/models/<owner>/<normalized name>/.fuel/model.json  identifier copy
type LocalCache struct {
	// fs is the filesystem holding the cache.
	fs afero.Fs

	// root is the cache location.
	root string

	// logger receives diagnostic messages. May be nil.
	logger Logger

	// lockTimeout is the maximum duration to wait for the cross-process lock.
	lockTimeout time.Duration

	// mu serializes writers within this process.
	mu sync.Mutex
}

// Ensure LocalCache implements Cache.
var _ Cache = (*LocalCache)(nil)

// NewLocalCache creates a cache rooted at root on fs, creating the
// models directory if needed. A nil fs means the OS filesystem.
func NewLocalCache(fs afero.Fs, root string, logger Logger) (*LocalCache, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	c := &LocalCache{
		fs:          fs,
		root:        root,
		logger:      orNop(logger),
		lockTimeout: DefaultLockTimeout,
	}
	if err := c.ensureDir(filepath.Join(root, modelsDir)); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return c, nil
}

// modelPath returns the directory of a cached model.
func (c *LocalCache) modelPath(id ModelIdentifier) string {
	return filepath.Join(c.root, modelsDir, id.Owner, normalizeName(id.Name))
}

// metadataPath returns the identifier copy stored with a cached model.
func (c *LocalCache) metadataPath(modelDir string) string {
	return filepath.Join(modelDir, "."+appName, "model.json")
}

// AllModels implements Cache.
func (c *LocalCache) AllModels() ModelIter {
	models, err := c.scan()
	if err != nil {
		return newErrIter(err)
	}
	return newSliceIter(models)
}

// MatchingModels implements Cache.
func (c *LocalCache) MatchingModels(id ModelIdentifier) ModelIter {
	models, err := c.scan()
	if err != nil {
		return newErrIter(err)
	}

	var matches []ModelIdentifier
	for _, m := range models {
		if id.Owner != "" && m.Owner != id.Owner {
			continue
		}
		if id.Name != "" && m.Name != id.Name {
			continue
		}
		matches = append(matches, m)
	}
	return newSliceIter(matches)
}

// scan lists every model directory, sorted by owner then name.
func (c *LocalCache) scan() ([]ModelIdentifier, error) {
	base := filepath.Join(c.root, modelsDir)
	owners, err := afero.ReadDir(c.fs, base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading cache: %v", ErrStorageError, err)
	}

	var models []ModelIdentifier
	for _, owner := range owners {
		if !owner.IsDir() {
			continue
		}
		entries, err := afero.ReadDir(c.fs, filepath.Join(base, owner.Name()))
		if err != nil {
			c.logger.Warn("skipping unreadable cache directory", "owner", owner.Name(), "error", err)
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			models = append(models, c.loadIdentifier(filepath.Join(base, owner.Name(), entry.Name()), owner.Name(), entry.Name()))
		}
	}

	sort.Slice(models, func(i, j int) bool {
		if models[i].Owner != models[j].Owner {
			return models[i].Owner < models[j].Owner
		}
		return models[i].Name < models[j].Name
	})
	return models, nil
}

// loadIdentifier reads the identifier copy of a cached model. Without one,
// owner and name come from the directory names.
func (c *LocalCache) loadIdentifier(dir, owner, name string) ModelIdentifier {
	data, err := afero.ReadFile(c.fs, c.metadataPath(dir))
	if err == nil {
		var id ModelIdentifier
		if err := json.Unmarshal(data, &id); err == nil && id.Owner != "" && id.Name != "" {
			return id
		}
		c.logger.Warn("invalid cached model metadata", "path", dir)
	}
	return ModelIdentifier{Owner: owner, Name: name}
}

// SaveModel implements Cache.
func (c *LocalCache) SaveModel(id ModelIdentifier, data []byte, overwrite bool) error {
	if id.Owner == "" || id.Name == "" {
		return fmt.Errorf("%w: model owner and name are required", ErrStorageError)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	lock, err := c.lock()
	if err != nil {
		return err
	}
	defer lock.Unlock()

	dir := c.modelPath(id)
	exists, err := afero.DirExists(c.fs, dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageError, err)
	}
	if exists {
		if !overwrite {
			return fmt.Errorf("%s: %w", id, ErrAlreadyCached)
		}
		if err := c.fs.RemoveAll(dir); err != nil {
			return fmt.Errorf("%w: failed to remove old model: %v", ErrStorageError, err)
		}
	}

	x := newArchiveExtractor(c)
	if err := x.extract(data, dir); err != nil {
		// Leave nothing half-written behind.
		c.fs.RemoveAll(dir)
		return err
	}

	// Without metadata the entry would be listed under its normalized
	// directory name, so it is not kept.
	if err := c.writeMetadata(id, dir); err != nil {
		c.fs.RemoveAll(dir)
		return err
	}

	c.logger.Debug("model cached", "model", id.String(), "path", dir)
	return nil
}

// writeMetadata stores the identifier copy of a cached model.
func (c *LocalCache) writeMetadata(id ModelIdentifier, dir string) error {
	meta, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal model metadata: %v", ErrStorageError, err)
	}
	if err := c.atomicWrite(c.metadataPath(dir), meta); err != nil {
		return fmt.Errorf("saving metadata for %s: %w", id, err)
	}
	return nil
}

// lock acquires the cross-process cache lock. Only the OS filesystem can
// be shared with other processes, so other filesystems get a no-op lock.
func (c *LocalCache) lock() (Locker, error) {
	if _, ok := c.fs.(*afero.OsFs); !ok {
		return nopLock{}, nil
	}

	lockPath := filepath.Join(c.root, modelsDir, ".cache.lock")
	lock, err := newFileLock(lockPath, c.lockTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create lock: %v", ErrStorageError, err)
	}
	if err := lock.Lock(); err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("%w: failed to acquire lock: %v", ErrStorageError, err)
	}
	return lock, nil
}

// ensureDir creates a directory and all parent directories if they don't exist.
func (c *LocalCache) ensureDir(path string) error {
	if err := c.fs.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %v", ErrStorageError, path, err)
	}
	return nil
}

// atomicWrite writes data to a uniquely named temp file, then renames it.
func (c *LocalCache) atomicWrite(path string, data []byte) error {
	if err := c.ensureDir(filepath.Dir(path)); err != nil {
		return err
	}

	tmp := path + tempSuffix + uuid.NewString()
	if err := afero.WriteFile(c.fs, tmp, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write temp file: %v", ErrStorageError, err)
	}

	if err := c.fs.Rename(tmp, path); err != nil {
		c.fs.Remove(tmp) // cleanup on failure
		return fmt.Errorf("%w: failed to rename temp file: %v", ErrStorageError, err)
	}
	return nil
}

// tempSuffix marks files still being written.
const tempSuffix = ".tmp-"

// errUnsafePath is returned for archive entries escaping the model directory.
var errUnsafePath = errors.New("archive entry escapes model directory")
