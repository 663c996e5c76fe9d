package fueltools

import (
	"fmt"
	"os"
	"time"
)

// fileLock implements Locker with an OS-level lock on a lock file:
// flock() on Unix, LockFileEx() on Windows.
type fileLock struct {
	// file is the lock file handle.
	file *os.File

	// timeout is the maximum duration to wait for lock acquisition.
	timeout time.Duration

	// locked tracks whether the lock is currently held.
	locked bool
}

// Ensure fileLock implements Locker.
var _ Locker = (*fileLock)(nil)

// newFileLock opens, creating if needed, the lock file at path.
func newFileLock(path string, timeout time.Duration) (*fileLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	return &fileLock{
		file:    file,
		timeout: timeout,
	}, nil
}

// Lock polls tryLockFile with backoff until it succeeds or the timeout expires.
func (l *fileLock) Lock() error {
	if l.locked {
		return nil
	}
	if l.file == nil {
		return fmt.Errorf("lock file already closed")
	}

	deadline := time.Now().Add(l.timeout)
	sleepDuration := 10 * time.Millisecond

	for {
		if err := tryLockFile(l.file); err == nil {
			l.locked = true
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("lock timeout after %v", l.timeout)
		}

		time.Sleep(sleepDuration)
		if sleepDuration < 100*time.Millisecond {
			sleepDuration *= 2
		}
	}
}

// Unlock releases the lock, if held, and closes the lock file.
func (l *fileLock) Unlock() error {
	if l.file == nil {
		return nil
	}

	var unlockErr error
	if l.locked {
		unlockErr = unlockFile(l.file)
		l.locked = false
	}
	l.file.Close()
	l.file = nil

	return unlockErr
}
