//go:build !windows

package fueltools

import (
	"os"
	"syscall"
)

// tryLockFile takes a non-blocking exclusive flock() on f.
func tryLockFile(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
}

// unlockFile releases the flock() held on f.
func unlockFile(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
