// Package lock provides advisory flock-based locks shared between
// smartnav processes.
package lock

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"
)

// pollInterval is how often AcquireContext retries a held lock
const pollInterval = 10 * time.Millisecond

// FileLock is an exclusive advisory lock on a file
type FileLock struct {
	file     *os.File
	released bool
	mu       sync.Mutex
}

// TryAcquire attempts to obtain the lock without blocking.
// Returns (nil, nil) if another holder has it.
func TryAcquire(path string) (*FileLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		file.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return nil, nil
		}
		return nil, err
	}

	return &FileLock{file: file}, nil
}

// AcquireContext polls until the lock is obtained or ctx is done.
func AcquireContext(ctx context.Context, path string) (*FileLock, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		fl, err := TryAcquire(path)
		if err != nil || fl != nil {
			return fl, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Release unlocks and closes the file. Safe to call more than once.
func (l *FileLock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.released {
		return nil
	}
	l.released = true

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}
