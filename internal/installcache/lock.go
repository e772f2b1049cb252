package installcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Lock is an exclusive, cross-process advisory lock backed by a single file
// on disk. The platform-specific acquire/release primitives live in
// lock_unix.go and lock_windows.go, mirroring the jvman shim package's
// shim_unix.go/shim_windows.go split.
type Lock struct {
	path string
	file *os.File
}

// NewLock returns a Lock for the file at path. The file (and its parent
// directory) is created on first Lock call if it does not exist.
func NewLock(path string) *Lock {
	return &Lock{path: path}
}

// Lock blocks until the lock is acquired or ctx is done. Per spec.md §5,
// acquisition has no timeout by default (pass context.Background()); a
// caller-supplied deadline is honored by racing acquisition against
// ctx.Done() in a helper goroutine, since the underlying OS lock call itself
// cannot be interrupted once issued.
func (l *Lock) Lock(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("installcache: create lock directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("installcache: open lock file %s: %w", l.path, err)
	}

	done := make(chan error, 1)
	go func() { done <- lockFile(f) }()

	select {
	case err := <-done:
		if err != nil {
			f.Close()
			return fmt.Errorf("installcache: lock %s: %w", l.path, err)
		}
		l.file = f
		return nil
	case <-ctx.Done():
		// The goroutine above may still be blocked in the OS call; it will
		// acquire and immediately leak the lock to the OS-level cleanup on
		// process exit (or the next unlockFile of that fd) if it eventually
		// succeeds after we've moved on. This is the same cooperative-only
		// cancellation spec.md §5 describes for download/extract boundaries.
		f.Close()
		return fmt.Errorf("installcache: lock %s: %w", l.path, ctx.Err())
	}
}

// Unlock releases the lock and closes the underlying file handle.
func (l *Lock) Unlock() error {
	if l.file == nil {
		return nil
	}
	err := unlockFile(l.file)
	closeErr := l.file.Close()
	l.file = nil
	if err != nil {
		return err
	}
	return closeErr
}
