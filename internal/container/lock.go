package container

import (
	"fmt"

	"github.com/gofrs/flock"
)

// FileLock is an advisory, cross-process Locker backed by a "<file>.lock"
// sidecar. It does not make a Container safe for concurrent use.
type FileLock struct{}

// WithFileLock makes Save hold a FileLock on the target while writing.
func WithFileLock() Option {
	return WithLocker(FileLock{})
}

func (FileLock) Lock(path string) (func() error, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}
	return lock.Unlock, nil
}
