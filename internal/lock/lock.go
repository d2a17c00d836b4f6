// Package lock keeps two authoring sessions from running against the same
// site root.
package lock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileName is the lock file created in the site root.
const FileName = ".episode.lock"

// ErrLocked is returned when another session holds the lock.
var ErrLocked = errors.New("another episode session is running in this site")

// Lock is an exclusive advisory lock on a site root.
type Lock struct {
	path string
	fl   *flock.Flock
}

// Acquire takes the lock for root without waiting.
func Acquire(root string) (*Lock, error) {
	path := filepath.Join(root, FileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
	}
	return &Lock{path: path, fl: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release drops the lock. The lock file itself is left in place.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}
