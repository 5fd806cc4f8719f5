// Package fsutil reads input documents and writes files atomically.
// A Snapshot taken at read time lets callers detect external edits
// before acting on stale content.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"time"
)

// Sentinel errors for categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path names a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrNilSnapshot is returned by Snapshot methods on a nil receiver.
	ErrNilSnapshot = errors.New("nil snapshot")
)

// Snapshot records a file's identity at read time: size, mod time, mode,
// and a content digest.
type Snapshot struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64
	Sum     [sha256.Size]byte
}

// ReadFile reads path and returns its content with a Snapshot of the state
// that was read.
func ReadFile(ctx context.Context, path string) ([]byte, *Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	stat, err := os.Stat(path)
	switch {
	case err == nil && stat.IsDir():
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	case os.IsNotExist(err):
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case os.IsPermission(err):
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	case err != nil:
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
		}
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	snap := &Snapshot{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Sum:     sha256.Sum256(content),
	}
	return content, snap, nil
}

// Modified reports whether the file has changed since the snapshot was
// taken. Size and mod time are compared first; when both match the content
// is re-hashed, so an edit that restores them is still caught. A deleted
// file counts as modified.
func (s *Snapshot) Modified(ctx context.Context) (bool, error) {
	changed, definite, err := s.quickCheck(ctx)
	if err != nil || changed {
		return changed, err
	}
	if definite {
		return false, nil
	}

	content, err := os.ReadFile(s.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return sha256.Sum256(content) != s.Sum, nil
}

// ModifiedQuick checks only size and mod time. It can miss an edit that
// preserves both; use Modified when that matters.
func (s *Snapshot) ModifiedQuick(ctx context.Context) (bool, error) {
	changed, _, err := s.quickCheck(ctx)
	return changed, err
}

// quickCheck stats the file and compares size and mod time. definite is
// true when the stat itself settled the question (file gone).
func (s *Snapshot) quickCheck(ctx context.Context) (changed, definite bool, err error) {
	if s == nil {
		return false, false, ErrNilSnapshot
	}
	if err := ctx.Err(); err != nil {
		return false, false, fmt.Errorf("check modified: %w", err)
	}

	stat, err := os.Stat(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, true, nil
		}
		return false, false, fmt.Errorf("stat %s: %w", s.Path, err)
	}
	return stat.Size() != s.Size || !stat.ModTime().Equal(s.ModTime), false, nil
}
