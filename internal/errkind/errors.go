package errkind

import (
	"errors"
	"fmt"
)

var (
	// ErrIO is returned when a file cannot be opened, read, written or removed.
	ErrIO = errors.New("io error")
	// ErrFingerprint is returned when the fingerprint tool cannot decode a file.
	ErrFingerprint = errors.New("fingerprint error")
	// ErrFormat is returned when a container format is unrecognized or its tags are malformed.
	ErrFormat = errors.New("format error")
	// ErrCacheCorruption is returned when a persisted blob cannot be decoded.
	ErrCacheCorruption = errors.New("cache corruption")
)

// FileError records a failed operation on a single path.
type FileError struct {
	Kind error
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is and errors.As.
func (e *FileError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Wrap returns a *FileError of the given kind, or nil if err is nil.
func Wrap(kind error, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &FileError{Kind: kind, Op: op, Path: path, Err: err}
}

// New returns a *FileError of the given kind with no underlying cause.
func New(kind error, op, path string) error {
	return &FileError{Kind: kind, Op: op, Path: path}
}
