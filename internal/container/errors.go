package container

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration: no registered pattern matches a filename, or a
	// registration names a format that does not exist.
	ErrConfiguration = errors.New("container configuration")
	// ErrInvalidArgument: empty filename passed to Load.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupported: the format cannot perform the operation (read-only formats).
	ErrUnsupported = errors.New("unsupported operation")
	// ErrNotImplemented: an extension hook has no implementation wired in.
	ErrNotImplemented = errors.New("not implemented")
	// ErrNoTarget: Save called with no filename and nothing bound.
	ErrNoTarget = errors.New("no save target")
	// ErrLocked: another process holds the label file lock.
	ErrLocked = errors.New("label file locked")
)

// FormatError reports malformed on-disk content. Line is 1-based for line
// oriented formats and 0 when the decoder does not expose a position.
type FormatError struct {
	Path string
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Unsupported builds the error read-only formats return from Serialize.
func Unsupported(format, op string) error {
	return fmt.Errorf("%s: %s: %w", format, op, ErrUnsupported)
}
