// Package container implements the load/save protocol shared by every
// annotation file format.
//
// A Format only knows how to turn one file into an annotation.Set and back.
// Container wraps a Format with the orchestration around it: argument checks,
// the bound label file, timing logs, and resolution of media references
// relative to the label file's directory. A Container is a short-lived
// session object and is not safe for concurrent use.
package container

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/ivlev/annokit/internal/annotation"
	"github.com/ivlev/annokit/internal/media"
)

// Format is the capability every on-disk format provides.
// Read-only formats return an error wrapping ErrUnsupported from Serialize.
type Format interface {
	Name() string
	Parse(path string) (annotation.Set, error)
	Serialize(path string, set annotation.Set) error
}

// ReadOnly is implemented by formats that can parse but never serialize.
type ReadOnly interface {
	ReadOnly() bool
}

// Writable reports whether f can serialize at all.
func Writable(f Format) bool {
	ro, ok := f.(ReadOnly)
	return !ok || !ro.ReadOnly()
}

// Locker guards a label file while it is being written.
type Locker interface {
	Lock(path string) (unlock func() error, err error)
}

// Container binds a Format to one label file at a time.
type Container struct {
	format   Format
	media    media.Loader
	logger   *slog.Logger
	locker   Locker
	filename string
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for load timing records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMedia sets the collaborator that decodes referenced images and frames.
func WithMedia(m media.Loader) Option {
	return func(c *Container) { c.media = m }
}

// WithLocker makes Save hold the given lock while serializing.
func WithLocker(l Locker) Option {
	return func(c *Container) { c.locker = l }
}

// New returns an unbound container for the format.
func New(format Format, opts ...Option) *Container {
	c := &Container{
		format: format,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Clear()
	return c
}

// Format returns the wrapped format.
func (c *Container) Format() Format { return c.format }

// Clear drops the bound label file.
func (c *Container) Clear() {
	c.filename = ""
}

// Filename returns the bound label file, or "" when none is bound.
func (c *Container) Filename() string { return c.filename }

// Load binds the container to filename and parses it. Parse errors are
// returned unchanged and leave the container bound.
func (c *Container) Load(filename string) (*Session, error) {
	if filename == "" {
		return nil, fmt.Errorf("load: filename cannot be empty: %w", ErrInvalidArgument)
	}
	c.filename = filename

	start := time.Now()
	set, err := c.format.Parse(filename)
	if err != nil {
		return nil, err
	}
	c.logger.Info("annotations loaded",
		"path", filename,
		"format", c.format.Name(),
		"records", len(set),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return newSession(filename, set), nil
}

// Save serializes set to filename, or to the bound file when filename is
// empty, and binds the container to the written path on success. Read-only
// formats fail with ErrUnsupported before the target is checked or locked.
func (c *Container) Save(set annotation.Set, filename string) error {
	if !Writable(c.format) {
		return Unsupported(c.format.Name(), "save")
	}
	if filename == "" {
		filename = c.filename
	}
	if filename == "" {
		return fmt.Errorf("save: %w", ErrNoTarget)
	}

	if c.locker != nil {
		unlock, err := c.locker.Lock(filename)
		if err != nil {
			return err
		}
		defer unlock()
	}

	if err := c.format.Serialize(filename, set); err != nil {
		return err
	}
	c.filename = filename
	return nil
}

// FullPath resolves a media reference against the bound label file's
// directory. Absolute references and references of an unbound container are
// returned unchanged.
func (c *Container) FullPath(filename string) string {
	return resolve(c.filename, filename)
}

// LoadImage decodes the image referenced by filename.
func (c *Container) LoadImage(filename string) (image.Image, error) {
	if c.media == nil {
		return nil, fmt.Errorf("load image: no media loader: %w", ErrNotImplemented)
	}
	return c.media.LoadImage(c.FullPath(filename))
}

// LoadFrame decodes frame number frame of the video or document referenced
// by filename. The media loader has to support frame extraction.
func (c *Container) LoadFrame(filename string, frame int) (image.Image, error) {
	fl, ok := c.media.(media.FrameLoader)
	if !ok {
		return nil, fmt.Errorf("load frame: no frame loader: %w", ErrNotImplemented)
	}
	if frame < 0 {
		return nil, fmt.Errorf("load frame: negative frame %d: %w", frame, ErrInvalidArgument)
	}
	return fl.LoadFrame(c.FullPath(filename), frame)
}

func resolve(labelFile, filename string) string {
	if labelFile == "" || filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(filepath.Dir(labelFile), filename)
}
