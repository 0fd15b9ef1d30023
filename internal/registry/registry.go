// Package registry maps label filenames to the container format that reads
// and writes them.
//
// Registrations are tried in the order given; the first glob that matches
// wins even if a later, more specific one would match too. Globs follow
// shell conventions (*, ?, [seq], [!seq]) and are case-sensitive; * also
// matches path separators so "*.json" accepts "dir/labels.json". Braces and
// backslashes are literal characters.
package registry

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/ivlev/annokit/internal/config"
	"github.com/ivlev/annokit/internal/container"
	"github.com/ivlev/annokit/internal/formats"
)

// Constructor builds a fresh Format.
type Constructor func() container.Format

// Formats is the static table of format names usable in registrations.
var Formats = map[string]Constructor{
	formats.NameGob:      func() container.Format { return &formats.Gob{} },
	formats.NamePickle:   func() container.Format { return &formats.Gob{} },
	formats.NameJSON:     func() container.Format { return &formats.JSON{} },
	formats.NameYAML:     func() container.Format { return &formats.YAML{} },
	formats.NameFileList: func() container.Format { return &formats.FileList{} },
	formats.NameFeret:    func() container.Format { return &formats.Feret{} },
}

// Registration binds a glob to a format. New takes precedence over Format,
// which names an entry of Formats.
type Registration struct {
	Pattern string
	Format  string
	New     Constructor
}

// DefaultRegistrations is the table used when no configuration is supplied.
var DefaultRegistrations = []Registration{
	{Pattern: "*.json", Format: formats.NameJSON},
	{Pattern: "*.yaml", Format: formats.NameYAML},
	{Pattern: "*.yml", Format: formats.NameYAML},
	{Pattern: "*.gob", Format: formats.NameGob},
	{Pattern: "*.pickle", Format: formats.NamePickle},
	{Pattern: "*.pkl", Format: formats.NamePickle},
	{Pattern: "*.feret", Format: formats.NameFeret},
	{Pattern: "*.txt", Format: formats.NameFileList},
}

type entry struct {
	pattern string
	glob    glob.Glob
	newFmt  Constructor
}

// Factory creates containers for label filenames.
type Factory struct {
	entries []entry
}

// New resolves every registration up front. Unknown format names and
// invalid globs fail with container.ErrConfiguration.
func New(regs []Registration) (*Factory, error) {
	f := &Factory{entries: make([]entry, 0, len(regs))}
	for i, reg := range regs {
		ctor := reg.New
		if ctor == nil {
			var ok bool
			ctor, ok = Formats[reg.Format]
			if !ok {
				return nil, fmt.Errorf("registration %d (%s): unknown format %q: %w", i, reg.Pattern, reg.Format, container.ErrConfiguration)
			}
		}
		g, err := glob.Compile(shellPattern(reg.Pattern))
		if err != nil {
			return nil, fmt.Errorf("registration %d: pattern %q: %v: %w", i, reg.Pattern, err, container.ErrConfiguration)
		}
		f.entries = append(f.entries, entry{pattern: reg.Pattern, glob: g, newFmt: ctor})
	}
	return f, nil
}

// FromConfig builds a factory from the configured container table, falling
// back to DefaultRegistrations when the table is empty.
func FromConfig(entries []config.Container) (*Factory, error) {
	if len(entries) == 0 {
		return Default(), nil
	}
	regs := make([]Registration, 0, len(entries))
	for _, e := range entries {
		regs = append(regs, Registration{Pattern: e.Pattern, Format: e.Format})
	}
	return New(regs)
}

// Default returns a factory over DefaultRegistrations.
func Default() *Factory {
	f, err := New(DefaultRegistrations)
	if err != nil {
		panic(err)
	}
	return f
}

// Patterns returns the registered globs in registration order.
func (f *Factory) Patterns() []string {
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.pattern)
	}
	return out
}

// Lookup reports the first pattern matching filename.
func (f *Factory) Lookup(filename string) (string, bool) {
	e, ok := f.match(filename)
	if !ok {
		return "", false
	}
	return e.pattern, true
}

// Writable reports whether the format registered for filename can save.
// Unregistered filenames are not writable.
func (f *Factory) Writable(filename string) bool {
	e, ok := f.match(filename)
	return ok && container.Writable(e.newFmt())
}

// Create returns a new container for filename, configured with opts.
// It performs no I/O.
func (f *Factory) Create(filename string, opts ...container.Option) (*container.Container, error) {
	e, ok := f.match(filename)
	if !ok {
		return nil, fmt.Errorf("no container registered for filename %s: %w", filename, container.ErrConfiguration)
	}
	return container.New(e.newFmt(), opts...), nil
}

// shellPattern escapes the characters gobwas/glob treats specially but shell
// globs do not: brace alternation and backslash escapes.
func shellPattern(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))
	for _, r := range pattern {
		switch r {
		case '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (f *Factory) match(filename string) (entry, bool) {
	for _, e := range f.entries {
		if e.glob.Match(filename) {
			return e, true
		}
	}
	return entry{}, false
}
