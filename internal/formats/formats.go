// Package formats holds the on-disk annotation formats. Each type implements
// container.Format and nothing else; orchestration lives in package container.
package formats

import (
	"github.com/ivlev/annokit/internal/container"
)

// Format names used by registrations and configuration files.
const (
	NameGob      = "gob"
	NamePickle   = "pickle"
	NameJSON     = "json"
	NameYAML     = "yaml"
	NameFileList = "filelist"
	NameFeret    = "feret"
)

const filePerm = 0o644

var (
	_ container.Format = (*Gob)(nil)
	_ container.Format = (*JSON)(nil)
	_ container.Format = (*YAML)(nil)
	_ container.Format = (*FileList)(nil)
	_ container.Format = (*Feret)(nil)

	_ container.ReadOnly = (*FileList)(nil)
	_ container.ReadOnly = (*Feret)(nil)
)

func formatError(path string, line int, err error) error {
	return &container.FormatError{Path: path, Line: line, Err: err}
}
