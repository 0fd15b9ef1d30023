package container

import (
	"path/filepath"

	"github.com/ivlev/annokit/internal/annotation"
)

// Session is the result of one Load: the label file, the directory media
// references are relative to, and the parsed records. The container keeps no
// reference to Annotations after Load returns.
type Session struct {
	File        string
	Dir         string
	Annotations annotation.Set
}

func newSession(file string, set annotation.Set) *Session {
	return &Session{
		File:        file,
		Dir:         filepath.Dir(file),
		Annotations: set,
	}
}

// FullPath resolves a media reference of this session.
func (s *Session) FullPath(filename string) string {
	return resolve(s.File, filename)
}

// Rebase returns a copy of the annotations whose relative filenames point at
// the same media when read from a label file in dir. Absolute filenames are
// kept. Labels are shared with the session, not copied.
func (s *Session) Rebase(dir string) (annotation.Set, error) {
	out := make(annotation.Set, len(s.Annotations))
	copy(out, s.Annotations)
	if filepath.Clean(dir) == filepath.Clean(s.Dir) {
		return out, nil
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for i, r := range out {
		if filepath.IsAbs(r.Filename) {
			continue
		}
		full, err := filepath.Abs(s.FullPath(r.Filename))
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(absDir, full)
		if err != nil {
			return nil, err
		}
		out[i].Filename = filepath.ToSlash(rel)
	}
	return out, nil
}

// MediaPaths resolves the filename of every record in order.
func (s *Session) MediaPaths() []string {
	paths := make([]string, 0, len(s.Annotations))
	for _, r := range s.Annotations {
		paths = append(paths, s.FullPath(r.Filename))
	}
	return paths
}
