package formats

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/ivlev/annokit/internal/annotation"
	"github.com/ivlev/annokit/internal/fileutil"
)

// Gob stores the annotation set as a Go object-graph blob. The layout is only
// readable by this program.
type Gob struct{}

func (g *Gob) Name() string { return NameGob }

func (g *Gob) Parse(path string) (annotation.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var set annotation.Set
	if err := gob.NewDecoder(f).Decode(&set); err != nil {
		return nil, formatError(path, 0, err)
	}
	return set.Normalize(), nil
}

func (g *Gob) Serialize(path string, set annotation.Set) error {
	if set == nil {
		set = annotation.Set{}
	}
	return fileutil.WriteAtomic(path, filePerm, func(w io.Writer) error {
		return gob.NewEncoder(w).Encode(set)
	})
}
