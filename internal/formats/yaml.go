package formats

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/annokit/internal/annotation"
	"github.com/ivlev/annokit/internal/fileutil"
)

// YAML stores the set as a sequence of record mappings.
type YAML struct{}

func (y *YAML) Name() string { return NameYAML }

func (y *YAML) Parse(path string) (annotation.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var set annotation.Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, formatError(path, 0, err)
	}
	if set == nil {
		set = annotation.Set{}
	}
	return set, nil
}

func (y *YAML) Serialize(path string, set annotation.Set) error {
	if set == nil {
		set = annotation.Set{}
	}
	return fileutil.WriteAtomic(path, filePerm, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(set); err != nil {
			return err
		}
		return enc.Close()
	})
}
