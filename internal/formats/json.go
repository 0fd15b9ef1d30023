package formats

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/ivlev/annokit/internal/annotation"
	"github.com/ivlev/annokit/internal/fileutil"
)

// JSON stores the set as an indented array of record objects.
type JSON struct {
	// Indent defaults to four spaces.
	Indent string
}

func (j *JSON) Name() string { return NameJSON }

func (j *JSON) Parse(path string) (annotation.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var set annotation.Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, formatError(path, jsonErrorLine(data, err), err)
	}
	if set == nil {
		set = annotation.Set{}
	}
	return set, nil
}

func (j *JSON) Serialize(path string, set annotation.Set) error {
	if set == nil {
		set = annotation.Set{}
	}
	indent := j.Indent
	if indent == "" {
		indent = "    "
	}
	return fileutil.WriteAtomic(path, filePerm, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", indent)
		return enc.Encode(set)
	})
}

// jsonErrorLine maps a decoder byte offset to a 1-based line, or 0 when the
// error carries no offset.
func jsonErrorLine(data []byte, err error) int {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}
