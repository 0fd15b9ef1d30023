package formats

import (
	"strings"

	"github.com/ivlev/annokit/internal/annotation"
	"github.com/ivlev/annokit/internal/container"
	"github.com/ivlev/annokit/internal/fileutil"
)

// FileList bootstraps a labeling batch from a plain list of image filenames,
// one per line. It is read-only; labeled results are saved in another format.
type FileList struct{}

func (l *FileList) Name() string { return NameFileList }

func (l *FileList) Parse(path string) (annotation.Set, error) {
	set := annotation.Set{}
	err := fileutil.ReadLines(path, func(_ int, line string) error {
		line = strings.TrimSpace(line)
		if line == "" {
			return nil
		}
		set = append(set, annotation.NewImage(line))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func (l *FileList) ReadOnly() bool { return true }

func (l *FileList) Serialize(string, annotation.Set) error {
	return container.Unsupported(NameFileList, "serialize")
}
