package formats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ivlev/annokit/internal/annotation"
	"github.com/ivlev/annokit/internal/container"
	"github.com/ivlev/annokit/internal/fileutil"
)

// Classes of the three FERET landmarks, in column order.
const (
	ClassLeftEye  = "left_eye"
	ClassRightEye = "right_eye"
	ClassMouth    = "mouth"
)

var feretClasses = [...]string{ClassLeftEye, ClassRightEye, ClassMouth}

const feretColumns = 1 + 2*len(feretClasses)

// Feret reads the FERET facial landmark list: one image per line,
// "basename x1 y1 x2 y2 x3 y3". Any malformed line fails the whole file.
type Feret struct {
	// Ext is appended to the basename column; defaults to ".bmp".
	Ext string
}

func (f *Feret) Name() string { return NameFeret }

func (f *Feret) Parse(path string) (annotation.Set, error) {
	ext := f.Ext
	if ext == "" {
		ext = ".bmp"
	}

	set := annotation.Set{}
	err := fileutil.ReadLines(path, func(n int, line string) error {
		cols := strings.Fields(line)
		if len(cols) == 0 {
			return nil
		}
		if len(cols) != feretColumns {
			return formatError(path, n, fmt.Errorf("want %d columns, got %d", feretColumns, len(cols)))
		}

		rec := annotation.Record{
			Filename:    cols[0] + ext,
			Type:        annotation.TypeImage,
			Annotations: make([]annotation.Label, 0, len(feretClasses)),
		}
		for i, class := range feretClasses {
			x, err := strconv.Atoi(cols[1+2*i])
			if err != nil {
				return formatError(path, n, fmt.Errorf("%s x: %w", class, err))
			}
			y, err := strconv.Atoi(cols[2+2*i])
			if err != nil {
				return formatError(path, n, fmt.Errorf("%s y: %w", class, err))
			}
			rec.Annotations = append(rec.Annotations, annotation.NewPoint(class, x, y))
		}
		set = append(set, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func (f *Feret) ReadOnly() bool { return true }

func (f *Feret) Serialize(string, annotation.Set) error {
	return container.Unsupported(NameFeret, "serialize")
}
