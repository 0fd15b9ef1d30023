// Package annotation holds the open record schema shared by every container
// format: a fixed header per labeled file plus free-form extension keys.
package annotation

import "encoding/gob"

// Record types.
const (
	TypeImage = "image"
	TypeVideo = "video"
)

// LabelPoint is the discriminator of single-point labels.
const LabelPoint = "point"

// Header keys of the on-disk mapping.
const (
	KeyFilename    = "filename"
	KeyType        = "type"
	KeyAnnotations = "annotations"
	KeyClass       = "class"
	KeyX           = "x"
	KeyY           = "y"
)

// Record is one labeled image or video file.
//
// Filename is either absolute or relative to the directory of the label file
// the record was loaded from. Keys the header does not know about are kept
// in Extra and written back unchanged.
type Record struct {
	Filename    string
	Type        string
	Annotations []Label
	Extra       map[string]any
}

// Label is one shape, point or region attached to a record. Geometry lives
// in Extra; only Type and Class are interpreted by this package, and only
// when they hold non-empty strings. Any other value under those keys stays
// in Extra.
type Label struct {
	Type  string
	Class string
	Extra map[string]any
}

// Set is an ordered collection of records, the unit every container loads
// and saves.
type Set []Record

func init() {
	// Extension values decoded from JSON/YAML are nested maps and slices;
	// gob needs the concrete types to carry them inside interface values.
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

// NewImage returns an image record with no labels.
func NewImage(filename string) Record {
	return Record{Filename: filename, Type: TypeImage, Annotations: []Label{}}
}

// NewPoint returns a point label of the given class.
func NewPoint(class string, x, y int) Label {
	return Label{
		Type:  LabelPoint,
		Class: class,
		Extra: map[string]any{KeyX: x, KeyY: y},
	}
}

// Point reports the x/y coordinates of the label, if it carries numeric ones.
func (l Label) Point() (x, y float64, ok bool) {
	x, okX := toFloat(l.Extra[KeyX])
	y, okY := toFloat(l.Extra[KeyY])
	if !okX || !okY {
		return 0, 0, false
	}
	return x, y, true
}

// Normalize replaces nil label slices with empty ones so that sets decoded
// from formats which drop empty slices compare equal to freshly built ones.
func (s Set) Normalize() Set {
	for i := range s {
		if s[i].Annotations == nil {
			s[i].Annotations = []Label{}
		}
	}
	return s
}

// Filenames lists the media references of the set in order.
func (s Set) Filenames() []string {
	names := make([]string, 0, len(s))
	for _, r := range s {
		names = append(names, r.Filename)
	}
	return names
}

// LabelCount returns the total number of labels across all records.
func (s Set) LabelCount() int {
	n := 0
	for _, r := range s {
		n += len(r.Annotations)
	}
	return n
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}
