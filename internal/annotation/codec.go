package annotation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrSchema reports a header key holding a value of the wrong kind.
var ErrSchema = errors.New("annotation schema mismatch")

// MarshalJSON flattens the header and the extension keys into one object.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toMap())
}

// UnmarshalJSON reads one record object. Integer numbers decode as int.
func (r *Record) UnmarshalJSON(data []byte) error {
	m, err := decodeJSONObject(data)
	if err != nil {
		return err
	}
	rec, err := recordFromMap(m)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// MarshalJSON flattens the label header and its extension keys.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.toMap())
}

// UnmarshalJSON reads one label object.
func (l *Label) UnmarshalJSON(data []byte) error {
	m, err := decodeJSONObject(data)
	if err != nil {
		return err
	}
	*l = labelFromMap(m)
	return nil
}

// MarshalYAML emits the record as a single mapping.
func (r Record) MarshalYAML() (any, error) {
	return r.toMap(), nil
}

// UnmarshalYAML reads one record mapping.
func (r *Record) UnmarshalYAML(node *yaml.Node) error {
	var m map[string]any
	if err := node.Decode(&m); err != nil {
		return err
	}
	rec, err := recordFromMap(normalizeMap(m))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*r = rec
	return nil
}

// MarshalYAML emits the label as a single mapping.
func (l Label) MarshalYAML() (any, error) {
	return l.toMap(), nil
}

// UnmarshalYAML reads one label mapping.
func (l *Label) UnmarshalYAML(node *yaml.Node) error {
	var m map[string]any
	if err := node.Decode(&m); err != nil {
		return err
	}
	*l = labelFromMap(normalizeMap(m))
	return nil
}

func (r Record) toMap() map[string]any {
	m := make(map[string]any, len(r.Extra)+3)
	for k, v := range r.Extra {
		m[k] = v
	}
	labels := make([]any, 0, len(r.Annotations))
	for _, l := range r.Annotations {
		labels = append(labels, l.toMap())
	}
	setHeader(m, KeyFilename, r.Filename)
	setHeader(m, KeyType, r.Type)
	m[KeyAnnotations] = labels
	return m
}

func (l Label) toMap() map[string]any {
	m := make(map[string]any, len(l.Extra)+2)
	for k, v := range l.Extra {
		m[k] = v
	}
	setHeader(m, KeyType, l.Type)
	setHeader(m, KeyClass, l.Class)
	return m
}

// setHeader writes a header field only when it is set, so a key that was
// absent on input stays absent on output.
func setHeader(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func recordFromMap(m map[string]any) (Record, error) {
	if v, ok := m[KeyFilename]; ok && v != nil {
		if _, isString := v.(string); !isString {
			return Record{}, fmt.Errorf("%w: %s: want string, got %T", ErrSchema, KeyFilename, v)
		}
	}

	rec := Record{Annotations: []Label{}}
	consumed := []string{KeyAnnotations}
	if v, ok := headerString(m, KeyFilename); ok {
		rec.Filename = v
		consumed = append(consumed, KeyFilename)
	}
	if v, ok := headerString(m, KeyType); ok {
		rec.Type = v
		consumed = append(consumed, KeyType)
	}

	switch raw := m[KeyAnnotations].(type) {
	case nil:
	case []any:
		for i, item := range raw {
			lm, ok := item.(map[string]any)
			if !ok {
				return Record{}, fmt.Errorf("%w: %s[%d]: want mapping, got %T", ErrSchema, KeyAnnotations, i, item)
			}
			rec.Annotations = append(rec.Annotations, labelFromMap(lm))
		}
	default:
		return Record{}, fmt.Errorf("%w: %s: want sequence, got %T", ErrSchema, KeyAnnotations, raw)
	}

	rec.Extra = extra(m, consumed...)
	return rec, nil
}

// labelFromMap never fails: label payloads are opaque, so a type or class
// that is not a non-empty string is kept in Extra as read.
func labelFromMap(m map[string]any) Label {
	var (
		lbl      Label
		consumed []string
	)
	if v, ok := headerString(m, KeyType); ok {
		lbl.Type = v
		consumed = append(consumed, KeyType)
	}
	if v, ok := headerString(m, KeyClass); ok {
		lbl.Class = v
		consumed = append(consumed, KeyClass)
	}
	lbl.Extra = extra(m, consumed...)
	return lbl
}

// headerString returns m[key] when it holds a non-empty string.
func headerString(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok && s != ""
}

// extra copies every key except the header ones. A record without unknown
// keys gets a nil map.
func extra(m map[string]any, header ...string) map[string]any {
	var out map[string]any
	for k, v := range m {
		if isHeader(k, header) {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = v
	}
	return out
}

func isHeader(key string, header []string) bool {
	for _, h := range header {
		if key == h {
			return true
		}
	}
	return false
}

func decodeJSONObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: want object, got null", ErrSchema)
	}
	return normalizeMap(m), nil
}

func normalizeMap(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalize(v)
	}
	return m
}

// normalize turns decoder-specific scalar and container types into the
// plain set every format shares: int, float64, string, bool, []any and
// map[string]any.
func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	case map[string]any:
		return normalizeMap(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = normalize(t[i])
		}
		return t
	default:
		return v
	}
}
