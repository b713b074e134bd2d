package scrapers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFieldMissing is returned when a step of a JSON path is absent or has the
// wrong shape.
var ErrFieldMissing = errors.New("field missing")

// Path addresses a value inside decoded JSON. String steps index objects,
// int steps index arrays.
type Path []any

func (p Path) String() string {
	var b strings.Builder
	for _, step := range p {
		switch s := step.(type) {
		case int:
			b.WriteString("[" + strconv.Itoa(s) + "]")
		default:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			fmt.Fprint(&b, s)
		}
	}
	return b.String()
}

// Lookup walks v along p.
func (p Path) Lookup(v any) (any, error) {
	cur := v
	for i, step := range p {
		switch s := step.(type) {
		case string:
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s is not an object", ErrFieldMissing, p[:i])
			}
			next, ok := obj[s]
			if !ok || next == nil {
				return nil, fmt.Errorf("%w: %s", ErrFieldMissing, p[:i+1])
			}
			cur = next
		case int:
			arr, ok := cur.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s is not an array", ErrFieldMissing, p[:i])
			}
			if s < 0 || s >= len(arr) {
				return nil, fmt.Errorf("%w: %s", ErrFieldMissing, p[:i+1])
			}
			cur = arr[s]
		default:
			return nil, fmt.Errorf("invalid path step %v (%T)", step, step)
		}
	}
	return cur, nil
}

// LookupArray is Lookup for paths that must end on an array.
func (p Path) LookupArray(v any) ([]any, error) {
	got, err := p.Lookup(v)
	if err != nil {
		return nil, err
	}
	arr, ok := got.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an array", ErrFieldMissing, p)
	}
	return arr, nil
}

// LookupObject is Lookup for paths that must end on an object.
func (p Path) LookupObject(v any) (map[string]any, error) {
	got, err := p.Lookup(v)
	if err != nil {
		return nil, err
	}
	obj, ok := got.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an object", ErrFieldMissing, p)
	}
	return obj, nil
}
