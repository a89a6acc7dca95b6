package field

import (
	"strconv"
	"strings"

	"github.com/dhoelle/docvalue/result"
	"github.com/dhoelle/docvalue/value"
)

// Segment is one step of a [Path]: an object key or an array index.
type Segment interface {
	// String renders the segment as it appears in a path.
	String() string

	lookup(v value.Value) (value.Value, bool)
	reason() string
}

type keySegment string

// Key returns a segment selecting an object key.
func Key(k string) Segment { return keySegment(k) }

func (s keySegment) String() string { return string(s) }
func (s keySegment) reason() string { return `Object key "` + string(s) + `" not found` }

func (s keySegment) lookup(v value.Value) (value.Value, bool) {
	o, ok := v.(value.ObjectV)
	if !ok {
		return nil, false
	}
	return o.Get(string(s))
}

type indexSegment int

// Index returns a segment selecting an array element.
func Index(i int) Segment { return indexSegment(i) }

func (s indexSegment) String() string { return strconv.Itoa(int(s)) }
func (s indexSegment) reason() string { return `Array index "` + s.String() + `" not found` }

func (s indexSegment) lookup(v value.Value) (value.Value, bool) {
	a, ok := v.(value.ArrayV)
	if !ok || int(s) < 0 || int(s) >= a.Len() {
		return nil, false
	}
	return a.At(int(s)), true
}

// Path is an immutable sequence of segments. The zero Path is empty and
// selects the root itself.
type Path struct {
	segments []Segment
}

// NewPath returns a path made of segs.
func NewPath(segs ...Segment) Path {
	return Path{segments: append([]Segment(nil), segs...)}
}

// Keys returns a path of object keys.
func Keys(keys ...string) Path {
	segs := make([]Segment, len(keys))
	for i, k := range keys {
		segs[i] = keySegment(k)
	}
	return Path{segments: segs}
}

// Indexes returns a path of array indexes.
func Indexes(indexes ...int) Path {
	segs := make([]Segment, len(indexes))
	for i, idx := range indexes {
		segs[i] = indexSegment(idx)
	}
	return Path{segments: segs}
}

// Append returns p followed by other.
func (p Path) Append(other Path) Path {
	segs := make([]Segment, 0, len(p.segments)+len(other.segments))
	segs = append(segs, p.segments...)
	segs = append(segs, other.segments...)
	return Path{segments: segs}
}

// Segments returns a copy of the segments.
func (p Path) Segments() []Segment { return append([]Segment(nil), p.segments...) }

// Len returns the number of segments.
func (p Path) Len() int { return len(p.segments) }

// IsEmpty reports whether p selects the root.
func (p Path) IsEmpty() bool { return len(p.segments) == 0 }

// String joins the segments with "/", e.g. "data/elements/0".
func (p Path) String() string {
	parts := make([]string, len(p.segments))
	for i, s := range p.segments {
		parts[i] = s.String()
	}
	return strings.Join(parts, "/")
}

// Get walks root along p, stopping at the first segment that does not
// match.
func (p Path) Get(root value.Value) result.Result[value.Value] {
	cur := root
	if cur == nil {
		cur = value.Null()
	}
	for _, s := range p.segments {
		next, ok := s.lookup(cur)
		if !ok {
			return result.Failure[value.Value](`Cannot find path "%s". %s`, p, s.reason())
		}
		cur = next
	}
	return result.Success(cur)
}
