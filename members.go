package docvalue

import (
	"fmt"
	"reflect"
	"strings"
)

// structInfo lists the members of a struct type that take part in
// conversion.
type structInfo struct {
	members []*member
	byName  map[string]*member
	err     error
}

// member is one exported field, possibly promoted from an embedded struct.
type member struct {
	name   string // wire name
	goName string
	index  []int
	typ    reflect.Type

	omitEmpty   bool
	forceDate   bool
	forceTime   bool
	forceString bool
	sorted      bool

	defaultText string
	hasDefault  bool
}

func (r *Registry) structInfoFor(t reflect.Type) *structInfo {
	si, built := r.structs.get(t, r.parseStructInfo)
	if built {
		r.debug("parsed members", "type", t.String(), "count", len(si.members))
	}
	return si
}

// parseStructInfo walks the visible fields of t. Fields of embedded structs
// are promoted, so an embedded "base" struct contributes its members as if
// they were declared on t, unless the embedding itself is named with a tag.
func (r *Registry) parseStructInfo(t reflect.Type) *structInfo {
	si := &structInfo{byName: map[string]*member{}}

	var skipped [][]int
	for _, f := range reflect.VisibleFields(t) {
		if hasPrefix(f.Index, skipped) {
			continue
		}

		tag, hasTag := f.Tag.Lookup(r.tagName)
		name, opts, _ := strings.Cut(tag, ",")
		if name == "-" && opts == "" {
			if f.Anonymous {
				skipped = append(skipped, f.Index)
			}
			continue
		}

		if f.Anonymous {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && name == "" && !r.opaque(ft) {
				// flattened: its promoted fields follow
				continue
			}
			skipped = append(skipped, f.Index)
		}
		if !f.IsExported() {
			continue
		}

		m := &member{
			name:   f.Name,
			goName: f.Name,
			index:  f.Index,
			typ:    f.Type,
		}
		if hasTag && name != "" {
			m.name = name
		}
		if err := m.parseOptions(opts); err != nil {
			si.err = ErrInvalidMember{Type: t, Member: f.Name, Err: err}
			return si
		}
		if def, ok := f.Tag.Lookup(r.defaultTagName); ok {
			m.defaultText = def
			m.hasDefault = true
		}

		if _, dup := si.byName[m.name]; dup {
			si.err = ErrDuplicateMember{Type: t, Name: m.name}
			return si
		}
		si.byName[m.name] = m
		si.members = append(si.members, m)
	}
	return si
}

// opaque reports whether a struct type has its own conversion rule, so that
// embedding it adds one member instead of promoting its fields.
func (r *Registry) opaque(t reflect.Type) bool {
	switch {
	case t == timeType, t == decimalType:
		return true
	case t.Implements(valueType), t.Implements(textMarshalerType):
		return true
	case reflect.PointerTo(t).Implements(textUnmarshalerType):
		return true
	}
	return r.enumFor(t) != nil
}

func (m *member) parseOptions(opts string) error {
	if opts == "" {
		return nil
	}
	for _, opt := range strings.Split(opts, ",") {
		switch strings.TrimSpace(opt) {
		case "omitempty":
			m.omitEmpty = true
		case "date":
			m.forceDate = true
		case "ts":
			m.forceTime = true
		case "string":
			m.forceString = true
		case "sorted":
			m.sorted = true
		case "":
		default:
			return fmt.Errorf("unknown option %q", opt)
		}
	}

	forced := 0
	for _, f := range []bool{m.forceDate, m.forceTime, m.forceString} {
		if f {
			forced++
		}
	}
	if forced > 1 {
		return fmt.Errorf("at most one of date, ts and string may be set")
	}
	if m.sorted && !isOrderedSlice(m.typ) {
		return fmt.Errorf("sorted requires a slice of numbers or strings, got %s", m.typ)
	}
	return nil
}

func hasPrefix(index []int, prefixes [][]int) bool {
	for _, p := range prefixes {
		if len(index) > len(p) && equalIndex(index[:len(p)], p) {
			return true
		}
	}
	return false
}

func equalIndex(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// memberValue returns the member's field in v, or false if it sits behind
// a nil embedded pointer.
func memberValue(v reflect.Value, m *member) (reflect.Value, bool) {
	fv, err := v.FieldByIndexErr(m.index)
	if err != nil {
		return reflect.Value{}, false
	}
	return fv, true
}

// settableMember returns the member's field in v, allocating nil embedded
// pointers on the way.
func settableMember(v reflect.Value, m *member) (reflect.Value, error) {
	for i, x := range m.index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, fmt.Errorf("cannot allocate unexported embedded %s", v.Type())
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, nil
}
