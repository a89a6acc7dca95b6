package docvalue

import (
	"container/list"
	"container/ring"
	"encoding"
	"fmt"
	"reflect"

	"github.com/dhoelle/docvalue/value"
)

var (
	listType = reflect.TypeFor[list.List]()
	ringType = reflect.TypeFor[ring.Ring]()

	bytesType = reflect.TypeFor[[]byte]()
)

// decoderFunc stores v into dst, an addressable value of the type the
// routine was compiled for.
type decoderFunc func(v value.Value, dst reflect.Value) error

func (r *Registry) decode(v value.Value, dst reflect.Value) error {
	if v == nil {
		v = value.Null()
	}
	return r.decoderFor(dst.Type())(v, dst)
}

func errDecoder(err error) decoderFunc {
	return func(value.Value, reflect.Value) error {
		return err
	}
}

// buildDecoder compiles the routine for t. Shape errors are returned on
// every call, including for NullV, so they surface on first use.
func (r *Registry) buildDecoder(t reflect.Type) decoderFunc {
	fn, err := r.compileDecoder(t)
	if err != nil {
		return errDecoder(err)
	}
	if t.Implements(valueType) {
		return fn
	}
	return func(v value.Value, dst reflect.Value) error {
		if _, ok := v.(value.NullV); ok {
			dst.SetZero()
			return nil
		}
		return fn(v, dst)
	}
}

func (r *Registry) compileDecoder(t reflect.Type) (decoderFunc, error) {
	if t.Implements(valueType) {
		return decodeValue(t), nil
	}

	r.mu.RLock()
	creators := r.creators[t]
	enum := r.enums[t]
	set := r.sets[t]
	r.mu.RUnlock()

	switch {
	case len(creators) > 1:
		return nil, ErrAmbiguousCreator{Type: t, Count: len(creators)}
	case len(creators) == 1:
		return r.compileCreatorDecoder(t, creators[0])
	case enum != nil:
		return enum.decode, nil
	case set != nil:
		return r.compileSetDecoder(set), nil
	case t == timeType:
		return decodeTime, nil
	case t == decimalType:
		return decodeDecimal, nil
	case t == listType || t == ringType:
		return nil, ErrNonGenericCollection{Type: t}
	case t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(textUnmarshalerType):
		return decodeText, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return decodeBool, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decodeInt, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return decodeUint, nil
	case reflect.Float32, reflect.Float64:
		return decodeFloat, nil

	case reflect.String:
		return func(v value.Value, dst reflect.Value) error {
			s, ok := v.(value.StringV)
			if !ok {
				return mismatch(v, dst.Type())
			}
			dst.SetString(string(s))
			return nil
		}, nil

	case reflect.Slice:
		return r.decodeSlice, nil
	case reflect.Array:
		return r.decodeArray, nil

	case reflect.Map:
		if isSetMap(t) {
			return r.decodeSetMap, nil
		}
		if t.Key().Kind() != reflect.String {
			return nil, ErrUnsupportedType{Type: t, Reason: "map keys must be strings"}
		}
		return r.decodeMap, nil

	case reflect.Struct:
		return r.compileStructDecoder(t)

	case reflect.Pointer:
		return func(v value.Value, dst reflect.Value) error {
			if dst.IsNil() {
				dst.Set(reflect.New(dst.Type().Elem()))
			}
			return r.decode(v, dst.Elem())
		}, nil

	case reflect.Interface:
		if t.NumMethod() > 0 {
			return nil, ErrMissingCreator{Type: t}
		}
		return decodeNatural, nil
	}

	return nil, ErrUnsupportedType{Type: t}
}

// decodeValue stores v as is. Concrete variant targets accept only their
// own variant. Pointers to variants are set to a fresh copy, or nil for
// NullV.
func decodeValue(t reflect.Type) decoderFunc {
	if t.Kind() == reflect.Pointer && t.Elem().Implements(valueType) {
		elem := decodeValue(t.Elem())
		return func(v value.Value, dst reflect.Value) error {
			if _, ok := v.(value.NullV); ok {
				dst.SetZero()
				return nil
			}
			p := reflect.New(t.Elem())
			if err := elem(v, p.Elem()); err != nil {
				return err
			}
			dst.Set(p)
			return nil
		}
	}
	return func(v value.Value, dst reflect.Value) error {
		rv := reflect.ValueOf(v)
		if rv.Type().AssignableTo(t) {
			dst.Set(rv)
			return nil
		}
		if _, ok := v.(value.NullV); ok {
			dst.SetZero()
			return nil
		}
		want := reflect.Zero(t).Interface().(value.Value).Kind()
		return ErrTypeMismatch{From: v.Kind().String(), To: want.String()}
	}
}

func decodeText(v value.Value, dst reflect.Value) error {
	s, ok := v.(value.StringV)
	if !ok {
		return mismatch(v, dst.Type())
	}
	if err := dst.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("failed to unmarshal %q into %s: %w", string(s), dst.Type(), err)
	}
	return nil
}

// decodeNatural stores the Go form of v into an empty interface.
func decodeNatural(v value.Value, dst reflect.Value) error {
	n := natural(v)
	if n == nil {
		dst.SetZero()
		return nil
	}
	dst.Set(reflect.ValueOf(n))
	return nil
}

func natural(v value.Value) any {
	switch x := v.(type) {
	case value.NullV:
		return nil
	case value.BooleanV:
		return bool(x)
	case value.LongV:
		return int64(x)
	case value.DoubleV:
		return float64(x)
	case value.StringV:
		return string(x)
	case value.BytesV:
		return x.Bytes()
	case value.TimeV:
		return x.Time()
	case value.DateV:
		return x.Time()
	case value.ArrayV:
		out := make([]any, x.Len())
		for i := range out {
			out[i] = natural(x.At(i))
		}
		return out
	case value.ObjectV:
		out := make(map[string]any, x.Len())
		for k, fv := range x.Fields() {
			out[k] = natural(fv)
		}
		return out
	}
	return v
}

func (r *Registry) decodeSlice(v value.Value, dst reflect.Value) error {
	t := dst.Type()
	if b, ok := v.(value.BytesV); ok && bytesType.ConvertibleTo(t) && r.enumFor(t.Elem()) == nil {
		dst.Set(reflect.ValueOf(b.Bytes()).Convert(t))
		return nil
	}

	arr, ok := v.(value.ArrayV)
	if !ok {
		return mismatch(v, t)
	}
	s := reflect.MakeSlice(t, arr.Len(), arr.Len())
	for i := range arr.Len() {
		if err := r.decode(arr.At(i), s.Index(i)); err != nil {
			return fmt.Errorf("failed to decode index %d: %w", i, err)
		}
	}
	dst.Set(s)
	return nil
}

// decodeArray requires the source to have exactly the target's length.
func (r *Registry) decodeArray(v value.Value, dst reflect.Value) error {
	t := dst.Type()
	if b, ok := v.(value.BytesV); ok && t.Elem() == bytesType.Elem() {
		if b.Len() != t.Len() {
			return fmt.Errorf("cannot decode %d bytes into %s", b.Len(), t)
		}
		reflect.Copy(dst, reflect.ValueOf(b.Bytes()))
		return nil
	}

	arr, ok := v.(value.ArrayV)
	if !ok {
		return mismatch(v, t)
	}
	if arr.Len() != t.Len() {
		return fmt.Errorf("cannot decode %d elements into %s", arr.Len(), t)
	}
	tmp := reflect.New(t).Elem()
	for i := range arr.Len() {
		if err := r.decode(arr.At(i), tmp.Index(i)); err != nil {
			return fmt.Errorf("failed to decode index %d: %w", i, err)
		}
	}
	dst.Set(tmp)
	return nil
}

func (r *Registry) decodeMap(v value.Value, dst reflect.Value) error {
	t := dst.Type()
	obj, ok := v.(value.ObjectV)
	if !ok {
		return mismatch(v, t)
	}

	m := reflect.MakeMapWithSize(t, obj.Len())
	for _, k := range obj.Keys() {
		fv, _ := obj.Get(k)
		elem := reflect.New(t.Elem()).Elem()
		if err := r.decode(fv, elem); err != nil {
			return fmt.Errorf("failed to decode key %q: %w", k, err)
		}
		m.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), elem)
	}
	dst.Set(m)
	return nil
}

func (r *Registry) decodeSetMap(v value.Value, dst reflect.Value) error {
	t := dst.Type()
	arr, ok := v.(value.ArrayV)
	if !ok {
		return mismatch(v, t)
	}

	present := reflect.New(t.Elem()).Elem()
	if present.Kind() == reflect.Bool {
		present.SetBool(true)
	}

	m := reflect.MakeMapWithSize(t, arr.Len())
	for i := range arr.Len() {
		k := reflect.New(t.Key()).Elem()
		if err := r.decode(arr.At(i), k); err != nil {
			return fmt.Errorf("failed to decode index %d: %w", i, err)
		}
		m.SetMapIndex(k, present)
	}
	dst.Set(m)
	return nil
}

func (r *Registry) compileStructDecoder(t reflect.Type) (decoderFunc, error) {
	si := r.structInfoFor(t)
	if si.err != nil {
		return nil, si.err
	}
	if err := r.checkDefaults(t, si.members); err != nil {
		return nil, err
	}

	return func(v value.Value, dst reflect.Value) error {
		obj, ok := v.(value.ObjectV)
		if !ok {
			return mismatch(v, t)
		}
		return r.decodeMembers(t, obj, dst, si.members)
	}, nil
}

// decodeMembers fills the members of dst from obj. A member missing from
// obj takes its default if one is declared and is left untouched otherwise.
func (r *Registry) decodeMembers(t reflect.Type, obj value.ObjectV, dst reflect.Value, members []*member) error {
	for _, m := range members {
		raw, ok := obj.Get(m.name)
		if !ok && !m.hasDefault {
			continue
		}
		if !ok {
			raw = value.String(m.defaultText)
		}

		fv, err := settableMember(dst, m)
		if err != nil {
			return fmt.Errorf("failed to decode member %q of %s: %w", m.name, t, err)
		}
		if err := r.decode(raw, fv); err != nil {
			return fmt.Errorf("failed to decode member %q of %s: %w", m.name, t, err)
		}
		if m.sorted {
			sortSlice(fv)
		}
	}
	return nil
}

// checkDefaults parses every member default once so that bad tags are
// reported as shape errors before any data is decoded.
func (r *Registry) checkDefaults(t reflect.Type, members []*member) error {
	for _, m := range members {
		if !m.hasDefault {
			continue
		}
		if _, err := r.parseDefault(m.typ, value.String(m.defaultText)); err != nil {
			return ErrInvalidMember{Type: t, Member: m.goName, Err: err}
		}
	}
	return nil
}

// parseDefault decodes a default into a fresh value of type t. Only types
// that decode from a scalar without consulting struct members are allowed.
func (r *Registry) parseDefault(t reflect.Type, def value.Value) (reflect.Value, error) {
	if !r.defaultable(t) {
		return reflect.Value{}, fmt.Errorf("default values are not supported for %s", t)
	}
	out := reflect.New(t).Elem()
	if err := r.decode(def, out); err != nil {
		return reflect.Value{}, fmt.Errorf("invalid default: %w", err)
	}
	return out, nil
}

func (r *Registry) defaultable(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t == timeType, t == decimalType, r.enumFor(t) != nil:
		return true
	case reflect.PointerTo(t).Implements(textUnmarshalerType):
		return true
	}

	switch t.Kind() {
	case reflect.Bool, reflect.String, reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	case reflect.Interface:
		return t.NumMethod() == 0
	}
	return false
}
