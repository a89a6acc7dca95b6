package docvalue

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dhoelle/docvalue/value"
)

var (
	valueType           = reflect.TypeFor[value.Value]()
	timeType            = reflect.TypeFor[time.Time]()
	decimalType         = reflect.TypeFor[decimal.Decimal]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// encoderFunc converts v, whose type is the one the routine was compiled
// for, to a Value.
type encoderFunc func(e *encodeState, v reflect.Value) (value.Value, error)

// encodeState carries one call to Encode through the object graph.
type encodeState struct {
	r *Registry

	// stack holds the identities of the pointers, maps and slices
	// currently being encoded
	stack []visit
}

type visit struct {
	typ reflect.Type
	ptr uintptr
	len int
}

func (e *encodeState) encode(v reflect.Value) (value.Value, error) {
	if !v.IsValid() {
		return value.Null(), nil
	}
	return e.r.encoderFor(v.Type())(e, v)
}

// enter pushes the identity of v, which must be a non-nil pointer, map or
// slice. An identity that is already on the stack means v is reachable from
// itself.
func (e *encodeState) enter(v reflect.Value) error {
	id := visit{typ: v.Type(), ptr: v.Pointer()}
	if v.Kind() == reflect.Slice {
		id.len = v.Len()
	}
	if slices.Contains(e.stack, id) {
		var obj any
		if v.CanInterface() {
			obj = v.Interface()
		}
		return ErrSelfReferenceCycle{Type: v.Type(), Value: obj}
	}
	e.stack = append(e.stack, id)
	return nil
}

func (e *encodeState) leave() {
	e.stack = e.stack[:len(e.stack)-1]
}

func errEncoder(err error) encoderFunc {
	return func(*encodeState, reflect.Value) (value.Value, error) {
		return nil, err
	}
}

func (r *Registry) buildEncoder(t reflect.Type) encoderFunc {
	fn, err := r.compileEncoder(t)
	if err != nil {
		return errEncoder(err)
	}
	return fn
}

func (r *Registry) compileEncoder(t reflect.Type) (encoderFunc, error) {
	if t.Implements(valueType) {
		return encodeValue, nil
	}

	r.mu.RLock()
	enum := r.enums[t]
	set := r.setImpls[t]
	r.mu.RUnlock()

	switch {
	case enum != nil:
		return enum.encode, nil
	case set != nil:
		return set.encode, nil
	case t == timeType:
		return encodeTime, nil
	case t == decimalType:
		return encodeDecimal, nil
	case t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface && t.Implements(textMarshalerType):
		return encodeText, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return func(_ *encodeState, v reflect.Value) (value.Value, error) {
			return value.Boolean(v.Bool()), nil
		}, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(_ *encodeState, v reflect.Value) (value.Value, error) {
			return value.Long(v.Int()), nil
		}, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(_ *encodeState, v reflect.Value) (value.Value, error) {
			n := v.Uint()
			if n > math.MaxInt64 {
				return nil, ErrOverflow{Value: strconv.FormatUint(n, 10), Target: "LongV"}
			}
			return value.Long(int64(n)), nil
		}, nil

	case reflect.Float32, reflect.Float64:
		return func(_ *encodeState, v reflect.Value) (value.Value, error) {
			return value.Double(v.Float()), nil
		}, nil

	case reflect.String:
		return func(_ *encodeState, v reflect.Value) (value.Value, error) {
			return value.String(v.String()), nil
		}, nil

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && r.enumFor(t.Elem()) == nil {
			return encodeBytes, nil
		}
		return encodeSlice, nil

	case reflect.Array:
		return encodeArray, nil

	case reflect.Map:
		if isSetMap(t) {
			return encodeSetMap, nil
		}
		if t.Key().Kind() != reflect.String {
			return nil, ErrUnsupportedType{Type: t, Reason: "map keys must be strings"}
		}
		return encodeMap, nil

	case reflect.Struct:
		return r.compileStructEncoder(t)

	case reflect.Pointer:
		if t.Implements(textMarshalerType) && !t.Elem().Implements(textMarshalerType) {
			return func(e *encodeState, v reflect.Value) (value.Value, error) {
				if v.IsNil() {
					return value.Null(), nil
				}
				return encodeText(e, v)
			}, nil
		}
		return encodePointer, nil

	case reflect.Interface:
		return func(e *encodeState, v reflect.Value) (value.Value, error) {
			if v.IsNil() {
				return value.Null(), nil
			}
			return e.encode(v.Elem())
		}, nil
	}

	return nil, ErrUnsupportedType{Type: t}
}

func encodeValue(_ *encodeState, v reflect.Value) (value.Value, error) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return value.Null(), nil
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return value.Null(), nil
		}
		// pointers to variants encode as the variant
		if v.Type().Elem().Implements(valueType) {
			v = v.Elem()
		}
	}
	return v.Interface().(value.Value), nil
}

// encodeTime routes instants at midnight UTC to DateV and everything else
// to TimeV.
func encodeTime(_ *encodeState, v reflect.Value) (value.Value, error) {
	t := v.Interface().(time.Time)
	u := t.UTC()
	if u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0 {
		return value.Date(u), nil
	}
	return value.Time(t), nil
}

func encodeDecimal(_ *encodeState, v reflect.Value) (value.Value, error) {
	d := v.Interface().(decimal.Decimal)
	return value.Double(d.InexactFloat64()), nil
}

func encodeText(_ *encodeState, v reflect.Value) (value.Value, error) {
	b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s as text: %w", v.Type(), err)
	}
	return value.String(string(b)), nil
}

func encodeBytes(_ *encodeState, v reflect.Value) (value.Value, error) {
	if v.IsNil() {
		return value.Null(), nil
	}
	return value.Bytes(v.Bytes()), nil
}

func encodeSlice(e *encodeState, v reflect.Value) (value.Value, error) {
	if v.IsNil() {
		return value.Null(), nil
	}
	if v.Len() > 0 {
		if err := e.enter(v); err != nil {
			return nil, err
		}
		defer e.leave()
	}
	return encodeElems(e, v)
}

func encodeArray(e *encodeState, v reflect.Value) (value.Value, error) {
	return encodeElems(e, v)
}

func encodeElems(e *encodeState, v reflect.Value) (value.Value, error) {
	elems := make([]value.Value, v.Len())
	for i := range elems {
		ev, err := e.encode(v.Index(i))
		if err != nil {
			return nil, fmt.Errorf("failed to encode index %d: %w", i, err)
		}
		elems[i] = ev
	}
	return value.Array(elems...), nil
}

func encodeMap(e *encodeState, v reflect.Value) (value.Value, error) {
	if v.IsNil() {
		return value.Null(), nil
	}
	if err := e.enter(v); err != nil {
		return nil, err
	}
	defer e.leave()

	fields := make(map[string]value.Value, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		ev, err := e.encode(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", k, err)
		}
		fields[k] = ev
	}
	return value.Object(fields), nil
}

// isSetMap reports whether t is a map used as a set: map[K]struct{}, or
// map[K]bool with non-string keys.
func isSetMap(t reflect.Type) bool {
	if t.Kind() != reflect.Map {
		return false
	}
	elem := t.Elem()
	if elem.Kind() == reflect.Struct && elem.NumField() == 0 {
		return true
	}
	return elem.Kind() == reflect.Bool && t.Key().Kind() != reflect.String
}

// encodeSetMap writes the members of a set map as an Array. Keys of ordered
// kinds are sorted so the output is stable.
func encodeSetMap(e *encodeState, v reflect.Value) (value.Value, error) {
	if v.IsNil() {
		return value.Null(), nil
	}
	if err := e.enter(v); err != nil {
		return nil, err
	}
	defer e.leave()

	isBool := v.Type().Elem().Kind() == reflect.Bool
	keys := reflect.MakeSlice(reflect.SliceOf(v.Type().Key()), 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		if isBool && !iter.Value().Bool() {
			continue
		}
		keys = reflect.Append(keys, iter.Key())
	}
	sortSlice(keys)
	return encodeElems(e, keys)
}

func encodePointer(e *encodeState, v reflect.Value) (value.Value, error) {
	if v.IsNil() {
		return value.Null(), nil
	}
	if err := e.enter(v); err != nil {
		return nil, err
	}
	defer e.leave()
	return e.encode(v.Elem())
}

func (r *Registry) compileStructEncoder(t reflect.Type) (encoderFunc, error) {
	si := r.structInfoFor(t)
	if si.err != nil {
		return nil, si.err
	}

	return func(e *encodeState, v reflect.Value) (value.Value, error) {
		fields := make(map[string]value.Value, len(si.members))
		for _, m := range si.members {
			fv, ok := memberValue(v, m)
			if !ok || (m.omitEmpty && fv.IsZero()) {
				continue
			}
			ev, err := e.encode(fv)
			if err != nil {
				return nil, fmt.Errorf("failed to encode member %q of %s: %w", m.name, t, err)
			}
			if ev, err = m.force(ev); err != nil {
				return nil, fmt.Errorf("failed to encode member %q of %s: %w", m.name, t, err)
			}
			fields[m.name] = ev
		}
		return value.Object(fields), nil
	}, nil
}

// force applies the member's date, ts or string option to an encoded
// value.
func (m *member) force(v value.Value) (value.Value, error) {
	if _, ok := v.(value.NullV); ok {
		return v, nil
	}

	switch {
	case m.forceDate:
		switch x := v.(type) {
		case value.DateV:
			return x, nil
		case value.TimeV:
			return value.Date(x.Time()), nil
		}
		return nil, ErrTypeMismatch{From: v.Kind().String(), To: value.KindDate.String()}

	case m.forceTime:
		switch x := v.(type) {
		case value.TimeV:
			return x, nil
		case value.DateV:
			return value.Time(x.Time()), nil
		}
		return nil, ErrTypeMismatch{From: v.Kind().String(), To: value.KindTime.String()}

	case m.forceString:
		return stringify(v)
	}
	return v, nil
}

func stringify(v value.Value) (value.Value, error) {
	switch x := v.(type) {
	case value.StringV:
		return x, nil
	case value.BooleanV:
		return value.String(strconv.FormatBool(bool(x))), nil
	case value.LongV:
		return value.String(strconv.FormatInt(int64(x), 10)), nil
	case value.DoubleV:
		return value.String(strconv.FormatFloat(float64(x), 'g', -1, 64)), nil
	case value.TimeV:
		return value.String(x.Format()), nil
	case value.DateV:
		return value.String(x.Format()), nil
	}
	return nil, ErrTypeMismatch{From: v.Kind().String(), To: value.KindString.String()}
}
