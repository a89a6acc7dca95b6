package docvalue

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/dhoelle/docvalue/value"
)

func mismatch(v value.Value, t reflect.Type) error {
	return ErrTypeMismatch{From: v.Kind().String(), To: t.String()}
}

func decodeBool(v value.Value, dst reflect.Value) error {
	switch x := v.(type) {
	case value.BooleanV:
		dst.SetBool(bool(x))
		return nil
	case value.StringV:
		b, err := cast.ToBoolE(string(x))
		if err != nil {
			return fmt.Errorf("failed to convert %q to %s: %w", string(x), dst.Type(), err)
		}
		dst.SetBool(b)
		return nil
	}
	return mismatch(v, dst.Type())
}

// decodeInt converts Long, Double and String values to a signed integer of
// dst's width. Doubles are truncated toward zero.
func decodeInt(v value.Value, dst reflect.Value) error {
	t := dst.Type()
	bits := t.Bits()

	var n int64
	switch x := v.(type) {
	case value.LongV:
		n = int64(x)

	case value.DoubleV:
		f := math.Trunc(float64(x))
		limit := math.Ldexp(1, bits-1)
		if math.IsNaN(f) || f < -limit || f >= limit {
			return ErrOverflow{Value: strconv.FormatFloat(float64(x), 'g', -1, 64), Target: t.String()}
		}
		n = int64(f)

	case value.StringV:
		s := string(x)
		parsed, err := strconv.ParseInt(s, 10, 64)
		switch {
		case err == nil:
			n = parsed
		case errors.Is(err, strconv.ErrRange):
			return ErrOverflow{Value: s, Target: t.String()}
		default:
			// decimal text such as "3.0" or "1e3" is read as a double
			f, ferr := cast.ToFloat64E(s)
			if ferr != nil {
				return fmt.Errorf("failed to convert %q to %s: %w", s, t, ferr)
			}
			return decodeInt(value.Double(f), dst)
		}

	default:
		return mismatch(v, t)
	}

	if bits < 64 {
		hi := int64(math.MaxInt64 >> (64 - bits))
		if n > hi || n < -hi-1 {
			return ErrOverflow{Value: strconv.FormatInt(n, 10), Target: t.String()}
		}
	}
	dst.SetInt(n)
	return nil
}

// decodeUint converts Long, Double and String values to an unsigned
// integer of dst's width. Negative numbers overflow.
func decodeUint(v value.Value, dst reflect.Value) error {
	t := dst.Type()
	bits := t.Bits()

	var n uint64
	switch x := v.(type) {
	case value.LongV:
		if x < 0 {
			return ErrOverflow{Value: strconv.FormatInt(int64(x), 10), Target: t.String()}
		}
		n = uint64(x)

	case value.DoubleV:
		f := math.Trunc(float64(x))
		if math.IsNaN(f) || f < 0 || f >= math.Ldexp(1, bits) {
			return ErrOverflow{Value: strconv.FormatFloat(float64(x), 'g', -1, 64), Target: t.String()}
		}
		n = uint64(f)

	case value.StringV:
		s := string(x)
		parsed, err := strconv.ParseUint(s, 10, 64)
		switch {
		case err == nil:
			n = parsed
		case errors.Is(err, strconv.ErrRange):
			return ErrOverflow{Value: s, Target: t.String()}
		default:
			f, ferr := cast.ToFloat64E(s)
			if ferr != nil {
				return fmt.Errorf("failed to convert %q to %s: %w", s, t, ferr)
			}
			return decodeUint(value.Double(f), dst)
		}

	default:
		return mismatch(v, t)
	}

	if bits < 64 && n > uint64(math.MaxUint64>>(64-bits)) {
		return ErrOverflow{Value: strconv.FormatUint(n, 10), Target: t.String()}
	}
	dst.SetUint(n)
	return nil
}

func decodeFloat(v value.Value, dst reflect.Value) error {
	t := dst.Type()

	var f float64
	switch x := v.(type) {
	case value.DoubleV:
		f = float64(x)
	case value.LongV:
		f = float64(x)
	case value.StringV:
		parsed, err := cast.ToFloat64E(string(x))
		if err != nil {
			return fmt.Errorf("failed to convert %q to %s: %w", string(x), t, err)
		}
		f = parsed
	default:
		return mismatch(v, t)
	}

	if t.Bits() == 32 && !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
		return ErrOverflow{Value: strconv.FormatFloat(f, 'g', -1, 64), Target: t.String()}
	}
	dst.SetFloat(f)
	return nil
}

func decodeDecimal(v value.Value, dst reflect.Value) error {
	var d decimal.Decimal
	switch x := v.(type) {
	case value.LongV:
		d = decimal.NewFromInt(int64(x))
	case value.DoubleV:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return ErrOverflow{Value: strconv.FormatFloat(float64(x), 'g', -1, 64), Target: dst.Type().String()}
		}
		d = decimal.NewFromFloat(float64(x))
	case value.StringV:
		parsed, err := decimal.NewFromString(string(x))
		if err != nil {
			return fmt.Errorf("failed to convert %q to %s: %w", string(x), dst.Type(), err)
		}
		d = parsed
	default:
		return mismatch(v, dst.Type())
	}
	dst.Set(reflect.ValueOf(d))
	return nil
}

// decodeTime accepts timestamps, dates, and strings in either wire form.
func decodeTime(v value.Value, dst reflect.Value) error {
	var t time.Time
	switch x := v.(type) {
	case value.TimeV:
		t = x.Time()
	case value.DateV:
		t = x.Time()
	case value.StringV:
		if ts, err := value.ParseTime(string(x)); err == nil {
			t = ts.Time()
		} else if d, derr := value.ParseDate(string(x)); derr == nil {
			t = d.Time()
		} else {
			return fmt.Errorf("failed to convert %q to %s: %w", string(x), dst.Type(), err)
		}
	default:
		return mismatch(v, dst.Type())
	}
	dst.Set(reflect.ValueOf(t))
	return nil
}

// lessFunc returns an ordering for values of kind-ordered type t, or nil.
func lessFunc(t reflect.Type) func(a, b reflect.Value) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(a, b reflect.Value) bool { return a.Int() < b.Int() }
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(a, b reflect.Value) bool { return a.Uint() < b.Uint() }
	case reflect.Float32, reflect.Float64:
		return func(a, b reflect.Value) bool { return a.Float() < b.Float() }
	case reflect.String:
		return func(a, b reflect.Value) bool { return a.String() < b.String() }
	}
	return nil
}

func isOrderedSlice(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && lessFunc(t.Elem()) != nil
}

// sortSlice sorts s in place if its elements are of an ordered kind.
func sortSlice(s reflect.Value) {
	less := lessFunc(s.Type().Elem())
	if less == nil || s.Len() < 2 {
		return
	}
	sort.Slice(s.Interface(), func(i, j int) bool {
		return less(s.Index(i), s.Index(j))
	})
}
