package field

import (
	"time"

	"github.com/dhoelle/docvalue/result"
	"github.com/dhoelle/docvalue/value"
)

// Mismatch returns the failure reported when v is not of kind want.
func Mismatch[T any](v value.Value, want value.Kind) result.Result[T] {
	return result.Failure[T]("Cannot convert %s to %s", kindOf(v), want)
}

func kindOf(v value.Value) value.Kind {
	if v == nil {
		return value.KindNull
	}
	return v.Kind()
}

// as returns a coercion succeeding for the variant V.
func as[V value.Value, T any](kind value.Kind, fn func(V) T) func(value.Value) result.Result[T] {
	return func(v value.Value) result.Result[T] {
		if x, ok := v.(V); ok {
			return result.Success(fn(x))
		}
		return Mismatch[T](v, kind)
	}
}

func identity[V any](v V) V { return v }

// AsValue accepts any value.
func AsValue(v value.Value) result.Result[value.Value] {
	if v == nil {
		return result.Success[value.Value](value.Null())
	}
	return result.Success(v)
}

var (
	// AsNull accepts only NullV.
	AsNull = as(value.KindNull, identity[value.NullV])

	// AsBool coerces BooleanV.
	AsBool = as(value.KindBoolean, func(v value.BooleanV) bool { return bool(v) })

	// AsLong coerces LongV.
	AsLong = as(value.KindLong, func(v value.LongV) int64 { return int64(v) })

	// AsDouble coerces DoubleV.
	AsDouble = as(value.KindDouble, func(v value.DoubleV) float64 { return float64(v) })

	// AsString coerces StringV.
	AsString = as(value.KindString, func(v value.StringV) string { return string(v) })

	// AsBytes coerces BytesV, returning a copy of the bytes.
	AsBytes = as(value.KindBytes, value.BytesV.Bytes)

	// AsTime coerces TimeV.
	AsTime = as(value.KindTime, value.TimeV.Time)

	// AsDate coerces DateV to midnight UTC.
	AsDate = as(value.KindDate, func(v value.DateV) time.Time { return v.Time() })

	// AsRef coerces RefV.
	AsRef = as(value.KindRef, identity[*value.RefV])

	// AsSetRef coerces SetRefV.
	AsSetRef = as(value.KindSetRef, identity[value.SetRefV])

	// AsArray coerces ArrayV.
	AsArray = as(value.KindArray, identity[value.ArrayV])

	// AsObject coerces ObjectV.
	AsObject = as(value.KindObject, identity[value.ObjectV])

	// AsQuery coerces QueryV.
	AsQuery = as(value.KindQuery, identity[value.QueryV])
)
