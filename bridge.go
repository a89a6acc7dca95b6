package docvalue

import (
	"github.com/dhoelle/docvalue/field"
	"github.com/dhoelle/docvalue/result"
	"github.com/dhoelle/docvalue/value"
)

// As returns a coercion that decodes a Value into a T with r, for use with
// the field package.
//
// Data that does not fit T is reported as a failure. Shape errors mean T
// itself cannot be decoded; As panics with them.
func As[T any](r *Registry) func(value.Value) result.Result[T] {
	return func(v value.Value) result.Result[T] {
		out, err := Decode[T](r, v)
		if err != nil {
			if IsShapeError(err) {
				panic(err)
			}
			return result.Failure[T]("%s", err)
		}
		return result.Success(out)
	}
}

// DecodeField returns a Field that locates a Value with f and decodes it
// into a T.
func DecodeField[T any](r *Registry, f field.Field[value.Value]) field.Field[T] {
	return field.To(f, As[T](r))
}
