package field

import (
	"strconv"
	"strings"

	"github.com/dhoelle/docvalue/result"
	"github.com/dhoelle/docvalue/value"
)

// Field locates a value with a [Path] and coerces it to T.
type Field[T any] struct {
	path   Path
	coerce func(value.Value) result.Result[T]
}

// New returns a field applying coerce to the value found at path.
func New[T any](path Path, coerce func(value.Value) result.Result[T]) Field[T] {
	return Field[T]{path: path, coerce: coerce}
}

// Root returns the field selecting the root value unchanged.
func Root() Field[value.Value] {
	return Field[value.Value]{coerce: AsValue}
}

// AtPath returns the field selecting the value at p.
func AtPath(p Path) Field[value.Value] {
	return Field[value.Value]{path: p, coerce: AsValue}
}

// ObjKey returns the field selecting a chain of object keys.
func ObjKey(keys ...string) Field[value.Value] {
	return AtPath(Keys(keys...))
}

// ArrIndex returns the field selecting a chain of array indexes.
func ArrIndex(indexes ...int) Field[value.Value] {
	return AtPath(Indexes(indexes...))
}

// Path returns the path the field navigates.
func (f Field[T]) Path() Path { return f.path }

// Get navigates root and coerces the value found.
func (f Field[T]) Get(root value.Value) result.Result[T] {
	return result.FlatMap(f.path.Get(root), f.coerce)
}

func (f Field[T]) String() string { return "Field(" + f.path.String() + ")" }

// At navigates outer's path, then inner's, and applies inner's coercion.
// outer's coercion is not used.
func At[T, U any](outer Field[U], inner Field[T]) Field[T] {
	return Field[T]{path: outer.path.Append(inner.path), coerce: inner.coerce}
}

// To replaces the coercion of f.
func To[T any](f Field[value.Value], coerce func(value.Value) result.Result[T]) Field[T] {
	return Field[T]{path: f.path, coerce: func(v value.Value) result.Result[T] {
		return result.FlatMap(f.coerce(v), coerce)
	}}
}

// Map transforms the result of f with fn.
func Map[T, U any](f Field[T], fn func(T) U) Field[U] {
	return Field[U]{path: f.path, coerce: func(v value.Value) result.Result[U] {
		return result.Map(f.coerce(v), fn)
	}}
}

// Chain transforms the result of f with a coercion that may fail.
func Chain[T, U any](f Field[T], fn func(T) result.Result[U]) Field[U] {
	return Field[U]{path: f.path, coerce: func(v value.Value) result.Result[U] {
		return result.FlatMap(f.coerce(v), fn)
	}}
}

// Collect applies inner to every element of the array selected by f.
//
// Every element is visited even after one fails. If any fail, the result is
// a single failure listing each failing index and its reason.
func Collect[T any](f Field[value.Value], inner Field[T]) Field[[]T] {
	return Field[[]T]{path: f.path, coerce: func(v value.Value) result.Result[[]T] {
		return result.FlatMap(result.FlatMap(f.coerce(v), AsArray), func(arr value.ArrayV) result.Result[[]T] {
			return collect(arr, inner)
		})
	}}
}

func collect[T any](arr value.ArrayV, inner Field[T]) result.Result[[]T] {
	out := make([]T, 0, arr.Len())
	var failures []string
	for i := 0; i < arr.Len(); i++ {
		inner.Get(arr.At(i)).Match(
			func(v T) { out = append(out, v) },
			func(reason string) {
				failures = append(failures, "index "+strconv.Itoa(i)+": "+reason)
			},
		)
	}
	if len(failures) > 0 {
		return result.Failure[[]T]("Failed to collect values: %s", strings.Join(failures, "; "))
	}
	return result.Success(out)
}
