package result

import (
	"fmt"

	"github.com/samber/mo"
)

// Result holds either a value of type T or a failure reason.
// The zero Result is a failure with an empty reason.
type Result[T any] struct {
	r   mo.Result[T]
	set bool
}

func fail[T any](reason string) Result[T] {
	return Result[T]{r: mo.Err[T](ErrFailure{Reason: reason}), set: true}
}

// Success returns a successful Result holding v.
func Success[T any](v T) Result[T] {
	return Result[T]{r: mo.Ok(v), set: true}
}

// Failure returns a failed Result. The reason is formatted with
// [fmt.Sprintf] when args are given.
func Failure[T any](format string, args ...any) Result[T] {
	if len(args) == 0 {
		return fail[T](format)
	}
	return fail[T](fmt.Sprintf(format, args...))
}

// IsSuccess reports whether r holds a value.
func (r Result[T]) IsSuccess() bool { return r.set && r.r.IsOk() }

// IsFailure reports whether r holds a failure reason.
func (r Result[T]) IsFailure() bool { return !r.IsSuccess() }

// Reason returns the failure reason, or "" on success.
func (r Result[T]) Reason() string {
	if r.IsSuccess() || !r.set {
		return ""
	}
	return r.r.Error().Error()
}

// Get returns the value. It panics if r is a failure.
func (r Result[T]) Get() T {
	v, err := r.Unwrap()
	if err != nil {
		panic(err)
	}
	return v
}

// Unwrap returns the value, or an [ErrFailure] carrying the reason.
func (r Result[T]) Unwrap() (T, error) {
	if !r.set {
		var zero T
		return zero, ErrFailure{}
	}
	return r.r.Get()
}

// OrElse returns the value, or def if r is a failure.
func (r Result[T]) OrElse(def T) T {
	if !r.set {
		return def
	}
	return r.r.OrElse(def)
}

// Match calls onSuccess with the value or onFailure with the reason.
func (r Result[T]) Match(onSuccess func(T), onFailure func(string)) {
	if v, err := r.Unwrap(); err == nil {
		onSuccess(v)
		return
	}
	onFailure(r.Reason())
}

func (r Result[T]) String() string {
	if v, err := r.Unwrap(); err == nil {
		return fmt.Sprintf("Success(%v)", v)
	}
	return fmt.Sprintf("Failure(%s)", r.Reason())
}

// Map applies fn to the value of a successful Result.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	v, err := r.Unwrap()
	if err != nil {
		return fail[U](r.Reason())
	}
	return Success(fn(v))
}

// FlatMap chains a computation that may itself fail.
func FlatMap[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	v, err := r.Unwrap()
	if err != nil {
		return fail[U](r.Reason())
	}
	return fn(v)
}

// Fold eliminates r into a single value.
func Fold[T, U any](r Result[T], onSuccess func(T) U, onFailure func(string) U) U {
	if v, err := r.Unwrap(); err == nil {
		return onSuccess(v)
	}
	return onFailure(r.Reason())
}

// FromError returns a Success of v when err is nil, and a Failure carrying
// err's message otherwise.
func FromError[T any](v T, err error) Result[T] {
	if err != nil {
		return fail[T](err.Error())
	}
	return Success(v)
}

// ErrFailure is the error returned by [Result.Unwrap] and the panic value of
// [Result.Get] for a failed Result.
type ErrFailure struct {
	Reason string
}

func (e ErrFailure) Error() string {
	return e.Reason
}
