package result

import (
	"errors"
	"fmt"

	"github.com/samber/mo"
)

// ErrNone is the panic value of [Option.Get] on an empty Option.
var ErrNone = errors.New("option is empty")

// Option holds a value of type T or nothing. The zero Option is None.
type Option[T any] struct {
	o mo.Option[T]
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{o: mo.Some(v)}
}

// None returns an empty Option.
func None[T any]() Option[T] {
	return Option[T]{o: mo.None[T]()}
}

// FromPtr returns None for a nil pointer and Some(*p) otherwise.
func FromPtr[T any](p *T) Option[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// IsSome reports whether o holds a value.
func (o Option[T]) IsSome() bool { return o.o.IsPresent() }

// IsNone reports whether o is empty.
func (o Option[T]) IsNone() bool { return o.o.IsAbsent() }

// Get returns the value. It panics if o is empty.
func (o Option[T]) Get() T {
	v, ok := o.o.Get()
	if !ok {
		panic(ErrNone)
	}
	return v
}

// Lookup returns the value and whether it is present.
func (o Option[T]) Lookup() (T, bool) { return o.o.Get() }

// OrElse returns the value, or def if o is empty.
func (o Option[T]) OrElse(def T) T { return o.o.OrElse(def) }

// Match calls onSome with the value or onNone.
func (o Option[T]) Match(onSome func(T), onNone func()) {
	if v, ok := o.o.Get(); ok {
		onSome(v)
		return
	}
	onNone()
}

// ToResult converts o into a Result, failing with reason when o is empty.
func (o Option[T]) ToResult(reason string) Result[T] {
	if v, ok := o.o.Get(); ok {
		return Success(v)
	}
	return fail[T](reason)
}

func (o Option[T]) String() string {
	if v, ok := o.o.Get(); ok {
		return fmt.Sprintf("Some(%v)", v)
	}
	return "None"
}

// MapOption applies fn to the value of a non-empty Option.
func MapOption[T, U any](o Option[T], fn func(T) U) Option[U] {
	if v, ok := o.o.Get(); ok {
		return Some(fn(v))
	}
	return None[U]()
}

// FlatMapOption chains a computation that may itself produce nothing.
func FlatMapOption[T, U any](o Option[T], fn func(T) Option[U]) Option[U] {
	if v, ok := o.o.Get(); ok {
		return fn(v)
	}
	return None[U]()
}
