package docvalue

import (
	"errors"
	"fmt"
	"reflect"
)

// shapeError marks errors caused by the shape of a Go type rather than by
// the data being converted. They surface the first time the type is used
// and repeat on every later use.
type shapeError interface {
	error
	shapeError()
}

// IsShapeError reports whether err, or an error it wraps, describes a Go
// type the codec cannot handle (as opposed to data that does not fit).
func IsShapeError(err error) bool {
	var se shapeError
	return errors.As(err, &se)
}

// ErrTypeMismatch is the error returned when a value cannot be converted to
// the requested Go type.
type ErrTypeMismatch struct {
	From string
	To   string
}

func (e ErrTypeMismatch) Error() string {
	return fmt.Sprintf("Cannot convert %s to %s", e.From, e.To)
}

// ErrOverflow is the error returned when a number does not fit the range
// of its destination.
type ErrOverflow struct {
	Value  string
	Target string
}

func (e ErrOverflow) Error() string {
	return fmt.Sprintf("value %s overflows %s", e.Value, e.Target)
}

// ErrInvalidTarget is the error returned by Decode when out is not a
// non-nil pointer.
type ErrInvalidTarget struct {
	Type reflect.Type
}

func (e ErrInvalidTarget) Error() string {
	if e.Type == nil {
		return "decode target must be a non-nil pointer, got nil"
	}
	return fmt.Sprintf("decode target must be a non-nil pointer, got %s", e.Type)
}

// ErrAmbiguousCreator is the error returned when more than one creator is
// registered for a type.
type ErrAmbiguousCreator struct {
	Type  reflect.Type
	Count int
}

func (e ErrAmbiguousCreator) Error() string {
	return fmt.Sprintf("type %s has %d creators registered, at most one is allowed", e.Type, e.Count)
}

func (ErrAmbiguousCreator) shapeError() {}

// ErrMissingCreator is the error returned when a type cannot be
// instantiated: it is an interface other than any, and no creator is
// registered for it.
type ErrMissingCreator struct {
	Type reflect.Type
}

func (e ErrMissingCreator) Error() string {
	return fmt.Sprintf("no creator registered for type %s", e.Type)
}

func (ErrMissingCreator) shapeError() {}

// ErrUnknownEnumAlias is the error returned when a string does not name a
// member of a registered enum.
type ErrUnknownEnumAlias struct {
	Alias string
	Type  reflect.Type
}

func (e ErrUnknownEnumAlias) Error() string {
	return fmt.Sprintf("unknown alias %q for enum type %s", e.Alias, e.Type)
}

func (ErrUnknownEnumAlias) shapeError() {}

// ErrUnknownEnumValue is the error returned when encoding a value of a
// registered enum type that is not one of its members.
type ErrUnknownEnumValue struct {
	Value any
	Type  reflect.Type
}

func (e ErrUnknownEnumValue) Error() string {
	return fmt.Sprintf("value %v is not a member of enum type %s", e.Value, e.Type)
}

func (ErrUnknownEnumValue) shapeError() {}

// ErrSelfReferenceCycle is the error returned by Encode when an object is
// reachable from itself.
type ErrSelfReferenceCycle struct {
	Type  reflect.Type
	Value any
}

func (e ErrSelfReferenceCycle) Error() string {
	return fmt.Sprintf("self reference cycle detected for object of type %s at %p", e.Type, e.Value)
}

func (ErrSelfReferenceCycle) shapeError() {}

// ErrUnsupportedType is the error returned when no conversion rule applies
// to a Go type.
type ErrUnsupportedType struct {
	Type   reflect.Type
	Reason string
}

func (e ErrUnsupportedType) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported type %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("unsupported type %s", e.Type)
}

func (ErrUnsupportedType) shapeError() {}

// ErrNonGenericCollection is the error returned when decoding into a
// collection type that does not declare its element type, such as
// container/list.List.
type ErrNonGenericCollection struct {
	Type reflect.Type
}

func (e ErrNonGenericCollection) Error() string {
	return fmt.Sprintf("cannot decode into non-generic collection %s, use a slice, map or registered set type", e.Type)
}

func (ErrNonGenericCollection) shapeError() {}

// ErrDuplicateMember is the error returned when two members of a struct
// share a wire name.
type ErrDuplicateMember struct {
	Type reflect.Type
	Name string
}

func (e ErrDuplicateMember) Error() string {
	return fmt.Sprintf("type %s has more than one member named %q", e.Type, e.Name)
}

func (ErrDuplicateMember) shapeError() {}

// ErrInvalidMember is the error returned when a member's tags cannot be
// applied to its type.
type ErrInvalidMember struct {
	Type   reflect.Type
	Member string
	Err    error
}

func (e ErrInvalidMember) Error() string {
	return fmt.Sprintf("invalid member %q of type %s: %v", e.Member, e.Type, e.Err)
}

func (e ErrInvalidMember) Unwrap() error { return e.Err }

func (ErrInvalidMember) shapeError() {}

// ErrConflictingDefault is the error returned when a creator parameter and
// the member of the same name both declare a default value and the two
// differ.
type ErrConflictingDefault struct {
	Type   reflect.Type
	Member string
}

func (e ErrConflictingDefault) Error() string {
	return fmt.Sprintf("type %s declares conflicting defaults for %q on its creator and its member", e.Type, e.Member)
}

func (ErrConflictingDefault) shapeError() {}

// ErrInvalidCreator is the error returned by RegisterCreator when fn cannot
// serve as a creator.
type ErrInvalidCreator struct {
	Func   reflect.Type
	Reason string
}

func (e ErrInvalidCreator) Error() string {
	return fmt.Sprintf("invalid creator %s: %s", e.Func, e.Reason)
}

func (ErrInvalidCreator) shapeError() {}

// ErrInvalidEnum is the error returned by RegisterEnum when the member list
// or alias table is unusable.
type ErrInvalidEnum struct {
	Type   reflect.Type
	Reason string
}

func (e ErrInvalidEnum) Error() string {
	return fmt.Sprintf("invalid enum %s: %s", e.Type, e.Reason)
}

func (ErrInvalidEnum) shapeError() {}
