package docvalue

import (
	"fmt"
	"reflect"

	"github.com/dhoelle/docvalue/value"
)

// enumTable maps the members of an enum type to their wire aliases and
// back.
type enumTable struct {
	typ     reflect.Type
	byValue map[any]string
	byAlias map[string]reflect.Value
}

func (et *enumTable) encode(_ *encodeState, v reflect.Value) (value.Value, error) {
	alias, ok := et.byValue[v.Interface()]
	if !ok {
		return nil, ErrUnknownEnumValue{Value: v.Interface(), Type: et.typ}
	}
	return value.String(alias), nil
}

func (et *enumTable) decode(v value.Value, dst reflect.Value) error {
	s, ok := v.(value.StringV)
	if !ok {
		return mismatch(v, et.typ)
	}
	member, ok := et.byAlias[string(s)]
	if !ok {
		return ErrUnknownEnumAlias{Alias: string(s), Type: et.typ}
	}
	dst.Set(member)
	return nil
}

// RegisterEnum declares members as the complete set of values of T. Each
// member is written as a StringV holding its alias: the entry in aliases if
// there is one, else the member's String method, else its default
// formatting.
//
// Registering T again replaces its previous table.
func RegisterEnum[T comparable](r *Registry, members []T, aliases map[T]string) error {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Interface {
		return ErrInvalidEnum{Type: t, Reason: "enum type must be concrete"}
	}
	if len(members) == 0 {
		return ErrInvalidEnum{Type: t, Reason: "no members"}
	}

	et := &enumTable{
		typ:     t,
		byValue: make(map[any]string, len(members)),
		byAlias: make(map[string]reflect.Value, len(members)),
	}
	for _, m := range members {
		if _, dup := et.byValue[m]; dup {
			return ErrInvalidEnum{Type: t, Reason: fmt.Sprintf("member %v listed twice", m)}
		}
		alias := enumAlias(m, aliases)
		if _, dup := et.byAlias[alias]; dup {
			return ErrInvalidEnum{Type: t, Reason: fmt.Sprintf("alias %q used by more than one member", alias)}
		}
		et.byValue[m] = alias
		et.byAlias[alias] = reflect.ValueOf(m)
	}
	for m := range aliases {
		if _, ok := et.byValue[m]; !ok {
			return ErrInvalidEnum{Type: t, Reason: fmt.Sprintf("alias given for non-member %v", m)}
		}
	}

	r.mu.Lock()
	r.enums[t] = et
	r.mu.Unlock()

	r.invalidate()
	r.debug("registered enum", "type", t.String(), "members", len(members))
	return nil
}

func enumAlias[T comparable](m T, aliases map[T]string) string {
	if alias, ok := aliases[m]; ok {
		return alias
	}
	if s, ok := any(m).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(m)
}

func (r *Registry) enumFor(t reflect.Type) *enumTable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enums[t]
}
