package docvalue

import (
	"fmt"
	"reflect"

	"github.com/dhoelle/docvalue/value"
)

var errorType = reflect.TypeFor[error]()

// Param describes one argument of a creator.
type Param struct {
	// Name is the object key the argument is read from.
	Name string

	// Default is used when the key is absent. It is converted to the
	// parameter's type with the same rules as decoded data, so a string
	// default may be given for a numeric parameter. Defaults are limited to
	// the types a default tag accepts. A nil Default means the parameter's
	// zero value.
	Default any
}

// creator is a registered factory for its result type.
type creator struct {
	fn      reflect.Value
	out     reflect.Type
	params  []creatorParam
	failing bool // fn also returns an error
}

type creatorParam struct {
	name string
	typ  reflect.Type
	def  value.Value // nil when no default was given
}

// RegisterCreator designates fn as the way to build values of its result
// type T when decoding. fn must have the signature func(...) T or
// func(...) (T, error), with one Param per argument, in order.
//
// Each argument is decoded from the object key named by its Param. For a
// struct T (or pointer to struct), members not bound to a parameter are
// decoded into the result afterwards.
//
// A type may have at most one creator. Registering a second one is
// allowed, but decoding the type then fails with [ErrAmbiguousCreator].
func (r *Registry) RegisterCreator(fn any, params ...Param) error {
	c, err := r.newCreator(fn, params)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.creators[c.out] = append(r.creators[c.out], c)
	r.mu.Unlock()

	r.invalidate()
	r.debug("registered creator", "type", c.out.String(), "params", len(c.params))
	return nil
}

func (r *Registry) newCreator(fn any, params []Param) (*creator, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, ErrInvalidCreator{Func: reflect.TypeOf(fn), Reason: "not a function"}
	}
	ft := fv.Type()

	c := &creator{fn: fv}
	switch {
	case ft.IsVariadic():
		return nil, ErrInvalidCreator{Func: ft, Reason: "variadic functions are not supported"}
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
		c.failing = true
	default:
		return nil, ErrInvalidCreator{Func: ft, Reason: "must return T or (T, error)"}
	}
	c.out = ft.Out(0)

	if ft.NumIn() != len(params) {
		return nil, ErrInvalidCreator{Func: ft, Reason: fmt.Sprintf("takes %d arguments but %d params were given", ft.NumIn(), len(params))}
	}

	seen := make(map[string]bool, len(params))
	for i, p := range params {
		if p.Name == "" {
			return nil, ErrInvalidCreator{Func: ft, Reason: fmt.Sprintf("param %d has no name", i)}
		}
		if seen[p.Name] {
			return nil, ErrInvalidCreator{Func: ft, Reason: fmt.Sprintf("param %q given twice", p.Name)}
		}
		seen[p.Name] = true

		cp := creatorParam{name: p.Name, typ: ft.In(i)}
		if p.Default != nil {
			def, err := r.Encode(p.Default)
			if err != nil {
				return nil, ErrInvalidCreator{Func: ft, Reason: fmt.Sprintf("default of param %q: %v", p.Name, err)}
			}
			if _, err := r.parseDefault(cp.typ, def); err != nil {
				return nil, ErrInvalidCreator{Func: ft, Reason: fmt.Sprintf("default of param %q: %v", p.Name, err)}
			}
			cp.def = def
		}
		c.params = append(c.params, cp)
	}
	return c, nil
}

// compileCreatorDecoder resolves the creator's parameters against the
// members of t. A parameter without a default inherits the default of the
// member of the same name. Two defaults that disagree are an error.
func (r *Registry) compileCreatorDecoder(t reflect.Type, c *creator) (decoderFunc, error) {
	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}

	var unbound []*member
	params := make([]creatorParam, len(c.params))
	copy(params, c.params)

	if st.Kind() == reflect.Struct {
		si := r.structInfoFor(st)
		if si.err != nil {
			return nil, si.err
		}

		bound := make(map[string]bool, len(params))
		for i, p := range params {
			bound[p.name] = true

			m := si.byName[p.name]
			if m == nil || !m.hasDefault {
				continue
			}
			memberDef, err := r.parseDefault(p.typ, value.String(m.defaultText))
			if err != nil {
				return nil, ErrInvalidMember{Type: st, Member: m.goName, Err: err}
			}
			if p.def == nil {
				params[i].def = value.String(m.defaultText)
				continue
			}
			paramDef, err := r.parseDefault(p.typ, p.def)
			if err != nil {
				return nil, ErrInvalidCreator{Func: c.fn.Type(), Reason: err.Error()}
			}
			if !reflect.DeepEqual(memberDef.Interface(), paramDef.Interface()) {
				return nil, ErrConflictingDefault{Type: t, Member: p.name}
			}
		}

		for _, m := range si.members {
			if !bound[m.name] {
				unbound = append(unbound, m)
			}
		}
		if err := r.checkDefaults(st, unbound); err != nil {
			return nil, err
		}
	}

	return func(v value.Value, dst reflect.Value) error {
		obj, ok := v.(value.ObjectV)
		if !ok {
			return mismatch(v, t)
		}

		args := make([]reflect.Value, len(params))
		for i, p := range params {
			arg := reflect.New(p.typ).Elem()
			raw, ok := obj.Get(p.name)
			if !ok {
				raw = p.def
			}
			if raw != nil {
				if err := r.decode(raw, arg); err != nil {
					return fmt.Errorf("failed to decode parameter %q of the creator of %s: %w", p.name, t, err)
				}
			}
			args[i] = arg
		}

		out := c.fn.Call(args)
		if c.failing && !out[1].IsNil() {
			return fmt.Errorf("creator of %s failed: %w", t, out[1].Interface().(error))
		}
		dst.Set(out[0])

		if len(unbound) == 0 {
			return nil
		}
		target := dst
		if target.Kind() == reflect.Pointer {
			if target.IsNil() {
				return nil
			}
			target = target.Elem()
		}
		return r.decodeMembers(st, obj, target, unbound)
	}, nil
}
