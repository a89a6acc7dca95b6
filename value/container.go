package value

import "strings"

// ArrayV is an ordered sequence of values.
type ArrayV struct {
	elems []Value
}

// Array returns an array holding a copy of elems. Nil elements become NullV.
func Array(elems ...Value) ArrayV {
	out := make([]Value, len(elems))
	for i, e := range elems {
		out[i] = normalize(e)
	}
	return ArrayV{elems: out}
}

// Len returns the number of elements.
func (a ArrayV) Len() int { return len(a.elems) }

// At returns the element at index i. It panics if i is out of range.
func (a ArrayV) At(i int) Value { return a.elems[i] }

// Values returns a copy of the elements.
func (a ArrayV) Values() []Value {
	out := make([]Value, len(a.elems))
	copy(out, a.elems)
	return out
}

func (ArrayV) Kind() Kind { return KindArray }
func (ArrayV) isValue()   {}

func (a ArrayV) String() string {
	var sb strings.Builder
	sb.WriteString("ArrayV[")
	for i, e := range a.elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteString("]")
	return sb.String()
}

func (a ArrayV) Equal(other Value) bool {
	o, ok := other.(ArrayV)
	if !ok || len(o.elems) != len(a.elems) {
		return false
	}
	for i := range a.elems {
		if !a.elems[i].Equal(o.elems[i]) {
			return false
		}
	}
	return true
}

// ObjectV maps string keys to values. Key order is not significant.
type ObjectV struct {
	fields map[string]Value
}

// Object returns an object holding a copy of fields. Nil values become
// NullV.
func Object(fields map[string]Value) ObjectV {
	return ObjectV{fields: copyFields(fields)}
}

// Len returns the number of keys.
func (o ObjectV) Len() int { return len(o.fields) }

// Get returns the value stored under key.
func (o ObjectV) Get(key string) (Value, bool) {
	v, ok := o.fields[key]
	return v, ok
}

// Keys returns the keys in sorted order.
func (o ObjectV) Keys() []string { return sortedKeys(o.fields) }

// Fields returns a copy of the mapping.
func (o ObjectV) Fields() map[string]Value { return copyFields(o.fields) }

func (ObjectV) Kind() Kind { return KindObject }
func (ObjectV) isValue()   {}

func (o ObjectV) String() string { return "ObjectV" + formatFields(o.fields) }

func (o ObjectV) Equal(other Value) bool {
	p, ok := other.(ObjectV)
	return ok && fieldsEqual(o.fields, p.fields)
}

// QueryV is an unevaluated query expression, usually a lambda such as
// {"lambda": "x", "expr": {"var": "x"}}. Objects inside the expression are
// syntax, not data: they are written without escaping or wrapping.
type QueryV struct {
	expr Value
}

// Query wraps expr.
func Query(expr Value) QueryV { return QueryV{expr: normalize(expr)} }

// Expr returns the wrapped expression.
func (q QueryV) Expr() Value { return normalize(q.expr) }

func (QueryV) Kind() Kind { return KindQuery }
func (QueryV) isValue()   {}

func (q QueryV) String() string { return "QueryV(" + q.Expr().String() + ")" }

func (q QueryV) Equal(other Value) bool {
	o, ok := other.(QueryV)
	return ok && Equal(q.expr, o.expr)
}
