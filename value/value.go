package value

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind identifies the variant of a [Value].
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindLong
	KindDouble
	KindString
	KindBytes
	KindTime
	KindDate
	KindRef
	KindSetRef
	KindArray
	KindObject
	KindQuery
)

// String returns the Go type name of the variant, e.g. "ObjectV".
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NullV"
	case KindBoolean:
		return "BooleanV"
	case KindLong:
		return "LongV"
	case KindDouble:
		return "DoubleV"
	case KindString:
		return "StringV"
	case KindBytes:
		return "BytesV"
	case KindTime:
		return "TimeV"
	case KindDate:
		return "DateV"
	case KindRef:
		return "RefV"
	case KindSetRef:
		return "SetRefV"
	case KindArray:
		return "ArrayV"
	case KindObject:
		return "ObjectV"
	case KindQuery:
		return "QueryV"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a document value. The set of implementations is closed: NullV,
// BooleanV, LongV, DoubleV, StringV, BytesV, TimeV, DateV, *RefV, SetRefV,
// ArrayV, ObjectV and QueryV.
type Value interface {
	// Kind reports the variant.
	Kind() Kind

	// Equal reports whether other is structurally equal to the receiver.
	Equal(other Value) bool

	// String returns a debugging representation.
	String() string

	isValue()
}

// Equal reports whether a and b are structurally equal. A nil Value equals
// only nil or NullV, and a pointer to a variant compares as the variant.
func Equal(a, b Value) bool {
	return normalize(a).Equal(normalize(b))
}

// normalize replaces a nil Value with NullV and a pointer to a variant
// with the variant it points to, so containers only hold the variants
// listed in Kind.
func normalize(v Value) Value {
	switch p := v.(type) {
	case nil:
		return NullV{}
	case *NullV:
		return NullV{}
	case *BooleanV:
		return deref(p)
	case *LongV:
		return deref(p)
	case *DoubleV:
		return deref(p)
	case *StringV:
		return deref(p)
	case *BytesV:
		return deref(p)
	case *TimeV:
		return deref(p)
	case *DateV:
		return deref(p)
	case *SetRefV:
		return deref(p)
	case *ArrayV:
		return deref(p)
	case *ObjectV:
		return deref(p)
	case *QueryV:
		return deref(p)
	}
	return v
}

func deref[V Value](p *V) Value {
	if p == nil {
		return NullV{}
	}
	return *p
}

// NullV is the null value.
type NullV struct{}

// Null returns the null value.
func Null() NullV { return NullV{} }

func (NullV) Kind() Kind     { return KindNull }
func (NullV) String() string { return "NullV" }
func (NullV) isValue()       {}

func (NullV) Equal(other Value) bool {
	_, ok := other.(NullV)
	return ok
}

// BooleanV is a boolean value.
type BooleanV bool

// Boolean returns a boolean value.
func Boolean(b bool) BooleanV { return BooleanV(b) }

func (BooleanV) Kind() Kind       { return KindBoolean }
func (v BooleanV) String() string { return "BooleanV(" + strconv.FormatBool(bool(v)) + ")" }
func (BooleanV) isValue()         {}

func (v BooleanV) Equal(other Value) bool {
	o, ok := other.(BooleanV)
	return ok && o == v
}

// LongV is a 64-bit signed integer.
type LongV int64

// Long returns an integer value.
func Long(n int64) LongV { return LongV(n) }

func (LongV) Kind() Kind       { return KindLong }
func (v LongV) String() string { return "LongV(" + strconv.FormatInt(int64(v), 10) + ")" }
func (LongV) isValue()         {}

func (v LongV) Equal(other Value) bool {
	o, ok := other.(LongV)
	return ok && o == v
}

// DoubleV is a 64-bit floating point number.
type DoubleV float64

// Double returns a floating point value.
func Double(f float64) DoubleV { return DoubleV(f) }

func (DoubleV) Kind() Kind       { return KindDouble }
func (v DoubleV) String() string { return "DoubleV(" + formatDouble(float64(v)) + ")" }
func (DoubleV) isValue()         {}

func (v DoubleV) Equal(other Value) bool {
	o, ok := other.(DoubleV)
	return ok && o == v
}

// formatDouble renders f so that it always reads back as a double: the
// result carries a fraction or an exponent.
func formatDouble(f float64) string {
	var s string
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		s = strconv.FormatFloat(f, 'e', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', 'e', 'E', 'N', 'I':
			return s
		}
	}
	return s + ".0"
}

// StringV is a string value.
type StringV string

// String returns a string value.
func String(s string) StringV { return StringV(s) }

func (StringV) Kind() Kind       { return KindString }
func (v StringV) String() string { return "StringV(" + strconv.Quote(string(v)) + ")" }
func (StringV) isValue()         {}

func (v StringV) Equal(other Value) bool {
	o, ok := other.(StringV)
	return ok && o == v
}

// BytesV is an immutable byte sequence.
type BytesV struct {
	data string
}

// Bytes returns a byte value holding a copy of b.
func Bytes(b []byte) BytesV { return BytesV{data: string(b)} }

// Bytes returns a copy of the bytes.
func (v BytesV) Bytes() []byte { return []byte(v.data) }

// Len returns the number of bytes.
func (v BytesV) Len() int { return len(v.data) }

func (BytesV) Kind() Kind       { return KindBytes }
func (v BytesV) String() string { return fmt.Sprintf("BytesV(%x)", v.data) }
func (BytesV) isValue()         {}

func (v BytesV) Equal(other Value) bool {
	o, ok := other.(BytesV)
	return ok && o.data == v.data
}

// TimePrecision is the resolution of timestamps on the wire.
const TimePrecision = 100 * time.Nanosecond

// TimeV is a UTC instant.
type TimeV struct {
	t time.Time
}

// Time returns a timestamp for t, converted to UTC and truncated to
// [TimePrecision].
func Time(t time.Time) TimeV {
	return TimeV{t: t.UTC().Truncate(TimePrecision)}
}

// Time returns the instant in UTC.
func (v TimeV) Time() time.Time { return v.t }

// Format returns the wire text of the timestamp.
func (v TimeV) Format() string { return v.t.Format(timeLayout) }

func (TimeV) Kind() Kind       { return KindTime }
func (v TimeV) String() string { return "TimeV(" + v.t.Format(timeLayout) + ")" }
func (TimeV) isValue()         {}

func (v TimeV) Equal(other Value) bool {
	o, ok := other.(TimeV)
	return ok && o.t.Equal(v.t)
}

// DateV is a calendar date without a time of day.
type DateV struct {
	t time.Time
}

// Date returns the calendar date of t, as observed in t's location.
func Date(t time.Time) DateV {
	y, m, d := t.Date()
	return DateOf(y, m, d)
}

// DateOf returns the given calendar date.
func DateOf(year int, month time.Month, day int) DateV {
	return DateV{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Time returns midnight UTC of the date.
func (v DateV) Time() time.Time { return v.t }

// Format returns the wire text of the date.
func (v DateV) Format() string { return v.t.Format(dateLayout) }

func (DateV) Kind() Kind       { return KindDate }
func (v DateV) String() string { return "DateV(" + v.t.Format(dateLayout) + ")" }
func (DateV) isValue()         {}

func (v DateV) Equal(other Value) bool {
	o, ok := other.(DateV)
	return ok && o.t.Equal(v.t)
}
