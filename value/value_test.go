package value_test

import (
	"testing"
	"time"

	"github.com/dhoelle/docvalue/value"
	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	spells := value.CollectionRef("spells")

	tests := []struct {
		name string
		a, b value.Value
		want bool
	}{
		{"null", value.Null(), value.Null(), true},
		{"nil is null", nil, value.Null(), true},
		{"long", value.Long(1), value.Long(1), true},
		{"long vs double", value.Long(1), value.Double(1), false},
		{"string", value.String("a"), value.String("a"), true},
		{"bytes", value.Bytes([]byte{1, 2}), value.Bytes([]byte{1, 2}), true},
		{"bytes differ", value.Bytes([]byte{1, 2}), value.Bytes([]byte{1, 3}), false},
		{"time", value.Time(ts), value.Time(ts.In(time.FixedZone("x", 3600))), true},
		{"date vs time", value.Date(ts), value.Time(ts), false},
		{"ref", value.NewRef("1", spells, nil), value.NewRef("1", value.CollectionRef("spells"), nil), true},
		{"ref collection differs", value.NewRef("1", spells, nil), value.NewRef("1", value.CollectionRef("pets"), nil), false},
		{"ref database differs", value.NewRef("1", spells, value.NewRef("db", value.Databases, nil)), value.NewRef("1", spells, nil), false},
		{
			"object key order",
			value.Object(map[string]value.Value{"a": value.Long(1), "b": value.Array(value.String("x"))}),
			value.Object(map[string]value.Value{"b": value.Array(value.String("x")), "a": value.Long(1)}),
			true,
		},
		{
			"nested object differs",
			value.Object(map[string]value.Value{"a": value.Object(map[string]value.Value{"b": value.Long(1)})}),
			value.Object(map[string]value.Value{"a": value.Object(map[string]value.Value{"b": value.Long(2)})}),
			false,
		},
		{"array order", value.Array(value.Long(1), value.Long(2)), value.Array(value.Long(2), value.Long(1)), false},
		{"array length", value.Array(value.Long(1)), value.Array(value.Long(1), value.Long(1)), false},
		{"set", value.SetRef(map[string]value.Value{"match": spells}), value.SetRef(map[string]value.Value{"match": spells}), true},
		{"query", value.Query(value.String("x")), value.Query(value.String("x")), true},
		{"object vs set", value.Object(map[string]value.Value{}), value.SetRef(map[string]value.Value{}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, value.Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, value.Equal(tt.b, tt.a))
		})
	}
}

func TestNativeRefsAreCanonical(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"collections", "databases", "indexes", "functions", "keys", "roles"} {
		r, ok := value.NativeRef(name)
		assert.True(t, ok, name)
		assert.Same(t, r, value.NewRef(name, nil, nil), name)
		assert.True(t, r.IsNative(), name)
	}

	scoped := value.NewRef("collections", nil, value.NewRef("db", value.Databases, nil))
	assert.NotSame(t, value.Collections, scoped)
	assert.False(t, scoped.IsNative())
}

func TestImmutability(t *testing.T) {
	t.Parallel()

	raw := []byte{1, 2, 3}
	b := value.Bytes(raw)
	raw[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, b.Bytes())
	b.Bytes()[1] = 9
	assert.Equal(t, []byte{1, 2, 3}, b.Bytes())

	fields := map[string]value.Value{"a": value.Long(1)}
	o := value.Object(fields)
	fields["b"] = value.Long(2)
	assert.Equal(t, 1, o.Len())
	o.Fields()["c"] = value.Long(3)
	assert.Equal(t, []string{"a"}, o.Keys())

	elems := []value.Value{value.Long(1)}
	a := value.Array(elems...)
	elems[0] = value.Long(2)
	assert.True(t, value.Equal(value.Long(1), a.At(0)))
	a.Values()[0] = value.Long(3)
	assert.True(t, value.Equal(value.Long(1), a.At(0)))
}

func TestNilElementsBecomeNull(t *testing.T) {
	t.Parallel()

	a := value.Array(nil, value.Long(1))
	assert.Equal(t, value.KindNull, a.At(0).Kind())

	o := value.Object(map[string]value.Value{"a": nil})
	v, ok := o.Get("a")
	assert.True(t, ok)
	assert.Equal(t, value.KindNull, v.Kind())
}

func TestTimeTruncation(t *testing.T) {
	t.Parallel()

	in := time.Date(2024, 1, 2, 3, 4, 5, 123456789, time.FixedZone("x", -7200))
	got := value.Time(in).Time()
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 123456700, got.Nanosecond())
	assert.Equal(t, 5, got.Hour())
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ObjectV", value.KindObject.String())
	assert.Equal(t, "ArrayV", value.Array().Kind().String())
	assert.Equal(t, "RefV", value.Collections.Kind().String())
	assert.Equal(t, `ObjectV{"a": LongV(1), "b": StringV("x")}`,
		value.Object(map[string]value.Value{"b": value.String("x"), "a": value.Long(1)}).String())
}
