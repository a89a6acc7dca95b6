package field_test

import (
	"testing"
	"time"

	"github.com/dhoelle/docvalue/field"
	"github.com/dhoelle/docvalue/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obj(kv ...any) value.ObjectV {
	m := map[string]value.Value{}
	for i := 0; i < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1].(value.Value)
	}
	return value.Object(m)
}

func TestPathGet(t *testing.T) {
	t.Parallel()

	root := obj(
		"foo", obj("bar", value.String("hi")),
		"list", value.Array(value.Long(10), obj("x", value.Long(11))),
	)

	tests := []struct {
		name    string
		path    field.Path
		want    value.Value
		failure string
	}{
		{name: "empty path", path: field.NewPath(), want: root},
		{name: "zero path", path: field.Path{}, want: root},
		{name: "nested keys", path: field.Keys("foo", "bar"), want: value.String("hi")},
		{
			name:    "missing key",
			path:    field.Keys("foo", "missing"),
			failure: `Cannot find path "foo/missing". Object key "missing" not found`,
		},
		{name: "index", path: field.NewPath(field.Key("list"), field.Index(0)), want: value.Long(10)},
		{name: "index then key", path: field.NewPath(field.Key("list"), field.Index(1), field.Key("x")), want: value.Long(11)},
		{
			name:    "index out of range",
			path:    field.NewPath(field.Key("list"), field.Index(2)),
			failure: `Cannot find path "list/2". Array index "2" not found`,
		},
		{
			name:    "negative index",
			path:    field.NewPath(field.Key("list"), field.Index(-1)),
			failure: `Cannot find path "list/-1". Array index "-1" not found`,
		},
		{
			name:    "key on array",
			path:    field.Keys("list", "x"),
			failure: `Cannot find path "list/x". Object key "x" not found`,
		},
		{
			name:    "index on object",
			path:    field.Keys("foo").Append(field.Indexes(0)),
			failure: `Cannot find path "foo/0". Array index "0" not found`,
		},
		{
			name:    "short circuits at first failing segment",
			path:    field.Keys("nope", "foo", "bar"),
			failure: `Cannot find path "nope/foo/bar". Object key "nope" not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.path.Get(root)
			if tt.failure != "" {
				require.True(t, got.IsFailure(), "got %v", got)
				assert.Equal(t, tt.failure, got.Reason())
				return
			}
			require.True(t, got.IsSuccess(), got.Reason())
			assert.True(t, value.Equal(tt.want, got.Get()), "got %v", got.Get())
		})
	}
}

func TestPathString(t *testing.T) {
	t.Parallel()

	p := field.Keys("a", "b").Append(field.Indexes(0))
	assert.Equal(t, "a/b/0", p.String())
	assert.Equal(t, 3, p.Len())
	assert.False(t, p.IsEmpty())
	assert.True(t, field.NewPath().IsEmpty())
	assert.Equal(t, "", field.NewPath().String())
}

func TestFieldComposition(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := obj(
		"ref", value.NewRef("1", value.CollectionRef("spells"), nil),
		"data", obj(
			"name", value.String("Fire Beak"),
			"cost", value.Long(15),
			"ratio", value.Double(0.5),
			"active", value.Boolean(true),
			"cast", value.Time(ts),
			"day", value.DateOf(2024, time.January, 2),
			"raw", value.Bytes([]byte{1}),
		),
	)

	data := field.ObjKey("data")

	assert.Equal(t, "Fire Beak", field.At(data, field.To(field.ObjKey("name"), field.AsString)).Get(doc).Get())
	assert.Equal(t, int64(15), field.To(field.ObjKey("data", "cost"), field.AsLong).Get(doc).Get())
	assert.Equal(t, 0.5, field.To(field.ObjKey("data", "ratio"), field.AsDouble).Get(doc).Get())
	assert.True(t, field.To(field.ObjKey("data", "active"), field.AsBool).Get(doc).Get())
	assert.Equal(t, ts, field.To(field.ObjKey("data", "cast"), field.AsTime).Get(doc).Get())
	assert.Equal(t, ts.Truncate(24*time.Hour), field.To(field.ObjKey("data", "day"), field.AsDate).Get(doc).Get())
	assert.Equal(t, []byte{1}, field.To(field.ObjKey("data", "raw"), field.AsBytes).Get(doc).Get())
	assert.Equal(t, "spells", field.To(field.ObjKey("ref"), field.AsRef).Get(doc).Get().Collection().ID())

	nested := field.At(data, field.ObjKey("name"))
	assert.Equal(t, "data/name", nested.Path().String())

	mismatch := field.To(field.ObjKey("data"), field.AsArray).Get(doc)
	assert.Equal(t, "Cannot convert ObjectV to ArrayV", mismatch.Reason())

	upper := field.Map(field.To(field.ObjKey("data", "cost"), field.AsLong), func(n int64) int64 { return n * 2 })
	assert.Equal(t, int64(30), upper.Get(doc).Get())

	missing := field.To(field.ObjKey("data", "nope"), field.AsString).Get(doc)
	assert.Equal(t, `Cannot find path "data/nope". Object key "nope" not found`, missing.Reason())

	assert.True(t, value.Equal(doc, field.Root().Get(doc).Get()))
}

func TestFieldIsReusable(t *testing.T) {
	t.Parallel()

	name := field.To(field.ObjKey("name"), field.AsString)
	for _, n := range []string{"a", "b", "c"} {
		assert.Equal(t, n, name.Get(obj("name", value.String(n))).Get())
	}
}

func TestCollect(t *testing.T) {
	t.Parallel()

	names := field.Collect(field.ObjKey("items"), field.To(field.ObjKey("name"), field.AsString))

	t.Run("all succeed", func(t *testing.T) {
		t.Parallel()

		doc := obj("items", value.Array(
			obj("name", value.String("a")),
			obj("name", value.String("b")),
		))
		assert.Equal(t, []string{"a", "b"}, names.Get(doc).Get())
	})

	t.Run("empty array", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{}, names.Get(obj("items", value.Array())).Get())
	})

	t.Run("reports every failing index", func(t *testing.T) {
		t.Parallel()

		doc := obj("items", value.Array(
			obj("name", value.String("a")),
			obj("name", value.String("b")),
			obj("other", value.String("c")),
			obj("name", value.String("d")),
			obj("name", value.Long(5)),
		))
		got := names.Get(doc)
		require.True(t, got.IsFailure())
		assert.Equal(t,
			`Failed to collect values: index 2: Cannot find path "name". Object key "name" not found; index 4: Cannot convert LongV to StringV`,
			got.Reason())
		assert.Contains(t, got.Reason(), "index 2")
		assert.Contains(t, got.Reason(), "index 4")
	})

	t.Run("percent signs in reasons", func(t *testing.T) {
		t.Parallel()

		rates := field.Collect(field.ObjKey("items"), field.To(field.ObjKey("50%"), field.AsLong))
		got := rates.Get(obj("items", value.Array(obj())))
		assert.Equal(t,
			`Failed to collect values: index 0: Cannot find path "50%". Object key "50%" not found`,
			got.Reason())
	})

	t.Run("not an array", func(t *testing.T) {
		t.Parallel()

		got := names.Get(obj("items", value.Long(1)))
		assert.Equal(t, "Cannot convert LongV to ArrayV", got.Reason())
	})

	t.Run("missing array", func(t *testing.T) {
		t.Parallel()

		got := names.Get(obj())
		assert.Equal(t, `Cannot find path "items". Object key "items" not found`, got.Reason())
	})
}
