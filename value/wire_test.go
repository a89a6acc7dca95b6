package value_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dhoelle/docvalue/value"
	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var valueComparer = cmp.Comparer(value.Equal)

func obj(kv ...any) value.ObjectV {
	m := map[string]value.Value{}
	for i := 0; i < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1].(value.Value)
	}
	return value.Object(m)
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	spells := value.CollectionRef("spells")

	tests := []struct {
		name string
		in   string
		want value.Value
	}{
		{"null", `null`, value.Null()},
		{"true", `true`, value.Boolean(true)},
		{"long", `-42`, value.Long(-42)},
		{"double", `1.5`, value.Double(1.5)},
		{"double with exponent", `1e3`, value.Double(1000)},
		{"double with zero fraction", `2.0`, value.Double(2)},
		{"integer beyond int64", `18446744073709551616`, value.Double(18446744073709551616)},
		{"string", `"hi"`, value.String("hi")},
		{"array", `[1, "a", null]`, value.Array(value.Long(1), value.String("a"), value.Null())},
		{"empty object", `{}`, value.Object(nil)},
		{"object", `{"a": 1, "b": {"c": true}}`, obj("a", value.Long(1), "b", obj("c", value.Boolean(true)))},
		{"bytes", `{"@bytes": "AQID"}`, value.Bytes([]byte{1, 2, 3})},
		{"bytes unpadded", `{"@bytes": "AQI"}`, value.Bytes([]byte{1, 2})},
		{"bytes url alphabet", `{"@bytes": "-_8"}`, value.Bytes([]byte{0xfb, 0xff})},
		{"timestamp", `{"@ts": "2024-01-02T03:04:05.1234567Z"}`, value.Time(time.Date(2024, 1, 2, 3, 4, 5, 123456700, time.UTC))},
		{"timestamp without fraction", `{"@ts": "1970-01-01T00:00:00Z"}`, value.Time(time.Unix(0, 0))},
		{"date", `{"@date": "1970-01-03"}`, value.DateOf(1970, time.January, 3)},
		{"native ref", `{"@ref": {"id": "collections"}}`, value.Collections},
		{"flat native ref", `{"@ref": "indexes"}`, value.Indexes},
		{
			"collection ref",
			`{"@ref": {"id": "spells", "collection": {"@ref": {"id": "collections"}}}}`,
			spells,
		},
		{
			"document ref in database",
			`{"@ref": {"id": "1", "collection": {"@ref": {"id": "spells", "collection": {"@ref": {"id": "collections"}}}},
			  "database": {"@ref": {"id": "db", "collection": {"@ref": {"id": "databases"}}}}}}`,
			value.NewRef("1", spells, value.NewRef("db", value.Databases, nil)),
		},
		{
			"set",
			`{"@set": {"match": {"@ref": {"id": "spells_by_element", "collection": {"@ref": {"id": "indexes"}}}}, "terms": "fire"}}`,
			value.SetRef(map[string]value.Value{
				"match": value.NewRef("spells_by_element", value.Indexes, nil),
				"terms": value.String("fire"),
			}),
		},
		{
			"set parameters are not specialized",
			`{"@set": {"@ts": "x"}}`,
			value.SetRef(map[string]value.Value{"@ts": value.String("x")}),
		},
		{"escaped object", `{"@obj": {"@ts": "not a time"}}`, obj("@ts", value.String("not a time"))},
		{"escaped nested values are read", `{"@obj": {"@ref": {"@ts": "2024-01-02T03:04:05Z"}}}`, obj("@ref", value.Time(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))},
		{
			"query",
			`{"@query": {"lambda": "x", "expr": {"add": [{"var": "x"}, 1]}}}`,
			value.Query(obj(
				"lambda", value.String("x"),
				"expr", obj("add", value.Array(obj("var", value.String("x")), value.Long(1))),
			)),
		},
		{
			"tag with siblings is a plain object",
			`{"@ts": "2024-01-02T03:04:05Z", "other": 1}`,
			obj("@ts", value.String("2024-01-02T03:04:05Z"), "other", value.Long(1)),
		},
		{"unreserved single key", `{"@other": 1}`, obj("@other", value.Long(1))},
		{
			"object with several keys",
			`{"name": "fire", "cost": 3, "tags": ["a"], "learned": {"@date": "2024-01-02"}}`,
			obj(
				"name", value.String("fire"),
				"cost", value.Long(3),
				"tags", value.Array(value.String("a")),
				"learned", value.DateOf(2024, time.January, 2),
			),
		},
		{
			"escape key beside other keys",
			`{"@obj": {"@obj": {"@ts": "x"}}, "b": 1}`,
			obj("@obj", obj("@ts", value.String("x")), "b", value.Long(1)),
		},
		{
			"set key beside other keys",
			`{"@set": {"@set": {"terms": 1}}, "b": 1}`,
			obj("@set", value.SetRef(map[string]value.Value{"terms": value.Long(1)}), "b", value.Long(1)),
		},
		{
			"escaped object in set parameters",
			`{"@set": {"terms": {"@obj": {"@ts": "x"}}}}`,
			value.SetRef(map[string]value.Value{"terms": obj("@ts", value.String("x"))}),
		},
		{
			"escaped object in query",
			`{"@query": {"@obj": {"@ref": "x"}}}`,
			value.Query(obj("@ref", value.String("x"))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := value.Unmarshal([]byte(tt.in))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got, valueComparer); diff != "" {
				t.Errorf("Unmarshal(%s) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestUnmarshalErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		tag  string
	}{
		{"timestamp without Z", `{"@ts": "2024-01-02T03:04:05+01:00"}`, value.TagTime},
		{"timestamp not a string", `{"@ts": 5}`, value.TagTime},
		{"bad date", `{"@date": "2024-13-01"}`, value.TagDate},
		{"bad bytes", `{"@bytes": "!!!"}`, value.TagBytes},
		{"ref without id", `{"@ref": {"collection": {"@ref": {"id": "collections"}}}}`, value.TagRef},
		{"ref with bad collection", `{"@ref": {"id": "x", "collection": 1}}`, value.TagRef},
		{"escaped non-object", `{"@obj": 1}`, value.TagObj},
		{"set non-object", `{"@set": [1]}`, value.TagSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := value.Unmarshal([]byte(tt.in))
			var tagErr value.ErrInvalidTag
			require.True(t, errors.As(err, &tagErr), "got %v", err)
			assert.Equal(t, tt.tag, tagErr.Tag)
		})
	}

	for _, in := range []string{``, `[1, 2`, `{"a": }`, `1 2`} {
		_, err := value.Unmarshal([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	spells := value.CollectionRef("spells")

	tests := []struct {
		name string
		in   value.Value
		mode value.Mode
		want string
	}{
		{"long", value.Long(7), value.DataMode, `7`},
		{"whole double keeps fraction", value.Double(2), value.DataMode, `2.0`},
		{"large double", value.Double(1e21), value.DataMode, `1e+21`},
		{"small double", value.Double(1.5e-7), value.DataMode, `1.5e-07`},
		{"timestamp seven digits", value.Time(time.Date(2024, 1, 2, 3, 4, 5, 120000000, time.UTC)), value.DataMode, `{"@ts":"2024-01-02T03:04:05.1200000Z"}`},
		{"date", value.DateOf(2024, time.February, 29), value.DataMode, `{"@date":"2024-02-29"}`},
		{"bytes", value.Bytes([]byte{0xfb, 0xff}), value.DataMode, `{"@bytes":"-_8="}`},
		{"native ref", value.Collections, value.DataMode, `{"@ref":{"id":"collections"}}`},
		{"ref", value.NewRef("1", spells, nil), value.ParamMode, `{"@ref":{"id":"1","collection":{"@ref":{"id":"spells","collection":{"@ref":{"id":"collections"}}}}}}`},
		{"data object", obj("b", value.Long(1), "a", value.Null()), value.DataMode, `{"a":null,"b":1}`},
		{"escaped object", obj("@ref", value.Long(1)), value.DataMode, `{"@obj":{"@ref":1}}`},
		{"param object", obj("add", value.Array(value.Long(1), value.Long(2))), value.ParamMode, `{"object":{"add":[1,2]}}`},
		{"nested param object", value.Array(obj("a", obj("b", value.Long(1)))), value.ParamMode, `[{"object":{"a":{"object":{"b":1}}}}]`},
		{
			"query is raw",
			value.Query(obj("lambda", value.String("x"), "expr", obj("var", value.String("x")))),
			value.ParamMode,
			`{"@query":{"expr":{"var":"x"},"lambda":"x"}}`,
		},
		{
			"set is raw",
			value.SetRef(map[string]value.Value{"match": value.Indexes, "terms": obj("a", value.Long(1))}),
			value.ParamMode,
			`{"@set":{"match":{"@ref":{"id":"indexes"}},"terms":{"a":1}}}`,
		},
		{"query escapes tag-only objects", value.Query(obj("@ref", value.String("x"))), value.DataMode, `{"@query":{"@obj":{"@ref":"x"}}}`},
		{
			"set escapes tag-only objects",
			value.SetRef(map[string]value.Value{"terms": obj("@ts", value.String("x"))}),
			value.ParamMode,
			`{"@set":{"terms":{"@obj":{"@ts":"x"}}}}`,
		},
		{"pointer to variant", ptr(value.Long(7)), value.DataMode, `7`},
		{"pointer to object", ptr(obj("a", value.Long(1))), value.ParamMode, `{"object":{"a":1}}`},
		{"nil pointer to variant", (*value.ObjectV)(nil), value.DataMode, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := value.Marshal(tt.in, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func ptr[V any](v V) *V { return &v }

func TestPointerVariants(t *testing.T) {
	t.Parallel()

	o := obj("a", value.Long(1))

	assert.True(t, value.Equal(o, &o))
	assert.True(t, value.Equal(value.Null(), (*value.LongV)(nil)))
	assert.False(t, value.Equal(value.Long(1), ptr(value.Long(2))))

	arr := value.Array(ptr(value.String("x")), &o)
	assert.Equal(t, value.Value(value.String("x")), arr.At(0))
	assert.IsType(t, value.ObjectV{}, arr.At(1))

	q := value.Query((*value.ArrayV)(nil))
	assert.Equal(t, value.Value(value.Null()), q.Expr())
}

func TestMarshalNonFiniteDouble(t *testing.T) {
	t.Parallel()

	_, err := value.Marshal(value.Array(value.Double(1), value.Double(posInf())), value.DataMode)
	assert.Error(t, err)
}

func posInf() float64 {
	zero := 0.0
	return 1 / zero
}

func TestBytesAlphabetBoundary(t *testing.T) {
	t.Parallel()

	for b := 0xf8; b <= 0xff; b++ {
		for _, in := range [][]byte{{byte(b)}, {byte(b), byte(b)}, {byte(b), byte(b), byte(b)}, {0x00, byte(b), 0x3e}} {
			data, err := value.Marshal(value.Bytes(in), value.DataMode)
			require.NoError(t, err)
			assert.NotContains(t, string(data), "+")
			assert.NotContains(t, string(data), "/")

			got, err := value.Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(t, in, got.(value.BytesV).Bytes())
		}
	}
}

func TestJSONOptions(t *testing.T) {
	t.Parallel()

	type envelope struct {
		Query  string      `json:"query"`
		Params value.Value `json:"params"`
	}

	in := envelope{
		Query:  "create",
		Params: obj("data", obj("name", value.String("fire")), "ref", value.CollectionRef("spells")),
	}

	b, err := json.Marshal(in, value.JSONOptions(value.ParamMode), json.Deterministic(true))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"query":"create","params":{"object":{"data":{"object":{"name":"fire"}},"ref":{"@ref":{"id":"spells","collection":{"@ref":{"id":"collections"}}}}}}}`,
		string(b))

	// json passes addressable fields as pointers to their variant
	type typed struct {
		Data  value.ObjectV `json:"data"`
		Count value.LongV   `json:"count"`
	}
	b, err = json.Marshal(typed{Data: obj("@ts", value.Long(1)), Count: 2}, value.JSONOptions(value.DataMode))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"@obj":{"@ts":1}},"count":2}`, string(b))
	b, err = json.Marshal(&typed{Count: 3}, value.JSONOptions(value.DataMode))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{},"count":3}`, string(b))

	var out envelope
	raw := []byte(`{"query":"get","params":{"@ts":"2024-01-02T03:04:05Z"}}`)
	require.NoError(t, json.Unmarshal(raw, &out, value.JSONOptions(value.DataMode)))
	assert.Equal(t, "get", out.Query)
	assert.True(t, value.Equal(value.Time(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)), out.Params))
}
