package docvalue_test

import (
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhoelle/docvalue"
	"github.com/dhoelle/docvalue/value"
)

type Potion struct {
	Name  string `doc:"name"`
	Doses int    `doc:"doses" default:"1"`
}

type Envelope struct {
	Potion Potion      `json:"potion"`
	Cost   value.Value `json:"cost"`
}

func TestJSONOptions(t *testing.T) {
	t.Parallel()

	r := docvalue.NewRegistry(nil)

	t.Run("marshal", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(Envelope{
			Potion: Potion{Name: "mend", Doses: 2},
			Cost:   value.Long(3),
		}, docvalue.JSONOptions[Potion](r, value.DataMode))
		require.NoError(t, err)
		assert.JSONEq(t, `{"potion":{"doses":2,"name":"mend"},"cost":3}`, string(b))
	})

	t.Run("marshal params", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(Envelope{
			Potion: Potion{Name: "mend"},
			Cost:   value.Null(),
		}, docvalue.JSONOptions[Potion](r, value.ParamMode))
		require.NoError(t, err)
		assert.JSONEq(t, `{"potion":{"object":{"doses":0,"name":"mend"}},"cost":null}`, string(b))
	})

	t.Run("unmarshal", func(t *testing.T) {
		t.Parallel()

		var env Envelope
		err := json.Unmarshal(
			[]byte(`{"potion":{"name":"brew"},"cost":{"@date":"2024-01-02"}}`),
			&env,
			docvalue.JSONOptions[Potion](r, value.DataMode),
		)
		require.NoError(t, err)
		assert.Equal(t, Potion{Name: "brew", Doses: 1}, env.Potion)
		assert.True(t, value.Equal(value.DateOf(2024, 1, 2), env.Cost), "got %v", env.Cost)
	})

	t.Run("unmarshal mismatch", func(t *testing.T) {
		t.Parallel()

		var env Envelope
		err := json.Unmarshal([]byte(`{"potion":[1]}`), &env, docvalue.JSONOptions[Potion](r, value.DataMode))
		assert.ErrorContains(t, err, "Cannot convert ArrayV to docvalue_test.Potion")
	})
}

func TestMarshalFuncEncodeError(t *testing.T) {
	t.Parallel()

	type Leaky struct {
		Drip chan int `doc:"drip"`
	}

	r := docvalue.NewRegistry(nil)
	_, err := json.Marshal(Leaky{}, json.WithMarshalers(docvalue.MarshalFunc[Leaky](r, value.DataMode)))
	assert.ErrorContains(t, err, "failed to encode docvalue_test.Leaky")
}
