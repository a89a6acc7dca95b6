package value

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// JSONOptions returns options that let [json.Marshal] and [json.Unmarshal]
// handle Value fields anywhere inside a Go value.
func JSONOptions(mode Mode) json.Options {
	return json.JoinOptions(
		json.WithMarshalers(
			MarshalFunc(mode),
		),
		json.WithUnmarshalers(
			UnmarshalFunc(),
		),
	)
}

// MarshalFunc creates a [json.MarshalFuncV2] which intercepts marshaling of
// Values and writes their wire form in the given mode.
//
// The JSON v2 experiment applies marshalers registered for an interface to
// every type implementing it, so this covers both fields declared as Value
// and fields of a concrete variant such as *RefV.
func MarshalFunc(mode Mode) *json.Marshalers {
	marshalFunc := func(enc *jsontext.Encoder, v Value, _ json.Options) error {
		return writeValue(enc, v, mode)
	}
	return json.MarshalFuncV2(marshalFunc)
}

// UnmarshalFunc creates a [json.UnmarshalFuncV2] which decodes the wire form
// into Value fields.
func UnmarshalFunc() *json.Unmarshalers {
	unmarshalFunc := func(dec *jsontext.Decoder, ptr *Value, _ json.Options) error {
		v, err := readValue(dec)
		if err != nil {
			return err
		}
		*ptr = v
		return nil
	}
	return json.UnmarshalFuncV2(unmarshalFunc)
}
