package docvalue

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/dhoelle/docvalue/value"
)

// JSONOptions returns options under which [json.Marshal] and
// [json.Unmarshal] write and read values of type T in the wire form, with
// r converting between T and [value.Value]. Value fields elsewhere in the
// marshaled data are handled as well.
func JSONOptions[T any](r *Registry, mode value.Mode) json.Options {
	return json.JoinOptions(
		json.WithMarshalers(
			json.NewMarshalers(MarshalFunc[T](r, mode), value.MarshalFunc(mode)),
		),
		json.WithUnmarshalers(
			json.NewUnmarshalers(UnmarshalFunc[T](r), value.UnmarshalFunc()),
		),
	)
}

// MarshalFunc creates a [json.MarshalFuncV2] which intercepts marshaling of
// values of type T, encodes them with r and writes the result in the given
// mode.
func MarshalFunc[T any](r *Registry, mode value.Mode) *json.Marshalers {
	marshalFunc := func(enc *jsontext.Encoder, t T, _ json.Options) error {
		// T may be an interface that a Value also satisfies; those are
		// left to value.MarshalFunc.
		if _, ok := any(t).(value.Value); ok {
			return json.SkipFunc
		}

		v, err := r.Encode(t)
		if err != nil {
			return fmt.Errorf("failed to encode %T: %w", t, err)
		}
		return value.Write(enc, v, mode)
	}
	return json.MarshalFuncV2(marshalFunc)
}

// UnmarshalFunc creates a [json.UnmarshalFuncV2] which reads the wire form
// and decodes it into values of type T with r.
func UnmarshalFunc[T any](r *Registry) *json.Unmarshalers {
	unmarshalFunc := func(dec *jsontext.Decoder, ptr *T, _ json.Options) error {
		v, err := value.Read(dec)
		if err != nil {
			return err
		}
		return r.Decode(v, ptr)
	}
	return json.UnmarshalFuncV2(unmarshalFunc)
}
