package value

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"

	"github.com/go-json-experiment/json/jsontext"
)

// Mode selects how data objects are written.
type Mode int

const (
	// DataMode writes objects literally, escaping an object whose only key
	// is a reserved tag as {"@obj": {...}}. Output reads back to an equal
	// Value.
	DataMode Mode = iota

	// ParamMode wraps every data object as {"object": {...}}, which is how
	// literal objects are passed to the server as query parameters.
	ParamMode

	// exprMode writes objects as bare JSON objects, never wrapped, escaping
	// only those whose sole key is a reserved tag. Used for query
	// expressions and set parameters, which are syntax rather than data.
	exprMode
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case DataMode:
		return "data"
	case ParamMode:
		return "param"
	case exprMode:
		return "expr"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Marshal encodes v as JSON.
func Marshal(v Value, mode Mode) ([]byte, error) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf)
	if err := Write(enc, v, mode); err != nil {
		return nil, err
	}
	// The encoder terminates each top-level value with a newline.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Write encodes v to enc.
func Write(enc *jsontext.Encoder, v Value, mode Mode) error {
	return writeValue(enc, v, mode)
}

func writeValue(enc *jsontext.Encoder, v Value, mode Mode) error {
	switch v := normalize(v).(type) {
	case NullV:
		return enc.WriteToken(jsontext.Null)

	case BooleanV:
		return enc.WriteToken(jsontext.Bool(bool(v)))

	case LongV:
		return enc.WriteToken(jsontext.Int(int64(v)))

	case DoubleV:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("cannot write %v: not representable in JSON", f)
		}
		return enc.WriteValue(jsontext.Value(formatDouble(f)))

	case StringV:
		return enc.WriteToken(jsontext.String(string(v)))

	case BytesV:
		return writeTagged(enc, TagBytes, func() error {
			return enc.WriteToken(jsontext.String(base64.URLEncoding.EncodeToString([]byte(v.data))))
		})

	case TimeV:
		return writeTagged(enc, TagTime, func() error {
			return enc.WriteToken(jsontext.String(v.Format()))
		})

	case DateV:
		return writeTagged(enc, TagDate, func() error {
			return enc.WriteToken(jsontext.String(v.Format()))
		})

	case *RefV:
		return writeRef(enc, v)

	case SetRefV:
		return writeTagged(enc, TagSet, func() error {
			return writeFields(enc, v.params, exprMode)
		})

	case ArrayV:
		if err := enc.WriteToken(jsontext.ArrayStart); err != nil {
			return fmt.Errorf("failed to write array start token: %w", err)
		}
		for i, e := range v.elems {
			if err := writeValue(enc, e, mode); err != nil {
				return fmt.Errorf("failed to write array element %d: %w", i, err)
			}
		}
		if err := enc.WriteToken(jsontext.ArrayEnd); err != nil {
			return fmt.Errorf("failed to write array end token: %w", err)
		}
		return nil

	case ObjectV:
		return writeObject(enc, v, mode)

	case QueryV:
		return writeTagged(enc, TagQuery, func() error {
			return writeValue(enc, v.Expr(), exprMode)
		})
	}
	return fmt.Errorf("cannot write value of type %T", v)
}

func writeObject(enc *jsontext.Encoder, o ObjectV, mode Mode) error {
	switch mode {
	case ParamMode:
		return writeTagged(enc, objectWrapperKey, func() error {
			return writeFields(enc, o.fields, mode)
		})
	case DataMode, exprMode:
		if len(o.fields) == 1 {
			for k := range o.fields {
				if IsReservedTag(k) {
					return writeTagged(enc, TagObj, func() error {
						return writeFields(enc, o.fields, mode)
					})
				}
			}
		}
	}
	return writeFields(enc, o.fields, mode)
}

// writeFields writes m as a bare JSON object with sorted keys.
func writeFields(enc *jsontext.Encoder, m map[string]Value, mode Mode) error {
	if err := enc.WriteToken(jsontext.ObjectStart); err != nil {
		return fmt.Errorf("failed to write object start token: %w", err)
	}
	for _, k := range sortedKeys(m) {
		if err := enc.WriteToken(jsontext.String(k)); err != nil {
			return fmt.Errorf("failed to write key token %s: %w", k, err)
		}
		if err := writeValue(enc, m[k], mode); err != nil {
			return fmt.Errorf("failed to write value of %s: %w", k, err)
		}
	}
	if err := enc.WriteToken(jsontext.ObjectEnd); err != nil {
		return fmt.Errorf("failed to write object end token: %w", err)
	}
	return nil
}

// writeRef writes the structural form, omitting absent scopes.
func writeRef(enc *jsontext.Encoder, r *RefV) error {
	return writeTagged(enc, TagRef, func() error {
		if err := enc.WriteToken(jsontext.ObjectStart); err != nil {
			return fmt.Errorf("failed to write object start token: %w", err)
		}
		if err := enc.WriteToken(jsontext.String("id")); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.String(r.id)); err != nil {
			return err
		}
		if r.collection != nil {
			if err := enc.WriteToken(jsontext.String("collection")); err != nil {
				return err
			}
			if err := writeRef(enc, r.collection); err != nil {
				return err
			}
		}
		if r.database != nil {
			if err := enc.WriteToken(jsontext.String("database")); err != nil {
				return err
			}
			if err := writeRef(enc, r.database); err != nil {
				return err
			}
		}
		if err := enc.WriteToken(jsontext.ObjectEnd); err != nil {
			return fmt.Errorf("failed to write object end token: %w", err)
		}
		return nil
	})
}

// writeTagged writes {"<key>": <content>}.
func writeTagged(enc *jsontext.Encoder, key string, content func() error) error {
	if err := enc.WriteToken(jsontext.ObjectStart); err != nil {
		return fmt.Errorf("failed to write object start token: %w", err)
	}
	if err := enc.WriteToken(jsontext.String(key)); err != nil {
		return fmt.Errorf("failed to write key token %s: %w", key, err)
	}
	if err := content(); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.ObjectEnd); err != nil {
		return fmt.Errorf("failed to write object end token: %w", err)
	}
	return nil
}
