package value

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-json-experiment/json/jsontext"
)

// Unmarshal decodes a single JSON document into a Value.
func Unmarshal(b []byte) (Value, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(b))
	v, err := Read(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("failed to read end of input: %w", err)
		}
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

// Read decodes the next JSON value from dec.
func Read(dec *jsontext.Decoder) (Value, error) {
	return readValue(dec)
}

func readValue(dec *jsontext.Decoder) (Value, error) {
	switch dec.PeekKind() {
	case '[':
		return readArray(dec)
	case '{':
		return readObject(dec)
	case '0':
		raw, err := dec.ReadValue()
		if err != nil {
			return nil, fmt.Errorf("failed to read number: %w", err)
		}
		return parseNumber(string(raw))
	}

	tok, err := dec.ReadToken()
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	switch tok.Kind() {
	case 'n':
		return NullV{}, nil
	case 't', 'f':
		return BooleanV(tok.Bool()), nil
	case '"':
		return StringV(tok.String()), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok.Kind())
	}
}

func parseNumber(s string) (Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return LongV(n), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse number %s: %w", s, err)
	}
	return DoubleV(f), nil
}

func readArray(dec *jsontext.Decoder) (Value, error) {
	if _, err := dec.ReadToken(); err != nil {
		return nil, fmt.Errorf("failed to read array start token: %w", err)
	}
	elems := []Value{}
	for dec.PeekKind() != ']' {
		v, err := readValue(dec)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, fmt.Errorf("failed to read array end token: %w", err)
	}
	return ArrayV{elems: elems}, nil
}

// readObject reads a JSON object, specializing it when its only key is a
// reserved tag.
func readObject(dec *jsontext.Decoder) (Value, error) {
	if _, err := dec.ReadToken(); err != nil {
		return nil, fmt.Errorf("failed to read object start token: %w", err)
	}
	if dec.PeekKind() == '}' {
		_, err := dec.ReadToken()
		return ObjectV{fields: map[string]Value{}}, err
	}

	tok, err := dec.ReadToken()
	if err != nil {
		return nil, fmt.Errorf("failed to read object key: %w", err)
	}
	key := tok.String()

	var first Value
	if key == TagObj || key == TagSet {
		// The content of a sole @obj or @set key is a literal mapping: its
		// own keys are not tags, though its values are read normally. Whether
		// the key is the only one is known after its value, so the value is
		// buffered.
		var raw jsontext.Value
		if raw, err = dec.ReadValue(); err != nil {
			return nil, fmt.Errorf("failed to read value of %s: %w", key, err)
		}
		raw = append(jsontext.Value(nil), raw...)
		sole := dec.PeekKind() == '}'

		sub := jsontext.NewDecoder(bytes.NewReader(raw))
		if sole {
			first, err = readLiteral(sub)
		} else {
			first, err = readValue(sub)
		}
	} else {
		first, err = readValue(dec)
	}
	if err != nil {
		return nil, err
	}

	if IsReservedTag(key) && dec.PeekKind() == '}' {
		if _, err := dec.ReadToken(); err != nil {
			return nil, fmt.Errorf("failed to read object end token: %w", err)
		}
		return specialize(key, first)
	}

	fields := map[string]Value{key: first}
	if err := readFields(dec, fields); err != nil {
		return nil, err
	}
	return ObjectV{fields: fields}, nil
}

// readLiteral reads an object without tag specialization of its own keys.
// Non-objects are read normally.
func readLiteral(dec *jsontext.Decoder) (Value, error) {
	if dec.PeekKind() != '{' {
		return readValue(dec)
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, fmt.Errorf("failed to read object start token: %w", err)
	}
	fields := map[string]Value{}
	if err := readFields(dec, fields); err != nil {
		return nil, err
	}
	return ObjectV{fields: fields}, nil
}

// readFields reads key/value pairs up to and including the closing brace.
func readFields(dec *jsontext.Decoder, fields map[string]Value) error {
	for dec.PeekKind() != '}' {
		tok, err := dec.ReadToken()
		if err != nil {
			return fmt.Errorf("failed to read object key: %w", err)
		}
		if tok.Kind() != '"' {
			return fmt.Errorf("unexpected object key token %v", tok.Kind())
		}
		key := tok.String()
		v, err := readValue(dec)
		if err != nil {
			return err
		}
		fields[key] = v
	}
	if _, err := dec.ReadToken(); err != nil {
		return fmt.Errorf("failed to read object end token: %w", err)
	}
	return nil
}

func specialize(tag string, content Value) (Value, error) {
	switch tag {
	case TagObj:
		if o, ok := content.(ObjectV); ok {
			return o, nil
		}
		return nil, ErrInvalidTag{Tag: tag, Reason: "expected an object, found " + content.Kind().String()}

	case TagSet:
		if o, ok := content.(ObjectV); ok {
			return SetRefV{params: o.fields}, nil
		}
		return nil, ErrInvalidTag{Tag: tag, Reason: "expected an object, found " + content.Kind().String()}

	case TagRef:
		return parseRef(content)

	case TagQuery:
		return QueryV{expr: content}, nil
	}

	s, ok := content.(StringV)
	if !ok {
		return nil, ErrInvalidTag{Tag: tag, Reason: "expected a string, found " + content.Kind().String()}
	}
	switch tag {
	case TagTime:
		return ParseTime(string(s))
	case TagDate:
		return ParseDate(string(s))
	case TagBytes:
		return ParseBytes(string(s))
	}
	return nil, ErrInvalidTag{Tag: tag, Reason: "unknown tag"}
}

// parseRef accepts a bare built-in collection name or the structural form
// {"id": ..., "collection": ..., "database": ...}.
func parseRef(content Value) (Value, error) {
	switch c := content.(type) {
	case StringV:
		return NewRef(string(c), nil, nil), nil

	case ObjectV:
		id, ok := c.fields["id"].(StringV)
		if !ok {
			return nil, ErrInvalidTag{Tag: TagRef, Reason: `missing string "id"`}
		}
		collection, err := optionalRef(c, "collection")
		if err != nil {
			return nil, err
		}
		database, err := optionalRef(c, "database")
		if err != nil {
			return nil, err
		}
		return NewRef(string(id), collection, database), nil
	}
	return nil, ErrInvalidTag{Tag: TagRef, Reason: "expected a string or an object, found " + content.Kind().String()}
}

func optionalRef(o ObjectV, key string) (*RefV, error) {
	v, ok := o.fields[key]
	if !ok {
		return nil, nil
	}
	switch r := v.(type) {
	case *RefV:
		return r, nil
	case NullV:
		return nil, nil
	}
	return nil, ErrInvalidTag{Tag: TagRef, Reason: fmt.Sprintf("%q must be a reference, found %s", key, v.Kind())}
}

// ParseTime parses an ISO-8601 UTC timestamp. The 'Z' suffix is required.
func ParseTime(s string) (TimeV, error) {
	if !strings.HasSuffix(s, "Z") {
		return TimeV{}, ErrInvalidTag{Tag: TagTime, Reason: fmt.Sprintf("%q is not in UTC", s)}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return TimeV{}, ErrInvalidTag{Tag: TagTime, Reason: err.Error()}
	}
	return Time(t), nil
}

// ParseDate parses an ISO calendar date (yyyy-MM-dd).
func ParseDate(s string) (DateV, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return DateV{}, ErrInvalidTag{Tag: TagDate, Reason: err.Error()}
	}
	return DateV{t: t}, nil
}

// ParseBytes decodes URL-safe base64, padded or not. The standard alphabet
// is accepted as well.
func ParseBytes(s string) (BytesV, error) {
	s = strings.NewReplacer("+", "-", "/", "_").Replace(s)
	enc := base64.URLEncoding
	if len(s)%4 != 0 {
		enc = base64.RawURLEncoding
	}
	b, err := enc.DecodeString(s)
	if err != nil {
		return BytesV{}, ErrInvalidTag{Tag: TagBytes, Reason: err.Error()}
	}
	return BytesV{data: string(b)}, nil
}
