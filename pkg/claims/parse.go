package claims

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// ErrInvalidJSON is returned by Parse for input that is not a JSON object
var ErrInvalidJSON = errors.New("claims must be a JSON object")

// Parse builds a Set from a JSON object, keeping the object's key order.
// Strings, integers and arrays of strings map to their typed kinds; any other
// value is kept as Raw JSON text.
func Parse(data []byte) (*Set, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrInvalidJSON
	}

	set := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, ErrInvalidJSON
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: claim %q: %v", ErrInvalidJSON, name, err)
		}
		set.Put(name, valueFromJSON(raw))
	}

	tok, err = dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '}' {
		return nil, ErrInvalidJSON
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidJSON)
	}

	return set, nil
}

func valueFromJSON(raw json.RawMessage) Value {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Raw(raw)
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return String(s)
		}
	case '[':
		var ss []string
		if err := json.Unmarshal(trimmed, &ss); err == nil {
			return Strings(ss...)
		}
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err == nil {
			if i, err := n.Int64(); err == nil {
				return Int(i)
			}
		}
	}

	return Raw(json.RawMessage(trimmed))
}
