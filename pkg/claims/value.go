package claims

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// ErrEncoding is returned when a claim value cannot be represented as JSON
var ErrEncoding = errors.New("claim value is not JSON-representable")

// Kind identifies the JSON shape of a claim value
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindStrings
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindStrings:
		return "strings"
	case KindRaw:
		return "raw"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a single claim value. The zero value is the empty string.
type Value struct {
	kind Kind
	str  string
	num  int64
	strs []string
	raw  interface{}
}

// String returns a string claim value
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Int returns an integer claim value
func Int(n int64) Value {
	return Value{kind: KindInt, num: n}
}

// Time returns a NumericDate claim value (seconds since the Unix epoch)
func Time(t time.Time) Value {
	return Int(t.Unix())
}

// Strings returns an array-of-strings claim value
func Strings(s ...string) Value {
	cp := make([]string, len(s))
	copy(cp, s)
	return Value{kind: KindStrings, strs: cp}
}

// Raw wraps an arbitrary Go value that is emitted through the JSON codec
// unchanged. It is the escape hatch for values whose type violates the
// claim's registered meaning.
func Raw(v interface{}) Value {
	return Value{kind: KindRaw, raw: v}
}

// Kind reports the value's kind
func (v Value) Kind() Kind {
	return v.kind
}

// Interface returns the value as a plain Go value
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindInt:
		return v.num
	case KindStrings:
		cp := make([]string, len(v.strs))
		copy(cp, v.strs)
		return cp
	case KindRaw:
		return v.raw
	}
	return v.str
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	return v.appendJSON(nil)
}

func (v Value) appendJSON(dst []byte) ([]byte, error) {
	switch v.kind {
	case KindInt:
		return strconv.AppendInt(dst, v.num, 10), nil
	case KindStrings:
		dst = append(dst, '[')
		for i, s := range v.strs {
			if i > 0 {
				dst = append(dst, ',')
			}
			b, err := json.Marshal(s)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
			}
			dst = append(dst, b...)
		}
		return append(dst, ']'), nil
	case KindRaw:
		b, err := json.Marshal(v.raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
		}
		return append(dst, b...), nil
	}
	b, err := json.Marshal(v.str)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return append(dst, b...), nil
}
