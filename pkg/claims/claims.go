package claims

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Registered claim names (RFC 7519, section 4.1)
const (
	NameIssuer    = "iss"
	NameSubject   = "sub"
	NameAudience  = "aud"
	NameExpiresAt = "exp"
	NameNotBefore = "nbf"
	NameIssuedAt  = "iat"
	NameID        = "jti"
)

type entry struct {
	name  string
	value Value
}

// Set is an ordered mapping from claim name to value.
// A Set is not safe for concurrent mutation; once built it may be shared
// freely between encoders.
type Set struct {
	entries []entry
	index   map[string]int
}

// New returns an empty claim set
func New() *Set {
	return &Set{index: make(map[string]int)}
}

// Put sets the claim name to v. An existing claim keeps its position.
func (s *Set) Put(name string, v Value) *Set {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[name]; ok {
		s.entries[i].value = v
		return s
	}
	s.index[name] = len(s.entries)
	s.entries = append(s.entries, entry{name: name, value: v})
	return s
}

// Get returns the value stored under name
func (s *Set) Get(name string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return Value{}, false
	}
	return s.entries[i].value, true
}

// Delete removes name from the set, keeping the order of the remaining claims
func (s *Set) Delete(name string) {
	if s == nil {
		return
	}
	i, ok := s.index[name]
	if !ok {
		return
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	delete(s.index, name)
	for j := i; j < len(s.entries); j++ {
		s.index[s.entries[j].name] = j
	}
}

// Len returns the number of claims
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Names returns the claim names in insertion order
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.name
	}
	return names
}

// Range calls fn for each claim in order until fn returns false
func (s *Set) Range(fn func(name string, v Value) bool) {
	if s == nil {
		return
	}
	for _, e := range s.entries {
		if !fn(e.name, e.value) {
			return
		}
	}
}

// Clone returns a copy of the set that can be modified independently
func (s *Set) Clone() *Set {
	c := New()
	s.Range(func(name string, v Value) bool {
		c.Put(name, v)
		return true
	})
	return c
}

// Issuer sets the "iss" claim
func (s *Set) Issuer(iss string) *Set { return s.Put(NameIssuer, String(iss)) }

// Subject sets the "sub" claim
func (s *Set) Subject(sub string) *Set { return s.Put(NameSubject, String(sub)) }

// Audience sets the "aud" claim. A single audience is emitted as a string,
// several as an array.
func (s *Set) Audience(aud ...string) *Set {
	if len(aud) == 1 {
		return s.Put(NameAudience, String(aud[0]))
	}
	return s.Put(NameAudience, Strings(aud...))
}

// ExpiresAt sets the "exp" claim
func (s *Set) ExpiresAt(t time.Time) *Set { return s.Put(NameExpiresAt, Time(t)) }

// NotBefore sets the "nbf" claim
func (s *Set) NotBefore(t time.Time) *Set { return s.Put(NameNotBefore, Time(t)) }

// IssuedAt sets the "iat" claim
func (s *Set) IssuedAt(t time.Time) *Set { return s.Put(NameIssuedAt, Time(t)) }

// ID sets the "jti" claim
func (s *Set) ID(jti string) *Set { return s.Put(NameID, String(jti)) }

// Serialize renders the set as compact JSON with keys in insertion order.
// A nil or empty set yields "{}".
func (s *Set) Serialize() ([]byte, error) {
	buf := make([]byte, 0, 16*(s.Len()+1))
	buf = append(buf, '{')
	for i, e := range s.entriesOrNil() {
		if i > 0 {
			buf = append(buf, ',')
		}
		name, err := json.Marshal(e.name)
		if err != nil {
			return nil, fmt.Errorf("%w: claim name %q: %v", ErrEncoding, e.name, err)
		}
		buf = append(buf, name...)
		buf = append(buf, ':')
		if buf, err = e.value.appendJSON(buf); err != nil {
			return nil, fmt.Errorf("claim %q: %w", e.name, err)
		}
	}
	return append(buf, '}'), nil
}

// MarshalJSON implements json.Marshaler
func (s *Set) MarshalJSON() ([]byte, error) {
	return s.Serialize()
}

func (s *Set) entriesOrNil() []entry {
	if s == nil {
		return nil
	}
	return s.entries
}
