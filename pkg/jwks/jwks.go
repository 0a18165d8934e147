package jwks

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/goccy/go-json"
)

// ErrUnsupportedKey is returned for keys that have no public JWK form
var ErrUnsupportedKey = errors.New("unsupported key type")

// KeyType is the JWK "kty" member
type KeyType string

const (
	KeyTypeRSA KeyType = "RSA"
	KeyTypeEC  KeyType = "EC"
)

// Key is a public JSON Web Key
type Key struct {
	KeyType   KeyType `json:"kty"`
	Use       string  `json:"use,omitempty"`
	Algorithm string  `json:"alg,omitempty"`
	KeyID     string  `json:"kid,omitempty"`

	// RSA
	N string `json:"n,omitempty"`
	E string `json:"e,omitempty"`

	// EC
	Curve string `json:"crv,omitempty"`
	X     string `json:"x,omitempty"`
	Y     string `json:"y,omitempty"`
}

// FromPublicKey builds a signing JWK from an RSA or EC public key. Private
// keys are reduced to their public half.
func FromPublicKey(pub interface{}, kid, alg string) (Key, error) {
	switch k := pub.(type) {
	case *rsa.PrivateKey:
		pub = &k.PublicKey
	case *ecdsa.PrivateKey:
		pub = &k.PublicKey
	}

	key := Key{Use: "sig", Algorithm: alg, KeyID: kid}
	switch k := pub.(type) {
	case *rsa.PublicKey:
		key.KeyType = KeyTypeRSA
		key.N = encode(k.N.Bytes())
		key.E = encode(big.NewInt(int64(k.E)).Bytes())
	case *ecdsa.PublicKey:
		size := (k.Curve.Params().BitSize + 7) / 8
		key.KeyType = KeyTypeEC
		key.Curve = k.Curve.Params().Name
		key.X = encode(k.X.FillBytes(make([]byte, size)))
		key.Y = encode(k.Y.FillBytes(make([]byte, size)))
	default:
		return Key{}, fmt.Errorf("%w: %T", ErrUnsupportedKey, pub)
	}
	return key, nil
}

// PublicKey decodes the JWK back into an *rsa.PublicKey or *ecdsa.PublicKey
func (k Key) PublicKey() (interface{}, error) {
	switch k.KeyType {
	case KeyTypeRSA:
		n, err := decode(k.N)
		if err != nil {
			return nil, err
		}
		e, err := decode(k.E)
		if err != nil {
			return nil, err
		}
		return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
	case KeyTypeEC:
		var curve elliptic.Curve
		switch k.Curve {
		case "P-256":
			curve = elliptic.P256()
		case "P-384":
			curve = elliptic.P384()
		case "P-521":
			curve = elliptic.P521()
		default:
			return nil, fmt.Errorf("%w: curve %q", ErrUnsupportedKey, k.Curve)
		}
		x, err := decode(k.X)
		if err != nil {
			return nil, err
		}
		y, err := decode(k.Y)
		if err != nil {
			return nil, err
		}
		return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
	}
	return nil, fmt.Errorf("%w: kty %q", ErrUnsupportedKey, k.KeyType)
}

// Set is a JWK Set. It is safe for concurrent use.
type Set struct {
	sync.RWMutex
	keys map[string]Key
}

// NewSet creates an empty set
func NewSet() *Set {
	return &Set{keys: make(map[string]Key)}
}

// Add stores key under its key ID, replacing any key with the same ID
func (s *Set) Add(key Key) error {
	if key.KeyID == "" {
		return errors.New("key ID is required")
	}
	s.Lock()
	defer s.Unlock()
	s.keys[key.KeyID] = key
	return nil
}

// Lookup returns the key with the given ID
func (s *Set) Lookup(kid string) (Key, bool) {
	s.RLock()
	defer s.RUnlock()
	key, ok := s.keys[kid]
	return key, ok
}

// Len returns the number of keys in the set
func (s *Set) Len() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.keys)
}

// Marshal returns the set as a JWK Set document, keys sorted by ID
func (s *Set) Marshal() ([]byte, error) {
	s.RLock()
	keys := make([]Key, 0, len(s.keys))
	for _, key := range s.keys {
		keys = append(keys, key)
	}
	s.RUnlock()

	sort.Slice(keys, func(i, j int) bool { return keys[i].KeyID < keys[j].KeyID })

	data, err := json.MarshalIndent(struct {
		Keys []Key `json:"keys"`
	}{keys}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key set: %w", err)
	}
	return data, nil
}

// Unmarshal parses a JWK Set document
func Unmarshal(data []byte) (*Set, error) {
	var doc struct {
		Keys []Key `json:"keys"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse key set: %w", err)
	}

	set := NewSet()
	for _, key := range doc.Keys {
		if err := set.Add(key); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decode(s string) (*big.Int, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid key member: %w", err)
	}
	return new(big.Int).SetBytes(b), nil
}
