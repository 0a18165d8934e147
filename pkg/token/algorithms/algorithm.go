package algorithms

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"errors"
	"fmt"
)

var (
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrKeyMismatch          = errors.New("key does not match algorithm")
	ErrMissingKey           = errors.New("signing key is required")
)

// Algorithm is a JWS signature backend for one "alg" value
type Algorithm interface {
	// Name returns the algorithm name (e.g., "ES256", "RS256")
	Name() string

	// Hash returns the hash function used by the algorithm, zero for "none"
	Hash() crypto.Hash

	// Family returns the algorithm family
	Family() Family

	// TransitKeyTypes returns the Vault Transit key types able to produce
	// signatures for this algorithm
	TransitKeyTypes() []string

	// SigningParams returns algorithm-specific Vault signing parameters
	SigningParams() map[string]interface{}

	// KeyCheck validates that key can sign with this algorithm
	KeyCheck(key interface{}) error

	// Sign computes the raw JWS signature over the signing input
	Sign(input []byte, key interface{}) ([]byte, error)

	// Verify verifies the signature against the signing input
	Verify(input, signature []byte, key interface{}) error
}

// Family groups algorithms that share a signature scheme
type Family int

const (
	FamilyNone Family = iota
	FamilyHMAC
	FamilyRSA
	FamilyRSAPSS
	FamilyECDSA
)

func (f Family) String() string {
	switch f {
	case FamilyNone:
		return "none"
	case FamilyHMAC:
		return "HMAC"
	case FamilyRSA:
		return "RSASSA-PKCS1-v1_5"
	case FamilyRSAPSS:
		return "RSASSA-PSS"
	case FamilyECDSA:
		return "ECDSA"
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// KeyType represents supported key types
type KeyType int

const (
	KeyTypeNone KeyType = iota
	KeyTypeSecret
	KeyTypeRSA
	KeyTypeECDSA
)

// BaseAlgorithm provides common functionality for all algorithms
type BaseAlgorithm struct {
	name    string
	hash    crypto.Hash
	family  Family
	keyType KeyType
}

func (b *BaseAlgorithm) Name() string {
	return b.name
}

func (b *BaseAlgorithm) Hash() crypto.Hash {
	return b.hash
}

func (b *BaseAlgorithm) Family() Family {
	return b.family
}

func (b *BaseAlgorithm) SigningParams() map[string]interface{} {
	return map[string]interface{}{
		"hash_algorithm":       fmt.Sprintf("sha2-%d", b.hash.Size()*8),
		"marshaling_algorithm": "jws",
	}
}

// KeyCheck validates the key type for signing
func (b *BaseAlgorithm) KeyCheck(key interface{}) error {
	if isNilKey(key) {
		if b.keyType == KeyTypeNone {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrMissingKey, b.name)
	}

	switch b.keyType {
	case KeyTypeNone:
		return fmt.Errorf("%w: %s takes no key, got %T", ErrKeyMismatch, b.name, key)
	case KeyTypeSecret:
		if _, ok := key.([]byte); !ok {
			return fmt.Errorf("%w: %s requires a secret, got %T", ErrKeyMismatch, b.name, key)
		}
	case KeyTypeRSA:
		if _, ok := key.(*rsa.PrivateKey); !ok {
			return fmt.Errorf("%w: %s requires an RSA private key, got %T", ErrKeyMismatch, b.name, key)
		}
	case KeyTypeECDSA:
		if _, ok := key.(*ecdsa.PrivateKey); !ok {
			return fmt.Errorf("%w: %s requires an EC private key, got %T", ErrKeyMismatch, b.name, key)
		}
	}
	return nil
}

// isNilKey reports whether key is nil or a nil secret or private key
func isNilKey(key interface{}) bool {
	switch k := key.(type) {
	case nil:
		return true
	case []byte:
		return k == nil
	case *rsa.PrivateKey:
		return k == nil
	case *ecdsa.PrivateKey:
		return k == nil
	}
	return false
}

func (b *BaseAlgorithm) digest(input []byte) []byte {
	h := b.hash.New()
	h.Write(input)
	return h.Sum(nil)
}
