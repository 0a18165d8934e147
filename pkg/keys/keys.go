package keys

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedKey is returned when PEM text cannot be parsed into a supported private key
var ErrMalformedKey = errors.New("malformed key")

// Secret is an HMAC shared secret
type Secret []byte

// PEM is PEM-encoded private key text
type PEM []byte

// ParsePrivateKey parses an RSA (PKCS#1 or PKCS#8) or EC (SEC 1 or PKCS#8)
// private key from PEM text
func ParsePrivateKey(data []byte) (crypto.Signer, error) {
	rsaKey, rsaErr := jwt.ParseRSAPrivateKeyFromPEM(data)
	if rsaErr == nil {
		return rsaKey, nil
	}
	if errors.Is(rsaErr, jwt.ErrKeyMustBePEMEncoded) {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, rsaErr)
	}

	ecKey, ecErr := jwt.ParseECPrivateKeyFromPEM(data)
	if ecErr == nil {
		return ecKey, nil
	}
	return nil, fmt.Errorf("%w: not an RSA (%v) or EC (%v) private key", ErrMalformedKey, rsaErr, ecErr)
}

// PublicKey returns the key that verifies signatures made with key. HMAC
// secrets are their own verification key.
func PublicKey(key interface{}) (interface{}, error) {
	switch k := key.(type) {
	case nil:
		return nil, nil
	case *rsa.PrivateKey:
		return &k.PublicKey, nil
	case *ecdsa.PrivateKey:
		return &k.PublicKey, nil
	case Secret:
		return []byte(k), nil
	case []byte:
		return k, nil
	case string:
		return []byte(k), nil
	case *rsa.PublicKey, *ecdsa.PublicKey:
		return k, nil
	}
	return nil, fmt.Errorf("no public key for %T", key)
}
