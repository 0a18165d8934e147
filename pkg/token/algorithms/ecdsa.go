package algorithms

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"math/big"
)

// ECDSAAlgorithm implements the Algorithm interface for ECDSA signatures.
// Signatures are the fixed-width concatenation R||S, not ASN.1 DER.
type ECDSAAlgorithm struct {
	BaseAlgorithm
	curve ellipticCurve
}

type ellipticCurve struct {
	name    string // P-256, P-384, P-521
	bitSize int
	keySize int // Size in bytes for R and S components
	curve   func() elliptic.Curve
}

var (
	// Predefined curves
	p256 = ellipticCurve{name: "P-256", bitSize: 256, keySize: 32, curve: elliptic.P256}
	p384 = ellipticCurve{name: "P-384", bitSize: 384, keySize: 48, curve: elliptic.P384}
	p521 = ellipticCurve{name: "P-521", bitSize: 521, keySize: 66, curve: elliptic.P521}
)

// NewECDSAAlgorithm creates a new ECDSA algorithm instance
func NewECDSAAlgorithm(name string, hash crypto.Hash, curve ellipticCurve) Algorithm {
	return &ECDSAAlgorithm{
		BaseAlgorithm: BaseAlgorithm{
			name:    name,
			hash:    hash,
			family:  FamilyECDSA,
			keyType: KeyTypeECDSA,
		},
		curve: curve,
	}
}

// CurveName returns the curve the algorithm is bound to
func (e *ECDSAAlgorithm) CurveName() string {
	return e.curve.name
}

// SignatureSize returns the length of an R||S signature in bytes
func (e *ECDSAAlgorithm) SignatureSize() int {
	return 2 * e.curve.keySize
}

func (e *ECDSAAlgorithm) TransitKeyTypes() []string {
	return []string{fmt.Sprintf("ecdsa-p%d", e.curve.bitSize)}
}

// KeyCheck validates the key type and that the key is on the algorithm's curve
func (e *ECDSAAlgorithm) KeyCheck(key interface{}) error {
	if err := e.BaseAlgorithm.KeyCheck(key); err != nil {
		return err
	}
	ecKey := key.(*ecdsa.PrivateKey)
	if ecKey.Curve != e.curve.curve() {
		return fmt.Errorf("%w: %s requires a %s key, got %s",
			ErrKeyMismatch, e.name, e.curve.name, ecKey.Curve.Params().Name)
	}
	return nil
}

// Sign signs the digest and encodes R and S left-padded to the curve size
func (e *ECDSAAlgorithm) Sign(input []byte, key interface{}) ([]byte, error) {
	if err := e.KeyCheck(key); err != nil {
		return nil, err
	}

	r, s, err := ecdsa.Sign(rand.Reader, key.(*ecdsa.PrivateKey), e.digest(input))
	if err != nil {
		return nil, fmt.Errorf("%s signing failed: %w", e.name, err)
	}

	signature := make([]byte, e.SignatureSize())
	r.FillBytes(signature[:e.curve.keySize])
	s.FillBytes(signature[e.curve.keySize:])
	return signature, nil
}

// Verify verifies an ECDSA signature in raw R||S format
func (e *ECDSAAlgorithm) Verify(input, signature []byte, key interface{}) error {
	var ecKey *ecdsa.PublicKey
	switch k := key.(type) {
	case *ecdsa.PublicKey:
		ecKey = k
	case *ecdsa.PrivateKey:
		ecKey = &k.PublicKey
	default:
		return fmt.Errorf("%w: %s requires an EC key, got %T", ErrKeyMismatch, e.name, key)
	}
	if ecKey.Curve != e.curve.curve() {
		return fmt.Errorf("%w: %s requires a %s key", ErrKeyMismatch, e.name, e.curve.name)
	}

	// Check signature length
	if len(signature) != e.SignatureSize() {
		return ErrInvalidSignature
	}

	// Split signature into R and S
	r := new(big.Int).SetBytes(signature[:e.curve.keySize])
	s := new(big.Int).SetBytes(signature[e.curve.keySize:])

	if !ecdsa.Verify(ecKey, e.digest(input), r, s) {
		return ErrInvalidSignature
	}

	return nil
}

// Register predefined ECDSA algorithms
func init() {
	Register(NewECDSAAlgorithm("ES256", crypto.SHA256, p256))
	Register(NewECDSAAlgorithm("ES384", crypto.SHA384, p384))
	Register(NewECDSAAlgorithm("ES512", crypto.SHA512, p521))
}
