package algorithms

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
)

// RSAAlgorithm implements the Algorithm interface for RSA signatures
type RSAAlgorithm struct {
	BaseAlgorithm
	padding padding
}

type padding int

const (
	paddingPKCS1v15 padding = iota
	paddingPSS
)

// rsaTransitKeyTypes are accepted for every RS*/PS* algorithm; Vault picks
// the hash per request, not per key
var rsaTransitKeyTypes = []string{"rsa-2048", "rsa-3072", "rsa-4096"}

// NewRSAAlgorithm creates a new RSA algorithm instance
// Supports both PKCS1v15 (RS*) and PSS (PS*) padding
func NewRSAAlgorithm(name string, hash crypto.Hash, pad padding) Algorithm {
	family := FamilyRSA
	if pad == paddingPSS {
		family = FamilyRSAPSS
	}

	return &RSAAlgorithm{
		BaseAlgorithm: BaseAlgorithm{
			name:    name,
			hash:    hash,
			family:  family,
			keyType: KeyTypeRSA,
		},
		padding: pad,
	}
}

func (r *RSAAlgorithm) TransitKeyTypes() []string {
	return rsaTransitKeyTypes
}

// pssOptions uses MGF1 with the message hash and a salt as long as the digest
func (r *RSAAlgorithm) pssOptions() *rsa.PSSOptions {
	return &rsa.PSSOptions{
		Hash:       r.hash,
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	}
}

// Sign signs the digest of the signing input
func (r *RSAAlgorithm) Sign(input []byte, key interface{}) ([]byte, error) {
	if err := r.KeyCheck(key); err != nil {
		return nil, err
	}

	rsaKey := key.(*rsa.PrivateKey)
	digest := r.digest(input)

	var (
		sig []byte
		err error
	)
	switch r.padding {
	case paddingPKCS1v15:
		sig, err = rsa.SignPKCS1v15(rand.Reader, rsaKey, r.hash, digest)
	case paddingPSS:
		sig, err = rsa.SignPSS(rand.Reader, rsaKey, r.hash, digest, r.pssOptions())
	}
	if err != nil {
		return nil, fmt.Errorf("%s signing failed: %w", r.name, err)
	}
	return sig, nil
}

// Verify verifies an RSA signature with a public or private key
func (r *RSAAlgorithm) Verify(input, signature []byte, key interface{}) error {
	var rsaKey *rsa.PublicKey
	switch k := key.(type) {
	case *rsa.PublicKey:
		rsaKey = k
	case *rsa.PrivateKey:
		rsaKey = &k.PublicKey
	default:
		return fmt.Errorf("%w: %s requires an RSA key, got %T", ErrKeyMismatch, r.name, key)
	}

	digest := r.digest(input)

	var err error
	switch r.padding {
	case paddingPKCS1v15:
		err = rsa.VerifyPKCS1v15(rsaKey, r.hash, digest, signature)
	case paddingPSS:
		err = rsa.VerifyPSS(rsaKey, r.hash, digest, signature, r.pssOptions())
	}

	if err != nil {
		return ErrInvalidSignature
	}

	return nil
}

// SigningParams returns algorithm-specific Vault signing parameters
func (r *RSAAlgorithm) SigningParams() map[string]interface{} {
	params := r.BaseAlgorithm.SigningParams()

	// Add RSA-specific signature algorithm
	switch r.padding {
	case paddingPKCS1v15:
		params["signature_algorithm"] = "pkcs1v15"
	case paddingPSS:
		params["signature_algorithm"] = "pss"
		params["salt_length"] = "hash"
	}

	return params
}

// Register predefined RSA algorithms
func init() {
	// Register RSASSA-PKCS1-v1_5 algorithms
	Register(NewRSAAlgorithm("RS256", crypto.SHA256, paddingPKCS1v15))
	Register(NewRSAAlgorithm("RS384", crypto.SHA384, paddingPKCS1v15))
	Register(NewRSAAlgorithm("RS512", crypto.SHA512, paddingPKCS1v15))

	// Register RSASSA-PSS algorithms
	Register(NewRSAAlgorithm("PS256", crypto.SHA256, paddingPSS))
	Register(NewRSAAlgorithm("PS384", crypto.SHA384, paddingPSS))
	Register(NewRSAAlgorithm("PS512", crypto.SHA512, paddingPSS))
}
