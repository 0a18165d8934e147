package token

import (
	"github.com/alexadamm/jwt-fixtures-go/pkg/claims"
	"github.com/alexadamm/jwt-fixtures-go/pkg/keys"
	"github.com/alexadamm/jwt-fixtures-go/pkg/token/algorithms"
)

// Errors returned by Encode. Match them with errors.Is.
var (
	// ErrUnsupportedAlgorithm is returned when the algorithm name is not registered
	ErrUnsupportedAlgorithm = algorithms.ErrUnsupportedAlgorithm

	// ErrKeyMismatch is returned when the key kind cannot be used with the algorithm.
	// This includes a key handed to "none", PEM text handed to HMAC and EC keys
	// on the wrong curve.
	ErrKeyMismatch = algorithms.ErrKeyMismatch

	// ErrMissingKey is returned when a signed algorithm is given no key
	ErrMissingKey = algorithms.ErrMissingKey

	// ErrMalformedKey is returned when PEM key text cannot be parsed
	ErrMalformedKey = keys.ErrMalformedKey

	// ErrEncoding is returned when a claim value cannot be serialized as JSON
	ErrEncoding = claims.ErrEncoding
)
