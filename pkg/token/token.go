package token

import (
	"context"
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alexadamm/jwt-fixtures-go/pkg/claims"
	"github.com/alexadamm/jwt-fixtures-go/pkg/keys"
	"github.com/alexadamm/jwt-fixtures-go/pkg/token/algorithms"
)

var (
	defaultOnce    sync.Once
	defaultEncoder *Encoder
)

// Encode builds a compact token from set, signed with key under the named
// algorithm. key may be nil (for "none"), a keys.Secret, []byte or string
// (HMAC), keys.PEM text, a parsed *rsa.PrivateKey or *ecdsa.PrivateKey, or an
// algorithms.RemoteSigner.
func Encode(set *claims.Set, key interface{}, alg string) (string, error) {
	defaultOnce.Do(func() {
		defaultEncoder = NewEncoder()
	})
	return defaultEncoder.EncodeContext(context.Background(), set, key, alg)
}

// Encoder builds tokens. It holds no per-token state and is safe for
// concurrent use.
type Encoder struct {
	keyID       string
	contentType string
	certChain   []string
	certURL     string
	critical    []string
	parser      *keys.Parser
	log         zerolog.Logger
}

// NewEncoder creates an encoder with the given options
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.parser == nil {
		// NewParser only fails for a negative size
		e.parser, _ = keys.NewParser(keys.DefaultCacheSize)
	}
	return e
}

// Encode is EncodeContext with a background context
func (e *Encoder) Encode(set *claims.Set, key interface{}, alg string) (string, error) {
	return e.EncodeContext(context.Background(), set, key, alg)
}

// EncodeContext builds a compact token. ctx bounds remote signing only.
func (e *Encoder) EncodeContext(ctx context.Context, set *claims.Set, key interface{}, alg string) (string, error) {
	algorithm, err := algorithms.Get(alg)
	if err != nil {
		return "", err
	}

	signer, remote := key.(algorithms.RemoteSigner)
	if remote {
		if err := algorithms.RemoteKeyCheck(ctx, algorithm, signer); err != nil {
			return "", err
		}
	} else {
		if key, err = e.normalizeKey(key); err != nil {
			return "", err
		}
		if err := algorithm.KeyCheck(key); err != nil {
			return "", err
		}
	}

	headerPart, err := Header{
		Algorithm:        algorithm.Name(),
		Type:             Type,
		ContentType:      e.contentType,
		KeyID:            e.keyID,
		CertificateChain: e.certChain,
		CertificateURL:   e.certURL,
		Critical:         e.critical,
	}.encode()
	if err != nil {
		return "", err
	}

	payload, err := set.Serialize()
	if err != nil {
		return "", err
	}

	signingInput := headerPart + "." + segment(payload)

	var signature []byte
	if remote {
		signature, err = signer.SignJWS(ctx, algorithm, []byte(signingInput))
		if err != nil {
			return "", fmt.Errorf("remote signing failed: %w", err)
		}
	} else {
		signature, err = algorithm.Sign([]byte(signingInput), key)
		if err != nil {
			return "", err
		}
	}

	token := signingInput + "." + segment(signature)

	e.log.Debug().
		Str("alg", algorithm.Name()).
		Str("kid", e.keyID).
		Bool("remote", remote).
		Int("claims", set.Len()).
		Int("length", len(token)).
		Msg("token encoded")

	return token, nil
}

// normalizeKey maps the accepted key kinds onto what the signature backends
// take. Nil secrets and nil private keys count as no key.
func (e *Encoder) normalizeKey(key interface{}) (interface{}, error) {
	switch k := key.(type) {
	case nil:
		return nil, nil
	case keys.Secret:
		if k == nil {
			return nil, nil
		}
		return []byte(k), nil
	case []byte:
		if k == nil {
			return nil, nil
		}
		return k, nil
	case string:
		return []byte(k), nil
	case keys.PEM:
		parsed, err := e.parser.Parse(k)
		if err != nil {
			return nil, err
		}
		return parsed, nil
	case *rsa.PrivateKey:
		if k == nil {
			return nil, nil
		}
		return k, nil
	case *ecdsa.PrivateKey:
		if k == nil {
			return nil, nil
		}
		return k, nil
	}
	return nil, fmt.Errorf("%w: unsupported key type %T", ErrKeyMismatch, key)
}
