package token

import (
	"encoding/base64"

	"github.com/rs/zerolog"

	"github.com/alexadamm/jwt-fixtures-go/pkg/keys"
)

// Option configures an Encoder
type Option func(*Encoder)

// WithKeyID sets the "kid" header member
func WithKeyID(kid string) Option {
	return func(e *Encoder) {
		e.keyID = kid
	}
}

// WithContentType sets the "cty" header member
func WithContentType(cty string) Option {
	return func(e *Encoder) {
		e.contentType = cty
	}
}

// WithCertificateChain sets the "x5c" header member. Each certificate is
// DER, the leaf first.
func WithCertificateChain(certs ...[]byte) Option {
	return func(e *Encoder) {
		e.certChain = make([]string, len(certs))
		for i, der := range certs {
			e.certChain[i] = base64.StdEncoding.EncodeToString(der)
		}
	}
}

// WithCertificateURL sets the "x5u" header member
func WithCertificateURL(u string) Option {
	return func(e *Encoder) {
		e.certURL = u
	}
}

// WithCritical sets the "crit" header member
func WithCritical(names ...string) Option {
	return func(e *Encoder) {
		e.critical = append([]string(nil), names...)
	}
}

// WithLogger makes the encoder log one debug event per token
func WithLogger(log zerolog.Logger) Option {
	return func(e *Encoder) {
		e.log = log
	}
}

// WithKeyParser sets the parser used for PEM keys. Encoders sharing one
// parser share its cache.
func WithKeyParser(p *keys.Parser) Option {
	return func(e *Encoder) {
		e.parser = p
	}
}
