package token

import (
	"encoding/base64"
	"fmt"

	"github.com/goccy/go-json"
)

// Type is the "typ" header value of every token
const Type = "JWT"

// Header is the JOSE header. Members are emitted in field order.
type Header struct {
	Algorithm   string `json:"alg"`
	Type        string `json:"typ"`
	ContentType string `json:"cty,omitempty"`
	KeyID       string `json:"kid,omitempty"`

	// CertificateChain holds base64 (not base64url) DER certificates, leaf first
	CertificateChain []string `json:"x5c,omitempty"`
	CertificateURL   string   `json:"x5u,omitempty"`
	Critical         []string `json:"crit,omitempty"`
}

func (h Header) encode() (string, error) {
	data, err := json.Marshal(h)
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}
	return segment(data), nil
}

func segment(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}
