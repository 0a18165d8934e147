package keys

import (
	"crypto"
	"crypto/sha256"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of parsed keys a Parser keeps by default
const DefaultCacheSize = 64

// Parser parses PEM private keys and caches the results.
// It is safe for concurrent use.
type Parser struct {
	cache *lru.Cache[[sha256.Size]byte, crypto.Signer]
}

// NewParser creates a parser caching up to size keys
func NewParser(size int) (*Parser, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[[sha256.Size]byte, crypto.Signer](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create key cache: %w", err)
	}
	return &Parser{cache: cache}, nil
}

// Parse returns the private key encoded in data
func (p *Parser) Parse(data PEM) (crypto.Signer, error) {
	sum := sha256.Sum256(data)
	if key, ok := p.cache.Get(sum); ok {
		return key, nil
	}

	key, err := ParsePrivateKey(data)
	if err != nil {
		return nil, err
	}
	p.cache.Add(sum, key)
	return key, nil
}

// Len returns the number of cached keys
func (p *Parser) Len() int {
	return p.cache.Len()
}
