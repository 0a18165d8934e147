package fixtures

import (
	"context"
	"crypto"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/alexadamm/jwt-fixtures-go/pkg/jwks"
	"github.com/alexadamm/jwt-fixtures-go/pkg/keys"
	"github.com/alexadamm/jwt-fixtures-go/pkg/token"
	"github.com/alexadamm/jwt-fixtures-go/pkg/token/algorithms"
	"github.com/alexadamm/jwt-fixtures-go/pkg/vault"
)

// JWKSFileName is the name of the key set written next to the fixtures
const JWKSFileName = "jwks.json"

// Options configures a Generator
type Options struct {
	// Dir is the output directory
	Dir string

	// Concurrency bounds the number of fixtures encoded at once
	Concurrency int

	// JWKS writes the public keys used by the fixtures to jwks.json
	JWKS bool

	// KeyIDs adds a "kid" header to signed fixtures
	KeyIDs bool

	Logger zerolog.Logger
	Parser *keys.Parser
}

// Report lists the outcome of a Generate call
type Report struct {
	// Written holds the paths of the files written, sorted
	Written []string

	// Skipped holds the names of fixtures whose key is not in the keyring, sorted
	Skipped []string
}

// Generator writes fixture catalogs to a filesystem
type Generator struct {
	fs   afero.Fs
	opts Options
	log  zerolog.Logger
}

// NewGenerator creates a generator writing to fs
func NewGenerator(fs afero.Fs, opts Options) *Generator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Parser == nil {
		opts.Parser, _ = keys.NewParser(keys.DefaultCacheSize)
	}
	return &Generator{
		fs:   fs,
		opts: opts,
		log:  opts.Logger.With().Str("scope", "generator").Logger(),
	}
}

// usedKey is an asymmetric key that signed at least one fixture
type usedKey struct {
	kid string
	pub interface{}
}

// Generate encodes every fixture of catalog and writes it to the output
// directory. Fixtures whose key is missing from ring are skipped. Every
// token is verified before it is written. The first failure cancels the
// remaining work.
func (g *Generator) Generate(ctx context.Context, catalog Catalog, ring *Keyring) (*Report, error) {
	seen := make(map[string]bool, len(catalog))
	for _, f := range catalog {
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate fixture name %q", f.Name)
		}
		seen[f.Name] = true
	}

	if err := g.fs.MkdirAll(g.opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var (
		mu     sync.Mutex
		report = &Report{}
		used   = make(map[string]usedKey)
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Concurrency)

	for _, f := range catalog {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			key, ok := g.lookup(f, ring)
			if !ok {
				g.log.Warn().Str("fixture", f.Name).Str("key", f.Key).Msg("key not in keyring, skipping")
				mu.Lock()
				report.Skipped = append(report.Skipped, f.Name)
				mu.Unlock()
				return nil
			}

			path, pub, err := g.generate(ctx, f, key, ring)
			if err != nil {
				return fmt.Errorf("fixture %q: %w", f.Name, err)
			}

			mu.Lock()
			report.Written = append(report.Written, path)
			if pub.pub != nil {
				used[f.Key] = pub
			}
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if g.opts.JWKS {
		path, err := g.writeJWKS(used)
		if err != nil {
			return nil, err
		}
		report.Written = append(report.Written, path)
	}

	sort.Strings(report.Written)
	sort.Strings(report.Skipped)

	g.log.Info().
		Int("written", len(report.Written)).
		Int("skipped", len(report.Skipped)).
		Str("dir", g.opts.Dir).
		Msg("fixtures generated")

	return report, nil
}

func (g *Generator) lookup(f Fixture, ring *Keyring) (interface{}, bool) {
	if f.Key == "" {
		return nil, true
	}
	return ring.Get(f.Key)
}

func (g *Generator) generate(ctx context.Context, f Fixture, key interface{}, ring *Keyring) (string, usedKey, error) {
	opts := []token.Option{
		token.WithLogger(g.log),
		token.WithKeyParser(g.opts.Parser),
	}

	var kid string
	if f.Key != "" {
		var err error
		if kid, err = ring.KeyID(ctx, f.Key); err != nil {
			return "", usedKey{}, err
		}
		if g.opts.KeyIDs {
			opts = append(opts, token.WithKeyID(kid))
		}
	}

	tok, err := token.NewEncoder(opts...).EncodeContext(ctx, f.Claims, key, f.Algorithm)
	if err != nil {
		return "", usedKey{}, err
	}

	pub, err := g.publicKey(ctx, key)
	if err != nil {
		return "", usedKey{}, err
	}
	if err := verify(tok, f.Algorithm, pub); err != nil {
		return "", usedKey{}, fmt.Errorf("self-check failed: %w", err)
	}

	path := filepath.Join(g.opts.Dir, f.FileName())
	if err := afero.WriteFile(g.fs, path, []byte(tok), 0o644); err != nil {
		return "", usedKey{}, fmt.Errorf("failed to write token: %w", err)
	}

	g.log.Debug().Str("fixture", f.Name).Str("alg", f.Algorithm).Str("path", path).Msg("fixture written")

	used := usedKey{kid: kid}
	if _, secret := pub.([]byte); !secret {
		used.pub = pub
	}
	return path, used, nil
}

// publicKey returns the verification key for key. Vault HMAC keys cannot be
// verified locally and yield nil.
func (g *Generator) publicKey(ctx context.Context, key interface{}) (interface{}, error) {
	client, ok := key.(*vault.Client)
	if !ok {
		return keys.PublicKey(key)
	}

	keyType, err := client.KeyType(ctx)
	if err != nil {
		return nil, err
	}
	if keyType == "hmac" {
		return nil, nil
	}
	version, err := client.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}
	return client.PublicKey(ctx, version)
}

// verify checks the token signature with the signature backend. A nil key
// skips the check for signed algorithms.
func verify(tok, alg string, pub interface{}) error {
	algorithm, err := algorithms.Get(alg)
	if err != nil {
		return err
	}
	if pub == nil && algorithm.Family() != algorithms.FamilyNone {
		return nil
	}

	i := strings.LastIndexByte(tok, '.')
	if i < 0 {
		return fmt.Errorf("malformed token")
	}
	sig, err := base64.RawURLEncoding.DecodeString(tok[i+1:])
	if err != nil {
		return fmt.Errorf("failed to decode signature: %w", err)
	}
	return algorithm.Verify([]byte(tok[:i]), sig, pub)
}

func (g *Generator) writeJWKS(used map[string]usedKey) (string, error) {
	set := jwks.NewSet()
	for _, u := range used {
		key, err := jwks.FromPublicKey(u.pub, u.kid, "")
		if err != nil {
			return "", err
		}
		if err := set.Add(key); err != nil {
			return "", err
		}
	}

	data, err := set.Marshal()
	if err != nil {
		return "", err
	}

	path := filepath.Join(g.opts.Dir, JWKSFileName)
	if err := afero.WriteFile(g.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write key set: %w", err)
	}
	if err := g.checkJWKS(path, used); err != nil {
		return "", fmt.Errorf("key set self-check failed: %w", err)
	}
	return path, nil
}

// checkJWKS reads the written key set back and matches every used key to
// its entry by kid
func (g *Generator) checkJWKS(path string, used map[string]usedKey) error {
	data, err := afero.ReadFile(g.fs, path)
	if err != nil {
		return err
	}
	set, err := jwks.Unmarshal(data)
	if err != nil {
		return err
	}

	for _, u := range used {
		key, ok := set.Lookup(u.kid)
		if !ok {
			return fmt.Errorf("kid %q not found", u.kid)
		}
		pub, err := key.PublicKey()
		if err != nil {
			return fmt.Errorf("kid %q: %w", u.kid, err)
		}
		want, ok := u.pub.(interface{ Equal(crypto.PublicKey) bool })
		if !ok || !want.Equal(pub) {
			return fmt.Errorf("kid %q does not round-trip", u.kid)
		}
	}
	return nil
}
