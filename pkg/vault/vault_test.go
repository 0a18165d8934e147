package vault

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexadamm/jwt-fixtures-go/internal/testkeys"
	"github.com/alexadamm/jwt-fixtures-go/pkg/token/algorithms"
)

func newTestClient(t *testing.T, address, name string) *Client {
	t.Helper()
	client, err := NewClient(Config{Address: address, Token: "root", TransitPath: name})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresKeyName(t *testing.T) {
	_, err := NewClient(Config{Address: "http://127.0.0.1:8200"})
	assert.Error(t, err)
}

func TestClientKeyMetadata(t *testing.T) {
	ecKey := testkeys.EC(elliptic.P384())
	fake, srv := newFakeTransit(t, "jwt-es384", "ecdsa-p384", ecKey)
	client := newTestClient(t, srv.URL, "jwt-es384")
	ctx := context.Background()

	keyType, err := client.KeyType(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ecdsa-p384", keyType)

	version, err := client.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	kid, err := client.KeyID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt-es384:1", kid)

	pub, err := client.PublicKey(ctx, 1)
	require.NoError(t, err)
	require.IsType(t, &ecdsa.PublicKey{}, pub)
	assert.True(t, ecKey.PublicKey.Equal(pub))

	_, err = client.PublicKey(ctx, 7)
	assert.Error(t, err)

	// metadata is cached between calls
	assert.Equal(t, 1, fake.reads)
}

func TestClientKeyNotFound(t *testing.T) {
	_, srv := newFakeTransit(t, "present", "hmac", []byte("secret"))
	client := newTestClient(t, srv.URL, "absent")

	_, err := client.KeyType(context.Background())
	assert.True(t, errors.Is(err, ErrKeyNotFound), "got %v", err)
}

func TestClientSignJWS(t *testing.T) {
	rsaKey := testkeys.RSA()

	testCases := []struct {
		alg     string
		keyType string
		key     interface{}
		verify  interface{}
	}{
		{"ES256", "ecdsa-p256", testkeys.EC(elliptic.P256()), &testkeys.EC(elliptic.P256()).PublicKey},
		{"ES512", "ecdsa-p521", testkeys.EC(elliptic.P521()), &testkeys.EC(elliptic.P521()).PublicKey},
		{"RS256", "rsa-2048", rsaKey, &rsaKey.PublicKey},
		{"PS384", "rsa-2048", rsaKey, &rsaKey.PublicKey},
		{"HS512", "hmac", []byte("transit-secret"), []byte("transit-secret")},
	}

	for _, tc := range testCases {
		t.Run(tc.alg, func(t *testing.T) {
			fake, srv := newFakeTransit(t, "jwt-key", tc.keyType, tc.key)
			client := newTestClient(t, srv.URL, "jwt-key")
			alg, err := algorithms.Get(tc.alg)
			require.NoError(t, err)

			input := []byte("eyJhbGciOiJub25lIn0.e30")
			sig, err := client.SignJWS(context.Background(), alg, input)
			require.NoError(t, err)
			require.NoError(t, alg.Verify(input, sig, tc.verify))

			require.Len(t, fake.requests, 1)
			for k, v := range alg.SigningParams() {
				assert.Equal(t, v, fake.requests[0][k], k)
			}
		})
	}
}

func TestClientSignsVerifiableTokens(t *testing.T) {
	rsaKey := testkeys.RSA()
	_, srv := newFakeTransit(t, "jwt-rs256", "rsa-2048", rsaKey)
	client := newTestClient(t, srv.URL, "jwt-rs256")
	ctx := context.Background()

	alg, err := algorithms.Get("RS256")
	require.NoError(t, err)
	require.NoError(t, algorithms.RemoteKeyCheck(ctx, alg, client))

	headerAndPayload := "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0"
	sig, err := client.SignJWS(ctx, alg, []byte(headerAndPayload))
	require.NoError(t, err)

	pub, err := client.PublicKey(ctx, 1)
	require.NoError(t, err)

	tok := headerAndPayload + "." + base64.RawURLEncoding.EncodeToString(sig)
	parsed, err := jwt.Parse(tok, func(*jwt.Token) (interface{}, error) { return pub, nil },
		jwt.WithValidMethods([]string{"RS256"}))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
}

func TestClientRotateKey(t *testing.T) {
	_, srv := newFakeTransit(t, "jwt-hs", "hmac", []byte("secret"))
	client := newTestClient(t, srv.URL, "jwt-hs")
	ctx := context.Background()

	before, err := client.CurrentVersion(ctx)
	require.NoError(t, err)
	require.NoError(t, client.RotateKey(ctx))
	after, err := client.CurrentVersion(ctx)
	require.NoError(t, err)

	assert.Greater(t, after, before)
	kid, err := client.KeyID(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("jwt-hs:%d", after), kid)
}

func TestClientCacheExpiry(t *testing.T) {
	fake, srv := newFakeTransit(t, "jwt-key", "hmac", []byte("secret"))
	client, err := NewClient(Config{Address: srv.URL, TransitPath: "jwt-key", CacheTTL: time.Nanosecond})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := client.KeyType(context.Background())
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, 3, fake.reads)
}

// TestVaultIntegration runs against a real Vault dev server when
// VAULT_ADDR and VAULT_TOKEN are set
func TestVaultIntegration(t *testing.T) {
	if os.Getenv("VAULT_ADDR") == "" || os.Getenv("VAULT_TOKEN") == "" {
		t.Skip("Skipping vault integration test (VAULT_ADDR or VAULT_TOKEN not set)")
	}

	testCases := []struct {
		algorithm   string
		keyType     string
		wantKeyType interface{}
	}{
		{"ES256", "ecdsa-p256", &ecdsa.PublicKey{}},
		{"ES384", "ecdsa-p384", &ecdsa.PublicKey{}},
		{"RS256", "rsa-2048", &rsa.PublicKey{}},
		{"PS512", "rsa-4096", &rsa.PublicKey{}},
	}

	for _, tc := range testCases {
		t.Run(tc.algorithm, func(t *testing.T) {
			config := Config{
				Address:     os.Getenv("VAULT_ADDR"),
				Token:       os.Getenv("VAULT_TOKEN"),
				TransitPath: "jwt-test-" + strings.ToLower(tc.algorithm),
			}
			setupTestKey(t, config, tc.keyType)

			client, err := NewClient(config)
			require.NoError(t, err)
			ctx := context.Background()

			alg, err := algorithms.Get(tc.algorithm)
			require.NoError(t, err)

			input := []byte("test data")
			sig, err := client.SignJWS(ctx, alg, input)
			require.NoError(t, err)

			version, err := client.CurrentVersion(ctx)
			require.NoError(t, err)
			pub, err := client.PublicKey(ctx, version)
			require.NoError(t, err)
			assert.IsType(t, tc.wantKeyType, pub)
			assert.NoError(t, alg.Verify(input, sig, pub))
		})
	}
}

func setupTestKey(t *testing.T, config Config, keyType string) {
	client, err := api.NewClient(&api.Config{
		Address: config.Address,
	})
	require.NoError(t, err)
	client.SetToken(config.Token)

	// Enable transit engine if not enabled
	err = client.Sys().Mount("transit", &api.MountInput{
		Type: "transit",
	})
	if err != nil && !strings.Contains(err.Error(), "path is already in use") {
		t.Fatalf("Failed to mount transit engine: %v", err)
	}

	path := fmt.Sprintf("transit/keys/%s", config.TransitPath)
	_, err = client.Logical().Write(path, map[string]interface{}{
		"type": keyType,
	})
	require.NoError(t, err)
}
