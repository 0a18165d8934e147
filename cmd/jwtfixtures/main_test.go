package main

import (
	"bytes"
	"crypto/elliptic"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexadamm/jwt-fixtures-go/internal/testkeys"
	"github.com/alexadamm/jwt-fixtures-go/pkg/token"
)

func run(t *testing.T, fs afero.Fs, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(fs, &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAlgorithmsCmd(t *testing.T) {
	out, _, err := run(t, afero.NewMemMapFs(), "algorithms")
	require.NoError(t, err)

	for _, name := range []string{"none", "HS256", "RS384", "PS512", "ES512"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "SHA-384")
	assert.Contains(t, out, "ecdsa-p521")
	assert.Contains(t, out, "P-384")
	assert.Contains(t, out, "RSASSA-PSS")
}

func TestEncodeCmd(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		out, _, err := run(t, afero.NewMemMapFs(), "encode", "--alg", "none")
		require.NoError(t, err)
		assert.Equal(t, "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.e30.\n", out)
	})

	t.Run("HS256 keeps claim order", func(t *testing.T) {
		out, _, err := run(t, afero.NewMemMapFs(), "encode",
			"--alg", "HS256",
			"--secret", "your-256-bit-secret",
			"--claims", `{"sub":"1234567890","name":"John Doe","iat":1516239022}`)
		require.NoError(t, err)
		assert.Equal(t, "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9."+
			"eyJzdWIiOiIxMjM0NTY3ODkwIiwibmFtZSI6IkpvaG4gRG9lIiwiaWF0IjoxNTE2MjM5MDIyfQ."+
			"SflKxwRJSMeKKF2QT4fwpMeJf36POk6yJV_adQssw5c\n", out)
	})

	t.Run("ES256 from PEM file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		ecKey := testkeys.EC(elliptic.P256())
		require.NoError(t, afero.WriteFile(fs, "ec256.pem", testkeys.PKCS8PEM(ecKey), 0o600))

		out, _, err := run(t, fs, "encode", "--alg", "ES256", "--key", "ec256.pem", "--kid", "ec256",
			"--claims", `{"sub":"antoine"}`)
		require.NoError(t, err)

		parsed, err := jwt.Parse(strings.TrimSpace(out), func(*jwt.Token) (interface{}, error) {
			return &ecKey.PublicKey, nil
		}, jwt.WithValidMethods([]string{"ES256"}))
		require.NoError(t, err)
		assert.Equal(t, "ec256", parsed.Header["kid"])
	})

	t.Run("errors", func(t *testing.T) {
		_, _, err := run(t, afero.NewMemMapFs(), "encode", "--alg", "XS256")
		assert.ErrorIs(t, err, token.ErrUnsupportedAlgorithm)

		_, _, err = run(t, afero.NewMemMapFs(), "encode", "--alg", "RS256")
		assert.ErrorIs(t, err, token.ErrMissingKey)

		_, _, err = run(t, afero.NewMemMapFs(), "encode", "--alg", "HS256", "--secret", "s", "--key", "k.pem")
		assert.Error(t, err)

		_, _, err = run(t, afero.NewMemMapFs(), "encode", "--claims", `["not","an","object"]`)
		assert.Error(t, err)
	})
}

func TestGenerateCmd(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "keys/rsa1.pem", testkeys.PKCS1PEM(testkeys.RSA()), 0o600))
	require.NoError(t, afero.WriteFile(fs, "config.yaml", []byte(`
log:
  level: error
keys:
  - name: secret
    secret: secret
  - name: rsa1
    file: keys/rsa1.pem
`), 0o644))

	out, errOut, err := run(t, fs, "generate", "--config", "config.yaml", "--out", "fixtures", "--jwks")
	require.NoError(t, err)

	for _, name := range []string{"HS256", "RS512", "PS384", "empty", "invalid_jti_format", "jwks"} {
		ext := ".jwt"
		if name == "jwks" {
			ext = ".json"
		}
		assert.Contains(t, out, "fixtures/"+name+ext)
		exists, err := afero.Exists(fs, "fixtures/"+name+ext)
		require.NoError(t, err)
		assert.True(t, exists, name)
	}

	assert.Contains(t, errOut, "skipped ES256")
	assert.Contains(t, errOut, "skipped RS256_2")
}

func TestGenerateCmdOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	out, _, err := run(t, fs, "generate", "--out", "sel", "--only", "empty,invalid_expired")
	require.NoError(t, err)
	assert.Equal(t, "sel/empty.jwt\nsel/invalid_expired.jwt\n", out)

	_, _, err = run(t, fs, "generate", "--only", "missing")
	assert.Error(t, err)

	_, _, err = run(t, fs, "generate", "--config", "nope.yaml")
	assert.Error(t, err)
}

func TestEncodeCmdHeaderFlags(t *testing.T) {
	out, _, err := run(t, afero.NewMemMapFs(), "encode",
		"--alg", "HS256", "--secret", "secret",
		"--kid", "k1", "--x5u", "https://example.com/c.pem", "--crit", "exp,nbf")
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(out), jwt.MapClaims{})
	require.NoError(t, err)
	assert.Equal(t, "k1", parsed.Header["kid"])
	assert.Equal(t, "https://example.com/c.pem", parsed.Header["x5u"])
	assert.Equal(t, []interface{}{"exp", "nbf"}, parsed.Header["crit"])
}

func TestExecute(t *testing.T) {
	var out, errOut bytes.Buffer
	code := execute(afero.NewMemMapFs(), []string{"encode", "--alg", "none"}, &out, &errOut)
	assert.Equal(t, 0, code)
	assert.Equal(t, "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.e30.\n", out.String())
	assert.Empty(t, errOut.String())

	out.Reset()
	code = execute(afero.NewMemMapFs(), []string{"encode", "--alg", "XS256"}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Failed to execute command")
	assert.Contains(t, errOut.String(), "XS256")
}
