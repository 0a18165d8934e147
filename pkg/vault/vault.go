package vault

import (
	"context"
	"crypto"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/vault/api"

	"github.com/alexadamm/jwt-fixtures-go/pkg/token/algorithms"
)

// DefaultMount is the mount path of the Transit secrets engine
const DefaultMount = "transit"

// ErrKeyNotFound is returned when the Transit key does not exist
var ErrKeyNotFound = errors.New("transit key not found")

// Client signs JWS input with a HashiCorp Vault Transit key.
// It implements algorithms.RemoteSigner.
type Client struct {
	client      *api.Client
	mount       string
	transitPath string

	infoCache struct {
		sync.RWMutex
		info      *keyInfo
		fetchedAt time.Time
		ttl       time.Duration
	}
}

// Config holds configuration for the Vault client
type Config struct {
	// Address is the Vault server address
	Address string

	// Token is the authentication token
	Token string

	// TransitPath is the name of the Transit key
	TransitPath string

	// Mount is the Transit engine mount path, "transit" when empty
	Mount string

	// CacheTTL bounds how long key metadata is reused, 5 minutes when zero
	CacheTTL time.Duration
}

type keyInfo struct {
	keyType       string
	latestVersion int64
	publicKeys    map[string]string
}

var _ algorithms.RemoteSigner = (*Client)(nil)

// NewClient creates a new Vault client. No request is made until the key is used.
func NewClient(config Config) (*Client, error) {
	if config.TransitPath == "" {
		return nil, errors.New("transit key name is required")
	}

	vaultConfig := api.DefaultConfig()
	if config.Address != "" {
		vaultConfig.Address = config.Address
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if config.Token != "" {
		client.SetToken(config.Token)
	}

	vc := &Client{
		client:      client,
		mount:       strings.Trim(config.Mount, "/"),
		transitPath: config.TransitPath,
	}
	if vc.mount == "" {
		vc.mount = DefaultMount
	}
	vc.infoCache.ttl = config.CacheTTL
	if vc.infoCache.ttl == 0 {
		vc.infoCache.ttl = 5 * time.Minute
	}

	return vc, nil
}

// Name returns the Transit key name
func (c *Client) Name() string {
	return c.transitPath
}

// KeyType returns the Transit key type, e.g. "ecdsa-p256" or "rsa-2048"
func (c *Client) KeyType(ctx context.Context) (string, error) {
	info, err := c.keyInfo(ctx)
	if err != nil {
		return "", err
	}
	return info.keyType, nil
}

// CurrentVersion returns the latest version of the Transit key
func (c *Client) CurrentVersion(ctx context.Context) (int64, error) {
	info, err := c.keyInfo(ctx)
	if err != nil {
		return 0, err
	}
	return info.latestVersion, nil
}

// KeyID returns "name:version" for the latest key version, the "kid" used
// for tokens signed by this key
func (c *Client) KeyID(ctx context.Context) (string, error) {
	version, err := c.CurrentVersion(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", c.transitPath, version), nil
}

// PublicKey retrieves the public key of a key version
func (c *Client) PublicKey(ctx context.Context, version int64) (crypto.PublicKey, error) {
	info, err := c.keyInfo(ctx)
	if err != nil {
		return nil, err
	}

	publicKey, ok := info.publicKeys[fmt.Sprint(version)]
	if !ok {
		return nil, fmt.Errorf("no public key for %s version %d", c.transitPath, version)
	}

	switch {
	case strings.HasPrefix(info.keyType, "ecdsa-"):
		pub, err := jwt.ParseECPublicKeyFromPEM([]byte(publicKey))
		if err != nil {
			return nil, fmt.Errorf("failed to parse public key: %w", err)
		}
		return pub, nil
	case strings.HasPrefix(info.keyType, "rsa-"):
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKey))
		if err != nil {
			return nil, fmt.Errorf("failed to parse public key: %w", err)
		}
		return pub, nil
	}
	return nil, fmt.Errorf("unsupported key type %q", info.keyType)
}

// SignJWS signs input with the latest key version and returns the raw JWS
// signature. HMAC algorithms use the Transit hmac endpoint.
func (c *Client) SignJWS(ctx context.Context, alg algorithms.Algorithm, input []byte) ([]byte, error) {
	data := map[string]interface{}{
		"input": base64.StdEncoding.EncodeToString(input),
	}
	for k, v := range alg.SigningParams() {
		data[k] = v
	}

	endpoint, field, decode := "sign", "signature", base64.RawURLEncoding.DecodeString
	if alg.Family() == algorithms.FamilyHMAC {
		endpoint, field, decode = "hmac", "hmac", base64.StdEncoding.DecodeString
	}

	path := fmt.Sprintf("%s/%s/%s", c.mount, endpoint, c.transitPath)
	secret, err := c.client.Logical().WriteWithContext(ctx, path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to sign data: %w", err)
	}
	if secret == nil {
		return nil, fmt.Errorf("no signature returned")
	}

	value, ok := secret.Data[field].(string)
	if !ok {
		return nil, fmt.Errorf("invalid %s format", field)
	}

	// "vault:v<version>:<payload>"
	parts := strings.SplitN(value, ":", 3)
	if len(parts) != 3 || parts[0] != "vault" {
		return nil, fmt.Errorf("unexpected %s prefix", field)
	}

	sig, err := decode(parts[2])
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", field, err)
	}
	return sig, nil
}

// RotateKey creates a new key version. Later tokens are signed with it.
func (c *Client) RotateKey(ctx context.Context) error {
	path := fmt.Sprintf("%s/keys/%s/rotate", c.mount, c.transitPath)
	if _, err := c.client.Logical().WriteWithContext(ctx, path, nil); err != nil {
		return fmt.Errorf("failed to rotate key: %w", err)
	}

	c.infoCache.Lock()
	c.infoCache.info = nil
	c.infoCache.Unlock()

	return nil
}

func (c *Client) keyInfo(ctx context.Context) (*keyInfo, error) {
	c.infoCache.RLock()
	if c.infoCache.info != nil && time.Since(c.infoCache.fetchedAt) < c.infoCache.ttl {
		info := c.infoCache.info
		c.infoCache.RUnlock()
		return info, nil
	}
	c.infoCache.RUnlock()

	c.infoCache.Lock()
	defer c.infoCache.Unlock()

	// Double check after acquiring write lock
	if c.infoCache.info != nil && time.Since(c.infoCache.fetchedAt) < c.infoCache.ttl {
		return c.infoCache.info, nil
	}

	info, err := c.readKey(ctx)
	if err != nil {
		return nil, err
	}
	c.infoCache.info = info
	c.infoCache.fetchedAt = time.Now()

	return info, nil
}

func (c *Client) readKey(ctx context.Context) (*keyInfo, error) {
	path := fmt.Sprintf("%s/keys/%s", c.mount, c.transitPath)
	secret, err := c.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key info: %w", err)
	}
	if secret == nil {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, c.transitPath)
	}

	keyType, ok := secret.Data["type"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid key type format")
	}

	// the API client decodes responses with encoding/json and UseNumber
	latestVersion, ok := secret.Data["latest_version"].(json.Number)
	if !ok {
		return nil, fmt.Errorf("invalid version format")
	}
	version, err := latestVersion.Int64()
	if err != nil {
		return nil, fmt.Errorf("failed to parse version: %w", err)
	}

	info := &keyInfo{
		keyType:       keyType,
		latestVersion: version,
		publicKeys:    make(map[string]string),
	}

	// HMAC keys list creation times instead of public keys
	versions, _ := secret.Data["keys"].(map[string]interface{})
	for v, data := range versions {
		keyData, ok := data.(map[string]interface{})
		if !ok {
			continue
		}
		if pub, ok := keyData["public_key"].(string); ok {
			info.publicKeys[v] = pub
		}
	}

	return info, nil
}
