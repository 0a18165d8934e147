package fixtures

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/afero"

	"github.com/alexadamm/jwt-fixtures-go/internal/config"
	"github.com/alexadamm/jwt-fixtures-go/pkg/keys"
	"github.com/alexadamm/jwt-fixtures-go/pkg/vault"
)

// Keyring maps key names to signing keys: []byte secrets, parsed private
// keys or Vault Transit clients. It is safe for concurrent use.
type Keyring struct {
	mu   sync.RWMutex
	keys map[string]interface{}
}

// NewKeyring creates an empty keyring
func NewKeyring() *Keyring {
	return &Keyring{keys: make(map[string]interface{})}
}

// Add stores key under name
func (k *Keyring) Add(name string, key interface{}) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[name] = key
}

// Get returns the key stored under name
func (k *Keyring) Get(name string) (interface{}, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	key, ok := k.keys[name]
	return key, ok
}

// Names returns the sorted key names
func (k *Keyring) Names() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	names := make([]string, 0, len(k.keys))
	for name := range k.keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KeyID returns the "kid" for the named key: the Transit "name:version" for
// Vault keys, the key name otherwise
func (k *Keyring) KeyID(ctx context.Context, name string) (string, error) {
	key, ok := k.Get(name)
	if !ok {
		return "", fmt.Errorf("unknown key %q", name)
	}
	if client, ok := key.(*vault.Client); ok {
		return client.KeyID(ctx)
	}
	return name, nil
}

// LoadKeyring builds a keyring from key definitions. PEM files are read from
// fs and parsed with parser. Transit keys connect to vaultCfg.
func LoadKeyring(fs afero.Fs, defs []config.Key, vaultCfg config.Vault, parser *keys.Parser) (*Keyring, error) {
	ring := NewKeyring()
	for _, def := range defs {
		switch {
		case def.Secret != "":
			ring.Add(def.Name, []byte(def.Secret))

		case def.File != "":
			data, err := afero.ReadFile(fs, def.File)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", def.Name, err)
			}
			key, err := parser.Parse(keys.PEM(data))
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", def.Name, err)
			}
			ring.Add(def.Name, key)

		case def.Transit != "":
			client, err := vault.NewClient(vault.Config{
				Address:     vaultCfg.Address,
				Token:       vaultCfg.Token,
				Mount:       vaultCfg.Mount,
				TransitPath: def.Transit,
			})
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", def.Name, err)
			}
			ring.Add(def.Name, client)

		default:
			return nil, fmt.Errorf("key %q has no source", def.Name)
		}
	}
	return ring, nil
}
