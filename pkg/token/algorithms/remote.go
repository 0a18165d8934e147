package algorithms

import (
	"context"
	"fmt"
)

// RemoteSigner signs JWS input with key material held outside the process,
// such as a Vault Transit key
type RemoteSigner interface {
	// KeyType returns the remote key type, e.g. "ecdsa-p256", "rsa-2048", "hmac"
	KeyType(ctx context.Context) (string, error)

	// SignJWS returns the raw JWS signature bytes for alg over input
	SignJWS(ctx context.Context, alg Algorithm, input []byte) ([]byte, error)
}

// RemoteKeyCheck validates that the signer's key type can produce alg signatures
func RemoteKeyCheck(ctx context.Context, alg Algorithm, signer RemoteSigner) error {
	accepted := alg.TransitKeyTypes()
	if len(accepted) == 0 {
		return fmt.Errorf("%w: %s cannot use a remote signer", ErrKeyMismatch, alg.Name())
	}

	keyType, err := signer.KeyType(ctx)
	if err != nil {
		return fmt.Errorf("failed to read remote key type: %w", err)
	}

	for _, t := range accepted {
		if t == keyType {
			return nil
		}
	}
	return fmt.Errorf("%w: %s cannot be produced by a %q key", ErrKeyMismatch, alg.Name(), keyType)
}
