/*
Package algorithms implements the JWS signature backends used to build JWTs.

The package provides a registry of supported algorithms and their implementations.
Each algorithm signs a JWS signing input with a key of its family and can verify
the result.

Supported Algorithms:
- none (unsecured; empty signature, no key)

- HMAC
  - HS256, HS384, HS512 (shared secret)

- ECDSA (signature is fixed-width R||S)
  - ES256 (P-256 + SHA-256)
  - ES384 (P-384 + SHA-384)
  - ES512 (P-521 + SHA-512)

- RSA PKCS1v15
  - RS256, RS384, RS512

- RSA-PSS (MGF1 with the message hash, salt length = digest length)
  - PS256, PS384, PS512

Each algorithm implementation:
- Checks that a key matches its family (and curve for ECDSA)
- Signs and verifies raw signing input
- Lists the Vault Transit key types able to sign for it
*/
package algorithms
