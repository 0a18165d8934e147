/*
Package vault signs tokens with keys held by HashiCorp Vault's Transit engine.

A Client is an algorithms.RemoteSigner: hand it to the token encoder in place
of local key material and the signature is produced by Vault.

	client, err := vault.NewClient(vault.Config{
	    Address:     "http://localhost:8200",
	    Token:       "root",
	    TransitPath: "jwt-es256",
	})
	kid, _ := client.KeyID(ctx)
	tok, err := token.NewEncoder(token.WithKeyID(kid)).EncodeContext(ctx, set, client, "ES256")

Asymmetric keys sign through transit/sign with JWS marshaling, so ECDSA
signatures come back in the fixed-width r||s form. HMAC keys use transit/hmac.

Supported key types:
  - ecdsa-p256, ecdsa-p384, ecdsa-p521 for ES256, ES384, ES512
  - rsa-2048, rsa-3072, rsa-4096 for RS* and PS*
  - hmac for HS*
*/
package vault
