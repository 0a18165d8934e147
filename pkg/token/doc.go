/*
Package token builds compact JSON Web Tokens.

A token is three base64url segments without padding, joined by dots: the JOSE
header, the claim set and the signature. The encoder never judges claim
semantics, so expired, immature or mistyped claims encode like any other.

	set := claims.New().
	    Subject("1234567890").
	    Put("name", claims.String("John Doe"))

	tok, err := token.Encode(set, keys.Secret("secret"), "HS256")

Asymmetric keys may be passed as keys.PEM text or as parsed keys:

	tok, err := token.Encode(set, keys.PEM(pemBytes), "ES256")

The "none" algorithm takes no key and leaves the signature segment empty:

	tok, err := token.Encode(claims.New(), nil, "none")
	// eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.e30.

An Encoder adds header members and logging, and signs through Vault Transit
when handed a vault.Client:

	enc := token.NewEncoder(token.WithKeyID(kid), token.WithLogger(log))
	tok, err := enc.EncodeContext(ctx, set, vaultClient, "RS256")
*/
package token
