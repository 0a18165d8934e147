/*
Package keys holds the key material accepted by the token encoder.

HMAC secrets are plain bytes wrapped in Secret. Asymmetric keys arrive either
parsed (*rsa.PrivateKey, *ecdsa.PrivateKey) or as PEM text wrapped in PEM, which
a Parser turns into a parsed key:

	parser, _ := keys.NewParser(16)
	key, err := parser.Parse(keys.PEM(pemBytes))
	if errors.Is(err, keys.ErrMalformedKey) {
		// not an RSA or EC private key
	}

Parsed keys are cached by the SHA-256 digest of their PEM text so fixture
catalogs that reuse one key file across many algorithms parse it once.
*/
package keys
