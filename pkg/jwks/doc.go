/*
Package jwks publishes the public halves of signing keys as a JSON Web Key Set
(RFC 7517), so consumers of generated tokens can verify them.

	set := jwks.NewSet()
	key, err := jwks.FromPublicKey(&rsaKey.PublicKey, "rsa1", "RS256")
	if err != nil {
	    return err
	}
	set.Add(key)
	doc, err := set.Marshal()

EC coordinates are encoded at the curve's full width. HMAC secrets have no
public form and are rejected with ErrUnsupportedKey.
*/
package jwks
