/*
Package claims implements the ordered claim set that becomes a JWT payload.

Claims keep the order in which they were put, so the serialized payload is
byte-for-byte reproducible:

	set := claims.New().
	    Subject("1234567890").
	    Put("name", claims.String("John Doe"))

	payload, err := set.Serialize() // {"sub":"1234567890","name":"John Doe"}

Registered claims (iss, sub, aud, exp, nbf, iat, jti) have typed helpers, but any
name accepts any value kind. Nothing is validated: a string "exp" is serialized
as-is, which is how negative test fixtures are produced.
*/
package claims
