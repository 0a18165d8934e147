// Package fixtures generates sample token files for exercising token
// consumers, both well-formed tokens for every algorithm and tokens carrying
// deliberately invalid claims.
package fixtures

import (
	"fmt"

	"github.com/alexadamm/jwt-fixtures-go/pkg/claims"
)

// Key names used by the default catalog
const (
	KeySecret = "secret"
	KeyRSA1   = "rsa1"
	KeyRSA2   = "rsa2"
	KeyEC256  = "ec256"
	KeyEC384  = "ec384"
	KeyEC521  = "ec521"
)

// Fixture is one token to generate
type Fixture struct {
	// Name is the output file name without the ".jwt" extension
	Name string

	// Algorithm is the JWS algorithm name
	Algorithm string

	// Key names a keyring entry, empty for "none"
	Key string

	Claims *claims.Set
}

// FileName returns the name of the file the fixture is written to
func (f Fixture) FileName() string {
	return f.Name + ".jwt"
}

// Catalog is an ordered list of fixtures
type Catalog []Fixture

// Filter returns the fixtures whose names are in names. An empty names
// returns the whole catalog.
func (c Catalog) Filter(names ...string) (Catalog, error) {
	if len(names) == 0 {
		return c, nil
	}

	byName := make(map[string]Fixture, len(c))
	for _, f := range c {
		byName[f.Name] = f
	}

	out := make(Catalog, 0, len(names))
	for _, name := range names {
		f, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown fixture %q", name)
		}
		out = append(out, f)
	}
	return out, nil
}

func samplePayload() *claims.Set {
	return claims.New().
		Subject("1234567890").
		Put("name", claims.String("John Doe"))
}

func allClaims(aud ...string) *claims.Set {
	return claims.New().
		Issuer("alphacoders.io").
		Subject("antoine").
		Audience(aud...).
		Put(claims.NameExpiresAt, claims.Int(1735689600)).
		Put(claims.NameNotBefore, claims.Int(0)).
		Put(claims.NameIssuedAt, claims.Int(1448371704)).
		ID("123456789")
}

func single(name string, v claims.Value) *claims.Set {
	return claims.New().Put(name, v)
}

// DefaultCatalog returns the standard fixture set: the sample payload signed
// with every algorithm, then registered-claim fixtures, valid and invalid.
func DefaultCatalog() Catalog {
	var c Catalog

	signed := []struct {
		key  string
		algs []string
	}{
		{KeySecret, []string{"HS256", "HS384", "HS512"}},
		{KeyRSA1, []string{"RS256", "RS384", "RS512", "PS256", "PS384", "PS512"}},
		{KeyEC256, []string{"ES256"}},
		{KeyEC384, []string{"ES384"}},
		{KeyEC521, []string{"ES512"}},
	}
	for _, s := range signed {
		for _, alg := range s.algs {
			c = append(c, Fixture{Name: alg, Algorithm: alg, Key: s.key, Claims: samplePayload()})
		}
	}
	for _, alg := range []string{"RS256", "RS384", "RS512"} {
		c = append(c, Fixture{Name: alg + "_2", Algorithm: alg, Key: KeyRSA2, Claims: samplePayload()})
	}

	const (
		badDate   = "11/11/2025"
		futureNum = 1762819200
	)

	c = append(c,
		Fixture{Name: "all_claim_valid_1", Algorithm: "none", Claims: allClaims("test-app")},
		Fixture{Name: "all_claim_valid_2", Algorithm: "none", Claims: allClaims("test-app", "test-app2")},
		Fixture{Name: "all_claim_valid_2_signed", Algorithm: "HS256", Key: KeySecret, Claims: allClaims("test-app", "test-app2")},
		Fixture{Name: "empty", Algorithm: "none", Claims: claims.New()},
		Fixture{Name: "invalid_exp_format", Algorithm: "none", Claims: single(claims.NameExpiresAt, claims.String(badDate))},
		Fixture{Name: "invalid_expired", Algorithm: "none", Claims: single(claims.NameExpiresAt, claims.Int(1448465478))},
		Fixture{Name: "invalid_nbf_format", Algorithm: "none", Claims: single(claims.NameNotBefore, claims.String(badDate))},
		Fixture{Name: "invalid_nbf_immature", Algorithm: "none", Claims: single(claims.NameNotBefore, claims.Int(futureNum))},
		Fixture{Name: "invalid_iat_format", Algorithm: "none", Claims: single(claims.NameIssuedAt, claims.String(badDate))},
		Fixture{Name: "invalid_iss_format", Algorithm: "none", Claims: single(claims.NameIssuer, claims.Int(futureNum))},
		Fixture{Name: "invalid_sub_format", Algorithm: "none", Claims: single(claims.NameSubject, claims.Int(futureNum))},
		Fixture{Name: "invalid_aud_format", Algorithm: "none", Claims: single(claims.NameAudience, claims.Int(futureNum))},
		Fixture{Name: "invalid_jti_format", Algorithm: "none", Claims: single(claims.NameID, claims.Int(futureNum))},
	)

	return c
}
