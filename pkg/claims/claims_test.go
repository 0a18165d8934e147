package claims

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize(t *testing.T) {
	tests := []struct {
		name string
		set  *Set
		want string
	}{
		{
			name: "empty set",
			set:  New(),
			want: `{}`,
		},
		{
			name: "nil set",
			set:  nil,
			want: `{}`,
		},
		{
			name: "insertion order kept",
			set: New().
				Put("sub", String("1234567890")).
				Put("name", String("John Doe")),
			want: `{"sub":"1234567890","name":"John Doe"}`,
		},
		{
			name: "not alphabetised",
			set: New().
				Put("z", Int(1)).
				Put("a", Int(2)),
			want: `{"z":1,"a":2}`,
		},
		{
			name: "audience array",
			set:  New().Audience("test-app", "test-app2"),
			want: `{"aud":["test-app","test-app2"]}`,
		},
		{
			name: "single audience as string",
			set:  New().Audience("test-app"),
			want: `{"aud":"test-app"}`,
		},
		{
			name: "empty strings value",
			set:  New().Put("roles", Strings()),
			want: `{"roles":[]}`,
		},
		{
			name: "exp as string is not validated",
			set:  New().Put(NameExpiresAt, String("11/11/2025")),
			want: `{"exp":"11/11/2025"}`,
		},
		{
			name: "iss as integer is not validated",
			set:  New().Put(NameIssuer, Int(1762819200)),
			want: `{"iss":1762819200}`,
		},
		{
			name: "escaping",
			set:  New().Put("quote", String(`a"b\c`)),
			want: `{"quote":"a\"b\\c"}`,
		},
		{
			name: "raw values",
			set: New().
				Put("admin", Raw(true)).
				Put("nothing", Raw(nil)).
				Put("ratio", Raw(0.5)),
			want: `{"admin":true,"nothing":null,"ratio":0.5}`,
		},
		{
			name: "nested set",
			set:  New().Put("user", Raw(New().Put("id", Int(7)))),
			want: `{"user":{"id":7}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.set.Serialize()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestSerialize_EncodingFailure(t *testing.T) {
	set := New().Put("bad", Raw(math.NaN()))

	_, err := set.Serialize()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEncoding))
	assert.Contains(t, err.Error(), `"bad"`)
}

func TestRegisteredClaims(t *testing.T) {
	exp := time.Unix(1735689600, 0)
	set := New().
		Issuer("alphacoders.io").
		Subject("antoine").
		Audience("test-app").
		ExpiresAt(exp).
		NotBefore(time.Unix(0, 0)).
		IssuedAt(time.Unix(1448371704, 0)).
		ID("123456789")

	got, err := set.Serialize()
	require.NoError(t, err)
	assert.Equal(t,
		`{"iss":"alphacoders.io","sub":"antoine","aud":"test-app","exp":1735689600,"nbf":0,"iat":1448371704,"jti":"123456789"}`,
		string(got))
}

func TestPutReplacesInPlace(t *testing.T) {
	set := New().
		Put("a", Int(1)).
		Put("b", Int(2)).
		Put("a", String("x"))

	assert.Equal(t, []string{"a", "b"}, set.Names())
	v, ok := set.Get("a")
	require.True(t, ok)
	assert.Equal(t, KindString, v.Kind())
	assert.Equal(t, "x", v.Interface())
}

func TestDelete(t *testing.T) {
	set := New().Put("a", Int(1)).Put("b", Int(2)).Put("c", Int(3))
	set.Delete("b")
	set.Delete("missing")

	assert.Equal(t, []string{"a", "c"}, set.Names())
	v, ok := set.Get("c")
	require.True(t, ok)
	assert.Equal(t, int64(3), v.Interface())

	set.Put("b", Int(4))
	assert.Equal(t, []string{"a", "c", "b"}, set.Names())
}

func TestClone(t *testing.T) {
	orig := New().Subject("one")
	cp := orig.Clone().Subject("two").ID("x")

	sub, _ := orig.Get(NameSubject)
	assert.Equal(t, "one", sub.Interface())
	assert.Equal(t, 1, orig.Len())
	assert.Equal(t, 2, cp.Len())
}

func TestStringsIsCopied(t *testing.T) {
	aud := []string{"a", "b"}
	v := Strings(aud...)
	aud[0] = "changed"

	assert.Equal(t, []string{"a", "b"}, v.Interface())
}

func TestRange_StopsEarly(t *testing.T) {
	set := New().Put("a", Int(1)).Put("b", Int(2)).Put("c", Int(3))

	var seen []string
	set.Range(func(name string, _ Value) bool {
		seen = append(seen, name)
		return name != "b"
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}
