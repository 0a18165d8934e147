package vault

import (
	"crypto/ecdsa"
	"crypto/hmac"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/alexadamm/jwt-fixtures-go/internal/testkeys"
	"github.com/alexadamm/jwt-fixtures-go/pkg/token/algorithms"
)

// fakeTransit serves the subset of the Transit API the client uses, backed
// by in-process keys
type fakeTransit struct {
	t        *testing.T
	name     string
	keyType  string
	mu       sync.Mutex
	versions []interface{}
	reads    int
	requests []map[string]interface{}
}

func newFakeTransit(t *testing.T, name, keyType string, key interface{}) (*fakeTransit, *httptest.Server) {
	f := &fakeTransit{t: t, name: name, keyType: keyType, versions: []interface{}{key}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeTransit) reply(w http.ResponseWriter, data map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"data": data}); err != nil {
		f.t.Errorf("encode response: %v", err)
	}
}

func (f *fakeTransit) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case "/v1/transit/keys/" + f.name:
		f.reads++
		keys := make(map[string]interface{})
		for i, key := range f.versions {
			version := fmt.Sprint(i + 1)
			switch k := key.(type) {
			case *rsa.PrivateKey:
				keys[version] = map[string]interface{}{"public_key": string(testkeys.PublicPEM(&k.PublicKey))}
			case *ecdsa.PrivateKey:
				keys[version] = map[string]interface{}{"public_key": string(testkeys.PublicPEM(&k.PublicKey))}
			default:
				keys[version] = 1700000000
			}
		}
		f.reply(w, map[string]interface{}{
			"type":           f.keyType,
			"latest_version": len(f.versions),
			"keys":           keys,
		})

	case "/v1/transit/keys/" + f.name + "/rotate":
		f.versions = append(f.versions, f.versions[len(f.versions)-1])
		w.WriteHeader(http.StatusNoContent)

	case "/v1/transit/sign/" + f.name:
		body := f.decode(r)
		alg, err := f.algorithm(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		input, _ := base64.StdEncoding.DecodeString(body["input"].(string))
		sig, err := alg.Sign(input, f.versions[len(f.versions)-1])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.reply(w, map[string]interface{}{
			"signature": fmt.Sprintf("vault:v%d:%s", len(f.versions), base64.RawURLEncoding.EncodeToString(sig)),
		})

	case "/v1/transit/hmac/" + f.name:
		body := f.decode(r)
		input, _ := base64.StdEncoding.DecodeString(body["input"].(string))
		alg, err := algorithms.Get("HS" + strings.TrimPrefix(body["algorithm"].(string), "sha2-"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mac := hmac.New(alg.Hash().New, f.versions[len(f.versions)-1].([]byte))
		mac.Write(input)
		f.reply(w, map[string]interface{}{
			"hmac": fmt.Sprintf("vault:v%d:%s", len(f.versions), base64.StdEncoding.EncodeToString(mac.Sum(nil))),
		})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeTransit) decode(r *http.Request) map[string]interface{} {
	body := make(map[string]interface{})
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		f.t.Errorf("decode request: %v", err)
	}
	f.requests = append(f.requests, body)
	return body
}

// algorithm maps Transit signing parameters back to the JWS algorithm name
func (f *fakeTransit) algorithm(body map[string]interface{}) (algorithms.Algorithm, error) {
	bits := strings.TrimPrefix(fmt.Sprint(body["hash_algorithm"]), "sha2-")
	prefix := "ES"
	if strings.HasPrefix(f.keyType, "rsa-") {
		prefix = "RS"
		if body["signature_algorithm"] == "pss" {
			prefix = "PS"
		}
	}
	return algorithms.Get(prefix + bits)
}
