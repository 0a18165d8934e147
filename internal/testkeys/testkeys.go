// Package testkeys hands out throwaway keys for tests. Keys are generated once
// per process and shared.
package testkeys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"sync"
)

var (
	rsaOnce sync.Once
	rsaKeys [2]*rsa.PrivateKey

	ecMu   sync.Mutex
	ecKeys = make(map[string]*ecdsa.PrivateKey)
)

func genRSA() {
	for i := range rsaKeys {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(fmt.Sprintf("testkeys: generate RSA key: %v", err))
		}
		rsaKeys[i] = k
	}
}

// RSA returns the first shared 2048-bit RSA key
func RSA() *rsa.PrivateKey {
	rsaOnce.Do(genRSA)
	return rsaKeys[0]
}

// RSA2 returns a second RSA key distinct from RSA()
func RSA2() *rsa.PrivateKey {
	rsaOnce.Do(genRSA)
	return rsaKeys[1]
}

// EC returns the shared key on curve
func EC(curve elliptic.Curve) *ecdsa.PrivateKey {
	ecMu.Lock()
	defer ecMu.Unlock()

	name := curve.Params().Name
	if k, ok := ecKeys[name]; ok {
		return k
	}
	k, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		panic(fmt.Sprintf("testkeys: generate %s key: %v", name, err))
	}
	ecKeys[name] = k
	return k
}

// PKCS1PEM encodes an RSA key as an "RSA PRIVATE KEY" block
func PKCS1PEM(k *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(k)})
}

// SEC1PEM encodes an EC key as an "EC PRIVATE KEY" block
func SEC1PEM(k *ecdsa.PrivateKey) []byte {
	der, err := x509.MarshalECPrivateKey(k)
	if err != nil {
		panic(err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
}

// PKCS8PEM encodes any supported private key as a "PRIVATE KEY" block
func PKCS8PEM(k interface{}) []byte {
	der, err := x509.MarshalPKCS8PrivateKey(k)
	if err != nil {
		panic(err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

// PublicPEM encodes the public half of a key as a "PUBLIC KEY" block
func PublicPEM(pub interface{}) []byte {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		panic(err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}
