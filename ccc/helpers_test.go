package ccc

import (
	"bytes"
	"crypto/ed25519"
	"crypto/x509"
	"encoding/hex"
	"strings"
	"testing"

	"acbridge.dev/ccc/algo"
)

type edSigner struct {
	priv ed25519.PrivateKey
}

func (s edSigner) Algorithm() string { return algo.Ed25519 }

func (s edSigner) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, msg), nil
}

// testKey returns a deterministic Ed25519 signer and its PKIX public key.
func testKey(t *testing.T, seed byte) (edSigner, []byte) {
	t.Helper()
	priv := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{seed}, ed25519.SeedSize))
	der, err := x509.MarshalPKIXPublicKey(priv.Public())
	if err != nil {
		t.Fatalf("MarshalPKIXPublicKey: %v", err)
	}
	return edSigner{priv: priv}, der
}

func unhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		t.Fatalf("bad hex in test: %v", err)
	}
	return b
}

func mustTrustRoot(t *testing.T, issuerKey []byte, eff, exp int64) *Draft {
	t.Helper()
	id := NewObjectIdentity(IdentityX509PublicKeyInfo, issuerKey)
	d, err := CreateTrustRoot("root-x", id, eff, exp, "root-x", id, []byte("extra"))
	if err != nil {
		t.Fatalf("CreateTrustRoot: %v", err)
	}
	return d
}

func mustSign(t *testing.T, d *Draft, s algo.Signer) *Certificate {
	t.Helper()
	c, err := d.Sign(s, algo.New(), algo.SHA256)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return c
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if !IsKind(err, kind) {
		t.Fatalf("expected %s, got %v (kind %q)", kind, err, KindOf(err))
	}
}
