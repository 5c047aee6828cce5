package keys

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"fmt"
	"io"
	"strings"

	"acbridge.dev/ccc/algo"
	"acbridge.dev/ccc/ccc"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"github.com/emmansun/gmsm/sm2"
	"github.com/emmansun/gmsm/smx509"
)

// RSABits is the modulus size used by Generate for SHA256WithRSA.
const RSABits = 2048

var supported = []string{
	algo.Ed25519,
	algo.SHA256WithECDSA,
	algo.SHA256WithRSA,
	algo.SM3WithSM2,
	algo.Dilithium3,
}

// Algorithms lists the signature algorithms keys can generate.
func Algorithms() []string {
	return append([]string(nil), supported...)
}

// CanonicalAlgorithm matches name case-insensitively against Algorithms.
func CanonicalAlgorithm(name string) (string, error) {
	for _, a := range supported {
		if strings.EqualFold(strings.TrimSpace(name), a) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", algo.ErrUnsupported, name)
}

// PrivateKey is a signing key bound to one signature algorithm.
type PrivateKey struct {
	alg string

	ed     ed25519.PrivateKey
	ec     *ecdsa.PrivateKey
	rsaKey *rsa.PrivateKey
	sm2Key *sm2.PrivateKey
	dil    *mode3.PrivateKey
	dilPub *mode3.PublicKey
}

var _ algo.Signer = (*PrivateKey)(nil)

// Generate creates a new key for alg, reading randomness from r.
// A nil r means crypto/rand.
func Generate(alg string, r io.Reader) (*PrivateKey, error) {
	name, err := CanonicalAlgorithm(alg)
	if err != nil {
		return nil, err
	}
	if r == nil {
		r = rand.Reader
	}
	k := &PrivateKey{alg: name}
	switch name {
	case algo.Ed25519:
		_, k.ed, err = ed25519.GenerateKey(r)
	case algo.SHA256WithECDSA:
		k.ec, err = ecdsa.GenerateKey(elliptic.P256(), r)
	case algo.SHA256WithRSA:
		k.rsaKey, err = rsa.GenerateKey(r, RSABits)
	case algo.SM3WithSM2:
		k.sm2Key, err = sm2.GenerateKey(r)
	case algo.Dilithium3:
		k.dilPub, k.dil, err = mode3.GenerateKey(r)
	}
	if err != nil {
		return nil, fmt.Errorf("generate %s key: %w", name, err)
	}
	return k, nil
}

// FromEd25519Seed returns the Ed25519 key for a 32-byte seed.
func FromEd25519Seed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &PrivateKey{alg: algo.Ed25519, ed: ed25519.NewKeyFromSeed(seed)}, nil
}

// Algorithm returns the canonical signature algorithm name.
func (k *PrivateKey) Algorithm() string { return k.alg }

// Sign signs msg. Hashing, where the scheme needs it, happens here.
func (k *PrivateKey) Sign(msg []byte) ([]byte, error) {
	switch k.alg {
	case algo.Ed25519:
		return ed25519.Sign(k.ed, msg), nil
	case algo.SHA256WithECDSA:
		d := sha256.Sum256(msg)
		return ecdsa.SignASN1(rand.Reader, k.ec, d[:])
	case algo.SHA256WithRSA:
		d := sha256.Sum256(msg)
		return rsa.SignPKCS1v15(rand.Reader, k.rsaKey, crypto.SHA256, d[:])
	case algo.SM3WithSM2:
		return k.sm2Key.Sign(rand.Reader, msg, sm2.DefaultSM2SignerOpts)
	case algo.Dilithium3:
		sig := make([]byte, mode3.SignatureSize)
		mode3.SignTo(k.dil, msg, sig)
		return sig, nil
	default:
		return nil, fmt.Errorf("%w: %q", algo.ErrUnsupported, k.alg)
	}
}

// PublicKeyMaterial returns the verification key in the form algo expects:
// PKIX DER, or the raw scheme encoding for Dilithium3.
func (k *PrivateKey) PublicKeyMaterial() ([]byte, error) {
	switch k.alg {
	case algo.Ed25519:
		return x509.MarshalPKIXPublicKey(k.ed.Public())
	case algo.SHA256WithECDSA:
		return x509.MarshalPKIXPublicKey(&k.ec.PublicKey)
	case algo.SHA256WithRSA:
		return x509.MarshalPKIXPublicKey(&k.rsaKey.PublicKey)
	case algo.SM3WithSM2:
		return smx509.MarshalPKIXPublicKey(&k.sm2Key.PublicKey)
	case algo.Dilithium3:
		return k.dilPub.MarshalBinary()
	default:
		return nil, fmt.Errorf("%w: %q", algo.ErrUnsupported, k.alg)
	}
}

// Identity returns the identity anchor for the public key.
func (k *PrivateKey) Identity() (ccc.ObjectIdentity, error) {
	pub, err := k.PublicKeyMaterial()
	if err != nil {
		return ccc.ObjectIdentity{}, err
	}
	return ccc.NewObjectIdentity(IdentityType(k.alg), pub), nil
}

// IdentityType is the identity type used for public keys of alg.
func IdentityType(alg string) ccc.IdentityType {
	if alg == algo.Dilithium3 {
		return ccc.IdentityRawPublicKey
	}
	return ccc.IdentityX509PublicKeyInfo
}
