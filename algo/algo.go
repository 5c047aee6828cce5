// Package algo provides the named digest and signature algorithms used to
// issue and verify cross-chain certificates.
//
// There is no process-wide registry: callers construct a Provider with New and
// pass it explicitly to signing and verification. Unknown algorithm names
// always fail with ErrUnsupported; nothing falls back to a default.
package algo

import "errors"

// Digest algorithm names. These exact spellings are recorded in proofs.
const (
	SHA256     = "SHA256"
	SHA512     = "SHA512"
	SHA3_256   = "SHA3-256"
	Keccak256  = "KECCAK-256"
	BLAKE2b256 = "BLAKE2B-256"
	SM3        = "SM3"
)

// Signature algorithm names. These exact spellings are recorded in proofs.
const (
	Ed25519         = "Ed25519"
	SHA256WithECDSA = "SHA256WithECDSA"
	SHA256WithRSA   = "SHA256WithRSA"
	SM3WithSM2      = "SM3WithSM2"
	Dilithium3      = "Dilithium3"
)

var (
	ErrUnsupported  = errors.New("algo: unsupported algorithm")
	ErrInvalidKey   = errors.New("algo: invalid public key")
	ErrBadSignature = errors.New("algo: signature verification failed")
)

// Provider computes digests and checks signatures by algorithm name.
//
// Public key material is the PKIX (SubjectPublicKeyInfo) DER encoding for
// Ed25519, ECDSA, RSA and SM2 keys, and the raw scheme encoding for Dilithium3.
type Provider interface {
	Digest(alg string, msg []byte) ([]byte, error)
	Verify(alg string, publicKey, msg, sig []byte) error
}

// Signer is the signing backend. Implementations hold the private key; this
// module never inspects it.
type Signer interface {
	// Algorithm returns the canonical signature algorithm name.
	Algorithm() string
	// Sign signs msg (not a digest of it).
	Sign(msg []byte) ([]byte, error)
}
