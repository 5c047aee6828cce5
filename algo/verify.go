package algo

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"github.com/emmansun/gmsm/sm2"
	"github.com/emmansun/gmsm/smx509"
)

func builtinVerifiers() []namedVerifier {
	return []namedVerifier{
		{name: Ed25519, fn: verifyEd25519},
		{name: SHA256WithECDSA, fn: verifyECDSA},
		{name: SHA256WithRSA, fn: verifyRSA},
		{name: SM3WithSM2, fn: verifySM2},
		{name: Dilithium3, fn: verifyDilithium3},
	}
}

func verifyEd25519(publicKey, msg, sig []byte) error {
	k, err := x509.ParsePKIXPublicKey(publicKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	pub, ok := k.(ed25519.PublicKey)
	if !ok {
		return fmt.Errorf("%w: expected Ed25519 key, got %T", ErrInvalidKey, k)
	}
	if len(sig) != ed25519.SignatureSize || !ed25519.Verify(pub, msg, sig) {
		return ErrBadSignature
	}
	return nil
}

func verifyECDSA(publicKey, msg, sig []byte) error {
	k, err := x509.ParsePKIXPublicKey(publicKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	pub, ok := k.(*ecdsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: expected ECDSA key, got %T", ErrInvalidKey, k)
	}
	d := sha256.Sum256(msg)
	if !ecdsa.VerifyASN1(pub, d[:], sig) {
		return ErrBadSignature
	}
	return nil
}

func verifyRSA(publicKey, msg, sig []byte) error {
	k, err := x509.ParsePKIXPublicKey(publicKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	pub, ok := k.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: expected RSA key, got %T", ErrInvalidKey, k)
	}
	d := sha256.Sum256(msg)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, d[:], sig); err != nil {
		return ErrBadSignature
	}
	return nil
}

// verifySM2 uses the default SM2 user id, as GM/T 0009 specifies when none is
// agreed out of band.
func verifySM2(publicKey, msg, sig []byte) error {
	k, err := smx509.ParsePKIXPublicKey(publicKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	pub, ok := k.(*ecdsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: expected SM2 key, got %T", ErrInvalidKey, k)
	}
	if !sm2.VerifyASN1WithSM2(pub, nil, msg, sig) {
		return ErrBadSignature
	}
	return nil
}

func verifyDilithium3(publicKey, msg, sig []byte) error {
	if len(publicKey) != mode3.PublicKeySize {
		return fmt.Errorf("%w: dilithium3 public key is %d bytes, want %d", ErrInvalidKey, len(publicKey), mode3.PublicKeySize)
	}
	var pub mode3.PublicKey
	if err := pub.UnmarshalBinary(publicKey); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(sig) != mode3.SignatureSize || !mode3.Verify(&pub, msg, sig) {
		return ErrBadSignature
	}
	return nil
}
