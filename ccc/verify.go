package ccc

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"acbridge.dev/ccc/algo"
)

// VerifyOptions configures Verify.
type VerifyOptions struct {
	// Provider supplies digest and signature algorithms. Nil means algo.New().
	Provider algo.Provider
	// At is the time the validity window is checked against. Zero means now.
	At time.Time
}

func (o VerifyOptions) provider() algo.Provider {
	if o.Provider == nil {
		return algo.New()
	}
	return o.Provider
}

func (o VerifyOptions) at() time.Time {
	if o.At.IsZero() {
		return time.Now()
	}
	return o.At
}

// Verify checks cert's proof against the issuer public key material.
//
// Checks run in a fixed order and the first failure is returned: proof present,
// validity window (inclusive on both ends), digest, signature. The digest and
// the signature are independent gates and both must pass. Unknown algorithms
// fail closed with UnsupportedAlgorithm.
func Verify(cert *Certificate, issuerKey []byte, opts VerifyOptions) error {
	if cert == nil {
		return newError(KindInternal, "CCC-VFY-000", "nil certificate")
	}
	proof, ok := cert.Proof()
	if !ok {
		return newError(KindMissingProof, "CCC-VFY-001", "certificate has no proof")
	}

	at := opts.at().Unix()
	if at < cert.EffectiveTime() || at > cert.ExpireTime() {
		return newError(KindCertificateExpired, "CCC-VFY-002",
			fmt.Sprintf("time %d outside validity window [%d, %d]", at, cert.EffectiveTime(), cert.ExpireTime()))
	}

	p := opts.provider()
	msg := cert.EncodedToSign()

	digest, err := p.Digest(proof.DigestAlgorithm(), msg)
	if err != nil {
		return algorithmError("CCC-VFY-003", err)
	}
	if subtle.ConstantTimeCompare(digest, proof.digest) != 1 {
		return newError(KindDigestMismatch, "CCC-VFY-004", "digest does not match encode-to-sign bytes")
	}

	if err := p.Verify(proof.SignatureAlgorithm(), issuerKey, msg, proof.sig); err != nil {
		if errors.Is(err, algo.ErrUnsupported) {
			return algorithmError("CCC-VFY-005", err)
		}
		return wrapError(KindSignatureInvalid, "CCC-VFY-006", "signature verification failed", err)
	}
	return nil
}

// VerifyWithIdentity verifies against the key material carried by an identity.
// BID and unknown identity types fail with UnsupportedIdentity.
func VerifyWithIdentity(cert *Certificate, issuer ObjectIdentity, opts VerifyOptions) error {
	key, err := issuer.PublicKeyMaterial()
	if err != nil {
		return err
	}
	return Verify(cert, key, opts)
}

// VerifyIssuedBy verifies cert against the subject identity of issuerCert,
// after checking that cert names that identity as its issuer. issuerCert
// itself is not verified here.
func VerifyIssuedBy(cert, issuerCert *Certificate, opts VerifyOptions) error {
	if cert == nil || issuerCert == nil {
		return newError(KindInternal, "CCC-VFY-000", "nil certificate")
	}
	id := issuerCert.Subject().SubjectIdentity()
	if !cert.Issuer().Equal(id) {
		return newError(KindSignatureInvalid, "CCC-VFY-007",
			fmt.Sprintf("certificate %q is not issued by the subject of %q", cert.SubjectID(), issuerCert.SubjectID()))
	}
	return VerifyWithIdentity(cert, id, opts)
}

func algorithmError(ruleID string, err error) error {
	if errors.Is(err, algo.ErrUnsupported) {
		return wrapError(KindUnsupportedAlgorithm, ruleID, "unsupported algorithm", err)
	}
	return wrapError(KindInternal, ruleID, "algorithm provider failed", err)
}
