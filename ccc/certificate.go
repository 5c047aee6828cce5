// Package ccc implements the cross-chain certificate: a versioned envelope
// binding an identity to a typed credential subject, with a proof of issuance
// computed over a canonical encode-to-sign byte sequence.
//
// A certificate starts life as a Draft (no proof). Attaching a proof consumes
// the draft and yields an immutable Certificate.
package ccc

import (
	"sync/atomic"

	"acbridge.dev/ccc/algo"
)

// CurrentVersion is the only envelope version this package produces and accepts.
const CurrentVersion uint16 = 1

// Fields is the unsigned content of a certificate.
type Fields struct {
	Version       uint16
	SubjectID     string
	Issuer        ObjectIdentity
	EffectiveTime int64
	ExpireTime    int64
	Subject       CredentialSubject
}

type body struct {
	f Fields
}

func (b *body) Version() uint16            { return b.f.Version }
func (b *body) SubjectID() string          { return b.f.SubjectID }
func (b *body) Issuer() ObjectIdentity     { return b.f.Issuer }
func (b *body) EffectiveTime() int64       { return b.f.EffectiveTime }
func (b *body) ExpireTime() int64          { return b.f.ExpireTime }
func (b *body) Subject() CredentialSubject { return b.f.Subject }

// Fields returns a copy of the certificate content.
func (b *body) Fields() Fields { return b.f }

// EncodedToSign returns the canonical bytes that the proof digests and signs.
func (b *body) EncodedToSign() []byte {
	return b.toSignWriter().Bytes()
}

// Draft is a certificate without a proof. A draft is consumed by the first
// successful Attach (or Sign); later calls fail with ProofAlreadySet.
type Draft struct {
	body
	consumed atomic.Bool
}

// Consumed reports whether a proof has already been attached.
func (d *Draft) Consumed() bool {
	return d.consumed.Load()
}

// Attach consumes the draft and returns the signed certificate. Concurrent
// callers race on a single compare-and-swap; exactly one wins.
func (d *Draft) Attach(p Proof) (*Certificate, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if !d.consumed.CompareAndSwap(false, true) {
		return nil, newError(KindProofAlreadySet, "CCC-PROOF-001", "proof already attached to this certificate")
	}
	pr := p
	return &Certificate{body: d.body, proof: &pr}, nil
}

// canonicalDigester is implemented by providers that can report the canonical
// spelling of a digest algorithm name (algo.Std does).
type canonicalDigester interface {
	CanonicalDigest(name string) (string, error)
}

// Sign digests and signs the encode-to-sign bytes and attaches the resulting
// proof. The signer never sees anything but those bytes.
func (d *Draft) Sign(signer algo.Signer, provider algo.Provider, digestAlg string) (*Certificate, error) {
	if signer == nil || provider == nil {
		return nil, newError(KindInternal, "CCC-SIGN-001", "nil signer or provider")
	}
	if d.Consumed() {
		return nil, newError(KindProofAlreadySet, "CCC-PROOF-001", "proof already attached to this certificate")
	}
	if c, ok := provider.(canonicalDigester); ok {
		name, err := c.CanonicalDigest(digestAlg)
		if err != nil {
			return nil, algorithmError("CCC-SIGN-002", err)
		}
		digestAlg = name
	}
	msg := d.EncodedToSign()
	digest, err := provider.Digest(digestAlg, msg)
	if err != nil {
		return nil, algorithmError("CCC-SIGN-002", err)
	}
	sig, err := signer.Sign(msg)
	if err != nil {
		return nil, algorithmError("CCC-SIGN-003", err)
	}
	p, err := NewProof(digestAlg, digest, signer.Algorithm(), sig)
	if err != nil {
		return nil, err
	}
	return d.Attach(p)
}

// Certificate is an immutable certificate. A decoded certificate may lack a
// proof; one produced by Attach or Sign always has one.
type Certificate struct {
	body
	proof *Proof
}

// Proof returns the attached proof, if any.
func (c *Certificate) Proof() (Proof, bool) {
	if c.proof == nil {
		return Proof{}, false
	}
	return *c.proof, true
}

func (c *Certificate) HasProof() bool { return c.proof != nil }

// Draft reopens an unsigned certificate (for example one read from disk) so
// that it can be signed. It fails with ProofAlreadySet when a proof exists.
func (c *Certificate) Draft() (*Draft, error) {
	if c.proof != nil {
		return nil, newError(KindProofAlreadySet, "CCC-PROOF-002", "certificate already carries a proof")
	}
	return &Draft{body: c.body}, nil
}
