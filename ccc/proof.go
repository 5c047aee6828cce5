package ccc

import (
	"bytes"

	"acbridge.dev/ccc/tlv"
)

const (
	tagProofDigestAlg    uint16 = 0
	tagProofDigestValue  uint16 = 1
	tagProofSignatureAlg uint16 = 2
	tagProofSignature    uint16 = 3
)

// Proof is the digest and signature an issuer computed over a certificate's
// encode-to-sign bytes.
type Proof struct {
	digestAlg string
	digest    []byte
	sigAlg    string
	sig       []byte
}

// NewProof copies its byte arguments. All four values must be non-empty.
func NewProof(digestAlg string, digest []byte, sigAlg string, sig []byte) (Proof, error) {
	p := Proof{
		digestAlg: digestAlg,
		digest:    append([]byte(nil), digest...),
		sigAlg:    sigAlg,
		sig:       append([]byte(nil), sig...),
	}
	if err := p.validate(); err != nil {
		return Proof{}, err
	}
	return p, nil
}

func (p Proof) validate() error {
	if err := requireText("CCC-PROOF-010", "digestAlgorithm", p.digestAlg); err != nil {
		return err
	}
	if len(p.digest) == 0 {
		return fieldError("CCC-PROOF-011", "digestValue", "non-empty", "0 bytes")
	}
	if err := requireText("CCC-PROOF-012", "signatureAlgorithm", p.sigAlg); err != nil {
		return err
	}
	if len(p.sig) == 0 {
		return fieldError("CCC-PROOF-013", "signatureValue", "non-empty", "0 bytes")
	}
	return nil
}

func (p Proof) DigestAlgorithm() string    { return p.digestAlg }
func (p Proof) DigestValue() []byte        { return append([]byte(nil), p.digest...) }
func (p Proof) SignatureAlgorithm() string { return p.sigAlg }
func (p Proof) SignatureValue() []byte     { return append([]byte(nil), p.sig...) }

func (p Proof) Equal(o Proof) bool {
	return p.digestAlg == o.digestAlg && p.sigAlg == o.sigAlg &&
		bytes.Equal(p.digest, o.digest) && bytes.Equal(p.sig, o.sig)
}

func (p Proof) writer() *tlv.Writer {
	w := tlv.NewWriter()
	w.PutString(tagProofDigestAlg, p.digestAlg)
	w.PutBytes(tagProofDigestValue, p.digest)
	w.PutString(tagProofSignatureAlg, p.sigAlg)
	w.PutBytes(tagProofSignature, p.sig)
	return w
}

func proofFromPacket(p tlv.Packet) (Proof, error) {
	if err := p.Expect(tagProofDigestAlg, tagProofDigestValue, tagProofSignatureAlg, tagProofSignature); err != nil {
		return Proof{}, decodeError("CCC-DEC-080", "malformed proof", err)
	}
	var (
		pr  Proof
		err error
	)
	if pr.digestAlg, err = p.String(tagProofDigestAlg); err != nil {
		return Proof{}, decodeError("CCC-DEC-081", "malformed digest algorithm", err)
	}
	if pr.digest, err = p.Bytes(tagProofDigestValue); err != nil {
		return Proof{}, decodeError("CCC-DEC-082", "malformed digest value", err)
	}
	if pr.sigAlg, err = p.String(tagProofSignatureAlg); err != nil {
		return Proof{}, decodeError("CCC-DEC-083", "malformed signature algorithm", err)
	}
	if pr.sig, err = p.Bytes(tagProofSignature); err != nil {
		return Proof{}, decodeError("CCC-DEC-084", "malformed signature value", err)
	}
	if err := pr.validate(); err != nil {
		return Proof{}, decodeError("CCC-DEC-085", "invalid proof", err)
	}
	return pr, nil
}
