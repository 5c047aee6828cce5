package ccc

import (
	"fmt"

	"acbridge.dev/ccc/tlv"
)

// Envelope tags, in wire order. Tags 0-5 form the encode-to-sign bytes; the
// full encoding appends tag 6 when a proof is present.
const (
	tagVersion       uint16 = 0
	tagSubjectID     uint16 = 1
	tagIssuer        uint16 = 2
	tagEffectiveTime uint16 = 3
	tagExpireTime    uint16 = 4
	tagSubject       uint16 = 5
	tagProof         uint16 = 6
)

// Credential subject container tags.
const (
	tagSubjectKind uint16 = 0
	tagSubjectBody uint16 = 1
)

func (b *body) toSignWriter() *tlv.Writer {
	sub := tlv.NewWriter()
	sub.PutUint16(tagSubjectKind, uint16(b.f.Subject.Kind()))
	sub.PutBytes(tagSubjectBody, b.f.Subject.Encode())

	w := tlv.NewWriter()
	w.PutUint16(tagVersion, b.f.Version)
	w.PutString(tagSubjectID, b.f.SubjectID)
	w.PutNested(tagIssuer, b.f.Issuer.writer())
	w.PutInt64(tagEffectiveTime, b.f.EffectiveTime)
	w.PutInt64(tagExpireTime, b.f.ExpireTime)
	w.PutNested(tagSubject, sub)
	return w
}

// Encode returns the full binary form: the encode-to-sign items followed by
// the proof, when there is one.
func (c *Certificate) Encode() []byte {
	w := c.toSignWriter()
	if c.proof != nil {
		w.PutNested(tagProof, c.proof.writer())
	}
	return w.Bytes()
}

// Decode is the exact inverse of (*Certificate).Encode. Input that is not
// canonical is rejected rather than repaired.
func Decode(b []byte) (*Certificate, error) {
	p, err := tlv.Parse(b)
	if err != nil {
		return nil, decodeError("CCC-DEC-001", "malformed certificate", err)
	}
	if !p.Has(tagVersion) {
		return nil, decodeError("CCC-DEC-002", "certificate has no version", nil)
	}
	version, err := p.Uint16(tagVersion)
	if err != nil {
		return nil, decodeError("CCC-DEC-003", "malformed certificate version", err)
	}
	if version != CurrentVersion {
		return nil, newError(KindUnsupportedVersion, "CCC-DEC-004", fmt.Sprintf("unsupported certificate version %d", version))
	}

	tags := []uint16{tagVersion, tagSubjectID, tagIssuer, tagEffectiveTime, tagExpireTime, tagSubject}
	if p.Has(tagProof) {
		tags = append(tags, tagProof)
	}
	if err := p.Expect(tags...); err != nil {
		return nil, decodeError("CCC-DEC-005", "malformed certificate", err)
	}

	f := Fields{Version: version}
	if f.SubjectID, err = p.String(tagSubjectID); err != nil {
		return nil, decodeError("CCC-DEC-006", "malformed subject id", err)
	}
	if f.Issuer, err = nestedIdentity(p, tagIssuer, "CCC-DEC-007", "issuer identity"); err != nil {
		return nil, err
	}
	if f.EffectiveTime, err = p.Int64(tagEffectiveTime); err != nil {
		return nil, decodeError("CCC-DEC-008", "malformed effective time", err)
	}
	if f.ExpireTime, err = p.Int64(tagExpireTime); err != nil {
		return nil, decodeError("CCC-DEC-009", "malformed expire time", err)
	}
	if f.Subject, err = decodeSubjectContainer(p); err != nil {
		return nil, err
	}
	if err := ValidateRules(&f, DefaultRules()); err != nil {
		return nil, decodeError("CCC-DEC-012", "decoded certificate violates field rules", err)
	}

	c := &Certificate{body: body{f: f}}
	if p.Has(tagProof) {
		n, err := p.Nested(tagProof)
		if err != nil {
			return nil, decodeError("CCC-DEC-013", "malformed proof", err)
		}
		pr, err := proofFromPacket(n)
		if err != nil {
			return nil, err
		}
		c.proof = &pr
	}
	return c, nil
}

func decodeSubjectContainer(p tlv.Packet) (CredentialSubject, error) {
	n, err := p.Nested(tagSubject)
	if err != nil {
		return nil, decodeError("CCC-DEC-010", "malformed credential subject", err)
	}
	if err := n.Expect(tagSubjectKind, tagSubjectBody); err != nil {
		return nil, decodeError("CCC-DEC-010", "malformed credential subject", err)
	}
	kind, err := n.Uint16(tagSubjectKind)
	if err != nil {
		return nil, decodeError("CCC-DEC-011", "malformed subject kind", err)
	}
	raw, err := n.Bytes(tagSubjectBody)
	if err != nil {
		return nil, decodeError("CCC-DEC-010", "malformed credential subject", err)
	}
	return DecodeSubject(SubjectKind(kind), raw)
}
