package ccc

import (
	"bytes"
	"fmt"

	"acbridge.dev/ccc/tlv"
)

// IdentityType says how ObjectIdentity raw bytes are interpreted.
type IdentityType uint16

const (
	// IdentityX509PublicKeyInfo carries a DER SubjectPublicKeyInfo.
	IdentityX509PublicKeyInfo IdentityType = 0
	// IdentityBID carries an opaque blockchain identity document.
	IdentityBID IdentityType = 1
	// IdentityRawPublicKey carries a scheme-specific raw public key
	// (used for keys with no X.509 form, such as Dilithium3).
	IdentityRawPublicKey IdentityType = 2
)

func (t IdentityType) String() string {
	switch t {
	case IdentityX509PublicKeyInfo:
		return "X509_PUBLIC_KEY_INFO"
	case IdentityBID:
		return "BID"
	case IdentityRawPublicKey:
		return "RAW_PUBLIC_KEY"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint16(t))
	}
}

// Known reports whether t is one of the identity types this package defines.
func (t IdentityType) Known() bool {
	return t <= IdentityRawPublicKey
}

const (
	tagIdentityType uint16 = 0
	tagIdentityRaw  uint16 = 1
)

// ObjectIdentity is a typed identity anchor. Identities of unknown type survive
// decode and re-encode unchanged but cannot be used for verification.
type ObjectIdentity struct {
	typ IdentityType
	raw []byte
}

// NewObjectIdentity copies raw.
func NewObjectIdentity(t IdentityType, raw []byte) ObjectIdentity {
	return ObjectIdentity{typ: t, raw: append([]byte(nil), raw...)}
}

func (o ObjectIdentity) Type() IdentityType { return o.typ }

// RawBytes returns a copy of the identity payload.
func (o ObjectIdentity) RawBytes() []byte {
	return append([]byte(nil), o.raw...)
}

// IsZero reports whether the identity carries no payload.
func (o ObjectIdentity) IsZero() bool {
	return len(o.raw) == 0
}

func (o ObjectIdentity) Equal(other ObjectIdentity) bool {
	return o.typ == other.typ && bytes.Equal(o.raw, other.raw)
}

// PublicKeyMaterial returns key material usable with an algo.Provider.
// BID and unknown identity types fail with UnsupportedIdentity.
func (o ObjectIdentity) PublicKeyMaterial() ([]byte, error) {
	switch o.typ {
	case IdentityX509PublicKeyInfo, IdentityRawPublicKey:
		if len(o.raw) == 0 {
			return nil, newError(KindUnsupportedIdentity, "CCC-ID-002", "identity carries no key material")
		}
		return o.RawBytes(), nil
	default:
		return nil, newError(KindUnsupportedIdentity, "CCC-ID-001", fmt.Sprintf("identity type %s cannot provide key material", o.typ))
	}
}

func (o ObjectIdentity) writer() *tlv.Writer {
	w := tlv.NewWriter()
	w.PutUint16(tagIdentityType, uint16(o.typ))
	w.PutBytes(tagIdentityRaw, o.raw)
	return w
}

// Encode returns the canonical TLV form of the identity.
func (o ObjectIdentity) Encode() []byte {
	return o.writer().Bytes()
}

// DecodeObjectIdentity is the inverse of Encode.
func DecodeObjectIdentity(b []byte) (ObjectIdentity, error) {
	p, err := tlv.Parse(b)
	if err != nil {
		return ObjectIdentity{}, decodeError("CCC-DEC-020", "malformed identity", err)
	}
	return identityFromPacket(p)
}

func identityFromPacket(p tlv.Packet) (ObjectIdentity, error) {
	if err := p.Expect(tagIdentityType, tagIdentityRaw); err != nil {
		return ObjectIdentity{}, decodeError("CCC-DEC-021", "malformed identity", err)
	}
	t, err := p.Uint16(tagIdentityType)
	if err != nil {
		return ObjectIdentity{}, decodeError("CCC-DEC-022", "malformed identity type", err)
	}
	raw, err := p.Bytes(tagIdentityRaw)
	if err != nil {
		return ObjectIdentity{}, decodeError("CCC-DEC-023", "malformed identity bytes", err)
	}
	return ObjectIdentity{typ: IdentityType(t), raw: raw}, nil
}

func nestedIdentity(p tlv.Packet, tag uint16, ruleID, what string) (ObjectIdentity, error) {
	n, err := p.Nested(tag)
	if err != nil {
		return ObjectIdentity{}, decodeError(ruleID, "malformed "+what, err)
	}
	return identityFromPacket(n)
}
