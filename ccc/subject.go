package ccc

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"acbridge.dev/ccc/tlv"
)

// SubjectKind discriminates the credential subject variants.
type SubjectKind uint16

const (
	SubjectTrustRoot  SubjectKind = 0
	SubjectDomainName SubjectKind = 1
	SubjectRelayer    SubjectKind = 2
)

func (k SubjectKind) String() string {
	switch k {
	case SubjectTrustRoot:
		return "TRUST_ROOT"
	case SubjectDomainName:
		return "DOMAIN_NAME"
	case SubjectRelayer:
		return "RELAYER"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint16(k))
	}
}

// CredentialSubject is the typed payload a certificate attests to.
//
// The set of variants is closed: TrustRootSubject, DomainNameSubject and
// RelayerSubject. Encode returns a 2-byte big-endian version followed by a
// canonical TLV packet of the variant's fields.
type CredentialSubject interface {
	Kind() SubjectKind
	Version() uint16
	Encode() []byte
	// SubjectIdentity is the identity the certificate vouches for.
	SubjectIdentity() ObjectIdentity

	validate() error
	encodedSize() (int, error)
}

// DecodeSubject decodes subject bytes of the given kind.
func DecodeSubject(kind SubjectKind, b []byte) (CredentialSubject, error) {
	var (
		s   CredentialSubject
		err error
	)
	switch kind {
	case SubjectTrustRoot:
		s, err = DecodeTrustRootSubject(b)
	case SubjectDomainName:
		s, err = DecodeDomainNameSubject(b)
	case SubjectRelayer:
		s, err = DecodeRelayerSubject(b)
	default:
		return nil, decodeError("CCC-DEC-030", fmt.Sprintf("unknown subject kind %d", uint16(kind)), nil)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func encodeVersioned(version uint16, w *tlv.Writer) []byte {
	body := w.Bytes()
	out := make([]byte, 2, 2+len(body))
	binary.BigEndian.PutUint16(out, version)
	return append(out, body...)
}

// openVersioned checks the version prefix and parses the packet after it.
func openVersioned(b []byte, want uint16, kind SubjectKind) (tlv.Packet, error) {
	if len(b) < 2 {
		return tlv.Packet{}, decodeError("CCC-DEC-031", fmt.Sprintf("%s subject shorter than its version prefix", kind), nil)
	}
	if v := binary.BigEndian.Uint16(b[:2]); v != want {
		return tlv.Packet{}, newError(KindUnsupportedVersion, "CCC-DEC-032", fmt.Sprintf("unsupported %s subject version %d", kind, v))
	}
	p, err := tlv.Parse(b[2:])
	if err != nil {
		return tlv.Packet{}, decodeError("CCC-DEC-033", fmt.Sprintf("malformed %s subject", kind), err)
	}
	return p, nil
}

func requireText(ruleID, field, v string) error {
	if v == "" {
		return fieldError(ruleID, field, "non-empty", `""`)
	}
	if !utf8.ValidString(v) {
		return fieldError(ruleID, field, "valid UTF-8", "invalid bytes")
	}
	return nil
}

func requireIdentity(ruleID, field string, id ObjectIdentity) error {
	if id.IsZero() {
		return fieldError(ruleID, field, "identity with raw bytes", "empty identity")
	}
	return nil
}

// subjectDecodeCheck runs a decoded subject's own rules so that a decoder never
// yields a value its constructor would refuse.
func subjectDecodeCheck(s CredentialSubject) error {
	if err := s.validate(); err != nil {
		return decodeError("CCC-DEC-034", fmt.Sprintf("invalid %s subject", s.Kind()), err)
	}
	return nil
}
