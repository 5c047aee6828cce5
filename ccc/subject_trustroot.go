package ccc

import "acbridge.dev/ccc/tlv"

const TrustRootSubjectVersion uint16 = 1

const (
	tagTrustRootType     uint16 = 0
	tagTrustRootIdentity uint16 = 1
	tagTrustRootExtra    uint16 = 2
)

// TrustRootSubject anchors the root of trust for a naming or issuing authority.
type TrustRootSubject struct {
	rootType string
	identity ObjectIdentity
	extra    []byte
}

var _ CredentialSubject = TrustRootSubject{}

func NewTrustRootSubject(rootType string, identity ObjectIdentity, extra []byte) (TrustRootSubject, error) {
	s := TrustRootSubject{
		rootType: rootType,
		identity: NewObjectIdentity(identity.typ, identity.raw),
		extra:    append([]byte{}, extra...),
	}
	if err := s.validate(); err != nil {
		return TrustRootSubject{}, err
	}
	return s, nil
}

func (s TrustRootSubject) Kind() SubjectKind               { return SubjectTrustRoot }
func (s TrustRootSubject) Version() uint16                 { return TrustRootSubjectVersion }
func (s TrustRootSubject) RootType() string                { return s.rootType }
func (s TrustRootSubject) Identity() ObjectIdentity        { return s.identity }
func (s TrustRootSubject) SubjectIdentity() ObjectIdentity { return s.identity }
func (s TrustRootSubject) Extra() []byte                   { return append([]byte{}, s.extra...) }

func (s TrustRootSubject) validate() error {
	if err := requireText("CCC-FIELD-020", "rootType", s.rootType); err != nil {
		return err
	}
	return requireIdentity("CCC-FIELD-021", "trust root identity", s.identity)
}

func (s TrustRootSubject) encodedSize() (int, error) {
	return versionedSize(len(s.rootType), identitySize(s.identity), len(s.extra))
}

func (s TrustRootSubject) Encode() []byte {
	w := tlv.NewWriter()
	w.PutString(tagTrustRootType, s.rootType)
	w.PutNested(tagTrustRootIdentity, s.identity.writer())
	w.PutBytes(tagTrustRootExtra, s.extra)
	return encodeVersioned(TrustRootSubjectVersion, w)
}

func DecodeTrustRootSubject(b []byte) (TrustRootSubject, error) {
	p, err := openVersioned(b, TrustRootSubjectVersion, SubjectTrustRoot)
	if err != nil {
		return TrustRootSubject{}, err
	}
	if err := p.Expect(tagTrustRootType, tagTrustRootIdentity, tagTrustRootExtra); err != nil {
		return TrustRootSubject{}, decodeError("CCC-DEC-050", "malformed trust root subject", err)
	}
	var s TrustRootSubject
	if s.rootType, err = p.String(tagTrustRootType); err != nil {
		return TrustRootSubject{}, decodeError("CCC-DEC-051", "malformed rootType", err)
	}
	if s.identity, err = nestedIdentity(p, tagTrustRootIdentity, "CCC-DEC-052", "trust root identity"); err != nil {
		return TrustRootSubject{}, err
	}
	if s.extra, err = p.Bytes(tagTrustRootExtra); err != nil {
		return TrustRootSubject{}, decodeError("CCC-DEC-053", "malformed extra", err)
	}
	if err := subjectDecodeCheck(s); err != nil {
		return TrustRootSubject{}, err
	}
	return s, nil
}
