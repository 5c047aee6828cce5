package ccc

import "acbridge.dev/ccc/tlv"

const RelayerSubjectVersion uint16 = 1

const (
	tagRelayerName     uint16 = 0
	tagRelayerIdentity uint16 = 1
	tagRelayerExtra    uint16 = 2
)

// RelayerSubject identifies a relayer allowed to carry cross-chain messages.
type RelayerSubject struct {
	name     string
	identity ObjectIdentity
	extra    []byte
}

var _ CredentialSubject = RelayerSubject{}

func NewRelayerSubject(name string, identity ObjectIdentity, extra []byte) (RelayerSubject, error) {
	s := RelayerSubject{
		name:     name,
		identity: NewObjectIdentity(identity.typ, identity.raw),
		extra:    append([]byte{}, extra...),
	}
	if err := s.validate(); err != nil {
		return RelayerSubject{}, err
	}
	return s, nil
}

func (s RelayerSubject) Kind() SubjectKind               { return SubjectRelayer }
func (s RelayerSubject) Version() uint16                 { return RelayerSubjectVersion }
func (s RelayerSubject) Name() string                    { return s.name }
func (s RelayerSubject) Identity() ObjectIdentity        { return s.identity }
func (s RelayerSubject) SubjectIdentity() ObjectIdentity { return s.identity }
func (s RelayerSubject) Extra() []byte                   { return append([]byte{}, s.extra...) }

func (s RelayerSubject) validate() error {
	if err := requireText("CCC-FIELD-040", "relayer name", s.name); err != nil {
		return err
	}
	return requireIdentity("CCC-FIELD-041", "relayer identity", s.identity)
}

func (s RelayerSubject) encodedSize() (int, error) {
	return versionedSize(len(s.name), identitySize(s.identity), len(s.extra))
}

func (s RelayerSubject) Encode() []byte {
	w := tlv.NewWriter()
	w.PutString(tagRelayerName, s.name)
	w.PutNested(tagRelayerIdentity, s.identity.writer())
	w.PutBytes(tagRelayerExtra, s.extra)
	return encodeVersioned(RelayerSubjectVersion, w)
}

func DecodeRelayerSubject(b []byte) (RelayerSubject, error) {
	p, err := openVersioned(b, RelayerSubjectVersion, SubjectRelayer)
	if err != nil {
		return RelayerSubject{}, err
	}
	if err := p.Expect(tagRelayerName, tagRelayerIdentity, tagRelayerExtra); err != nil {
		return RelayerSubject{}, decodeError("CCC-DEC-070", "malformed relayer subject", err)
	}
	var s RelayerSubject
	if s.name, err = p.String(tagRelayerName); err != nil {
		return RelayerSubject{}, decodeError("CCC-DEC-071", "malformed relayer name", err)
	}
	if s.identity, err = nestedIdentity(p, tagRelayerIdentity, "CCC-DEC-072", "relayer identity"); err != nil {
		return RelayerSubject{}, err
	}
	if s.extra, err = p.Bytes(tagRelayerExtra); err != nil {
		return RelayerSubject{}, decodeError("CCC-DEC-073", "malformed extra", err)
	}
	if err := subjectDecodeCheck(s); err != nil {
		return RelayerSubject{}, err
	}
	return s, nil
}
