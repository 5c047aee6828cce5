package ccc

import (
	"fmt"

	"acbridge.dev/ccc/tlv"
)

const DomainNameSubjectVersion uint16 = 1

// DomainType distinguishes a single domain name from a domain name space.
type DomainType uint16

const (
	DomainName      DomainType = 0
	DomainNameSpace DomainType = 1
)

func (t DomainType) String() string {
	switch t {
	case DomainName:
		return "DOMAIN_NAME"
	case DomainNameSpace:
		return "DOMAIN_NAME_SPACE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint16(t))
	}
}

const (
	tagDomainType      uint16 = 0
	tagDomainDomain    uint16 = 1
	tagDomainApplicant uint16 = 2
	tagDomainExtra     uint16 = 3
)

// DomainNameSubject binds a domain name, or a domain name space, to the
// applicant that controls it.
type DomainNameSubject struct {
	domainType DomainType
	domain     CrossChainDomain
	applicant  ObjectIdentity
	extra      []byte
}

var _ CredentialSubject = DomainNameSubject{}

// NewDomainNameSubject normalizes domain. DomainNameSpace requires a space
// (leading "."); DomainName requires a name.
func NewDomainNameSubject(t DomainType, domain string, applicant ObjectIdentity, extra []byte) (DomainNameSubject, error) {
	d, err := NewCrossChainDomain(domain)
	if err != nil {
		return DomainNameSubject{}, err
	}
	s := DomainNameSubject{
		domainType: t,
		domain:     d,
		applicant:  NewObjectIdentity(applicant.typ, applicant.raw),
		extra:      append([]byte{}, extra...),
	}
	if err := s.validate(); err != nil {
		return DomainNameSubject{}, err
	}
	return s, nil
}

func (s DomainNameSubject) Kind() SubjectKind                 { return SubjectDomainName }
func (s DomainNameSubject) Version() uint16                   { return DomainNameSubjectVersion }
func (s DomainNameSubject) DomainType() DomainType            { return s.domainType }
func (s DomainNameSubject) Domain() CrossChainDomain          { return s.domain }
func (s DomainNameSubject) ApplicantIdentity() ObjectIdentity { return s.applicant }
func (s DomainNameSubject) SubjectIdentity() ObjectIdentity   { return s.applicant }
func (s DomainNameSubject) Extra() []byte                     { return append([]byte{}, s.extra...) }

func (s DomainNameSubject) validate() error {
	switch s.domainType {
	case DomainName:
		if s.domain.IsSpace() {
			return fieldError("CCC-FIELD-031", "domain", "a domain name for DOMAIN_NAME", s.domain.String())
		}
	case DomainNameSpace:
		if !s.domain.IsSpace() {
			return fieldError("CCC-FIELD-032", "domain", "a domain name space for DOMAIN_NAME_SPACE", s.domain.String())
		}
	default:
		return fieldError("CCC-FIELD-030", "domainType", "DOMAIN_NAME or DOMAIN_NAME_SPACE", s.domainType)
	}
	if s.domain.IsZero() {
		return fieldError("CCC-FIELD-033", "domain", "non-empty", `""`)
	}
	return requireIdentity("CCC-FIELD-034", "applicant identity", s.applicant)
}

func (s DomainNameSubject) encodedSize() (int, error) {
	return versionedSize(2, len(s.domain.String()), identitySize(s.applicant), len(s.extra))
}

func (s DomainNameSubject) Encode() []byte {
	w := tlv.NewWriter()
	w.PutUint16(tagDomainType, uint16(s.domainType))
	w.PutString(tagDomainDomain, s.domain.String())
	w.PutNested(tagDomainApplicant, s.applicant.writer())
	w.PutBytes(tagDomainExtra, s.extra)
	return encodeVersioned(DomainNameSubjectVersion, w)
}

func DecodeDomainNameSubject(b []byte) (DomainNameSubject, error) {
	p, err := openVersioned(b, DomainNameSubjectVersion, SubjectDomainName)
	if err != nil {
		return DomainNameSubject{}, err
	}
	if err := p.Expect(tagDomainType, tagDomainDomain, tagDomainApplicant, tagDomainExtra); err != nil {
		return DomainNameSubject{}, decodeError("CCC-DEC-060", "malformed domain name subject", err)
	}
	var s DomainNameSubject
	t, err := p.Uint16(tagDomainType)
	if err != nil {
		return DomainNameSubject{}, decodeError("CCC-DEC-061", "malformed domainType", err)
	}
	s.domainType = DomainType(t)
	raw, err := p.String(tagDomainDomain)
	if err != nil {
		return DomainNameSubject{}, decodeError("CCC-DEC-062", "malformed domain", err)
	}
	if s.domain, err = parseCanonicalDomain(raw); err != nil {
		return DomainNameSubject{}, err
	}
	if s.applicant, err = nestedIdentity(p, tagDomainApplicant, "CCC-DEC-063", "applicant identity"); err != nil {
		return DomainNameSubject{}, err
	}
	if s.extra, err = p.Bytes(tagDomainExtra); err != nil {
		return DomainNameSubject{}, decodeError("CCC-DEC-064", "malformed extra", err)
	}
	if err := subjectDecodeCheck(s); err != nil {
		return DomainNameSubject{}, err
	}
	return s, nil
}
