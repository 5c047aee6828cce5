package ccc

// Create validates the fields and returns an unsigned draft.
// Violations fail with InvalidCertificateFields.
func Create(version uint16, subjectID string, issuer ObjectIdentity, effectiveTime, expireTime int64, subject CredentialSubject) (*Draft, error) {
	return CreateFromFields(Fields{
		Version:       version,
		SubjectID:     subjectID,
		Issuer:        issuer,
		EffectiveTime: effectiveTime,
		ExpireTime:    expireTime,
		Subject:       subject,
	})
}

// CreateFromFields is Create taking a Fields value.
func CreateFromFields(f Fields) (*Draft, error) {
	if err := ValidateRules(&f, DefaultRules()); err != nil {
		return nil, err
	}
	f.Issuer = NewObjectIdentity(f.Issuer.typ, f.Issuer.raw)
	return &Draft{body: body{f: f}}, nil
}

// CreateTrustRoot creates a current-version trust root certificate draft.
func CreateTrustRoot(subjectID string, issuer ObjectIdentity, effectiveTime, expireTime int64, rootType string, identity ObjectIdentity, extra []byte) (*Draft, error) {
	s, err := NewTrustRootSubject(rootType, identity, extra)
	if err != nil {
		return nil, err
	}
	return Create(CurrentVersion, subjectID, issuer, effectiveTime, expireTime, s)
}

// CreateDomainName creates a certificate draft for a single domain name.
func CreateDomainName(subjectID string, issuer ObjectIdentity, effectiveTime, expireTime int64, domain string, applicant ObjectIdentity, extra []byte) (*Draft, error) {
	s, err := NewDomainNameSubject(DomainName, domain, applicant, extra)
	if err != nil {
		return nil, err
	}
	return Create(CurrentVersion, subjectID, issuer, effectiveTime, expireTime, s)
}

// CreateDomainNameSpace creates a certificate draft for a domain name space
// such as ".com".
func CreateDomainNameSpace(subjectID string, issuer ObjectIdentity, effectiveTime, expireTime int64, space string, applicant ObjectIdentity, extra []byte) (*Draft, error) {
	s, err := NewDomainNameSubject(DomainNameSpace, space, applicant, extra)
	if err != nil {
		return nil, err
	}
	return Create(CurrentVersion, subjectID, issuer, effectiveTime, expireTime, s)
}

// CreateRelayer creates a relayer certificate draft.
func CreateRelayer(subjectID string, issuer ObjectIdentity, effectiveTime, expireTime int64, name string, identity ObjectIdentity, extra []byte) (*Draft, error) {
	s, err := NewRelayerSubject(name, identity, extra)
	if err != nil {
		return nil, err
	}
	return Create(CurrentVersion, subjectID, issuer, effectiveTime, expireTime, s)
}
