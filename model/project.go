package model

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"acbridge.dev/ccc/ccc"
	"acbridge.dev/ccc/cidutil"
)

// FromCertificate projects c for JSON output. The CID is computed from the
// full encoding.
func FromCertificate(c *ccc.Certificate) Certificate {
	out := Certificate{
		CID:           cidutil.CIDv1RawSHA256(c.Encode()),
		Version:       c.Version(),
		SubjectID:     c.SubjectID(),
		Issuer:        FromIdentity(c.Issuer()),
		EffectiveTime: c.EffectiveTime(),
		ExpireTime:    c.ExpireTime(),
		Subject:       fromSubject(c.Subject()),
	}
	if p, ok := c.Proof(); ok {
		out.Proof = &Proof{
			DigestAlgorithm:    p.DigestAlgorithm(),
			Digest:             p.DigestValue(),
			SignatureAlgorithm: p.SignatureAlgorithm(),
			Signature:          p.SignatureValue(),
		}
	}
	return out
}

func FromIdentity(id ccc.ObjectIdentity) Identity {
	return Identity{Type: id.Type().String(), Raw: id.RawBytes()}
}

// ToIdentity is the inverse of FromIdentity for the known identity types.
func (i Identity) ToIdentity() (ccc.ObjectIdentity, error) {
	for _, t := range []ccc.IdentityType{ccc.IdentityX509PublicKeyInfo, ccc.IdentityBID, ccc.IdentityRawPublicKey} {
		if t.String() == i.Type {
			return ccc.NewObjectIdentity(t, i.Raw), nil
		}
	}
	return ccc.ObjectIdentity{}, NewError(ErrInvalidRequest, fmt.Sprintf("unknown identity type %q", i.Type))
}

func fromSubject(s ccc.CredentialSubject) Subject {
	out := Subject{
		Kind:     s.Kind().String(),
		Version:  s.Version(),
		Identity: FromIdentity(s.SubjectIdentity()),
	}
	switch v := s.(type) {
	case ccc.TrustRootSubject:
		out.RootType = v.RootType()
		out.Extra = v.Extra()
	case ccc.DomainNameSubject:
		out.DomainType = v.DomainType().String()
		out.Domain = v.Domain().String()
		out.Extra = v.Extra()
	case ccc.RelayerSubject:
		out.Name = v.Name()
		out.Extra = v.Extra()
	}
	return out
}

func parseCID(s string) (cid.Cid, error) {
	id, err := cid.Decode(s)
	if err != nil || !id.Defined() {
		return cid.Undef, NewError(ErrInvalidCID, "invalid cid")
	}
	return id, nil
}
