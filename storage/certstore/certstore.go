// Package certstore is a typed certificate store over any storage.CAS.
package certstore

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"

	"acbridge.dev/ccc/ccc"
	"acbridge.dev/ccc/storage"
)

// ErrUnsigned is returned by Put for certificates without a proof.
var ErrUnsigned = errors.New("certstore: certificate has no proof")

// Entry is a stored certificate and its CID.
type Entry struct {
	CID         cid.Cid
	Certificate *ccc.Certificate
}

type Store struct {
	cas storage.CAS
}

func New(cas storage.CAS) *Store {
	return &Store{cas: cas}
}

// Put stores the full encoding of a signed certificate.
func (s *Store) Put(c *ccc.Certificate) (cid.Cid, error) {
	if c == nil {
		return cid.Undef, errors.New("certstore: nil certificate")
	}
	if !c.HasProof() {
		return cid.Undef, ErrUnsigned
	}
	return s.cas.Put(c.Encode())
}

// Get loads and decodes the certificate stored under id.
func (s *Store) Get(id cid.Cid) (*ccc.Certificate, error) {
	b, err := s.cas.Get(id)
	if err != nil {
		return nil, err
	}
	c, err := ccc.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("certstore: %s: %w: %w", id, storage.ErrNotCertificate, err)
	}
	return c, nil
}

// Select returns every stored certificate for which keep returns true, in
// CID order. The backend must implement storage.Lister.
func (s *Store) Select(keep func(*ccc.Certificate) bool) ([]Entry, error) {
	l, ok := s.cas.(storage.Lister)
	if !ok {
		return nil, storage.ErrNotListable
	}
	ids, err := l.List()
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, id := range ids {
		c, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		if keep == nil || keep(c) {
			out = append(out, Entry{CID: id, Certificate: c})
		}
	}
	return out, nil
}

// Find returns the certificates issued for subjectID.
func (s *Store) Find(subjectID string) ([]Entry, error) {
	return s.Select(func(c *ccc.Certificate) bool { return c.SubjectID() == subjectID })
}

// FindDomain returns the domain certificates that cover d: DOMAIN_NAME
// certificates for d itself and DOMAIN_NAME_SPACE certificates for any space
// containing d.
func (s *Store) FindDomain(d ccc.CrossChainDomain) ([]Entry, error) {
	return s.Select(func(c *ccc.Certificate) bool {
		sub, ok := c.Subject().(ccc.DomainNameSubject)
		if !ok {
			return false
		}
		if sub.DomainType() == ccc.DomainNameSpace {
			return d.InSpace(sub.Domain())
		}
		return sub.Domain() == d
	})
}

// FindKind returns the certificates whose subject is of kind k.
func (s *Store) FindKind(k ccc.SubjectKind) ([]Entry, error) {
	return s.Select(func(c *ccc.Certificate) bool { return c.Subject().Kind() == k })
}
