// Package storage defines content-addressed persistence for encoded
// certificates and the adapters that compose it.
package storage

import "github.com/ipfs/go-cid"

// CAS is a minimal content-addressable storage interface.
//
// Contract:
// - Put MUST be idempotent.
// - Stored objects MUST be immutable.
// - CIDs MUST be derived from the bytes written (callers supply the full
//   certificate encoding, never armored text).
// - Get MUST return ErrNotFound when the CID is absent.
type CAS interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}

// Lister is implemented by stores that can enumerate their contents.
// List returns CIDs sorted by their string form.
type Lister interface {
	List() ([]cid.Cid, error)
}

// Validator inspects bytes before a store accepts them.
type Validator func(b []byte) error
