// Package memory is an in-process certificate CAS, used for tests and for
// short-lived tooling that does not need persistence.
package memory

import (
	"bytes"
	"sync"

	"github.com/ipfs/go-cid"

	"acbridge.dev/ccc/cidutil"
	"acbridge.dev/ccc/storage"
)

type CAS struct {
	mu       sync.RWMutex
	objects  map[cid.Cid][]byte
	validate storage.Validator
}

var (
	_ storage.CAS    = (*CAS)(nil)
	_ storage.Lister = (*CAS)(nil)
)

// New returns an empty store. A nil validate accepts any bytes.
func New(validate storage.Validator) *CAS {
	return &CAS{objects: make(map[cid.Cid][]byte), validate: validate}
}

func (c *CAS) Put(b []byte) (cid.Cid, error) {
	if c.validate != nil {
		if err := c.validate(b); err != nil {
			return cid.Undef, err
		}
	}
	id, err := cidutil.CertificateCID(b)
	if err != nil {
		return cid.Undef, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.objects[id]; ok {
		if !bytes.Equal(existing, b) {
			return cid.Undef, storage.ErrImmutable
		}
		return id, nil
	}
	c.objects[id] = append([]byte(nil), b...)
	return id, nil
}

func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	c.mu.RLock()
	b, ok := c.objects[id]
	c.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (c *CAS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.objects[id]
	return ok
}

func (c *CAS) List() ([]cid.Cid, error) {
	c.mu.RLock()
	set := make(map[cid.Cid]struct{}, len(c.objects))
	for id := range c.objects {
		set[id] = struct{}{}
	}
	c.mu.RUnlock()
	return storage.SortCIDs(set), nil
}
