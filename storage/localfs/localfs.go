// Package localfs stores encoded certificates as immutable files under a
// directory, one file per CID.
package localfs

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ipfs/go-cid"

	"acbridge.dev/ccc/cidutil"
	"acbridge.dev/ccc/storage"
)

// Ext is the file extension of stored certificates.
const Ext = ".ccc"

// CAS is a local filesystem-backed content-addressable store.
//
// Objects are stored immutably and keyed strictly by CID.
// It never uses the network and never depends on wall-clock time.
type CAS struct {
	root     string
	validate storage.Validator
}

var (
	_ storage.CAS    = (*CAS)(nil)
	_ storage.Lister = (*CAS)(nil)
)

type Option func(*CAS)

// WithValidator rejects Put of bytes that fail v, before anything is written.
func WithValidator(v storage.Validator) Option {
	return func(c *CAS) { c.validate = v }
}

// New constructs a filesystem CAS rooted at root. The directory will be created if needed.
func New(root string, opts ...Option) (*CAS, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	c := &CAS{root: root}
	for _, o := range opts {
		o(c)
	}
	return c, nil
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
	if !id.Defined() {
		return cid.Undef, storage.ErrInvalidCID
	}

	path := c.pathFor(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cid.Undef, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if os.IsExist(err) {
			existing, rerr := c.Get(id)
			if rerr != nil || !bytes.Equal(existing, b) {
				// Unreadable or corrupted on disk; never repair in place.
				return cid.Undef, storage.ErrImmutable
			}
			return id, nil
		}
		return cid.Undef, err
	}

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return cid.Undef, err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return cid.Undef, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return cid.Undef, err
	}
	return id, nil
}

func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	b, err := os.ReadFile(c.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	got, err := cidutil.CertificateCID(b)
	if err != nil {
		return nil, err
	}
	if got != id {
		return nil, storage.ErrCIDMismatch
	}
	return b, nil
}

func (c *CAS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := os.Stat(c.pathFor(id))
	return err == nil
}

// List walks the shard directories. Files that are not named <cid>.ccc are ignored.
func (c *CAS) List() ([]cid.Cid, error) {
	set := make(map[cid.Cid]struct{})
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), Ext) {
			return nil
		}
		id, err := cid.Decode(strings.TrimSuffix(d.Name(), Ext))
		if err != nil {
			return nil
		}
		set[id] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return storage.SortCIDs(set), nil
}

func (c *CAS) pathFor(id cid.Cid) string {
	s := id.String()
	if len(s) < 2 {
		return filepath.Join(c.root, s+Ext)
	}
	return filepath.Join(c.root, s[len(s)-2:], s+Ext)
}
