package storage

import (
	"errors"
	"sort"

	"github.com/ipfs/go-cid"
)

// MultiCAS provides deterministic, ordered fallback across multiple CAS adapters.
//
// Hydration order is the slice order in Adapters; callers MUST supply a fixed order.
// Put writes only to the first adapter.
type MultiCAS struct {
	Adapters []CAS
}

var (
	_ CAS    = MultiCAS{}
	_ Lister = MultiCAS{}
)

func (m MultiCAS) Put(bytes []byte) (cid.Cid, error) {
	if len(m.Adapters) == 0 {
		return cid.Undef, errors.New("storage: MultiCAS has no adapters")
	}
	return m.Adapters[0].Put(bytes)
}

func (m MultiCAS) Get(id cid.Cid) ([]byte, error) {
	return getFirst(id, m.Adapters)
}

func (m MultiCAS) Has(id cid.Cid) bool {
	for _, cas := range m.Adapters {
		if cas == nil {
			continue
		}
		if cas.Has(id) {
			return true
		}
	}
	return false
}

// List returns the union of all listable adapters. Adapters that cannot list
// are skipped; if none can, ErrNotListable is returned.
func (m MultiCAS) List() ([]cid.Cid, error) {
	return listUnion(m.Adapters)
}

func getFirst(id cid.Cid, adapters []CAS) ([]byte, error) {
	for _, cas := range adapters {
		if cas == nil {
			continue
		}
		b, err := cas.Get(id)
		if err == nil {
			return b, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func listUnion(adapters []CAS) ([]cid.Cid, error) {
	seen := make(map[cid.Cid]struct{})
	var listed bool
	for _, cas := range adapters {
		if cas == nil {
			continue
		}
		l, ok := cas.(Lister)
		if !ok {
			continue
		}
		listed = true
		ids, err := l.List()
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			seen[id] = struct{}{}
		}
	}
	if !listed {
		return nil, ErrNotListable
	}
	return SortCIDs(seen), nil
}

// SortCIDs returns the keys of set ordered by string form.
func SortCIDs(set map[cid.Cid]struct{}) []cid.Cid {
	out := make([]cid.Cid, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
