package storage_test

import (
	"errors"
	"testing"

	"github.com/ipfs/go-cid"

	"acbridge.dev/ccc/ccc"
	"acbridge.dev/ccc/storage"
	"acbridge.dev/ccc/storage/memory"
	"acbridge.dev/ccc/storage/testkit"
)

type brokenCAS struct{ err error }

func (b brokenCAS) Put([]byte) (cid.Cid, error) { return cid.Undef, b.err }
func (b brokenCAS) Get(cid.Cid) ([]byte, error) { return nil, b.err }
func (b brokenCAS) Has(cid.Cid) bool            { return false }

func TestMultiCAS_ConformanceAndFallback(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		return storage.MultiCAS{Adapters: []storage.CAS{
			memory.New(storage.ValidateCertificate),
			memory.New(storage.ValidateCertificate),
		}}
	})

	certs := testkit.Certificates(t, 1)
	first, second := memory.New(nil), memory.New(nil)
	id, err := second.Put(certs[0])
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	m := storage.MultiCAS{Adapters: []storage.CAS{first, second}}
	if _, err := m.Get(id); err != nil {
		t.Fatalf("fallback Get: %v", err)
	}
	if first.Has(id) {
		t.Fatalf("Get must not hydrate earlier adapters")
	}
}

func TestMultiCAS_StopsOnHardError(t *testing.T) {
	boom := errors.New("disk on fire")
	certs := testkit.Certificates(t, 1)
	good := memory.New(nil)
	id, _ := good.Put(certs[0])
	m := storage.MultiCAS{Adapters: []storage.CAS{brokenCAS{boom}, good}}
	if _, err := m.Get(id); !errors.Is(err, boom) {
		t.Fatalf("got %v want %v", err, boom)
	}
	if _, err := (storage.MultiCAS{}).Put(certs[0]); err == nil {
		t.Fatalf("expected error with no adapters")
	}
}

func TestMultiCAS_ListRequiresLister(t *testing.T) {
	m := storage.MultiCAS{Adapters: []storage.CAS{brokenCAS{}}}
	if _, err := m.List(); !errors.Is(err, storage.ErrNotListable) {
		t.Fatalf("got %v want ErrNotListable", err)
	}
}

func TestMultiCAS_SkipsNilAdapters(t *testing.T) {
	certs := testkit.Certificates(t, 1)
	good := memory.New(nil)
	id, err := good.Put(certs[0])
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	m := storage.MultiCAS{Adapters: []storage.CAS{nil, good, nil}}
	if !m.Has(id) {
		t.Fatalf("Has: want true")
	}
	if _, err := m.Get(id); err != nil {
		t.Fatalf("Get: %v", err)
	}
	ids, err := m.List()
	if err != nil || len(ids) != 1 || !ids[0].Equals(id) {
		t.Fatalf("List: %v %v", ids, err)
	}
	if (storage.MultiCAS{Adapters: []storage.CAS{nil}}).Has(id) {
		t.Fatalf("Has on nil-only adapters: want false")
	}
}

func TestReplicatingCAS_WritesEverywhere(t *testing.T) {
	a, b := memory.New(nil), memory.New(nil)
	r := storage.ReplicatingCAS{Backends: []storage.NamedCAS{{Name: "a", CAS: a}, {Name: "b", CAS: b}}}
	cert := testkit.Certificates(t, 1)[0]
	id, per, err := r.PutAll(cert)
	if err != nil {
		t.Fatalf("PutAll: %v", err)
	}
	if per["a"] != id || per["b"] != id || !a.Has(id) || !b.Has(id) {
		t.Fatalf("not replicated: %v", per)
	}
	ids, err := r.List()
	if err != nil || len(ids) != 1 || ids[0] != id {
		t.Fatalf("List = %v, %v", ids, err)
	}
}

func TestReplicatingCAS_BackendErrorNamesBackend(t *testing.T) {
	boom := errors.New("quota")
	r := storage.ReplicatingCAS{Backends: []storage.NamedCAS{
		{Name: "mem", CAS: memory.New(nil)},
		{Name: "remote", CAS: brokenCAS{boom}},
	}}
	_, per, err := r.PutAll([]byte("x"))
	if !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if _, ok := per["mem"]; !ok {
		t.Fatalf("partial results should include completed backends")
	}
	if _, err := (storage.ReplicatingCAS{}).Put([]byte("x")); err == nil {
		t.Fatalf("expected error with no backends")
	}
}

func TestValidateCertificate(t *testing.T) {
	if err := storage.ValidateCertificate(testkit.Certificates(t, 1)[0]); err != nil {
		t.Fatalf("valid certificate rejected: %v", err)
	}
	err := storage.ValidateCertificate([]byte("junk"))
	if !errors.Is(err, storage.ErrNotCertificate) {
		t.Fatalf("got %v", err)
	}
	var ce *ccc.Error
	if !errors.As(err, &ce) {
		t.Fatalf("decode error not reachable: %v", err)
	}
}
