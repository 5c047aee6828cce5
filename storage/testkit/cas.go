// Package testkit holds conformance suites shared by storage backends.
package testkit

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"testing"

	"github.com/ipfs/go-cid"

	"acbridge.dev/ccc/algo"
	"acbridge.dev/ccc/ccc"
	"acbridge.dev/ccc/cidutil"
	"acbridge.dev/ccc/keys"
	"acbridge.dev/ccc/storage"
)

// NewCAS constructs a fresh, empty CAS instance for a test.
// The returned CAS MUST be isolated from other tests and MUST only accept
// certificate encodings.
type NewCAS func(t *testing.T) storage.CAS

// Certificates returns n distinct signed relayer certificates, encoded, all
// issued by one deterministic Ed25519 key.
func Certificates(t *testing.T, n int) [][]byte {
	t.Helper()
	seed := sha256.Sum256([]byte("testkit issuer"))
	k, err := keys.FromEd25519Seed(seed[:])
	if err != nil {
		t.Fatalf("FromEd25519Seed: %v", err)
	}
	issuer, err := k.Identity()
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	out := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("relayer-%d", i)
		d, err := ccc.CreateRelayer(name, issuer, 1000, 2000, name, issuer, nil)
		if err != nil {
			t.Fatalf("CreateRelayer: %v", err)
		}
		c, err := d.Sign(k, algo.New(), algo.SHA256)
		if err != nil {
			t.Fatalf("Sign: %v", err)
		}
		out = append(out, c.Encode())
	}
	return out
}

func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()
	certs := Certificates(t, 2)

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		want := certs[0]

		id, err := cas.Put(want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantID, err := cidutil.CertificateCID(want)
		if err != nil {
			t.Fatalf("CertificateCID failed: %v", err)
		}
		if id != wantID {
			t.Fatalf("Put CID mismatch: got %s want %s", id, wantID)
		}

		got, err := cas.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch")
		}
		if _, err := ccc.Decode(got); err != nil {
			t.Fatalf("stored bytes no longer decode: %v", err)
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		id1, err := cas.Put(certs[0])
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := cas.Put(certs[0])
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if id1 != id2 {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		id, err := cidutil.CertificateCID(certs[1])
		if err != nil {
			t.Fatalf("CertificateCID failed: %v", err)
		}
		if cas.Has(id) {
			t.Fatalf("Has returned true for missing CID")
		}
		if _, err := cas.Get(id); !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}
		if _, err := cas.Put(certs[1]); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !cas.Has(id) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		cas := newCAS(t)
		var undef cid.Cid
		if cas.Has(undef) {
			t.Fatalf("Has should be false for undefined CID")
		}
		if _, err := cas.Get(undef); err == nil {
			t.Fatalf("Get should fail for undefined CID")
		}
	})

	t.Run("RejectNonCertificate", func(t *testing.T) {
		cas := newCAS(t)
		junk := []byte("not a certificate")
		if _, err := cas.Put(junk); !errors.Is(err, storage.ErrNotCertificate) {
			t.Fatalf("Put junk: got %v want ErrNotCertificate", err)
		}
		id, _ := cidutil.CertificateCID(junk)
		if cas.Has(id) {
			t.Fatalf("rejected bytes were stored")
		}
	})

	t.Run("ListSorted", func(t *testing.T) {
		cas := newCAS(t)
		l, ok := cas.(storage.Lister)
		if !ok {
			t.Skip("backend does not list")
		}
		for _, b := range certs {
			if _, err := cas.Put(b); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
		}
		ids, err := l.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(ids) != len(certs) {
			t.Fatalf("List returned %d ids, want %d", len(ids), len(certs))
		}
		if ids[0].String() >= ids[1].String() {
			t.Fatalf("List not sorted: %v", ids)
		}
	})
}
