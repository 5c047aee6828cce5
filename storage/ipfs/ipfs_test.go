package ipfs

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"acbridge.dev/ccc/cidutil"
	"acbridge.dev/ccc/storage"
	"acbridge.dev/ccc/storage/testkit"
)

// fakeKubo implements the three block subcommands the adapter uses. Blocks
// are files named by CID; put resolves the CID from a sha256 -> CID table
// the test writes up front.
const fakeKubo = `#!/bin/sh
store="$FAKE_IPFS_STORE"
case "$1 $2" in
"block put")
	tmp="$store/.tmp.$$"
	cat > "$tmp"
	h=$(sha256sum "$tmp" | cut -d' ' -f1)
	c=$(grep "^$h " "$store/cids" | cut -d' ' -f2)
	if [ -z "$c" ]; then rm -f "$tmp"; echo "Error: unexpected block" >&2; exit 1; fi
	mv "$tmp" "$store/$c"
	echo "$c"
	;;
"block get")
	if [ ! -f "$store/$3" ]; then echo "Error: block was not found locally" >&2; exit 1; fi
	cat "$store/$3"
	;;
"block stat")
	if [ ! -f "$store/$3" ]; then echo "Error: block was not found locally" >&2; exit 1; fi
	echo "Key: $3"
	;;
*)
	echo "unsupported: $*" >&2
	exit 2
	;;
esac
`

func newFake(t *testing.T) *CAS {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake ipfs binary is a shell script")
	}
	if _, err := exec.LookPath("sha256sum"); err != nil {
		t.Skip("sha256sum not available")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "ipfs")
	if err := os.WriteFile(bin, []byte(fakeKubo), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	store := filepath.Join(dir, "repo")
	if err := os.Mkdir(store, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	var table strings.Builder
	for _, b := range testkit.Certificates(t, 4) {
		sum := sha256.Sum256(b)
		table.WriteString(hex.EncodeToString(sum[:]) + " " + cidutil.CIDv1RawSHA256(b) + "\n")
	}
	if err := os.WriteFile(filepath.Join(store, "cids"), []byte(table.String()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return New(Options{
		Bin:       bin,
		Env:       append(os.Environ(), "FAKE_IPFS_STORE="+store),
		Validator: storage.ValidateCertificate,
	})
}

func TestConformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS { return newFake(t) })
}

func TestGet_DetectsRepositoryCorruption(t *testing.T) {
	c := newFake(t)
	b := testkit.Certificates(t, 1)[0]
	id, err := c.Put(b)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	store := strings.TrimPrefix(c.env[len(c.env)-1], "FAKE_IPFS_STORE=")
	path := filepath.Join(store, id.String())
	if err := os.WriteFile(path, append(b, 0), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := c.Get(id); !errors.Is(err, storage.ErrCIDMismatch) {
		t.Fatalf("expected ErrCIDMismatch, got %v", err)
	}
}

func TestMissingBinary(t *testing.T) {
	c := New(Options{Bin: filepath.Join(t.TempDir(), "no-such-ipfs")})
	id, _ := cidutil.CertificateCID([]byte("x"))
	if c.Has(id) {
		t.Fatalf("Has should be false without a binary")
	}
	_, err := c.Get(id)
	if !errors.Is(err, ErrNoBinary) || storage.IsNotFound(err) {
		t.Fatalf("expected ErrNoBinary, got %v", err)
	}
}

func TestCommandError_CarriesStderr(t *testing.T) {
	c := newFake(t)
	// The fake answers unknown subcommands with exit status 2.
	_, err := c.exec(nil, "pin", "ls")
	var ce *CommandError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CommandError, got %T %v", err, err)
	}
	if ce.Stderr != "unsupported: pin ls" || ce.blockMissing() {
		t.Fatalf("unexpected command error: %+v", ce)
	}
	var ee *exec.ExitError
	if !errors.As(err, &ee) || ee.ExitCode() != 2 {
		t.Fatalf("exit error not reachable: %v", err)
	}
}

func TestPut_SkipsExistingBlock(t *testing.T) {
	c := newFake(t)
	b := testkit.Certificates(t, 1)[0]
	id, err := c.Put(b)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	// Once stored, Put must not hand the bytes to Kubo again: drop the lookup
	// table so a second block put would fail.
	store := strings.TrimPrefix(c.env[len(c.env)-1], "FAKE_IPFS_STORE=")
	if err := os.WriteFile(filepath.Join(store, "cids"), nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	again, err := c.Put(b)
	if err != nil || !again.Equals(id) {
		t.Fatalf("second Put: %s %v", again, err)
	}
}
