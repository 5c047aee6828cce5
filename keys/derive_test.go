package keys

import (
	"bytes"
	"crypto/ed25519"
	"testing"
)

func TestDeriveSeedDeterministic(t *testing.T) {
	root := make([]byte, ed25519.SeedSize)
	for i := range root {
		root[i] = byte(i)
	}

	a, err := DeriveSeed(root, "bcdns-root")
	if err != nil {
		t.Fatalf("DeriveSeed: %v", err)
	}
	b, err := DeriveSeed(root, "bcdns-root")
	if err != nil {
		t.Fatalf("DeriveSeed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("expected deterministic derivation")
	}

	c, err := DeriveSeed(root, "relayer-1")
	if err != nil {
		t.Fatalf("DeriveSeed: %v", err)
	}
	if bytes.Equal(a, c) {
		t.Fatalf("expected different labels to derive different seeds")
	}
}

func TestDeriveSeedRejects(t *testing.T) {
	if _, err := DeriveSeed([]byte{1, 2, 3}, "x"); err == nil {
		t.Fatalf("expected error for short root seed")
	}
	root := make([]byte, ed25519.SeedSize)
	for _, label := range []string{"", "has space", "slash/label"} {
		if _, err := DeriveSeed(root, label); err == nil {
			t.Fatalf("expected error for label %q", label)
		}
	}
}

func TestParseSeedHex(t *testing.T) {
	seed, err := ParseSeedHex("0x" + "42" + string(bytes.Repeat([]byte("00"), 31)))
	if err != nil {
		t.Fatalf("ParseSeedHex: %v", err)
	}
	if len(seed) != ed25519.SeedSize || seed[0] != 0x42 {
		t.Fatalf("unexpected seed %x", seed)
	}
	if _, err := ParseSeedHex("abcd"); err == nil {
		t.Fatalf("expected error for short seed")
	}
}
