package keys

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"acbridge.dev/ccc/algo"
	"acbridge.dev/ccc/ccc"
)

type deterministicReader struct{ b byte }

func (r *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
		r.b++
	}
	return len(p), nil
}

func TestGenerate_SignVerifiesWithAlgo(t *testing.T) {
	p := algo.New()
	msg := []byte("cross chain message")
	for _, alg := range Algorithms() {
		t.Run(alg, func(t *testing.T) {
			k, err := Generate(alg, nil)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if k.Algorithm() != alg {
				t.Fatalf("Algorithm: got %q", k.Algorithm())
			}
			sig, err := k.Sign(msg)
			if err != nil {
				t.Fatalf("Sign: %v", err)
			}
			pub, err := k.PublicKeyMaterial()
			if err != nil {
				t.Fatalf("PublicKeyMaterial: %v", err)
			}
			if err := p.Verify(alg, pub, msg, sig); err != nil {
				t.Fatalf("Verify: %v", err)
			}
		})
	}
}

func TestGenerate_Unsupported(t *testing.T) {
	if _, err := Generate("FALCON512", nil); !errors.Is(err, algo.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if _, err := Generate("ed25519", nil); err != nil {
		t.Fatalf("lowercase algorithm name: %v", err)
	}
}

func TestGenerate_DeterministicReader(t *testing.T) {
	for _, alg := range []string{algo.Ed25519, algo.Dilithium3} {
		a, err := Generate(alg, &deterministicReader{})
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		b, err := Generate(alg, &deterministicReader{})
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		pa, _ := a.PublicKeyMaterial()
		pb, _ := b.PublicKeyMaterial()
		if !bytes.Equal(pa, pb) {
			t.Fatalf("%s: same randomness produced different keys", alg)
		}
	}
}

func TestPEM_RoundTrip(t *testing.T) {
	msg := []byte("pem")
	for _, alg := range Algorithms() {
		t.Run(alg, func(t *testing.T) {
			k, err := Generate(alg, nil)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			privPEM, err := k.MarshalPEM()
			if err != nil {
				t.Fatalf("MarshalPEM: %v", err)
			}
			back, err := ParsePEM(privPEM)
			if err != nil {
				t.Fatalf("ParsePEM: %v", err)
			}
			if back.Algorithm() != alg {
				t.Fatalf("algorithm after PEM: %q", back.Algorithm())
			}

			pubPEM, err := k.MarshalPublicPEM()
			if err != nil {
				t.Fatalf("MarshalPublicPEM: %v", err)
			}
			id, err := ParsePublicPEM(pubPEM)
			if err != nil {
				t.Fatalf("ParsePublicPEM: %v", err)
			}
			want, _ := k.Identity()
			if !id.Equal(want) {
				t.Fatalf("public PEM identity differs from key identity")
			}

			sig, err := back.Sign(msg)
			if err != nil {
				t.Fatalf("Sign: %v", err)
			}
			material, err := id.PublicKeyMaterial()
			if err != nil {
				t.Fatalf("PublicKeyMaterial: %v", err)
			}
			if err := algo.New().Verify(alg, material, msg, sig); err != nil {
				t.Fatalf("reloaded key signature did not verify: %v", err)
			}
		})
	}
}

func TestParsePEM_Rejects(t *testing.T) {
	if _, err := ParsePEM([]byte("not pem")); !errors.Is(err, ErrNoPEM) {
		t.Fatalf("expected ErrNoPEM, got %v", err)
	}
	k, _ := Generate(algo.Ed25519, nil)
	pub, _ := k.MarshalPublicPEM()
	if _, err := ParsePEM(pub); err == nil {
		t.Fatalf("expected error parsing a public key as private")
	}
}

func TestIdentity_Types(t *testing.T) {
	ed, _ := Generate(algo.Ed25519, nil)
	dil, _ := Generate(algo.Dilithium3, nil)
	if id, _ := ed.Identity(); id.Type() != ccc.IdentityX509PublicKeyInfo {
		t.Fatalf("ed25519 identity type %s", id.Type())
	}
	if id, _ := dil.Identity(); id.Type() != ccc.IdentityRawPublicKey {
		t.Fatalf("dilithium3 identity type %s", id.Type())
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "issuer.pem")
	k, _ := Generate(algo.SM3WithSM2, nil)
	data, err := k.MarshalPEM()
	if err != nil {
		t.Fatalf("MarshalPEM: %v", err)
	}
	if err := WriteFile(path, data, false); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteFile(path, data, false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if err := WriteFile(path, data, true); err != nil {
		t.Fatalf("WriteFile overwrite: %v", err)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Fatalf("mode %v", st.Mode().Perm())
	}
	back, err := ReadPrivateKeyFile(path)
	if err != nil || back.Algorithm() != algo.SM3WithSM2 {
		t.Fatalf("ReadPrivateKeyFile: %v", err)
	}
}
