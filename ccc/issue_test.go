package ccc_test

import (
	"bytes"
	"testing"
	"time"

	"acbridge.dev/ccc/algo"
	"acbridge.dev/ccc/ccc"
	"acbridge.dev/ccc/keys"
)

// Issues the four certificate kinds a BCDNS deployment uses and verifies each
// chain link, for every signature algorithm.
func TestIssueAndVerify_AllAlgorithms(t *testing.T) {
	p := algo.New()
	for _, alg := range keys.Algorithms() {
		t.Run(alg, func(t *testing.T) {
			root, err := keys.Generate(alg, nil)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			rootID, err := root.Identity()
			if err != nil {
				t.Fatalf("Identity: %v", err)
			}
			relayerKey, _ := keys.Generate(alg, nil)
			relayerID, _ := relayerKey.Identity()

			const eff, exp = int64(1000), int64(1000 + 31536000)
			digest := algo.SHA256
			if alg == algo.SM3WithSM2 {
				digest = algo.SM3
			}

			d, err := ccc.CreateTrustRoot("bcdns-root", rootID, eff, exp, "BCDNS", rootID, nil)
			if err != nil {
				t.Fatalf("CreateTrustRoot: %v", err)
			}
			rootCert, err := d.Sign(root, p, digest)
			if err != nil {
				t.Fatalf("Sign root: %v", err)
			}

			issued := make([]*ccc.Draft, 0, 3)
			for _, mk := range []func() (*ccc.Draft, error){
				func() (*ccc.Draft, error) {
					return ccc.CreateDomainName("antchain.com", rootID, eff, exp, "antchain.com", relayerID, nil)
				},
				func() (*ccc.Draft, error) {
					return ccc.CreateDomainNameSpace(".com", rootID, eff, exp, ".com", relayerID, nil)
				},
				func() (*ccc.Draft, error) {
					return ccc.CreateRelayer("relayer", rootID, eff, exp, "relayer", relayerID, []byte("net=test"))
				},
			} {
				d, err := mk()
				if err != nil {
					t.Fatalf("create: %v", err)
				}
				issued = append(issued, d)
			}

			opts := ccc.VerifyOptions{Provider: p, At: time.Unix(eff+1, 0)}
			if err := ccc.VerifyWithIdentity(rootCert, rootID, opts); err != nil {
				t.Fatalf("verify root: %v", err)
			}
			for _, d := range issued {
				c, err := d.Sign(root, p, digest)
				if err != nil {
					t.Fatalf("Sign: %v", err)
				}
				text := ccc.Armor(c)
				back, err := ccc.Dearmor(text)
				if err != nil {
					t.Fatalf("Dearmor: %v", err)
				}
				if !bytes.Equal(back.Encode(), c.Encode()) {
					t.Fatalf("armor round trip changed certificate")
				}
				if err := ccc.VerifyIssuedBy(back, rootCert, opts); err != nil {
					t.Fatalf("VerifyIssuedBy %s: %v", c.Subject().Kind(), err)
				}
				relayerPub, _ := relayerKey.PublicKeyMaterial()
				if err := ccc.Verify(back, relayerPub, opts); !ccc.IsKind(err, ccc.KindSignatureInvalid) {
					t.Fatalf("expected SignatureInvalid with the subject's key, got %v", err)
				}
			}
		})
	}
}
