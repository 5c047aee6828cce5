package ccc

import (
	"bytes"
	"testing"
)

func TestEncodedToSign_Vector(t *testing.T) {
	sub, err := NewTrustRootSubject("r", NewObjectIdentity(IdentityX509PublicKeyInfo, []byte{0xaa}), nil)
	if err != nil {
		t.Fatalf("NewTrustRootSubject: %v", err)
	}
	d, err := Create(1, "s", NewObjectIdentity(IdentityX509PublicKeyInfo, []byte{0xbb}), 1, 2, sub)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	identAA := "0000 00000002 0000  0001 00000001 aa"
	identBB := "0000 00000002 0000  0001 00000001 bb"
	subject := "0001" + // subject version
		"0000 00000001 72" +
		"0001 0000000f " + identAA +
		"0002 00000000"
	container := "0000 00000002 0000  0001 00000024 " + subject
	want := unhex(t,
		"0000 00000002 0001"+
			"0001 00000001 73"+
			"0002 0000000f "+identBB+
			"0003 00000008 0000000000000001"+
			"0004 00000008 0000000000000002"+
			"0005 00000032 "+container)

	if got := d.EncodedToSign(); !bytes.Equal(got, want) {
		t.Fatalf("encode-to-sign mismatch:\n got %x\nwant %x", got, want)
	}
}

func TestEncodedToSign_IsPrefixOfFullEncoding(t *testing.T) {
	signer, pub := testKey(t, 1)
	d := mustTrustRoot(t, pub, 1000, 2000)
	toSign := d.EncodedToSign()
	c := mustSign(t, d, signer)

	full := c.Encode()
	if len(full) <= len(toSign) || !bytes.Equal(full[:len(toSign)], toSign) {
		t.Fatalf("encode-to-sign is not a strict prefix of the full encoding")
	}
	if !bytes.Equal(c.EncodedToSign(), toSign) {
		t.Fatalf("attaching a proof changed encode-to-sign")
	}
}

func TestEncodedToSign_IndependentOfConstructionPath(t *testing.T) {
	_, pub := testKey(t, 2)
	id := NewObjectIdentity(IdentityX509PublicKeyInfo, pub)

	a, err := CreateDomainName("bob", id, 10, 20, "AntChain.COM", id, nil)
	if err != nil {
		t.Fatalf("CreateDomainName: %v", err)
	}
	sub, err := NewDomainNameSubject(DomainName, "antchain.com", id, []byte{})
	if err != nil {
		t.Fatalf("NewDomainNameSubject: %v", err)
	}
	b, err := CreateFromFields(Fields{Version: CurrentVersion, SubjectID: "bob", Issuer: id, EffectiveTime: 10, ExpireTime: 20, Subject: sub})
	if err != nil {
		t.Fatalf("CreateFromFields: %v", err)
	}
	if !bytes.Equal(a.EncodedToSign(), b.EncodedToSign()) {
		t.Fatalf("same fields produced different bytes")
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	signer, pub := testKey(t, 3)
	id := NewObjectIdentity(IdentityX509PublicKeyInfo, pub)
	bid := NewObjectIdentity(IdentityBID, []byte("did:bid:alice"))
	odd := NewObjectIdentity(IdentityType(77), []byte{1, 2, 3})

	drafts := map[string]func() (*Draft, error){
		"trust root": func() (*Draft, error) {
			return CreateTrustRoot("root", id, 1, 100, "BCDNS", id, []byte{0})
		},
		"domain name": func() (*Draft, error) {
			return CreateDomainName("antchain.com", id, 1, 100, "antchain.com", bid, nil)
		},
		"domain space": func() (*Draft, error) {
			return CreateDomainNameSpace(".com", id, 1, 100, ".com", id, []byte("x"))
		},
		"root space": func() (*Draft, error) {
			return CreateDomainNameSpace("root", id, 1, 100, ".", id, nil)
		},
		"relayer": func() (*Draft, error) {
			return CreateRelayer("relayer-1", id, 1, 100, "relayer-1", odd, nil)
		},
	}
	for name, mk := range drafts {
		t.Run(name, func(t *testing.T) {
			d, err := mk()
			if err != nil {
				t.Fatalf("create: %v", err)
			}

			unsigned := &Certificate{body: d.body}
			back, err := Decode(unsigned.Encode())
			if err != nil {
				t.Fatalf("Decode unsigned: %v", err)
			}
			if back.HasProof() {
				t.Fatalf("unsigned certificate decoded with a proof")
			}

			c := mustSign(t, d, signer)
			full := c.Encode()
			got, err := Decode(full)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !bytes.Equal(got.Encode(), full) {
				t.Fatalf("re-encode differs")
			}
			if got.Subject().Kind() != c.Subject().Kind() || got.SubjectID() != c.SubjectID() {
				t.Fatalf("decoded fields differ")
			}
			p1, _ := c.Proof()
			p2, ok := got.Proof()
			if !ok || !p1.Equal(p2) {
				t.Fatalf("proof did not survive round trip")
			}
		})
	}
}

func TestDecode_PreservesUnknownIdentityType(t *testing.T) {
	_, pub := testKey(t, 4)
	issuer := NewObjectIdentity(IdentityType(900), pub)
	d, err := CreateRelayer("r", issuer, 1, 2, "r", issuer, nil)
	if err != nil {
		t.Fatalf("CreateRelayer: %v", err)
	}
	c := &Certificate{body: d.body}
	got, err := Decode(c.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Issuer().Type() != 900 || !bytes.Equal(got.Issuer().RawBytes(), pub) {
		t.Fatalf("unknown identity not preserved")
	}
	_, err = got.Issuer().PublicKeyMaterial()
	wantKind(t, err, KindUnsupportedIdentity)
}

func TestDecode_Rejects(t *testing.T) {
	signer, pub := testKey(t, 5)
	c := mustSign(t, mustTrustRoot(t, pub, 1, 2), signer)
	full := c.Encode()

	v2 := append([]byte{}, full...)
	v2[7] = 2 // envelope version value

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := Decode(append(append([]byte{}, full...), 0))
		wantKind(t, err, KindMalformedEncoding)
	})
	t.Run("truncated", func(t *testing.T) {
		_, err := Decode(full[:len(full)-3])
		wantKind(t, err, KindMalformedEncoding)
	})
	t.Run("empty", func(t *testing.T) {
		_, err := Decode(nil)
		wantKind(t, err, KindMalformedEncoding)
	})
	t.Run("unknown envelope version", func(t *testing.T) {
		_, err := Decode(v2)
		wantKind(t, err, KindUnsupportedVersion)
	})
}

func TestDecode_RejectsNonCanonicalDomain(t *testing.T) {
	_, pub := testKey(t, 6)
	id := NewObjectIdentity(IdentityX509PublicKeyInfo, pub)
	s := DomainNameSubject{domainType: DomainName, domain: CrossChainDomain{s: "AntChain.com"}, applicant: id}
	_, err := DecodeDomainNameSubject(s.Encode())
	wantKind(t, err, KindMalformedEncoding)
	if RuleID(err) != "CCC-DEC-040" {
		t.Fatalf("unexpected rule %q", RuleID(err))
	}
}

func TestSubjectDecode_UnknownVersion(t *testing.T) {
	_, pub := testKey(t, 7)
	id := NewObjectIdentity(IdentityX509PublicKeyInfo, pub)
	tr, _ := NewTrustRootSubject("root", id, nil)
	dn, _ := NewDomainNameSubject(DomainName, "a.com", id, nil)
	rl, _ := NewRelayerSubject("r", id, nil)

	for _, s := range []CredentialSubject{tr, dn, rl} {
		b := s.Encode()
		b[0], b[1] = 0x00, 0x02
		if _, err := DecodeSubject(s.Kind(), b); !IsKind(err, KindUnsupportedVersion) {
			t.Fatalf("%s: expected UnsupportedVersion, got %v", s.Kind(), err)
		}
		b[0], b[1] = 0xff, 0xff
		if _, err := DecodeSubject(s.Kind(), b); !IsKind(err, KindUnsupportedVersion) {
			t.Fatalf("%s: expected UnsupportedVersion, got %v", s.Kind(), err)
		}
	}
}

func TestSubjectDecode_Malformed(t *testing.T) {
	_, pub := testKey(t, 8)
	id := NewObjectIdentity(IdentityX509PublicKeyInfo, pub)
	dn, _ := NewDomainNameSubject(DomainNameSpace, ".org", id, nil)
	good := dn.Encode()

	badEnum := append([]byte{}, good...)
	badEnum[9] = 9 // domainType value

	cases := map[string][]byte{
		"short":         good[:1],
		"truncated":     good[:len(good)-1],
		"trailing":      append(append([]byte{}, good...), 0),
		"invalid enum":  badEnum,
		"version only":  good[:2],
		"wrong variant": mustEncode(t, id),
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeDomainNameSubject(b)
			wantKind(t, err, KindMalformedEncoding)
		})
	}
}

func mustEncode(t *testing.T, id ObjectIdentity) []byte {
	t.Helper()
	rl, err := NewRelayerSubject("r", id, nil)
	if err != nil {
		t.Fatalf("NewRelayerSubject: %v", err)
	}
	return rl.Encode()
}

func TestDecodeSubject_UnknownKind(t *testing.T) {
	_, err := DecodeSubject(SubjectKind(42), []byte{0, 1})
	wantKind(t, err, KindMalformedEncoding)
}
