package main

import (
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"acbridge.dev/ccc/algo"
	"acbridge.dev/ccc/ccc"
	"acbridge.dev/ccc/cidutil"
	"acbridge.dev/ccc/internal/logging"
	"acbridge.dev/ccc/keys"
)

func mustKey(seedByte byte) *keys.PrivateKey {
	seed := bytes.Repeat([]byte{seedByte}, 32)
	k, err := keys.FromEd25519Seed(seed)
	if err != nil {
		panic(err)
	}
	return k
}

func mustIdentity(k *keys.PrivateKey) ccc.ObjectIdentity {
	id, err := k.Identity()
	if err != nil {
		panic(err)
	}
	return id
}

func main() {
	outDir := flag.String("out", "", "directory to write <name>.ccc and <name>.bin vectors into (default: stdout only)")
	flag.Parse()

	log, err := logging.New(logging.Config{Writer: os.Stderr, Name: "ccc_vector_gen"})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	root := mustKey(0xA1)
	relayer := mustKey(0xB2)
	rootID := mustIdentity(root)
	relayerID := mustIdentity(relayer)
	p := algo.New()

	const eff, exp = int64(1700000000), int64(1700000000 + 31536000)

	drafts := []struct {
		name  string
		draft func() (*ccc.Draft, error)
	}{
		{"trust_root", func() (*ccc.Draft, error) {
			return ccc.CreateTrustRoot("bcdns-root", rootID, eff, exp, "BCDNS", rootID, nil)
		}},
		{"domain_name", func() (*ccc.Draft, error) {
			return ccc.CreateDomainName("antchain.com", rootID, eff, exp, "antchain.com", relayerID, nil)
		}},
		{"domain_space", func() (*ccc.Draft, error) {
			return ccc.CreateDomainNameSpace(".com", rootID, eff, exp, ".com", relayerID, nil)
		}},
		{"relayer", func() (*ccc.Draft, error) {
			return ccc.CreateRelayer("relayer-1", rootID, eff, exp, "relayer-1", relayerID, []byte("net=test"))
		}},
	}

	for _, v := range drafts {
		d, err := v.draft()
		if err != nil {
			panic(err)
		}
		c, err := d.Sign(root, p, algo.SHA256)
		if err != nil {
			panic(err)
		}
		encoded := c.Encode()
		cid := cidutil.CIDv1RawSHA256(encoded)
		log.Info("vector", zap.String("name", v.name), zap.String("cid", cid), zap.Int("size", len(encoded)))

		fmt.Printf("NAME=%s\nCID=%s\nHEX=%s\n", v.name, cid, hex.EncodeToString(encoded))
		fmt.Printf("%s\n", ccc.Armor(c))

		if *outDir == "" {
			continue
		}
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			panic(err)
		}
		if err := os.WriteFile(filepath.Join(*outDir, v.name+".ccc"), ccc.Armor(c), 0o644); err != nil {
			panic(err)
		}
		if err := os.WriteFile(filepath.Join(*outDir, v.name+".bin"), encoded, 0o644); err != nil {
			panic(err)
		}
	}
}
