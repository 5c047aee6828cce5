package main

import (
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"

	"acbridge.dev/ccc/algo"
	"acbridge.dev/ccc/keys"
)

func (a *app) cmdKey(args []string) int {
	if len(args) == 0 {
		printKeyUsage(a.errOut)
		return 2
	}
	switch args[0] {
	case "gen":
		return a.cmdKeyGen(args[1:])
	case "pub":
		return a.cmdKeyPub(args[1:])
	case "help", "-h", "--help":
		printKeyUsage(a.out)
		return 0
	default:
		fmt.Fprintf(a.errOut, "unknown key subcommand: %s\n\n", args[0])
		printKeyUsage(a.errOut)
		return 2
	}
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: ccc key <subcommand> ...")
	fmt.Fprintln(w, "subcommands: gen, pub")
	fmt.Fprintf(w, "algorithms: %v\n", keys.Algorithms())
}

func (a *app) cmdKeyGen(args []string) int {
	fs := flag.NewFlagSet("key gen", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	var (
		outPath string
		alg     string
		seedHex string
		label   string
		force   bool
	)
	fs.StringVar(&outPath, "out", "", "private key PEM file to write (0600)")
	fs.StringVar(&alg, "alg", a.cfg.Issuer.SignatureAlgorithm, "signature algorithm")
	fs.StringVar(&seedHex, "seed-hex", "", "Ed25519 seed (32 bytes hex) for a deterministic key")
	fs.StringVar(&label, "label", "", "derive the seed for this label from --seed-hex")
	fs.BoolVar(&force, "force", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if outPath == "" || fs.NArg() != 0 {
		fmt.Fprintln(a.errOut, "usage: ccc key gen --out <file> [--alg <alg>] [--seed-hex <64hex> [--label <label>]] [--force]")
		return 2
	}
	canonical, err := keys.CanonicalAlgorithm(alg)
	if err != nil {
		return a.fail("key gen", err)
	}
	if label != "" && seedHex == "" {
		fmt.Fprintln(a.errOut, "--label requires --seed-hex")
		return 2
	}

	var k *keys.PrivateKey
	if seedHex != "" {
		if canonical != algo.Ed25519 {
			fmt.Fprintf(a.errOut, "--seed-hex is only supported for %s\n", algo.Ed25519)
			return 2
		}
		seed, err := keys.ParseSeedHex(seedHex)
		if err != nil {
			return a.fail("invalid --seed-hex", err)
		}
		if label != "" {
			if seed, err = keys.DeriveSeed(seed, label); err != nil {
				return a.fail("derive", err)
			}
		}
		k, err = keys.FromEd25519Seed(seed)
		if err != nil {
			return a.fail("key gen", err)
		}
	} else {
		if k, err = keys.Generate(canonical, nil); err != nil {
			return a.fail("key gen", err)
		}
	}

	priv, err := k.MarshalPEM()
	if err != nil {
		return a.fail("encode key", err)
	}
	if err := keys.WriteFile(outPath, priv, force); err != nil {
		return a.fail("write key", err)
	}
	pub, err := k.MarshalPublicPEM()
	if err != nil {
		return a.fail("encode public key", err)
	}
	a.log.Info("key generated", zap.String("algorithm", canonical), zap.String("path", outPath))
	_, _ = a.out.Write(pub)
	return 0
}

func (a *app) cmdKeyPub(args []string) int {
	fs := flag.NewFlagSet("key pub", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	var keyPath string
	fs.StringVar(&keyPath, "key", "", "private key PEM file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if keyPath == "" {
		fmt.Fprintln(a.errOut, "usage: ccc key pub --key <file>")
		return 2
	}
	k, err := keys.ReadPrivateKeyFile(keyPath)
	if err != nil {
		return a.fail("read key", err)
	}
	pub, err := k.MarshalPublicPEM()
	if err != nil {
		return a.fail("encode public key", err)
	}
	_, _ = a.out.Write(pub)
	return 0
}
