package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"acbridge.dev/ccc/ccc"
	"acbridge.dev/ccc/cidutil"
	"acbridge.dev/ccc/keys"
	"acbridge.dev/ccc/model"
)

func (a *app) cmdVerify(args []string) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	var (
		certPath   string
		issuerPub  string
		issuerCert string
		at         int64
	)
	fs.StringVar(&certPath, "cert", "", "certificate file")
	fs.StringVar(&issuerPub, "issuer-pub", "", "issuer public key PEM file")
	fs.StringVar(&issuerCert, "issuer-cert", "", "issuer certificate file; its subject identity is the issuer key")
	fs.Int64Var(&at, "at", 0, "verification time, unix seconds (default now)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if certPath == "" || (issuerPub == "") == (issuerCert == "") {
		fmt.Fprintln(a.errOut, "usage: ccc verify --cert <file> (--issuer-pub <file> | --issuer-cert <file>) [--at <unix>]")
		return 2
	}

	c, err := readCertificate(certPath)
	if err != nil {
		return a.fail("read --cert", err)
	}
	opts := ccc.VerifyOptions{}
	if at != 0 {
		opts.At = time.Unix(at, 0)
	}

	if issuerPub != "" {
		b, rerr := os.ReadFile(issuerPub)
		if rerr != nil {
			return a.fail("read --issuer-pub", rerr)
		}
		id, perr := keys.ParsePublicPEM(b)
		if perr != nil {
			return a.fail("parse --issuer-pub", perr)
		}
		err = ccc.VerifyWithIdentity(c, id, opts)
	} else {
		ic, rerr := readCertificate(issuerCert)
		if rerr != nil {
			return a.fail("read --issuer-cert", rerr)
		}
		err = ccc.VerifyIssuedBy(c, ic, opts)
	}
	if err != nil {
		a.log.Debug("verification failed", zap.String("rule", ccc.RuleID(err)), zap.Error(err))
		return a.fail("invalid", err)
	}
	_, _ = fmt.Fprintln(a.out, "OK")
	return 0
}

func (a *app) cmdShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	var certPath string
	fs.StringVar(&certPath, "cert", "", "certificate file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if certPath == "" {
		fmt.Fprintln(a.errOut, "usage: ccc show --cert <file>")
		return 2
	}
	c, err := readCertificate(certPath)
	if err != nil {
		return a.fail("read --cert", err)
	}
	b, err := json.MarshalIndent(model.FromCertificate(c), "", "  ")
	if err != nil {
		return a.fail("encode", err)
	}
	_, _ = fmt.Fprintln(a.out, string(b))
	return 0
}

func (a *app) cmdCID(args []string) int {
	fs := flag.NewFlagSet("cid", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	var certPath string
	fs.StringVar(&certPath, "cert", "", "certificate file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if certPath == "" {
		fmt.Fprintln(a.errOut, "usage: ccc cid --cert <file>")
		return 2
	}
	c, err := readCertificate(certPath)
	if err != nil {
		return a.fail("read --cert", err)
	}
	_, _ = fmt.Fprintln(a.out, cidutil.CIDv1RawSHA256(c.Encode()))
	return 0
}
