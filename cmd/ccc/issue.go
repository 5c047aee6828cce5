package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"acbridge.dev/ccc/algo"
	"acbridge.dev/ccc/ccc"
	"acbridge.dev/ccc/keys"
	"acbridge.dev/ccc/storage/certstore"
)

var issueKinds = map[string]string{
	"trust-root":   "root-type",
	"domain":       "domain",
	"domain-space": "space",
	"relayer":      "name",
}

func (a *app) cmdIssue(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.errOut, "usage: ccc issue <trust-root|domain|domain-space|relayer> ...")
		return 2
	}
	kind := args[0]
	valueFlag, ok := issueKinds[kind]
	if !ok {
		fmt.Fprintf(a.errOut, "unknown certificate kind: %s\n", kind)
		return 2
	}

	fs := flag.NewFlagSet("issue "+kind, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	var (
		keyPath    string
		subjectID  string
		value      string
		subjectPub string
		self       bool
		effective  int64
		expire     int64
		validity   string
		digest     string
		extraHex   string
		binary     bool
		store      bool
	)
	fs.StringVar(&keyPath, "key", "", "issuer private key PEM file")
	fs.StringVar(&subjectID, "subject-id", "", "certificate subject id")
	fs.StringVar(&value, valueFlag, "", "subject "+valueFlag)
	fs.StringVar(&subjectPub, "subject-pub", "", "subject public key PEM file")
	fs.BoolVar(&self, "self", false, "use the issuer's own identity as the subject identity")
	fs.Int64Var(&effective, "effective", 0, "effective time, unix seconds (default now)")
	fs.Int64Var(&expire, "expire", 0, "expire time, unix seconds (default effective + validity)")
	fs.StringVar(&validity, "validity", a.cfg.Issuer.Validity, "lifetime when --expire is not set")
	fs.StringVar(&digest, "digest", a.cfg.Issuer.DigestAlgorithm, "digest algorithm")
	fs.StringVar(&extraHex, "extra-hex", "", "opaque subject extension, hex")
	fs.BoolVar(&binary, "binary", false, "write the binary encoding instead of armored text")
	fs.BoolVar(&store, "store", false, "also put the certificate into the configured store")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if keyPath == "" || subjectID == "" || value == "" || (subjectPub == "") == !self {
		fmt.Fprintf(a.errOut, "usage: ccc issue %s --key <file> --subject-id <id> --%s <v> (--subject-pub <file> | --self) ...\n", kind, valueFlag)
		return 2
	}

	k, err := keys.ReadPrivateKeyFile(keyPath)
	if err != nil {
		return a.fail("read key", err)
	}
	issuer, err := k.Identity()
	if err != nil {
		return a.fail("issuer identity", err)
	}
	subject := issuer
	if !self {
		b, err := os.ReadFile(subjectPub)
		if err != nil {
			return a.fail("read --subject-pub", err)
		}
		if subject, err = keys.ParsePublicPEM(b); err != nil {
			return a.fail("parse --subject-pub", err)
		}
	}
	extra, err := hex.DecodeString(extraHex)
	if err != nil {
		return a.fail("invalid --extra-hex", err)
	}

	if effective == 0 {
		effective = time.Now().Unix()
	}
	if expire == 0 {
		life, err := time.ParseDuration(validity)
		if err != nil {
			return a.fail("invalid --validity", err)
		}
		expire = effective + int64(life/time.Second)
	}

	var d *ccc.Draft
	switch kind {
	case "trust-root":
		d, err = ccc.CreateTrustRoot(subjectID, issuer, effective, expire, value, subject, extra)
	case "domain":
		d, err = ccc.CreateDomainName(subjectID, issuer, effective, expire, value, subject, extra)
	case "domain-space":
		d, err = ccc.CreateDomainNameSpace(subjectID, issuer, effective, expire, value, subject, extra)
	case "relayer":
		d, err = ccc.CreateRelayer(subjectID, issuer, effective, expire, value, subject, extra)
	}
	if err != nil {
		return a.fail("issue", err)
	}
	c, err := d.Sign(k, algo.New(), digest)
	if err != nil {
		return a.fail("sign", err)
	}
	a.log.Info("certificate issued",
		zap.String("kind", c.Subject().Kind().String()),
		zap.String("subject_id", subjectID),
		zap.String("signature", k.Algorithm()),
		zap.Int64("effective", effective),
		zap.Int64("expire", expire),
	)

	if store {
		cas, closeFn, err := a.openStore()
		if err != nil {
			return a.fail("open store", err)
		}
		defer func() { _ = closeFn() }()
		id, err := certstore.New(cas).Put(c)
		if err != nil {
			return a.fail("store", err)
		}
		a.log.Info("certificate stored", zap.String("cid", id.String()))
	}

	if binary {
		_, _ = a.out.Write(c.Encode())
		return 0
	}
	_, _ = a.out.Write(ccc.Armor(c))
	return 0
}
