package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/ipfs/go-cid"
	"go.uber.org/zap"

	"acbridge.dev/ccc/ccc"
	"acbridge.dev/ccc/storage/certstore"
)

func (a *app) cmdStore(args []string) int {
	if len(args) == 0 {
		printStoreUsage(a.errOut)
		return 2
	}
	switch args[0] {
	case "put":
		return a.cmdStorePut(args[1:])
	case "get":
		return a.cmdStoreGet(args[1:])
	case "find":
		return a.cmdStoreFind(args[1:])
	case "list":
		return a.cmdStoreFind(nil)
	default:
		fmt.Fprintf(a.errOut, "unknown store subcommand: %s\n\n", args[0])
		printStoreUsage(a.errOut)
		return 2
	}
}

func printStoreUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: ccc store <subcommand> ...")
	fmt.Fprintln(w, "subcommands: put, get, find, list")
}

func (a *app) openCertStore() (*certstore.Store, func() error, error) {
	cas, closeFn, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}
	return certstore.New(cas), closeFn, nil
}

func (a *app) cmdStorePut(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.errOut, "usage: ccc store put <file> [<file> ...]")
		return 2
	}
	s, closeFn, err := a.openCertStore()
	if err != nil {
		return a.fail("open store", err)
	}
	defer func() { _ = closeFn() }()

	for _, path := range args {
		c, err := readCertificate(path)
		if err != nil {
			return a.fail("read "+path, err)
		}
		id, err := s.Put(c)
		if err != nil {
			return a.fail("store "+path, err)
		}
		a.log.Debug("stored", zap.String("path", path), zap.String("cid", id.String()))
		_, _ = fmt.Fprintln(a.out, id)
	}
	return 0
}

func (a *app) cmdStoreGet(args []string) int {
	fs := flag.NewFlagSet("store get", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	var binary bool
	fs.BoolVar(&binary, "binary", false, "write the binary encoding instead of armored text")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.errOut, "usage: ccc store get [--binary] <cid>")
		return 2
	}
	id, err := cid.Decode(fs.Arg(0))
	if err != nil {
		return a.fail("invalid cid", err)
	}
	s, closeFn, err := a.openCertStore()
	if err != nil {
		return a.fail("open store", err)
	}
	defer func() { _ = closeFn() }()

	c, err := s.Get(id)
	if err != nil {
		return a.fail("get", err)
	}
	if binary {
		_, _ = a.out.Write(c.Encode())
		return 0
	}
	_, _ = a.out.Write(ccc.Armor(c))
	return 0
}

// cmdStoreFind prints one "<cid> <kind> <subject id>" line per match.
// With no arguments it lists the whole store.
func (a *app) cmdStoreFind(args []string) int {
	fs := flag.NewFlagSet("store find", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	var subjectID, domain, kind string
	fs.StringVar(&subjectID, "subject-id", "", "match certificates issued for this subject id")
	fs.StringVar(&domain, "domain", "", "match domain certificates covering this domain")
	fs.StringVar(&kind, "kind", "", "match subject kind (TRUST_ROOT, DOMAIN_NAME, RELAYER)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	set := 0
	for _, v := range []string{subjectID, domain, kind} {
		if v != "" {
			set++
		}
	}
	if set > 1 || (set == 0 && args != nil) {
		fmt.Fprintln(a.errOut, "usage: ccc store find (--subject-id <id> | --domain <d> | --kind <kind>)")
		return 2
	}

	s, closeFn, err := a.openCertStore()
	if err != nil {
		return a.fail("open store", err)
	}
	defer func() { _ = closeFn() }()

	var entries []certstore.Entry
	switch {
	case subjectID != "":
		entries, err = s.Find(subjectID)
	case domain != "":
		d, derr := ccc.NewCrossChainDomain(domain)
		if derr != nil {
			return a.fail("invalid --domain", derr)
		}
		entries, err = s.FindDomain(d)
	case kind != "":
		k, ok := parseKind(kind)
		if !ok {
			fmt.Fprintf(a.errOut, "unknown kind: %s\n", kind)
			return 2
		}
		entries, err = s.FindKind(k)
	default:
		entries, err = s.Select(nil)
	}
	if err != nil {
		return a.fail("query", err)
	}
	for _, e := range entries {
		_, _ = fmt.Fprintf(a.out, "%s %s %s\n", e.CID, e.Certificate.Subject().Kind(), e.Certificate.SubjectID())
	}
	return 0
}

func parseKind(s string) (ccc.SubjectKind, bool) {
	for _, k := range []ccc.SubjectKind{ccc.SubjectTrustRoot, ccc.SubjectDomainName, ccc.SubjectRelayer} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}
