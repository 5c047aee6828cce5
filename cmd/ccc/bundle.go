package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ipfs/go-cid"
	"go.uber.org/zap"

	"acbridge.dev/ccc/storage"
	"acbridge.dev/ccc/storage/bundle"
)

func (a *app) cmdBundle(args []string) int {
	if len(args) == 0 {
		printBundleUsage(a.errOut)
		return 2
	}
	switch args[0] {
	case "export":
		return a.cmdBundleExport(args[1:])
	case "import":
		return a.cmdBundleImport(args[1:])
	case "index":
		return a.cmdBundleIndex(args[1:])
	default:
		fmt.Fprintf(a.errOut, "unknown bundle subcommand: %s\n\n", args[0])
		printBundleUsage(a.errOut)
		return 2
	}
}

func printBundleUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: ccc bundle <subcommand> ...")
	fmt.Fprintln(w, "subcommands: export, import, index")
}

func (a *app) cmdBundleExport(args []string) int {
	fs := flag.NewFlagSet("bundle export", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	var (
		outPath      string
		requireProof bool
	)
	fs.StringVar(&outPath, "out", "", "bundle file to write")
	fs.BoolVar(&requireProof, "require-proof", false, "refuse unsigned certificates")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if outPath == "" {
		fmt.Fprintln(a.errOut, "usage: ccc bundle export --out <file> [--require-proof] [<cid> ...]")
		return 2
	}

	cas, closeFn, err := a.openStore()
	if err != nil {
		return a.fail("open store", err)
	}
	defer func() { _ = closeFn() }()

	var ids []cid.Cid
	for _, s := range fs.Args() {
		id, err := cid.Decode(s)
		if err != nil {
			return a.fail("invalid cid "+s, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		l, ok := cas.(storage.Lister)
		if !ok {
			return a.fail("export", storage.ErrNotListable)
		}
		if ids, err = l.List(); err != nil {
			return a.fail("list", err)
		}
	}

	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return a.fail("create "+outPath, err)
	}
	if err := bundle.Export(f, cas, ids, bundle.ExportOptions{RequireProof: requireProof}); err != nil {
		_ = f.Close()
		_ = os.Remove(outPath)
		return a.fail("export", err)
	}
	if err := f.Close(); err != nil {
		return a.fail("write "+outPath, err)
	}
	a.log.Info("bundle exported", zap.String("path", outPath), zap.Int("certificates", len(ids)))
	return 0
}

func (a *app) cmdBundleImport(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(a.errOut, "usage: ccc bundle import <file>")
		return 2
	}
	f, err := os.Open(args[0])
	if err != nil {
		return a.fail("open bundle", err)
	}
	defer f.Close()

	cas, closeFn, err := a.openStore()
	if err != nil {
		return a.fail("open store", err)
	}
	defer func() { _ = closeFn() }()

	ids, err := bundle.Import(f, cas)
	for _, id := range ids {
		_, _ = fmt.Fprintln(a.out, id)
	}
	if err != nil {
		return a.fail("import", err)
	}
	a.log.Info("bundle imported", zap.String("path", args[0]), zap.Int("certificates", len(ids)))
	return 0
}

func (a *app) cmdBundleIndex(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(a.errOut, "usage: ccc bundle index <file>")
		return 2
	}
	f, err := os.Open(args[0])
	if err != nil {
		return a.fail("open bundle", err)
	}
	defer f.Close()
	idx, err := bundle.ReadIndex(f)
	if err != nil {
		return a.fail("index", err)
	}
	b, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return a.fail("encode", err)
	}
	_, _ = fmt.Fprintln(a.out, string(b))
	return 0
}
