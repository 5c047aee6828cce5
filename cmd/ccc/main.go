package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"acbridge.dev/ccc/ccc"
	"acbridge.dev/ccc/config"
	"acbridge.dev/ccc/internal/logging"
	"acbridge.dev/ccc/storage"
	_ "acbridge.dev/ccc/storage/ipfs"
	_ "acbridge.dev/ccc/storage/localfs"
	_ "acbridge.dev/ccc/storage/memory"
	"acbridge.dev/ccc/storage/registry"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every subcommand needs after global flags are parsed.
type app struct {
	cfg    config.FileConfig
	log    *zap.Logger
	out    io.Writer
	errOut io.Writer
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("ccc", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() { printUsage(errOut) }
	var (
		configPath string
		logLevel   string
		storeDir   string
	)
	fs.StringVar(&configPath, "config", "", "YAML configuration file")
	fs.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	fs.StringVar(&storeDir, "store-dir", "", "use a single localfs store at this directory (overrides config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	args = fs.Args()
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(out)
		return 0
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 1
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if storeDir != "" {
		cfg.Store.Backends = []config.BackendSection{{Name: "localfs", Config: map[string]string{"localfs-dir": storeDir}}}
	}
	log, err := logging.New(logging.Config{Level: cfg.Log.Level, Writer: errOut, Name: "ccc"})
	if err != nil {
		fmt.Fprintf(errOut, "%v\n", err)
		return 2
	}
	defer func() { _ = log.Sync() }()

	a := &app{cfg: cfg, log: log, out: out, errOut: errOut}
	switch args[0] {
	case "key":
		return a.cmdKey(args[1:])
	case "issue":
		return a.cmdIssue(args[1:])
	case "verify":
		return a.cmdVerify(args[1:])
	case "show":
		return a.cmdShow(args[1:])
	case "cid":
		return a.cmdCID(args[1:])
	case "store":
		return a.cmdStore(args[1:])
	case "bundle":
		return a.cmdBundle(args[1:])
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "ccc: cross-chain certificate tool")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ccc [--config <file>] [--log-level <lvl>] [--store-dir <dir>] <command> ...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  ccc key gen --out <file> [--alg <alg>] [--seed-hex <64hex> [--label <label>]] [--force]")
	fmt.Fprintln(w, "  ccc key pub --key <file>")
	fmt.Fprintln(w, "  ccc issue trust-root   --key <file> --subject-id <id> --root-type <t> [subject] [common]")
	fmt.Fprintln(w, "  ccc issue domain       --key <file> --subject-id <id> --domain <d> [subject] [common]")
	fmt.Fprintln(w, "  ccc issue domain-space --key <file> --subject-id <id> --space <.s> [subject] [common]")
	fmt.Fprintln(w, "  ccc issue relayer      --key <file> --subject-id <id> --name <n> [subject] [common]")
	fmt.Fprintln(w, "      subject: --subject-pub <file> | --self")
	fmt.Fprintln(w, "      common: [--effective <unix>] [--expire <unix> | --validity <dur>] [--digest <alg>] [--extra-hex <hex>] [--binary] [--store]")
	fmt.Fprintln(w, "  ccc verify --cert <file> (--issuer-pub <file> | --issuer-cert <file>) [--at <unix>]")
	fmt.Fprintln(w, "  ccc show --cert <file>")
	fmt.Fprintln(w, "  ccc cid --cert <file>")
	fmt.Fprintln(w, "  ccc store put <file> [<file> ...]")
	fmt.Fprintln(w, "  ccc store get [--binary] <cid>")
	fmt.Fprintln(w, "  ccc store find (--subject-id <id> | --domain <d> | --kind <kind>)")
	fmt.Fprintln(w, "  ccc store list")
	fmt.Fprintln(w, "  ccc bundle export --out <file> [--require-proof] [<cid> ...]")
	fmt.Fprintln(w, "  ccc bundle import <file>")
	fmt.Fprintln(w, "  ccc bundle index <file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - certificate files may be armored text or the binary encoding")
	fmt.Fprintln(w, "  - issue writes armored text to stdout unless --binary is given")
	fmt.Fprintln(w, "  - the default store is in-memory; use --store-dir or a config file to persist")
}

func (a *app) openStore() (storage.CAS, func() error, error) {
	cas, closeFn, err := registry.OpenAll(a.cfg.Specs(), a.cfg.Store.WritePolicy, registry.UsageCLI)
	if err != nil {
		return nil, nil, err
	}
	if closeFn == nil {
		closeFn = func() error { return nil }
	}
	a.log.Debug("store opened", zap.Int("backends", len(a.cfg.Store.Backends)), zap.String("write_policy", a.cfg.Store.WritePolicy))
	return cas, closeFn, nil
}

// fail reports err and returns exit code 1. Certificate errors carry their rule ID.
func (a *app) fail(what string, err error) int {
	if id := ccc.RuleID(err); id != "" {
		fmt.Fprintf(a.errOut, "%s: %s [%s]: %v\n", what, ccc.KindOf(err), id, err)
		return 1
	}
	fmt.Fprintf(a.errOut, "%s: %v\n", what, err)
	return 1
}
