package ipfs

import (
	"flag"
	"os"

	"acbridge.dev/ccc/storage"
	"acbridge.dev/ccc/storage/registry"
)

// Configuration keys (and flag names).
const (
	ConfigBin  = "ipfs-bin"
	ConfigPath = "ipfs-path"
)

var (
	flagBin  string
	flagPath string
)

func open(bin, repo string) (storage.CAS, func() error, error) {
	var env []string
	if repo != "" {
		env = append(os.Environ(), "IPFS_PATH="+repo)
	}
	return New(Options{Bin: bin, Env: env, Validator: storage.ValidateCertificate}), nil, nil
}

func init() {
	registry.MustRegister(registry.Backend{
		Name:        "ipfs",
		Description: "Local Kubo repository via the ipfs CLI (offline, raw blocks)",
		Usage:       registry.UsageCLI,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagBin, ConfigBin, "", "path to the ipfs binary (for --backend=ipfs)")
			fs.StringVar(&flagPath, ConfigPath, "", "IPFS_PATH of the Kubo repository (for --backend=ipfs)")
		},
		Open: func() (storage.CAS, func() error, error) {
			return open(flagBin, flagPath)
		},
		OpenConfig: func(cfg map[string]string) (storage.CAS, func() error, error) {
			return open(cfg[ConfigBin], cfg[ConfigPath])
		},
	})
}
