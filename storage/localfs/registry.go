package localfs

import (
	"flag"
	"fmt"

	"acbridge.dev/ccc/storage"
	"acbridge.dev/ccc/storage/registry"
)

// ConfigDir is the configuration key (and flag name) for the store directory.
const ConfigDir = "localfs-dir"

var flagLocalDir string

func open(dir string) (storage.CAS, func() error, error) {
	if dir == "" {
		return nil, nil, fmt.Errorf("missing %s", ConfigDir)
	}
	cas, err := New(dir, WithValidator(storage.ValidateCertificate))
	if err != nil {
		return nil, nil, err
	}
	return cas, nil, nil
}

func init() {
	registry.MustRegister(registry.Backend{
		Name:        "localfs",
		Description: "Local filesystem certificate store (directory)",
		Usage:       registry.UsageCLI | registry.UsageEmbedded,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagLocalDir, ConfigDir, "", "certificate store directory (for --backend=localfs)")
		},
		Open: func() (storage.CAS, func() error, error) {
			return open(flagLocalDir)
		},
		OpenConfig: func(cfg map[string]string) (storage.CAS, func() error, error) {
			return open(cfg[ConfigDir])
		},
	})
}
