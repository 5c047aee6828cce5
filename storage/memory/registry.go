package memory

import (
	"flag"

	"acbridge.dev/ccc/storage"
	"acbridge.dev/ccc/storage/registry"
)

func init() {
	open := func() (storage.CAS, func() error, error) {
		return New(storage.ValidateCertificate), nil, nil
	}
	registry.MustRegister(registry.Backend{
		Name:          "memory",
		Description:   "In-process certificate store (not persisted)",
		Usage:         registry.UsageCLI | registry.UsageEmbedded,
		RegisterFlags: func(*flag.FlagSet) {},
		Open:          open,
		OpenConfig: func(map[string]string) (storage.CAS, func() error, error) {
			return open()
		},
	})
}
