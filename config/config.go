// Package config loads the YAML configuration shared by the ccc command and
// programs that embed the certificate store.
package config

import (
	"time"

	"acbridge.dev/ccc/algo"
	"acbridge.dev/ccc/storage/registry"
)

// LogSection configures logging.
type LogSection struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// IssuerSection holds issuance defaults.
type IssuerSection struct {
	DigestAlgorithm    string `yaml:"digest_algorithm"`
	SignatureAlgorithm string `yaml:"signature_algorithm"`
	// Validity is the default certificate lifetime, in Go duration format
	// ("8760h", "720h").
	Validity string `yaml:"validity"`
}

// BackendSection names one storage backend. Config keys are backend
// specific and mirror the backend's flag names.
type BackendSection struct {
	Name   string            `yaml:"name"`
	ID     string            `yaml:"id,omitempty"`
	Config map[string]string `yaml:"config,omitempty"`
}

// StoreSection selects certificate storage.
type StoreSection struct {
	// WritePolicy is "first" (default) or "all".
	WritePolicy string           `yaml:"write_policy,omitempty"`
	Backends    []BackendSection `yaml:"backends"`
}

// FileConfig is the configuration file.
type FileConfig struct {
	// Version is the file format version (optional, currently always 1).
	Version int           `yaml:"version,omitempty"`
	Log     LogSection    `yaml:"log"`
	Issuer  IssuerSection `yaml:"issuer"`
	Store   StoreSection  `yaml:"store"`
}

// Default returns the configuration used when no file is given: Ed25519 over
// SHA256, one year validity, and an in-memory store.
func Default() FileConfig {
	return FileConfig{
		Version: 1,
		Log:     LogSection{Level: "info"},
		Issuer: IssuerSection{
			DigestAlgorithm:    algo.SHA256,
			SignatureAlgorithm: algo.Ed25519,
			Validity:           "8760h",
		},
		Store: StoreSection{
			WritePolicy: registry.WriteFirst,
			Backends:    []BackendSection{{Name: "memory"}},
		},
	}
}

// ValidityDuration parses Issuer.Validity. Call Validate first.
func (c FileConfig) ValidityDuration() time.Duration {
	d, _ := time.ParseDuration(c.Issuer.Validity)
	return d
}

// Specs converts the store section for registry.OpenAll.
func (c FileConfig) Specs() []registry.Spec {
	out := make([]registry.Spec, 0, len(c.Store.Backends))
	for _, b := range c.Store.Backends {
		out = append(out, registry.Spec{Name: b.Name, ID: b.ID, Config: b.Config})
	}
	return out
}
