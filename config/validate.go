package config

import (
	"errors"
	"fmt"
	"time"

	"acbridge.dev/ccc/algo"
	"acbridge.dev/ccc/storage/registry"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks every section. Algorithm names are checked against the
// built-in provider and rewritten to their canonical spelling.
func (c *FileConfig) Validate() error {
	if c.Version != 0 && c.Version != 1 {
		return fmt.Errorf("unsupported config version %d", c.Version)
	}
	if !logLevels[c.Log.Level] {
		return fmt.Errorf("invalid log.level %q: want debug, info, warn or error", c.Log.Level)
	}

	p := algo.New()
	name, err := p.CanonicalDigest(c.Issuer.DigestAlgorithm)
	if err != nil {
		return fmt.Errorf("invalid issuer.digest_algorithm %q: %w", c.Issuer.DigestAlgorithm, err)
	}
	c.Issuer.DigestAlgorithm = name
	if name, err = p.CanonicalSignature(c.Issuer.SignatureAlgorithm); err != nil {
		return fmt.Errorf("invalid issuer.signature_algorithm %q: %w", c.Issuer.SignatureAlgorithm, err)
	}
	c.Issuer.SignatureAlgorithm = name

	d, err := time.ParseDuration(c.Issuer.Validity)
	if err != nil {
		return fmt.Errorf("invalid issuer.validity %q: %w", c.Issuer.Validity, err)
	}
	if d < time.Second {
		return errors.New("issuer.validity must be at least 1s")
	}

	if err := registry.ValidateSpecs(c.Specs(), c.Store.WritePolicy); err != nil {
		return fmt.Errorf("invalid store: %w", err)
	}
	return nil
}
