package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables that override file values.
const (
	EnvLogLevel    = "CCC_LOG_LEVEL"
	EnvDigest      = "CCC_DIGEST_ALGORITHM"
	EnvSignature   = "CCC_SIGNATURE_ALGORITHM"
	EnvValidity    = "CCC_VALIDITY"
	EnvWritePolicy = "CCC_STORE_WRITE_POLICY"
	// EnvStoreDir replaces the backend list with one localfs backend.
	EnvStoreDir = "CCC_STORE_DIR"
)

func applyEnvOverrides(cfg *FileConfig) error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvDigest); v != "" {
		cfg.Issuer.DigestAlgorithm = v
	}
	if v := os.Getenv(EnvSignature); v != "" {
		cfg.Issuer.SignatureAlgorithm = v
	}
	if v := os.Getenv(EnvValidity); v != "" {
		cfg.Issuer.Validity = v
	}
	if v := os.Getenv(EnvWritePolicy); v != "" {
		cfg.Store.WritePolicy = v
	}
	if v := os.Getenv(EnvStoreDir); v != "" {
		if strings.TrimSpace(v) != v {
			return fmt.Errorf("invalid %s %q: surrounding whitespace", EnvStoreDir, v)
		}
		cfg.Store.Backends = []BackendSection{{Name: "localfs", Config: map[string]string{"localfs-dir": v}}}
	}
	return nil
}
