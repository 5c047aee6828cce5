package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"acbridge.dev/ccc/algo"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ccc.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default invalid: %v", err)
	}
	if cfg.ValidityDuration() != 365*24*time.Hour {
		t.Fatalf("validity %v", cfg.ValidityDuration())
	}
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
version: 1
log:
  level: debug
issuer:
  digest_algorithm: sm3
  signature_algorithm: sm3withsm2
  validity: 720h
store:
  write_policy: all
  backends:
    - name: memory
      id: cache
    - name: localfs
      config:
        localfs-dir: /var/lib/ccc
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Issuer.DigestAlgorithm != algo.SM3 || cfg.Issuer.SignatureAlgorithm != algo.SM3WithSM2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	specs := cfg.Specs()
	if len(specs) != 2 || specs[0].ID != "cache" || specs[1].Config["localfs-dir"] != "/var/lib/ccc" {
		t.Fatalf("unexpected specs: %+v", specs)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  level: warn\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Issuer.SignatureAlgorithm != algo.Ed25519 || len(cfg.Store.Backends) != 1 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]struct {
		body string
		want string
	}{
		"unknown key":     {"logging:\n  level: info\n", "field logging not found"},
		"bad level":       {"log:\n  level: loud\n", "log.level"},
		"bad digest":      {"issuer:\n  digest_algorithm: md5\n", "issuer.digest_algorithm"},
		"bad signature":   {"issuer:\n  signature_algorithm: falcon\n", "issuer.signature_algorithm"},
		"bad validity":    {"issuer:\n  validity: forever\n", "issuer.validity"},
		"short validity":  {"issuer:\n  validity: 10ms\n", "at least 1s"},
		"bad policy":      {"store:\n  write_policy: some\n", "invalid store"},
		"no backends":     {"store:\n  backends: []\n", "invalid store"},
		"future version":  {"version: 2\n", "unsupported config version"},
		"not yaml at all": {"\t:::", "failed to parse"},
	}
	for name, tc := range cases {
		_, err := Load(writeConfig(t, tc.body))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: got %v want substring %q", name, err, tc.want)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvLogLevel, "ERROR")
	t.Setenv(EnvSignature, "sha256withecdsa")
	t.Setenv(EnvValidity, "1h")
	t.Setenv(EnvStoreDir, dir)

	cfg, err := Load(writeConfig(t, "log:\n  level: debug\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "error" || cfg.ValidityDuration() != time.Hour {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Store.Backends[0].Name != "localfs" || cfg.Store.Backends[0].Config["localfs-dir"] != dir {
		t.Fatalf("store dir not applied: %+v", cfg.Store)
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv(EnvDigest, "sha3-256")
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Issuer.DigestAlgorithm != algo.SHA3_256 {
		t.Fatalf("env not applied to defaults: %q", cfg.Issuer.DigestAlgorithm)
	}
	t.Setenv(EnvDigest, "crc32")
	if _, err := LoadOrDefault(""); err == nil {
		t.Fatalf("expected validation error")
	}
}
