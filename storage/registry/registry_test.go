package registry_test

import (
	"flag"
	"strings"
	"testing"

	"acbridge.dev/ccc/storage"
	"acbridge.dev/ccc/storage/localfs"
	"acbridge.dev/ccc/storage/memory"
	"acbridge.dev/ccc/storage/registry"
	"acbridge.dev/ccc/storage/testkit"
)

func TestNames_IncludesLinkedBackends(t *testing.T) {
	got := strings.Join(registry.Names(registry.UsageCLI), ",")
	if got != "localfs,memory" {
		t.Fatalf("Names = %q", got)
	}
}

func TestRegister_Rejects(t *testing.T) {
	noop := func() (storage.CAS, func() error, error) { return nil, nil, nil }
	noopCfg := func(map[string]string) (storage.CAS, func() error, error) { return nil, nil, nil }
	for name, b := range map[string]registry.Backend{
		"no name":   {RegisterFlags: func(*flag.FlagSet) {}, Open: noop, OpenConfig: noopCfg, Usage: registry.UsageCLI},
		"no flags":  {Name: "x", Open: noop, OpenConfig: noopCfg, Usage: registry.UsageCLI},
		"no open":   {Name: "x", RegisterFlags: func(*flag.FlagSet) {}, Usage: registry.UsageCLI},
		"no usage":  {Name: "x", RegisterFlags: func(*flag.FlagSet) {}, Open: noop, OpenConfig: noopCfg},
		"duplicate": {Name: "memory", RegisterFlags: func(*flag.FlagSet) {}, Open: noop, OpenConfig: noopCfg, Usage: registry.UsageCLI},
	} {
		if err := registry.Register(b); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestOpen_FromFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	registry.RegisterFlags(fs, registry.UsageCLI)
	dir := t.TempDir()
	if err := fs.Parse([]string{"--" + localfs.ConfigDir, dir}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cas, _, err := registry.Open("localfs", registry.UsageCLI)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := cas.Put(testkit.Certificates(t, 1)[0]); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, _, err := registry.Open("s3", registry.UsageCLI); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}

func TestOpenAll_Policies(t *testing.T) {
	specs := []registry.Spec{
		{Name: "memory", ID: "cache"},
		{Name: "localfs", Config: map[string]string{localfs.ConfigDir: t.TempDir()}},
	}

	cas, closeFn, err := registry.OpenAll(specs, registry.WriteAll, registry.UsageEmbedded)
	if err != nil {
		t.Fatalf("OpenAll(all): %v", err)
	}
	defer closeFn()
	r, ok := cas.(storage.ReplicatingCAS)
	if !ok {
		t.Fatalf("write policy all: got %T", cas)
	}
	if r.Backends[0].Name != "cache" || r.Backends[1].Name != "localfs" {
		t.Fatalf("backend ids: %+v", r.Backends)
	}

	cas, _, err = registry.OpenAll(specs, "", registry.UsageEmbedded)
	if err != nil {
		t.Fatalf("OpenAll(first): %v", err)
	}
	if _, ok := cas.(storage.MultiCAS); !ok {
		t.Fatalf("default write policy: got %T", cas)
	}

	cas, _, err = registry.OpenAll(specs[:1], registry.WriteAll, registry.UsageEmbedded)
	if err != nil {
		t.Fatalf("OpenAll(single): %v", err)
	}
	if _, ok := cas.(*memory.CAS); !ok {
		t.Fatalf("single backend should be returned unwrapped, got %T", cas)
	}
}

func TestOpenAll_Rejects(t *testing.T) {
	cases := map[string]struct {
		specs  []registry.Spec
		policy string
	}{
		"empty":          {nil, ""},
		"unnamed":        {[]registry.Spec{{}}, ""},
		"duplicate id":   {[]registry.Spec{{Name: "memory"}, {Name: "localfs", ID: "memory"}}, ""},
		"bad policy":     {[]registry.Spec{{Name: "memory"}}, "some"},
		"unknown":        {[]registry.Spec{{Name: "tape"}}, ""},
		"missing config": {[]registry.Spec{{Name: "localfs"}}, ""},
	}
	for name, tc := range cases {
		if _, _, err := registry.OpenAll(tc.specs, tc.policy, registry.UsageEmbedded); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
