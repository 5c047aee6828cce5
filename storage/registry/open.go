package registry

import (
	"errors"
	"fmt"

	"acbridge.dev/ccc/storage"
)

// Write policies for OpenAll.
const (
	// WriteFirst writes only to the first backend; reads fall back in order.
	WriteFirst = "first"
	// WriteAll writes to every backend and requires CID equality.
	WriteAll = "all"
)

// Spec names one backend to open.
type Spec struct {
	// Name is the registered backend name.
	Name string
	// ID is an optional alias used in per-backend reports. Defaults to Name.
	ID     string
	Config map[string]string
}

func (s Spec) id() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Name
}

// ValidateSpecs checks names, alias uniqueness and the write policy.
func ValidateSpecs(specs []Spec, writePolicy string) error {
	if len(specs) == 0 {
		return errors.New("registry: at least one backend is required")
	}
	seen := make(map[string]struct{}, len(specs))
	for _, s := range specs {
		if s.Name == "" {
			return errors.New("registry: backend name is required")
		}
		if _, ok := seen[s.id()]; ok {
			return fmt.Errorf("registry: duplicate backend id %q", s.id())
		}
		seen[s.id()] = struct{}{}
	}
	switch writePolicy {
	case "", WriteFirst, WriteAll:
		return nil
	default:
		return fmt.Errorf("registry: invalid write policy %q", writePolicy)
	}
}

// OpenAll opens every backend in order and composes them per writePolicy.
// A single backend is returned as is. The close function closes backends in
// reverse order and reports the first error.
func OpenAll(specs []Spec, writePolicy string, usage Usage) (storage.CAS, func() error, error) {
	if err := ValidateSpecs(specs, writePolicy); err != nil {
		return nil, nil, err
	}

	named := make([]storage.NamedCAS, 0, len(specs))
	closers := make([]func() error, 0, len(specs))
	closeAll := func() error {
		var firstErr error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	for _, s := range specs {
		cas, closeFn, err := OpenWithConfig(s.Name, usage, s.Config)
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("registry: open %q: %w", s.id(), err)
		}
		named = append(named, storage.NamedCAS{Name: s.id(), CAS: cas})
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
	}

	if len(named) == 1 {
		return named[0].CAS, closeAll, nil
	}
	if writePolicy == WriteAll {
		return storage.ReplicatingCAS{Backends: named}, closeAll, nil
	}
	adapters := make([]storage.CAS, 0, len(named))
	for _, n := range named {
		adapters = append(adapters, n.CAS)
	}
	return storage.MultiCAS{Adapters: adapters}, closeAll, nil
}
