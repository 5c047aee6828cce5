package ccc

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxDomainLength bounds a normalized domain, in bytes.
const MaxDomainLength = 128

// RootSpace is the domain name space that contains every domain.
const RootSpace = "."

// CrossChainDomain is a normalized domain name ("antchain.com") or domain
// name space (".com"; "." is the root space).
type CrossChainDomain struct {
	s string
}

// NormalizeDomain applies the canonical form: Unicode NFC, then lower case.
func NormalizeDomain(s string) string {
	return norm.NFC.String(strings.ToLower(norm.NFC.String(s)))
}

// NewCrossChainDomain normalizes and validates s.
func NewCrossChainDomain(s string) (CrossChainDomain, error) {
	if !utf8.ValidString(s) {
		return CrossChainDomain{}, fieldError("CCC-FIELD-010", "domain", "valid UTF-8", "invalid bytes")
	}
	d := NormalizeDomain(s)
	if err := checkDomain(d); err != nil {
		return CrossChainDomain{}, err
	}
	return CrossChainDomain{s: d}, nil
}

// parseCanonicalDomain accepts only an already-normalized domain.
func parseCanonicalDomain(s string) (CrossChainDomain, error) {
	if NormalizeDomain(s) != s {
		return CrossChainDomain{}, decodeError("CCC-DEC-040", "domain is not in canonical form", nil)
	}
	if err := checkDomain(s); err != nil {
		return CrossChainDomain{}, decodeError("CCC-DEC-041", "invalid domain", err)
	}
	return CrossChainDomain{s: s}, nil
}

func checkDomain(d string) error {
	if d == "" {
		return fieldError("CCC-FIELD-011", "domain", "non-empty", `""`)
	}
	if len(d) > MaxDomainLength {
		return fieldError("CCC-FIELD-012", "domain", "at most 128 bytes", len(d))
	}
	for _, r := range d {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fieldError("CCC-FIELD-013", "domain", "no whitespace or control characters", d)
		}
	}
	if d == RootSpace {
		return nil
	}
	if strings.Contains(d, "..") || strings.HasSuffix(d, ".") {
		return fieldError("CCC-FIELD-014", "domain", "no empty labels", d)
	}
	return nil
}

func (d CrossChainDomain) String() string { return d.s }

func (d CrossChainDomain) IsZero() bool { return d.s == "" }

// IsSpace reports whether d names a domain name space.
func (d CrossChainDomain) IsSpace() bool {
	return strings.HasPrefix(d.s, ".")
}

// InSpace reports whether d is the space itself or lies under it.
func (d CrossChainDomain) InSpace(space CrossChainDomain) bool {
	if !space.IsSpace() || d.IsZero() {
		return false
	}
	if space.s == RootSpace || d.s == space.s {
		return true
	}
	return strings.HasSuffix(d.s, space.s)
}
