package ccc

import (
	"fmt"
	"unicode/utf8"
)

// Rule is an explicit, named validation rule over certificate fields.
//
// ID must be stable across versions.
// Apply must be deterministic and side-effect free.
type Rule struct {
	ID    string
	Apply func(*Fields) error
}

func (r Rule) apply(f *Fields) error {
	if r.Apply == nil {
		return newError(KindInternal, "CCC-INTERNAL-001", "nil rule Apply")
	}
	return r.Apply(f)
}

// DefaultRules returns the rules every certificate must satisfy, in evaluation
// order.
func DefaultRules() []Rule {
	return []Rule{
		{ID: "CCC-FIELD-001", Apply: func(f *Fields) error {
			if f.Version != CurrentVersion {
				return fieldError("CCC-FIELD-001", "version", fmt.Sprint(CurrentVersion), f.Version)
			}
			return nil
		}},
		{ID: "CCC-FIELD-002", Apply: func(f *Fields) error {
			if f.SubjectID == "" {
				return fieldError("CCC-FIELD-002", "subjectId", "non-empty", `""`)
			}
			return nil
		}},
		{ID: "CCC-FIELD-003", Apply: func(f *Fields) error {
			if !utf8.ValidString(f.SubjectID) {
				return fieldError("CCC-FIELD-003", "subjectId", "valid UTF-8", "invalid bytes")
			}
			return nil
		}},
		{ID: "CCC-FIELD-004", Apply: func(f *Fields) error {
			return requireIdentity("CCC-FIELD-004", "issuer", f.Issuer)
		}},
		{ID: "CCC-FIELD-005", Apply: func(f *Fields) error {
			if f.Subject == nil {
				return fieldError("CCC-FIELD-005", "credentialSubject", "a credential subject", "nil")
			}
			return nil
		}},
		{ID: "CCC-FIELD-006", Apply: func(f *Fields) error {
			if f.Subject == nil {
				return nil
			}
			return f.Subject.validate()
		}},
		{ID: "CCC-FIELD-007", Apply: func(f *Fields) error {
			if f.ExpireTime <= f.EffectiveTime {
				return fieldError("CCC-FIELD-007", "expireTime", fmt.Sprintf("> effectiveTime (%d)", f.EffectiveTime), f.ExpireTime)
			}
			return nil
		}},
		{ID: "CCC-FIELD-008", Apply: checkEncodable},
	}
}

// ValidateRules runs rules in order, returning the first failure.
func ValidateRules(f *Fields, rules []Rule) error {
	for _, r := range rules {
		if err := r.apply(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRulesAll runs all rules in order and returns every violation.
func ValidateRulesAll(f *Fields, rules []Rule) []error {
	var out []error
	for _, r := range rules {
		if err := r.apply(f); err != nil {
			out = append(out, err)
		}
	}
	return out
}
