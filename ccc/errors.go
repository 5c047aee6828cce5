package ccc

import (
	"errors"
	"fmt"
)

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	KindInvalidCertificateFields Kind = "InvalidCertificateFields"
	KindProofAlreadySet          Kind = "ProofAlreadySet"
	KindUnsupportedVersion       Kind = "UnsupportedVersion"
	KindMalformedEncoding        Kind = "MalformedEncoding"
	KindMissingProof             Kind = "MissingProof"
	KindCertificateExpired       Kind = "CertificateExpired"
	KindDigestMismatch           Kind = "DigestMismatch"
	KindSignatureInvalid         Kind = "SignatureInvalid"
	KindUnsupportedAlgorithm     Kind = "UnsupportedAlgorithm"
	KindUnsupportedIdentity      Kind = "UnsupportedIdentity"
	KindFramingError             Kind = "FramingError"
	KindInternal                 Kind = "Internal"
)

// Error is the library's structured error type.
//
// RuleID is a stable identifier (e.g., CCC-FIELD-003, CCC-DEC-012, CCC-VFY-004)
// naming the violated rule. Field names the offending field when there is one.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// fieldError reports a field violation with the expected and actual values.
func fieldError(ruleID, field, want string, got any) error {
	return &Error{
		Kind:    KindInvalidCertificateFields,
		RuleID:  ruleID,
		Field:   field,
		Message: fmt.Sprintf("invalid %s: want %s, got %v", field, want, got),
	}
}

func decodeError(ruleID, msg string, cause error) error {
	return wrapError(KindMalformedEncoding, ruleID, msg, cause)
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the Kind of a structured error, or "" if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
