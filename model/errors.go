package model

import (
	"errors"
	"fmt"

	"acbridge.dev/ccc/ccc"
	"acbridge.dev/ccc/storage"
)

type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrInvalidCID     ErrorCode = "INVALID_CID"
	ErrMissingCAS     ErrorCode = "MISSING_CAS"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrCIDMismatch    ErrorCode = "CID_MISMATCH"
	ErrNotCertificate ErrorCode = "NOT_CERTIFICATE"
	ErrInternal       ErrorCode = "INTERNAL"

	ErrMalformedEncoding    ErrorCode = "MALFORMED_ENCODING"
	ErrFraming              ErrorCode = "FRAMING_ERROR"
	ErrUnsupportedVersion   ErrorCode = "UNSUPPORTED_VERSION"
	ErrInvalidFields        ErrorCode = "INVALID_CERTIFICATE_FIELDS"
	ErrMissingProof         ErrorCode = "MISSING_PROOF"
	ErrProofAlreadySet      ErrorCode = "PROOF_ALREADY_SET"
	ErrCertificateExpired   ErrorCode = "CERTIFICATE_EXPIRED"
	ErrDigestMismatch       ErrorCode = "DIGEST_MISMATCH"
	ErrSignatureInvalid     ErrorCode = "SIGNATURE_INVALID"
	ErrUnsupportedAlgorithm ErrorCode = "UNSUPPORTED_ALGORITHM"
	ErrUnsupportedIdentity  ErrorCode = "UNSUPPORTED_IDENTITY"
)

var kindCodes = map[ccc.Kind]ErrorCode{
	ccc.KindMalformedEncoding:        ErrMalformedEncoding,
	ccc.KindFramingError:             ErrFraming,
	ccc.KindUnsupportedVersion:       ErrUnsupportedVersion,
	ccc.KindInvalidCertificateFields: ErrInvalidFields,
	ccc.KindMissingProof:             ErrMissingProof,
	ccc.KindProofAlreadySet:          ErrProofAlreadySet,
	ccc.KindCertificateExpired:       ErrCertificateExpired,
	ccc.KindDigestMismatch:           ErrDigestMismatch,
	ccc.KindSignatureInvalid:         ErrSignatureInvalid,
	ccc.KindUnsupportedAlgorithm:     ErrUnsupportedAlgorithm,
	ccc.KindUnsupportedIdentity:      ErrUnsupportedIdentity,
	ccc.KindInternal:                 ErrInternal,
}

// CodedError is a stable error with a machine-readable code and a human message.
// RuleID carries the certificate rule identifier when one applies.
type CodedError struct {
	Code    ErrorCode `json:"code"`
	RuleID  string    `json:"ruleId,omitempty"`
	Message string    `json:"message"`
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code ErrorCode, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}

// FromError maps library errors onto stable codes. Storage sentinels win over
// the certificate error they wrap, so a rejected store write reports
// NOT_CERTIFICATE rather than the decode detail.
func FromError(err error) *CodedError {
	if err == nil {
		return nil
	}
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return NewError(ErrNotFound, err.Error())
	case errors.Is(err, storage.ErrCIDMismatch):
		return NewError(ErrCIDMismatch, err.Error())
	case errors.Is(err, storage.ErrInvalidCID):
		return NewError(ErrInvalidCID, err.Error())
	case errors.Is(err, storage.ErrNotCertificate):
		out := NewError(ErrNotCertificate, err.Error())
		out.RuleID = ccc.RuleID(err)
		return out
	}
	if code, ok := kindCodes[ccc.KindOf(err)]; ok {
		return &CodedError{Code: code, RuleID: ccc.RuleID(err), Message: err.Error()}
	}
	return NewError(ErrInternal, err.Error())
}
