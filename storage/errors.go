package storage

import (
	"errors"
	"fmt"

	"acbridge.dev/ccc/ccc"
)

var (
	ErrNotFound       = errors.New("storage: not found")
	ErrInvalidCID     = errors.New("storage: invalid cid")
	ErrCIDMismatch    = errors.New("storage: cid mismatch")
	ErrImmutable      = errors.New("storage: immutable object mismatch")
	ErrNotCertificate = errors.New("storage: not a certificate encoding")
	ErrNotListable    = errors.New("storage: backend cannot list")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// ValidateCertificate is a Validator accepting only bytes that decode as a
// canonical certificate. The decode error stays reachable via errors.As.
func ValidateCertificate(b []byte) error {
	if _, err := ccc.Decode(b); err != nil {
		return fmt.Errorf("%w: %w", ErrNotCertificate, err)
	}
	return nil
}
