package ccc

import (
	"fmt"

	"acbridge.dev/ccc/tlv"
)

// checkSize rejects a value the TLV writer could not frame.
func checkSize(field string, n int) error {
	if n > tlv.MaxValueSize {
		return fieldError("CCC-FIELD-008", field, fmt.Sprintf("at most %d encoded bytes", tlv.MaxValueSize), n)
	}
	return nil
}

func identitySize(o ObjectIdentity) int {
	return 2*tlv.HeaderSize + 2 + len(o.raw)
}

// versionedSize is the length of encodeVersioned over items of the given
// value lengths, checking each item on the way.
func versionedSize(values ...int) (int, error) {
	n := 2
	for _, v := range values {
		if err := checkSize("credentialSubject", v); err != nil {
			return 0, err
		}
		n += tlv.HeaderSize + v
	}
	return n, nil
}

// checkEncodable computes every value length the encode-to-sign writer
// produces, so that a draft accepted here always encodes.
func checkEncodable(f *Fields) error {
	if err := checkSize("subjectId", len(f.SubjectID)); err != nil {
		return err
	}
	if err := checkSize("issuer", identitySize(f.Issuer)); err != nil {
		return err
	}
	if f.Subject == nil {
		return nil
	}
	n, err := f.Subject.encodedSize()
	if err != nil {
		return err
	}
	// subject container: kind item plus body item
	return checkSize("credentialSubject", 2*tlv.HeaderSize+2+n)
}
