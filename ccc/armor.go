package ccc

import (
	"bytes"
	"encoding/base64"
	"fmt"
)

const (
	ArmorBegin = "-----BEGIN CROSS CHAIN CERTIFICATE-----"
	ArmorEnd   = "-----END CROSS CHAIN CERTIFICATE-----"

	armorLineWidth = 64
)

// Armor returns the text form of the full binary encoding.
func Armor(c *Certificate) []byte {
	return ArmorBytes(c.Encode())
}

// ArmorBytes wraps raw bytes in the certificate armor. The codec never
// interprets the payload.
func ArmorBytes(raw []byte) []byte {
	body := base64.StdEncoding.EncodeToString(raw)
	var buf bytes.Buffer
	buf.WriteString(ArmorBegin)
	buf.WriteByte('\n')
	for len(body) > armorLineWidth {
		buf.WriteString(body[:armorLineWidth])
		buf.WriteByte('\n')
		body = body[armorLineWidth:]
	}
	if body != "" {
		buf.WriteString(body)
		buf.WriteByte('\n')
	}
	buf.WriteString(ArmorEnd)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// Dearmor parses armored text and decodes the certificate inside it.
func Dearmor(text []byte) (*Certificate, error) {
	raw, err := DearmorBytes(text)
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

// DearmorBytes strictly parses armored text and returns the payload.
//
// Exactly one block is accepted: exact marker lines, no CR, no blank lines,
// no headers, 64-column lines (last line shorter), padded standard base64.
// A single trailing newline is optional. Anything that would not re-armor to
// the same bytes is a FramingError.
func DearmorBytes(text []byte) ([]byte, error) {
	if bytes.IndexByte(text, '\r') >= 0 {
		return nil, newError(KindFramingError, "CCC-ARM-001", "armor contains carriage return")
	}
	canonical := text
	if !bytes.HasSuffix(text, []byte("\n")) {
		canonical = append(append([]byte(nil), text...), '\n')
	}
	lines := bytes.Split(canonical[:len(canonical)-1], []byte("\n"))
	if len(lines) < 3 {
		return nil, newError(KindFramingError, "CCC-ARM-002", "armor too short")
	}
	if string(lines[0]) != ArmorBegin {
		return nil, newError(KindFramingError, "CCC-ARM-003", "missing or malformed BEGIN line")
	}
	if string(lines[len(lines)-1]) != ArmorEnd {
		return nil, newError(KindFramingError, "CCC-ARM-004", "missing or malformed END line")
	}

	bodyLines := lines[1 : len(lines)-1]
	var b64 bytes.Buffer
	for i, l := range bodyLines {
		last := i == len(bodyLines)-1
		switch {
		case len(l) == 0:
			return nil, newError(KindFramingError, "CCC-ARM-005", fmt.Sprintf("blank line at body line %d", i+1))
		case len(l) > armorLineWidth:
			return nil, newError(KindFramingError, "CCC-ARM-006", fmt.Sprintf("body line %d longer than %d columns", i+1, armorLineWidth))
		case !last && len(l) != armorLineWidth:
			return nil, newError(KindFramingError, "CCC-ARM-006", fmt.Sprintf("body line %d shorter than %d columns", i+1, armorLineWidth))
		}
		b64.Write(l)
	}

	raw, err := base64.StdEncoding.Strict().DecodeString(b64.String())
	if err != nil {
		return nil, wrapError(KindFramingError, "CCC-ARM-007", "invalid base64 body", err)
	}
	if len(raw) == 0 {
		return nil, newError(KindFramingError, "CCC-ARM-008", "empty armor body")
	}
	if !bytes.Equal(ArmorBytes(raw), canonical) {
		return nil, newError(KindFramingError, "CCC-ARM-009", "armor is not in canonical form")
	}
	return raw, nil
}
