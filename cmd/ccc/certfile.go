package main

import (
	"bytes"
	"os"

	"acbridge.dev/ccc/ccc"
)

// readCertificate loads an armored or binary certificate file.
func readCertificate(path string) (*ccc.Certificate, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(bytes.TrimLeft(b, " \t\n"), []byte(ccc.ArmorBegin)) {
		return ccc.Dearmor(bytes.TrimLeft(b, " \t\n"))
	}
	return ccc.Decode(b)
}
