package algo

import (
	"crypto/sha256"
	"crypto/sha512"

	"github.com/emmansun/gmsm/sm3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

func builtinDigests() []namedHasher {
	return []namedHasher{
		{name: SHA256, fn: func(m []byte) []byte { s := sha256.Sum256(m); return s[:] }},
		{name: SHA512, fn: func(m []byte) []byte { s := sha512.Sum512(m); return s[:] }},
		{name: SHA3_256, fn: func(m []byte) []byte { s := sha3.Sum256(m); return s[:] }},
		{name: Keccak256, fn: keccak256},
		{name: BLAKE2b256, fn: func(m []byte) []byte { s := blake2b.Sum256(m); return s[:] }},
		{name: SM3, fn: func(m []byte) []byte { s := sm3.Sum(m); return s[:] }},
	}
}

// keccak256 is the pre-standard Keccak used by EVM chains.
func keccak256(m []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(m)
	return h.Sum(nil)
}
