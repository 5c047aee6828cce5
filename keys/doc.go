// Package keys is a local signing backend for cross-chain certificates.
//
// It generates and loads private keys for every signature algorithm the algo
// package verifies, and exposes them as algo.Signer values. Certificates never
// see private keys; they only see signatures and public identities.
//
// Stable:
//   - Generate, PrivateKey, PEM encoding and Identity.
//   - Deterministic Ed25519 seed derivation (DeriveSeed), for reproducible
//     test and demo issuers.
//
// Experimental:
//   - File helpers (WriteFile, ReadPrivateKeyFile). Key storage and rotation
//     policy are left to the caller.
package keys
