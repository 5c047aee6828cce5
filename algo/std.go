package algo

import (
	"fmt"
	"sort"
	"strings"
)

// Hasher digests a message.
type Hasher func(msg []byte) []byte

// Verifier checks sig over msg with the given public key material. It returns
// ErrInvalidKey for unusable key material and ErrBadSignature for a signature
// that does not verify.
type Verifier func(publicKey, msg, sig []byte) error

type namedHasher struct {
	name string
	fn   Hasher
}

type namedVerifier struct {
	name string
	fn   Verifier
}

// Std is the standard Provider. Algorithm names are matched
// case-insensitively; the canonical spelling is the one it was registered with.
type Std struct {
	digests   map[string]namedHasher
	verifiers map[string]namedVerifier
}

var _ Provider = (*Std)(nil)

// Option customizes a Std provider.
type Option func(*Std)

// WithDigest adds or replaces a digest algorithm on this provider only.
func WithDigest(name string, h Hasher) Option {
	return func(s *Std) {
		s.digests[key(name)] = namedHasher{name: name, fn: h}
	}
}

// WithVerifier adds or replaces a signature algorithm on this provider only.
func WithVerifier(name string, v Verifier) Option {
	return func(s *Std) {
		s.verifiers[key(name)] = namedVerifier{name: name, fn: v}
	}
}

// WithoutAlgorithm removes a digest or signature algorithm, e.g. to forbid a
// scheme a deployment does not accept.
func WithoutAlgorithm(name string) Option {
	return func(s *Std) {
		delete(s.digests, key(name))
		delete(s.verifiers, key(name))
	}
}

// New returns a provider with every built-in algorithm, then applies opts.
func New(opts ...Option) *Std {
	s := &Std{
		digests:   make(map[string]namedHasher),
		verifiers: make(map[string]namedVerifier),
	}
	for _, d := range builtinDigests() {
		s.digests[key(d.name)] = d
	}
	for _, v := range builtinVerifiers() {
		s.verifiers[key(v.name)] = v
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func key(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func (s *Std) Digest(alg string, msg []byte) ([]byte, error) {
	h, ok := s.digests[key(alg)]
	if !ok || h.fn == nil {
		return nil, fmt.Errorf("%w: digest %q", ErrUnsupported, alg)
	}
	return h.fn(msg), nil
}

func (s *Std) Verify(alg string, publicKey, msg, sig []byte) error {
	v, ok := s.verifiers[key(alg)]
	if !ok || v.fn == nil {
		return fmt.Errorf("%w: signature %q", ErrUnsupported, alg)
	}
	return v.fn(publicKey, msg, sig)
}

// CanonicalDigest returns the canonical spelling of a digest algorithm name.
func (s *Std) CanonicalDigest(name string) (string, error) {
	h, ok := s.digests[key(name)]
	if !ok {
		return "", fmt.Errorf("%w: digest %q", ErrUnsupported, name)
	}
	return h.name, nil
}

// CanonicalSignature returns the canonical spelling of a signature algorithm name.
func (s *Std) CanonicalSignature(name string) (string, error) {
	v, ok := s.verifiers[key(name)]
	if !ok {
		return "", fmt.Errorf("%w: signature %q", ErrUnsupported, name)
	}
	return v.name, nil
}

// DigestAlgorithms lists supported digest names, sorted.
func (s *Std) DigestAlgorithms() []string {
	out := make([]string, 0, len(s.digests))
	for _, d := range s.digests {
		out = append(out, d.name)
	}
	sort.Strings(out)
	return out
}

// SignatureAlgorithms lists supported signature names, sorted.
func (s *Std) SignatureAlgorithms() []string {
	out := make([]string, 0, len(s.verifiers))
	for _, v := range s.verifiers {
		out = append(out, v.name)
	}
	sort.Strings(out)
	return out
}
