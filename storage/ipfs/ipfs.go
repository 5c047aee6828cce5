// Package ipfs keeps certificates as raw blocks in a local Kubo repository,
// driving the "ipfs" command line. It works offline; no daemon is needed.
package ipfs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/ipfs/go-cid"

	"acbridge.dev/ccc/cidutil"
	"acbridge.dev/ccc/storage"
)

// ErrNoBinary is returned when the configured ipfs binary cannot be run.
var ErrNoBinary = errors.New("ipfs: binary not available")

// CommandError is a failed ipfs invocation.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("ipfs %s: %s", strings.Join(e.Args, " "), e.Stderr)
	}
	return fmt.Sprintf("ipfs %s: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// blockMissing reports whether Kubo refused because the block is absent.
func (e *CommandError) blockMissing() bool {
	return strings.Contains(strings.ToLower(e.Stderr), "not found")
}

// CAS stores certificate encodings as Kubo raw blocks.
//
// Blocks are put with CIDv1, raw codec and sha2-256, which is
// cidutil.CertificateCID, so a certificate keeps its CID across backends.
// Everything read back is re-hashed and, with a validator, re-checked.
type CAS struct {
	bin      string
	env      []string
	validate storage.Validator
}

var _ storage.CAS = (*CAS)(nil)

type Options struct {
	// Bin is the ipfs executable; "ipfs" (looked up on PATH) when empty.
	Bin string
	// Env replaces the command environment, e.g. to point IPFS_PATH at a
	// repository. Nil inherits the process environment.
	Env []string
	// Validator gates Put and Get; typically storage.ValidateCertificate.
	Validator storage.Validator
}

func New(opts Options) *CAS {
	c := &CAS{bin: opts.Bin, env: opts.Env, validate: opts.Validator}
	if c.bin == "" {
		c.bin = "ipfs"
	}
	return c
}

// Put stores a certificate encoding. Blocks already present are not
// rewritten.
func (c *CAS) Put(b []byte) (cid.Cid, error) {
	if c.validate != nil {
		if err := c.validate(b); err != nil {
			return cid.Undef, err
		}
	}
	want, err := cidutil.CertificateCID(b)
	if err != nil {
		return cid.Undef, err
	}
	if c.Has(want) {
		return want, nil
	}
	got, err := c.blockPut(b)
	if err != nil {
		return cid.Undef, err
	}
	if !got.Equals(want) {
		return cid.Undef, fmt.Errorf("%w: repository stored %s, expected %s", storage.ErrCIDMismatch, got, want)
	}
	return want, nil
}

func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	b, err := c.exec(nil, "block", "get", id.String())
	if err != nil {
		var ce *CommandError
		if errors.As(err, &ce) && ce.blockMissing() {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
		}
		return nil, err
	}
	got, err := cidutil.CertificateCID(b)
	if err != nil {
		return nil, err
	}
	if !got.Equals(id) {
		return nil, storage.ErrCIDMismatch
	}
	if c.validate != nil {
		if err := c.validate(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (c *CAS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := c.exec(nil, "block", "stat", id.String())
	return err == nil
}

func (c *CAS) blockPut(b []byte) (cid.Cid, error) {
	out, err := c.exec(b, "block", "put", "--quiet",
		"--format=raw", "--mhtype=sha2-256", "--mhlen=32", "--cid-version=1",
		"/dev/stdin")
	if err != nil {
		return cid.Undef, err
	}
	id, err := cid.Decode(strings.TrimSpace(string(out)))
	if err != nil {
		return cid.Undef, fmt.Errorf("ipfs: block put printed %q: %w", bytes.TrimSpace(out), err)
	}
	return id, nil
}

// exec runs one ipfs subcommand, feeding stdin when non-nil.
func (c *CAS) exec(stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.Command(c.bin, args...)
	cmd.Env = c.env
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoBinary, c.bin, err)
	}
	ce := &CommandError{Args: args, Err: err}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		ce.Stderr = strings.TrimSpace(string(ee.Stderr))
	}
	return nil, ce
}
