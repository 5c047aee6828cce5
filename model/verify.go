package model

import (
	"time"

	"acbridge.dev/ccc/algo"
	"acbridge.dev/ccc/ccc"
	"acbridge.dev/ccc/storage"
)

type VerifyOptions struct {
	// CAS hydrates BlobRefs given by CID. It may be nil when every ref
	// carries bytes.
	CAS      storage.CAS
	Provider algo.Provider
}

// Verify checks one certificate. A malformed request returns an error; a
// certificate that fails verification returns a response with Valid false
// and a coded error.
func Verify(req VerifyRequest, opts VerifyOptions) (*VerifyResponse, error) {
	cert, err := hydrate(req.Certificate, opts.CAS)
	if err != nil {
		return nil, err
	}
	if (req.IssuerKey == nil) == (req.IssuerCertificate == nil) {
		return nil, NewError(ErrInvalidRequest, "exactly one of issuerKey and issuerCertificate is required")
	}

	vo := ccc.VerifyOptions{Provider: opts.Provider}
	if req.At != 0 {
		vo.At = time.Unix(req.At, 0)
	}

	if req.IssuerKey != nil {
		id, ierr := req.IssuerKey.ToIdentity()
		if ierr != nil {
			return nil, ierr
		}
		err = ccc.VerifyWithIdentity(cert, id, vo)
	} else {
		issuer, herr := hydrate(*req.IssuerCertificate, opts.CAS)
		if herr != nil {
			return nil, herr
		}
		err = ccc.VerifyIssuedBy(cert, issuer, vo)
	}

	return &VerifyResponse{
		Certificate: FromCertificate(cert),
		Valid:       err == nil,
		Error:       FromError(err),
	}, nil
}

func hydrate(ref BlobRef, cas storage.CAS) (*ccc.Certificate, error) {
	set := 0
	for _, ok := range []bool{ref.CID != "", len(ref.Bytes) > 0, ref.Armored != ""} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, NewError(ErrInvalidRequest, "blob ref must set exactly one of cid, bytes, armored")
	}

	var (
		c   *ccc.Certificate
		err error
	)
	switch {
	case ref.Armored != "":
		c, err = ccc.Dearmor([]byte(ref.Armored))
	case len(ref.Bytes) > 0:
		c, err = ccc.Decode(ref.Bytes)
	default:
		if cas == nil {
			return nil, NewError(ErrMissingCAS, "cid reference requires a CAS")
		}
		id, perr := parseCID(ref.CID)
		if perr != nil {
			return nil, perr
		}
		b, gerr := cas.Get(id)
		if gerr != nil {
			return nil, FromError(gerr)
		}
		c, err = ccc.Decode(b)
	}
	if err != nil {
		return nil, FromError(err)
	}
	return c, nil
}
