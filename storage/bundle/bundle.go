// Package bundle moves certificates between stores as a deterministic TAR
// "trust bundle": one certs/<cid>.ccc entry per certificate plus an index.json
// describing each one.
package bundle

import (
	"archive/tar"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ipfs/go-cid"

	"acbridge.dev/ccc/ccc"
	"acbridge.dev/ccc/cidutil"
	"acbridge.dev/ccc/storage"
)

// FormatVersion is the current bundle index schema version.
const FormatVersion = 1

const (
	indexName  = "index.json"
	certPrefix = "certs/"
	certExt    = ".ccc"
)

var epoch0 = time.Unix(0, 0).UTC()

// ErrUnsigned is returned by Export when RequireProof is set and a
// certificate carries no proof.
var ErrUnsigned = errors.New("bundle: certificate has no proof")

// Index is the decoded index.json. It is descriptive only; Import trusts the
// certificate entries, never the index.
type Index struct {
	Version      int          `json:"version"`
	CIDCodec     string       `json:"cidCodec"`
	Multihash    string       `json:"multihash"`
	Certificates []IndexEntry `json:"certificates"`
}

type IndexEntry struct {
	CID       string `json:"cid"`
	Size      int    `json:"size"`
	SubjectID string `json:"subjectId"`
	Kind      string `json:"kind"`
	Domain    string `json:"domain,omitempty"`
}

// ExportOptions controls bundle export behavior.
type ExportOptions struct {
	// RequireProof refuses to export certificates that were never signed.
	RequireProof bool
}

// Export writes a deterministic TAR bundle containing the certificates for
// the given CIDs, followed by index.json.
//
// Entry order is lexicographic by CID and TAR headers are normalized, so the
// same set of certificates always yields the same bytes.
func Export(w io.Writer, cas storage.CAS, ids []cid.Cid, opts ExportOptions) error {
	if cas == nil {
		return fmt.Errorf("bundle: nil CAS")
	}

	uniq := make(map[cid.Cid]struct{}, len(ids))
	for _, id := range ids {
		if !id.Defined() {
			return storage.ErrInvalidCID
		}
		uniq[id] = struct{}{}
	}

	tw := tar.NewWriter(w)
	idx := Index{Version: FormatVersion, CIDCodec: "raw", Multihash: "sha2-256"}
	for _, id := range storage.SortCIDs(uniq) {
		entry, b, err := load(cas, id, opts)
		if err != nil {
			_ = tw.Close()
			return err
		}
		if err := writeFile(tw, certPrefix+id.String()+certExt, b); err != nil {
			_ = tw.Close()
			return err
		}
		idx.Certificates = append(idx.Certificates, entry)
	}

	b, err := json.Marshal(idx)
	if err != nil {
		_ = tw.Close()
		return err
	}
	if err := writeFile(tw, indexName, append(b, '\n')); err != nil {
		_ = tw.Close()
		return err
	}
	return tw.Close()
}

func load(cas storage.CAS, id cid.Cid, opts ExportOptions) (IndexEntry, []byte, error) {
	b, err := cas.Get(id)
	if err != nil {
		return IndexEntry{}, nil, err
	}
	got, err := cidutil.CertificateCID(b)
	if err != nil {
		return IndexEntry{}, nil, err
	}
	if got != id {
		return IndexEntry{}, nil, storage.ErrCIDMismatch
	}
	c, err := ccc.Decode(b)
	if err != nil {
		return IndexEntry{}, nil, fmt.Errorf("bundle: %s: %w: %w", id, storage.ErrNotCertificate, err)
	}
	if opts.RequireProof && !c.HasProof() {
		return IndexEntry{}, nil, fmt.Errorf("%w: %s", ErrUnsigned, id)
	}
	return Describe(id, len(b), c), b, nil
}

// Describe builds the index entry for a decoded certificate.
func Describe(id cid.Cid, size int, c *ccc.Certificate) IndexEntry {
	e := IndexEntry{
		CID:       id.String(),
		Size:      size,
		SubjectID: c.SubjectID(),
		Kind:      c.Subject().Kind().String(),
	}
	if d, ok := c.Subject().(ccc.DomainNameSubject); ok {
		e.Domain = d.Domain().String()
	}
	return e
}

// ImportOptions controls bundle import behavior.
type ImportOptions struct {
	// IgnoreUnknown controls whether unknown TAR entries are ignored.
	// Default (false) is fail-closed: unknown entries cause Import to return an error.
	IgnoreUnknown bool
}

// Import reads a bundle from r and stores every certificate in cas. It
// returns the imported CIDs in bundle order.
func Import(r io.Reader, cas storage.CAS) ([]cid.Cid, error) {
	return ImportWithOptions(r, cas, ImportOptions{})
}

// ImportWithOptions validates each entry before storing it: the bytes must
// hash to the CID in the entry name and must decode as a certificate. The
// first failure stops the import; entries already stored stay stored.
func ImportWithOptions(r io.Reader, cas storage.CAS, opts ImportOptions) ([]cid.Cid, error) {
	if cas == nil {
		return nil, fmt.Errorf("bundle: nil CAS")
	}

	tr := tar.NewReader(r)
	seen := map[cid.Cid]struct{}{}
	var imported []cid.Cid

	for {
		h, err := tr.Next()
		if err == io.EOF {
			return imported, nil
		}
		if err != nil {
			return imported, err
		}
		name := cleanTarPath(h.Name)
		if name == "" {
			return imported, fmt.Errorf("bundle: invalid entry path: %q", h.Name)
		}

		if h.Typeflag != tar.TypeReg {
			if opts.IgnoreUnknown {
				continue
			}
			return imported, fmt.Errorf("bundle: unexpected tar entry type: %v (%s)", h.Typeflag, name)
		}

		if name == indexName {
			continue
		}
		if !strings.HasPrefix(name, certPrefix) || !strings.HasSuffix(name, certExt) {
			if opts.IgnoreUnknown {
				continue
			}
			return imported, fmt.Errorf("bundle: unknown entry: %s", name)
		}

		id, derr := cid.Decode(strings.TrimSuffix(strings.TrimPrefix(name, certPrefix), certExt))
		if derr != nil || !id.Defined() {
			return imported, storage.ErrInvalidCID
		}
		if _, ok := seen[id]; ok {
			return imported, fmt.Errorf("bundle: duplicate certificate entry: %s", id)
		}
		seen[id] = struct{}{}

		payload, rerr := io.ReadAll(tr)
		if rerr != nil {
			return imported, rerr
		}
		got, herr := cidutil.CertificateCID(payload)
		if herr != nil {
			return imported, herr
		}
		if got != id {
			return imported, storage.ErrCIDMismatch
		}
		if err := storage.ValidateCertificate(payload); err != nil {
			return imported, fmt.Errorf("bundle: %s: %w", id, err)
		}

		putID, perr := cas.Put(payload)
		if perr != nil {
			return imported, perr
		}
		if putID != id {
			return imported, storage.ErrCIDMismatch
		}
		imported = append(imported, id)
	}
}

// ReadIndex returns the index.json of a bundle without importing anything.
func ReadIndex(r io.Reader) (Index, error) {
	tr := tar.NewReader(r)
	for {
		h, err := tr.Next()
		if err == io.EOF {
			return Index{}, fmt.Errorf("bundle: no %s", indexName)
		}
		if err != nil {
			return Index{}, err
		}
		if cleanTarPath(h.Name) != indexName {
			continue
		}
		var idx Index
		if err := json.NewDecoder(tr).Decode(&idx); err != nil {
			return Index{}, fmt.Errorf("bundle: %s: %w", indexName, err)
		}
		if idx.Version != FormatVersion {
			return Index{}, fmt.Errorf("bundle: unsupported index version %d", idx.Version)
		}
		return idx, nil
	}
}

func writeFile(tw *tar.Writer, name string, content []byte) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  epoch0,
		Typeflag: tar.TypeReg,
		Format:   tar.FormatUSTAR,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := io.Copy(tw, bytes.NewReader(content))
	return err
}

func cleanTarPath(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return ""
	}
	parts := strings.Split(name, "/")
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return ""
		}
	}
	return name
}
