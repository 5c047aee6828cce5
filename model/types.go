package model

// BlobRef refers to certificate bytes directly or by CID.
// Exactly one of CID, Bytes or Armored MUST be set.
//
// JSON note: Bytes are encoded as base64 by encoding/json.
type BlobRef struct {
	CID     string `json:"cid,omitempty"`
	Bytes   []byte `json:"bytes,omitempty"`
	Armored string `json:"armored,omitempty"`
}

type Identity struct {
	Type string `json:"type"`
	Raw  []byte `json:"raw"`
}

// Subject flattens the credential subject variants. Fields that do not apply
// to Kind are omitted.
type Subject struct {
	Kind       string   `json:"kind"`
	Version    uint16   `json:"version"`
	RootType   string   `json:"rootType,omitempty"`
	DomainType string   `json:"domainType,omitempty"`
	Domain     string   `json:"domain,omitempty"`
	Name       string   `json:"name,omitempty"`
	Identity   Identity `json:"identity"`
	Extra      []byte   `json:"extra,omitempty"`
}

type Proof struct {
	DigestAlgorithm    string `json:"digestAlgorithm"`
	Digest             []byte `json:"digest"`
	SignatureAlgorithm string `json:"signatureAlgorithm"`
	Signature          []byte `json:"signature"`
}

type Certificate struct {
	CID           string   `json:"cid"`
	Version       uint16   `json:"version"`
	SubjectID     string   `json:"subjectId"`
	Issuer        Identity `json:"issuer"`
	EffectiveTime int64    `json:"effectiveTime"`
	ExpireTime    int64    `json:"expireTime"`
	Subject       Subject  `json:"subject"`
	Proof         *Proof   `json:"proof,omitempty"`
}

// VerifyRequest asks whether Certificate was issued by the holder of an
// issuer key. The key is given either as an identity or as the issuer's own
// certificate, whose subject identity is used. At is a unix time in seconds;
// zero means now.
type VerifyRequest struct {
	Certificate       BlobRef   `json:"certificate"`
	IssuerKey         *Identity `json:"issuerKey,omitempty"`
	IssuerCertificate *BlobRef  `json:"issuerCertificate,omitempty"`
	At                int64     `json:"at,omitempty"`
}

type VerifyResponse struct {
	Certificate Certificate `json:"certificate"`
	Valid       bool        `json:"valid"`
	Error       *CodedError `json:"error,omitempty"`
}
