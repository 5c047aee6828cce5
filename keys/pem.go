package keys

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"acbridge.dev/ccc/algo"
	"acbridge.dev/ccc/ccc"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"github.com/emmansun/gmsm/sm2"
	"github.com/emmansun/gmsm/smx509"
)

// PEM block types.
const (
	PrivateKeyBlock           = "PRIVATE KEY"
	PublicKeyBlock            = "PUBLIC KEY"
	Dilithium3PrivateKeyBlock = "DILITHIUM3 PRIVATE KEY"
	Dilithium3PublicKeyBlock  = "DILITHIUM3 PUBLIC KEY"
)

var ErrNoPEM = errors.New("keys: no PEM block found")

// MarshalPEM encodes the private key as PKCS#8, or as a raw Dilithium3 block.
func (k *PrivateKey) MarshalPEM() ([]byte, error) {
	var (
		der []byte
		typ = PrivateKeyBlock
		err error
	)
	switch k.alg {
	case algo.Ed25519:
		der, err = x509.MarshalPKCS8PrivateKey(k.ed)
	case algo.SHA256WithECDSA:
		der, err = x509.MarshalPKCS8PrivateKey(k.ec)
	case algo.SHA256WithRSA:
		der, err = x509.MarshalPKCS8PrivateKey(k.rsaKey)
	case algo.SM3WithSM2:
		der, err = smx509.MarshalPKCS8PrivateKey(k.sm2Key)
	case algo.Dilithium3:
		typ = Dilithium3PrivateKeyBlock
		der, err = k.dil.MarshalBinary()
	default:
		err = fmt.Errorf("%w: %q", algo.ErrUnsupported, k.alg)
	}
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: typ, Bytes: der}), nil
}

// ParsePEM parses the first private key block in b.
func ParsePEM(b []byte) (*PrivateKey, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, ErrNoPEM
	}
	switch block.Type {
	case Dilithium3PrivateKeyBlock:
		var sk mode3.PrivateKey
		if err := sk.UnmarshalBinary(block.Bytes); err != nil {
			return nil, fmt.Errorf("parse dilithium3 key: %w", err)
		}
		pub, ok := sk.Public().(*mode3.PublicKey)
		if !ok {
			return nil, errors.New("parse dilithium3 key: no public key")
		}
		return &PrivateKey{alg: algo.Dilithium3, dil: &sk, dilPub: pub}, nil
	case PrivateKeyBlock:
		return parsePKCS8(block.Bytes)
	default:
		return nil, fmt.Errorf("keys: unexpected PEM block %q", block.Type)
	}
}

func parsePKCS8(der []byte) (*PrivateKey, error) {
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		// SM2 curves are unknown to crypto/x509.
		var smErr error
		if key, smErr = smx509.ParsePKCS8PrivateKey(der); smErr != nil {
			return nil, fmt.Errorf("parse PKCS#8 key: %w", err)
		}
	}
	switch k := key.(type) {
	case ed25519.PrivateKey:
		return &PrivateKey{alg: algo.Ed25519, ed: k}, nil
	case *ecdsa.PrivateKey:
		return &PrivateKey{alg: algo.SHA256WithECDSA, ec: k}, nil
	case *rsa.PrivateKey:
		return &PrivateKey{alg: algo.SHA256WithRSA, rsaKey: k}, nil
	case *sm2.PrivateKey:
		return &PrivateKey{alg: algo.SM3WithSM2, sm2Key: k}, nil
	default:
		return nil, fmt.Errorf("keys: unsupported private key type %T", key)
	}
}

// MarshalPublicPEM encodes the public key ("PUBLIC KEY", or a raw Dilithium3 block).
func (k *PrivateKey) MarshalPublicPEM() ([]byte, error) {
	pub, err := k.PublicKeyMaterial()
	if err != nil {
		return nil, err
	}
	typ := PublicKeyBlock
	if k.alg == algo.Dilithium3 {
		typ = Dilithium3PublicKeyBlock
	}
	return pem.EncodeToMemory(&pem.Block{Type: typ, Bytes: pub}), nil
}

// ParsePublicPEM returns the identity anchor for the first public key block in b.
func ParsePublicPEM(b []byte) (ccc.ObjectIdentity, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return ccc.ObjectIdentity{}, ErrNoPEM
	}
	switch block.Type {
	case PublicKeyBlock:
		if _, err := smx509.ParsePKIXPublicKey(block.Bytes); err != nil {
			return ccc.ObjectIdentity{}, fmt.Errorf("parse public key: %w", err)
		}
		return ccc.NewObjectIdentity(ccc.IdentityX509PublicKeyInfo, block.Bytes), nil
	case Dilithium3PublicKeyBlock:
		if len(block.Bytes) != mode3.PublicKeySize {
			return ccc.ObjectIdentity{}, fmt.Errorf("dilithium3 public key must be %d bytes, got %d", mode3.PublicKeySize, len(block.Bytes))
		}
		return ccc.NewObjectIdentity(ccc.IdentityRawPublicKey, block.Bytes), nil
	default:
		return ccc.ObjectIdentity{}, fmt.Errorf("keys: unexpected PEM block %q", block.Type)
	}
}
