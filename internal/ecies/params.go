// Package ecies implements the key-type plugin for ECIES-AEAD-HKDF hybrid
// encryption keys: generation, validation and serialization of the private
// key material, plus the matching public key type.
//
// Curve arithmetic is delegated to the curve engine, and the hybrid
// encrypt/decrypt primitives themselves are not assembled here; this package
// owns the key lifecycle only.
package ecies

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/cipherworks/hybrid-kms/internal/curve"
	"github.com/cipherworks/hybrid-kms/internal/registry"
)

// Key type identifiers owned by this package.
const (
	// PrivateKeyTypeURL identifies the ECIES-AEAD-HKDF private key type.
	PrivateKeyTypeURL = "keytype.cipherworks.io/EciesAeadHkdfPrivateKey"

	// PublicKeyTypeURL identifies the corresponding public key type.
	PublicKeyTypeURL = "keytype.cipherworks.io/EciesAeadHkdfPublicKey"

	// keyVersion is the only key version currently produced or accepted.
	keyVersion uint32 = 0
)

// HashType identifies the HKDF hash function.
type HashType string

// Supported HKDF hashes.
const (
	SHA256 HashType = "sha256"
	SHA384 HashType = "sha384"
	SHA512 HashType = "sha512"
)

// IsValid reports whether the hash type is supported.
func (h HashType) IsValid() bool {
	switch h {
	case SHA256, SHA384, SHA512:
		return true
	}
	return false
}

// PointFormat identifies the encoding of curve points in the KEM output.
type PointFormat string

// Supported point formats.
const (
	PointUncompressed PointFormat = "uncompressed"
	PointCompressed   PointFormat = "compressed"
)

// IsValid reports whether the point format is supported.
func (p PointFormat) IsValid() bool {
	return p == PointUncompressed || p == PointCompressed
}

// KEMParams configures the key-encapsulation side: the curve the key lives
// on and the HKDF used to stretch the shared secret.
type KEMParams struct {
	Curve    curve.ID `cbor:"1,keyasint"`
	HKDFHash HashType `cbor:"2,keyasint"`
	HKDFSalt []byte   `cbor:"3,keyasint,omitempty"`
}

// DEMParams configures the data-encapsulation side: a template for the AEAD
// key type that will be keyed by the KEM-derived secret. The template is
// opaque here; it is resolved by the AEAD key type's own manager.
type DEMParams struct {
	AEAD *registry.KeyTemplate `cbor:"1,keyasint"`
}

// Params is the full parameter block of an ECIES-AEAD-HKDF key. It is
// immutable once attached to a key: the public key embedded in a generated
// private key carries the same Params pointer as the format that produced it.
type Params struct {
	KEM         *KEMParams  `cbor:"1,keyasint"`
	DEM         *DEMParams  `cbor:"2,keyasint"`
	PointFormat PointFormat `cbor:"3,keyasint"`
}

// KeyFormat specifies the parameters for keys to be generated. It is
// caller-supplied and transient: input to generation only.
type KeyFormat struct {
	Params *Params `cbor:"1,keyasint"`
}

// PublicKey is the public half of an ECIES-AEAD-HKDF key: the curve point
// coordinates as big-endian unsigned integers with no compression. For
// X25519 keys Y is empty. Created only by the key factory from curve-engine
// output; immutable after construction.
type PublicKey struct {
	Version uint32  `cbor:"1,keyasint"`
	Params  *Params `cbor:"2,keyasint"`
	X       []byte  `cbor:"3,keyasint"`
	Y       []byte  `cbor:"4,keyasint,omitempty"`
}

// PrivateKey is the private half: the private scalar plus the embedded
// public key generated alongside it.
type PrivateKey struct {
	Version   uint32     `cbor:"1,keyasint"`
	PublicKey *PublicKey `cbor:"2,keyasint"`
	KeyValue  []byte     `cbor:"3,keyasint"`
}

// Marshal returns the CBOR wire form of the key format.
func (f *KeyFormat) Marshal() ([]byte, error) {
	return cbor.Marshal(f)
}

// Marshal returns the CBOR wire form of the public key.
func (k *PublicKey) Marshal() ([]byte, error) {
	return cbor.Marshal(k)
}

// Marshal returns the CBOR wire form of the private key.
func (k *PrivateKey) Marshal() ([]byte, error) {
	return cbor.Marshal(k)
}
