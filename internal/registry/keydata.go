// Package registry defines the key-type plugin contract and the process-wide
// registry that maps key-type URLs to their managers.
//
// Key material crosses the registry boundary only as opaque, type-tagged
// KeyData envelopes; the registry never inspects key bytes itself.
package registry

// MaterialType classifies the key material inside a KeyData envelope so
// key-handling policy (e.g. never export private material) can be enforced
// without decoding the value.
type MaterialType int

// Key material classifications. The numeric values are part of the wire form
// and must not be reordered.
const (
	MaterialUnknown MaterialType = iota
	MaterialSymmetric
	MaterialAsymmetricPrivate
	MaterialAsymmetricPublic
	MaterialRemote
)

// String returns the material type name.
func (m MaterialType) String() string {
	switch m {
	case MaterialSymmetric:
		return "SYMMETRIC"
	case MaterialAsymmetricPrivate:
		return "ASYMMETRIC_PRIVATE"
	case MaterialAsymmetricPublic:
		return "ASYMMETRIC_PUBLIC"
	case MaterialRemote:
		return "REMOTE"
	default:
		return "UNKNOWN"
	}
}

// KeyData is the envelope exchanged between the registry/keyset layer and a
// key-type manager. Value is an opaque serialized key structure, dispatched
// by TypeURL to the matching manager.
type KeyData struct {
	TypeURL      string       `cbor:"1,keyasint"`
	Value        []byte       `cbor:"2,keyasint"`
	MaterialType MaterialType `cbor:"3,keyasint"`
}

// KeyTemplate references another key type's format: the type URL of the
// target manager plus its serialized key format. Used where one key type's
// parameters embed a downstream key specification (e.g. the AEAD used as
// the DEM of a hybrid scheme).
type KeyTemplate struct {
	TypeURL string `cbor:"1,keyasint"`
	Value   []byte `cbor:"2,keyasint,omitempty"`
}
