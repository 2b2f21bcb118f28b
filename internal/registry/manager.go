package registry

// PrimitiveType identifies the abstract primitive category a key type
// ultimately serves. The registry uses it to check that a caller asking for
// a primitive holds a compatible key type.
type PrimitiveType string

// Primitive categories.
const (
	PrimitiveHybridDecrypt PrimitiveType = "hybrid-decrypt"
	PrimitiveHybridEncrypt PrimitiveType = "hybrid-encrypt"
	PrimitiveAEAD          PrimitiveType = "aead"
)

// KeyFactory creates new key material from a key format specification.
// Implementations are stateless; concurrent calls are independent.
type KeyFactory interface {
	// NewKey generates a fresh key from the given format. The format may be
	// the key type's concrete format struct or its serialized bytes; any
	// other input is rejected.
	NewKey(format any) (any, error)

	// NewKeyData generates a fresh key from the serialized format and wraps
	// it as an opaque KeyData envelope. This is the operation a registry
	// invokes to mint brand-new key material for a keyset.
	NewKeyData(serializedFormat []byte) (*KeyData, error)
}

// PrivateKeyFactory is a KeyFactory for asymmetric private key types that can
// additionally project the matching public key out of stored private material.
type PrivateKeyFactory interface {
	KeyFactory

	// PublicKeyData extracts the public key embedded in the given serialized
	// private key and wraps it as an ASYMMETRIC_PUBLIC KeyData envelope.
	// The public key is a pure projection; it is never re-derived.
	PublicKeyData(serializedPrivateKey []byte) (*KeyData, error)
}

// KeyManager owns one key type: its identity, version, primitive category,
// key validation/deserialization, and a factory for new key material.
// Implementations are stateless aside from the owned factory and safe for
// concurrent use.
type KeyManager interface {
	// DoesSupport reports whether typeURL is the key type this manager owns.
	DoesSupport(typeURL string) bool

	// TypeURL returns the fixed key-type identifier this manager owns.
	TypeURL() string

	// Version returns the highest key version this manager implements.
	// Keys with a greater version are rejected.
	Version() uint32

	// PrimitiveType returns the primitive category this key type serves.
	PrimitiveType() PrimitiveType

	// KeyFactory returns the factory for this key type. The same instance is
	// returned for the manager's lifetime.
	KeyFactory() KeyFactory

	// Primitive constructs the primitive backed by the given serialized key.
	// Managers that do not yet provide primitive assembly fail with
	// ErrUnsupportedOperation rather than returning a non-functional object.
	Primitive(serializedKey []byte) (any, error)
}
