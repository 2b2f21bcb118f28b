package ecies

import (
	"github.com/cipherworks/hybrid-kms/internal/registry"
)

// PrivateKeyManager owns the ECIES-AEAD-HKDF private key type: its identity,
// version, primitive category, and the factory that mints new private keys.
// It is stateless aside from the single owned factory and safe for
// concurrent use.
type PrivateKeyManager struct {
	factory *privateKeyFactory
}

// Ensure PrivateKeyManager implements the key manager contract.
var _ registry.KeyManager = (*PrivateKeyManager)(nil)

// NewPrivateKeyManager creates the manager for the ECIES-AEAD-HKDF private
// key type. The owned factory is created once and never replaced.
func NewPrivateKeyManager() *PrivateKeyManager {
	return &PrivateKeyManager{factory: &privateKeyFactory{}}
}

// DoesSupport reports whether typeURL is the private key type this manager owns.
func (m *PrivateKeyManager) DoesSupport(typeURL string) bool {
	return typeURL == PrivateKeyTypeURL
}

// TypeURL returns the fixed private key type identifier.
func (m *PrivateKeyManager) TypeURL() string { return PrivateKeyTypeURL }

// Version returns the highest key version this manager implements.
func (m *PrivateKeyManager) Version() uint32 { return keyVersion }

// PrimitiveType returns the primitive category this key type ultimately
// serves: hybrid decryption.
func (m *PrivateKeyManager) PrimitiveType() registry.PrimitiveType {
	return registry.PrimitiveHybridDecrypt
}

// KeyFactory returns the owned key factory.
func (m *PrivateKeyManager) KeyFactory() registry.KeyFactory { return m.factory }

// Primitive would assemble a hybrid-decrypt primitive from validated key
// material. That wiring does not exist yet, so this always fails: a registry
// must not advertise this manager as primitive-capable.
func (m *PrivateKeyManager) Primitive(serializedKey []byte) (any, error) {
	return nil, registry.NewKeyError("primitive", PrivateKeyTypeURL, registry.ErrUnsupportedOperation)
}
