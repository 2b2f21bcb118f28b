package ecies

import (
	"fmt"

	"github.com/cipherworks/hybrid-kms/internal/registry"
)

// PublicKeyManager owns the ECIES-AEAD-HKDF public key type. Public keys are
// projections of generated private keys, so this manager validates and
// deserializes but never mints key material.
type PublicKeyManager struct {
	factory *publicKeyFactory
}

// Ensure PublicKeyManager implements the key manager contract.
var _ registry.KeyManager = (*PublicKeyManager)(nil)

// NewPublicKeyManager creates the manager for the ECIES-AEAD-HKDF public
// key type.
func NewPublicKeyManager() *PublicKeyManager {
	return &PublicKeyManager{factory: &publicKeyFactory{}}
}

// DoesSupport reports whether typeURL is the public key type this manager owns.
func (m *PublicKeyManager) DoesSupport(typeURL string) bool {
	return typeURL == PublicKeyTypeURL
}

// TypeURL returns the fixed public key type identifier.
func (m *PublicKeyManager) TypeURL() string { return PublicKeyTypeURL }

// Version returns the highest key version this manager implements.
func (m *PublicKeyManager) Version() uint32 { return keyVersion }

// PrimitiveType returns the primitive category this key type ultimately
// serves: hybrid encryption.
func (m *PublicKeyManager) PrimitiveType() registry.PrimitiveType {
	return registry.PrimitiveHybridEncrypt
}

// KeyFactory returns the owned key factory.
func (m *PublicKeyManager) KeyFactory() registry.KeyFactory { return m.factory }

// Primitive would assemble a hybrid-encrypt primitive. Like the private key
// manager, that wiring does not exist yet and this always fails.
func (m *PublicKeyManager) Primitive(serializedKey []byte) (any, error) {
	return nil, registry.NewKeyError("primitive", PublicKeyTypeURL, registry.ErrUnsupportedOperation)
}

// publicKeyFactory rejects generation: public keys are only ever derived
// from private key material via PublicKeyData.
type publicKeyFactory struct{}

var _ registry.KeyFactory = (*publicKeyFactory)(nil)

func (f *publicKeyFactory) NewKey(format any) (any, error) {
	return nil, registry.NewKeyError("new_key", PublicKeyTypeURL, fmt.Errorf("%w: public keys are derived, never generated", registry.ErrUnsupportedOperation))
}

func (f *publicKeyFactory) NewKeyData(serializedFormat []byte) (*registry.KeyData, error) {
	return nil, registry.NewKeyError("new_key_data", PublicKeyTypeURL, fmt.Errorf("%w: public keys are derived, never generated", registry.ErrUnsupportedOperation))
}
