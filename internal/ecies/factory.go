package ecies

import (
	"fmt"

	"github.com/cipherworks/hybrid-kms/internal/curve"
	"github.com/cipherworks/hybrid-kms/internal/registry"
)

// privateKeyFactory creates ECIES-AEAD-HKDF private keys and projects their
// public halves. It is stateless; concurrent calls are independent.
type privateKeyFactory struct{}

// Ensure privateKeyFactory implements the private key factory contract.
var _ registry.PrivateKeyFactory = (*privateKeyFactory)(nil)

// NewKey generates a fresh private key from the given format. The format may
// be a *KeyFormat or its serialized bytes.
//
// The embedded public key carries the same Params pointer as the format, so
// a key's params always equal the params of the format that produced it.
func (f *privateKeyFactory) NewKey(format any) (any, error) {
	keyFormat, err := resolveKeyFormat(format)
	if err != nil {
		return nil, registry.NewKeyError("new_key", PrivateKeyTypeURL, err)
	}

	kp, err := curve.GenerateKeyPair(keyFormat.Params.KEM.Curve)
	if err != nil {
		return nil, registry.NewKeyError("new_key", PrivateKeyTypeURL, err)
	}

	pub := &PublicKey{
		Version: keyVersion,
		Params:  keyFormat.Params,
		X:       kp.X,
		Y:       kp.Y,
	}
	return &PrivateKey{
		Version:   keyVersion,
		PublicKey: pub,
		KeyValue:  kp.D,
	}, nil
}

// NewKeyData generates a fresh private key from the serialized format and
// wraps it as an ASYMMETRIC_PRIVATE envelope tagged with this key type.
func (f *privateKeyFactory) NewKeyData(serializedFormat []byte) (*registry.KeyData, error) {
	key, err := f.NewKey(serializedFormat)
	if err != nil {
		return nil, err
	}

	serialized, err := key.(*PrivateKey).Marshal()
	if err != nil {
		return nil, registry.NewKeyError("new_key_data", PrivateKeyTypeURL, err)
	}
	return &registry.KeyData{
		TypeURL:      PrivateKeyTypeURL,
		Value:        serialized,
		MaterialType: registry.MaterialAsymmetricPrivate,
	}, nil
}

// PublicKeyData extracts the embedded public key from the serialized private
// key and wraps it as an ASYMMETRIC_PUBLIC envelope tagged with the public
// key type. The public key is a pure projection of what was generated; no
// curve math is re-derived.
func (f *privateKeyFactory) PublicKeyData(serializedPrivateKey []byte) (*registry.KeyData, error) {
	key, err := ParsePrivateKey(serializedPrivateKey)
	if err != nil {
		return nil, registry.NewKeyError("public_key_data", PrivateKeyTypeURL, err)
	}

	serialized, err := key.PublicKey.Marshal()
	if err != nil {
		return nil, registry.NewKeyError("public_key_data", PrivateKeyTypeURL, err)
	}
	return &registry.KeyData{
		TypeURL:      PublicKeyTypeURL,
		Value:        serialized,
		MaterialType: registry.MaterialAsymmetricPublic,
	}, nil
}

// resolveKeyFormat accepts either an already-typed key format or its
// serialized bytes, and validates it either way.
func resolveKeyFormat(format any) (*KeyFormat, error) {
	switch v := format.(type) {
	case *KeyFormat:
		if err := ValidateKeyFormat(v); err != nil {
			return nil, err
		}
		return v, nil
	case []byte:
		return ParseKeyFormat(v)
	case nil:
		return nil, fmt.Errorf("%w: nil key format", registry.ErrInvalidArgument)
	default:
		return nil, fmt.Errorf("%w: unexpected key format type %T", registry.ErrInvalidArgument, format)
	}
}
