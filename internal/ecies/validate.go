package ecies

import (
	"fmt"

	"github.com/cipherworks/hybrid-kms/internal/curve"
	"github.com/cipherworks/hybrid-kms/internal/registry"
)

// ValidateKeyFormat checks a key format for structural completeness and
// cross-field consistency. A format that passes can be handed to the key
// factory for generation.
func ValidateKeyFormat(f *KeyFormat) error {
	if f == nil {
		return fmt.Errorf("%w: nil key format", registry.ErrInvalidArgument)
	}
	if f.Params == nil {
		return fmt.Errorf("%w: key format has no params", registry.ErrIncompleteKey)
	}
	return ValidateParams(f.Params)
}

// ValidateParams checks the cross-field validation rules of a parameter block.
func ValidateParams(p *Params) error {
	if p == nil {
		return fmt.Errorf("%w: nil params", registry.ErrIncompleteKey)
	}
	if p.KEM == nil {
		return fmt.Errorf("%w: params missing KEM", registry.ErrIncompleteKey)
	}
	if p.DEM == nil {
		return fmt.Errorf("%w: params missing DEM", registry.ErrIncompleteKey)
	}
	if !p.KEM.Curve.IsValid() {
		return fmt.Errorf("%w: unsupported curve %q", registry.ErrInvalidKeyFormat, p.KEM.Curve)
	}
	if !p.KEM.HKDFHash.IsValid() {
		return fmt.Errorf("%w: unsupported HKDF hash %q", registry.ErrInvalidKeyFormat, p.KEM.HKDFHash)
	}
	if p.DEM.AEAD == nil || p.DEM.AEAD.TypeURL == "" {
		return fmt.Errorf("%w: DEM has no AEAD key template", registry.ErrInvalidKeyFormat)
	}
	if !p.PointFormat.IsValid() {
		return fmt.Errorf("%w: unsupported point format %q", registry.ErrInvalidKeyFormat, p.PointFormat)
	}
	return nil
}

// ValidatePublicKey checks a public key for completeness: version gate,
// valid params and present coordinates. X25519 public keys carry only X.
func ValidatePublicKey(k *PublicKey) error {
	if k == nil {
		return fmt.Errorf("%w: nil public key", registry.ErrInvalidArgument)
	}
	if err := registry.ValidateKeyVersion(k.Version, keyVersion); err != nil {
		return err
	}
	if err := ValidateParams(k.Params); err != nil {
		return err
	}
	if len(k.X) == 0 {
		return fmt.Errorf("%w: public key missing x coordinate", registry.ErrIncompleteKey)
	}
	if k.Params.KEM.Curve != curve.X25519 && len(k.Y) == 0 {
		return fmt.Errorf("%w: public key missing y coordinate", registry.ErrIncompleteKey)
	}
	return nil
}

// ValidatePrivateKey checks a private key for completeness: version gate,
// embedded public key and key value present, and a valid public part.
func ValidatePrivateKey(k *PrivateKey) error {
	if k == nil {
		return fmt.Errorf("%w: nil private key", registry.ErrInvalidArgument)
	}
	if err := registry.ValidateKeyVersion(k.Version, keyVersion); err != nil {
		return err
	}
	if k.PublicKey == nil {
		return fmt.Errorf("%w: private key missing embedded public key", registry.ErrIncompleteKey)
	}
	if len(k.KeyValue) == 0 {
		return fmt.Errorf("%w: private key missing key value", registry.ErrIncompleteKey)
	}
	return ValidatePublicKey(k.PublicKey)
}
