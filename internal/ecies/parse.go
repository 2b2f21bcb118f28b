package ecies

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/cipherworks/hybrid-kms/internal/registry"
)

// ParseKeyFormat decodes and validates a serialized key format.
func ParseKeyFormat(data []byte) (*KeyFormat, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty key format", registry.ErrInvalidArgument)
	}
	format := new(KeyFormat)
	if err := cbor.Unmarshal(data, format); err != nil {
		return nil, fmt.Errorf("%w: %v", registry.ErrMalformedKey, err)
	}
	if err := ValidateKeyFormat(format); err != nil {
		return nil, err
	}
	return format, nil
}

// ParsePrivateKey decodes and validates a serialized private key. Bytes that
// do not decode fail with a parse error; a decoded structure missing its
// embedded public key or key value fails as incomplete.
func ParsePrivateKey(data []byte) (*PrivateKey, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty private key", registry.ErrInvalidArgument)
	}
	key := new(PrivateKey)
	if err := cbor.Unmarshal(data, key); err != nil {
		return nil, fmt.Errorf("%w: %v", registry.ErrMalformedKey, err)
	}
	if err := ValidatePrivateKey(key); err != nil {
		return nil, err
	}
	return key, nil
}

// ParsePublicKey decodes and validates a serialized public key.
func ParsePublicKey(data []byte) (*PublicKey, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty public key", registry.ErrInvalidArgument)
	}
	key := new(PublicKey)
	if err := cbor.Unmarshal(data, key); err != nil {
		return nil, fmt.Errorf("%w: %v", registry.ErrMalformedKey, err)
	}
	if err := ValidatePublicKey(key); err != nil {
		return nil, err
	}
	return key, nil
}
