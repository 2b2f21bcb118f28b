package registry

import (
	"errors"
	"fmt"
)

// KeyError represents a key-type operation error with structured context.
// It supports errors.Is() and errors.As() for improved error handling.
type KeyError struct {
	Op      string // Operation: "new_key", "new_key_data", "public_key_data", "primitive", "parse"
	TypeURL string // Key type involved (if known)
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	if e.TypeURL != "" {
		return fmt.Sprintf("keymanager %s [%s]: %v", e.Op, e.TypeURL, e.Err)
	}
	return fmt.Sprintf("keymanager %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *KeyError) Unwrap() error { return e.Err }

// NewKeyError creates a new KeyError with the given operation, type URL and error.
func NewKeyError(op, typeURL string, err error) *KeyError {
	return &KeyError{Op: op, TypeURL: typeURL, Err: err}
}

// Sentinel errors for key-type operations.
// Use errors.Is() to check for these errors through the error chain.
var (
	// ErrInvalidArgument indicates a nil/absent input or a concrete type that
	// is neither the expected structure nor raw bytes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedKey indicates bytes that do not decode to the expected
	// key structure.
	ErrMalformedKey = errors.New("malformed serialized key")

	// ErrIncompleteKey indicates a structure that decodes but is missing a
	// required field.
	ErrIncompleteKey = errors.New("incomplete key structure")

	// ErrInvalidKeyFormat indicates a structurally complete key format that
	// fails cross-field validation.
	ErrInvalidKeyFormat = errors.New("invalid key format")

	// ErrKeyVersion indicates a key version above what the manager implements.
	ErrKeyVersion = errors.New("key version not supported")

	// ErrUnsupportedOperation indicates a capability the manager does not
	// provide, such as assembling a usable primitive from key material.
	ErrUnsupportedOperation = errors.New("operation not supported")

	// ErrManagerNotFound indicates no manager is registered for a type URL.
	ErrManagerNotFound = errors.New("no manager registered for key type")

	// ErrManagerExists indicates a conflicting registration for a type URL.
	ErrManagerExists = errors.New("manager already registered for key type")
)

// ValidateKeyVersion rejects key versions above what a manager implements.
// This is the forward-compatibility gate applied during key deserialization.
func ValidateKeyVersion(version, maxVersion uint32) error {
	if version > maxVersion {
		return fmt.Errorf("%w: got %d, max %d", ErrKeyVersion, version, maxVersion)
	}
	return nil
}
