// Package curve provides elliptic-curve key-pair generation for the
// hybrid-encryption key types. NIST curves use crypto/ecdsa; Curve25519
// uses the cloudflare/circl implementation.
//
// The package only generates and exports raw key material (big-endian
// coordinates and scalar). It performs no KEM, KDF or AEAD operations.
package curve

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/cloudflare/circl/dh/x25519"
)

// ID identifies an elliptic curve.
type ID string

// Supported curves.
const (
	P256   ID = "p256"
	P384   ID = "p384"
	P521   ID = "p521"
	X25519 ID = "x25519"
)

// curveSizes maps a curve to its coordinate/scalar size in bytes.
var curveSizes = map[ID]int{
	P256:   32,
	P384:   48,
	P521:   66,
	X25519: x25519.Size,
}

// IsValid reports whether the curve is supported.
func (id ID) IsValid() bool {
	_, ok := curveSizes[id]
	return ok
}

// CoordinateSize returns the byte length of a coordinate (and of the
// private scalar) on this curve. Returns 0 for unknown curves.
func (id ID) CoordinateSize() int {
	return curveSizes[id]
}

// String returns the curve identifier.
func (id ID) String() string { return string(id) }

// ParseID parses a curve name into an ID.
func ParseID(s string) (ID, error) {
	id := ID(s)
	if !id.IsValid() {
		return "", fmt.Errorf("unsupported curve: %q", s)
	}
	return id, nil
}

// KeyPair holds the raw exported form of a generated key pair.
// X and Y are the public point coordinates as fixed-width big-endian
// unsigned integers (no compression). D is the private scalar.
// For X25519, Y is empty: the public key is the u-coordinate alone.
type KeyPair struct {
	Curve ID
	X     []byte
	Y     []byte
	D     []byte
}

// GenerateKeyPair generates a fresh key pair on the given curve.
func GenerateKeyPair(id ID) (*KeyPair, error) {
	return GenerateKeyPairWithRand(rand.Reader, id)
}

// GenerateKeyPairWithRand generates a key pair using the provided random
// source. This is useful for testing with deterministic randomness.
func GenerateKeyPairWithRand(random io.Reader, id ID) (*KeyPair, error) {
	switch id {
	case P256:
		return generateNIST(random, id, elliptic.P256())
	case P384:
		return generateNIST(random, id, elliptic.P384())
	case P521:
		return generateNIST(random, id, elliptic.P521())
	case X25519:
		return generateX25519(random)
	default:
		return nil, fmt.Errorf("unsupported curve: %q", id)
	}
}

// generateNIST generates a key pair on a NIST curve and exports the
// coordinates padded to the curve's coordinate size.
func generateNIST(random io.Reader, id ID, c elliptic.Curve) (*KeyPair, error) {
	priv, err := ecdsa.GenerateKey(c, random)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s key: %w", id, err)
	}

	size := id.CoordinateSize()
	kp := &KeyPair{
		Curve: id,
		X:     make([]byte, size),
		Y:     make([]byte, size),
		D:     make([]byte, size),
	}
	priv.PublicKey.X.FillBytes(kp.X)
	priv.PublicKey.Y.FillBytes(kp.Y)
	priv.D.FillBytes(kp.D)
	return kp, nil
}

// generateX25519 generates a Curve25519 key pair via circl.
func generateX25519(random io.Reader) (*KeyPair, error) {
	var secret, public x25519.Key
	if _, err := io.ReadFull(random, secret[:]); err != nil {
		return nil, fmt.Errorf("failed to generate x25519 key: %w", err)
	}
	x25519.KeyGen(&public, &secret)

	kp := &KeyPair{
		Curve: X25519,
		X:     append([]byte(nil), public[:]...),
		D:     append([]byte(nil), secret[:]...),
	}
	return kp, nil
}
