// Package cosekey exports hybrid-encryption public keys as COSE_Key
// structures (RFC 9052) for interchange with COSE-based stacks.
package cosekey

import (
	"fmt"

	gocose "github.com/veraison/go-cose"

	"github.com/cipherworks/hybrid-kms/internal/curve"
	"github.com/cipherworks/hybrid-kms/internal/ecies"
)

// Export encodes the public key as a CBOR COSE_Key (kty EC2).
// Only NIST curves have a COSE EC2 representation here; X25519 keys are
// rejected.
func Export(pub *ecies.PublicKey) ([]byte, error) {
	if err := ecies.ValidatePublicKey(pub); err != nil {
		return nil, err
	}

	var alg gocose.Algorithm
	switch pub.Params.KEM.Curve {
	case curve.P256:
		alg = gocose.AlgorithmES256
	case curve.P384:
		alg = gocose.AlgorithmES384
	case curve.P521:
		alg = gocose.AlgorithmES512
	default:
		return nil, fmt.Errorf("no COSE_Key representation for curve %q", pub.Params.KEM.Curve)
	}

	key, err := gocose.NewKeyEC2(alg, pub.X, pub.Y, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build COSE_Key: %w", err)
	}
	return key.MarshalCBOR()
}
