package ecies

import (
	"github.com/cipherworks/hybrid-kms/internal/curve"
	"github.com/cipherworks/hybrid-kms/internal/registry"
)

// AES256GCMTypeURL identifies the AEAD key type referenced by the default
// DEM templates. The AEAD key type itself is managed elsewhere; here it is
// only a template reference.
const AES256GCMTypeURL = "keytype.cipherworks.io/Aes256GcmKey"

// NewKeyFormat returns a key format for the given curve and HKDF hash with
// an AES-256-GCM DEM and uncompressed points. This is the canonical starting
// point for callers that do not need custom parameters.
func NewKeyFormat(c curve.ID, h HashType) *KeyFormat {
	return &KeyFormat{
		Params: &Params{
			KEM: &KEMParams{
				Curve:    c,
				HKDFHash: h,
			},
			DEM: &DEMParams{
				AEAD: &registry.KeyTemplate{TypeURL: AES256GCMTypeURL},
			},
			PointFormat: PointUncompressed,
		},
	}
}
