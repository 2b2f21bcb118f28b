package ecies

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cipherworks/hybrid-kms/internal/curve"
	"github.com/cipherworks/hybrid-kms/internal/registry"
)

func newTestFactory() *privateKeyFactory {
	return &privateKeyFactory{}
}

func TestU_NewKey_SharesParamsWithFormat(t *testing.T) {
	f := newTestFactory()
	format := NewKeyFormat(curve.P256, SHA256)

	key, err := f.NewKey(format)
	if err != nil {
		t.Fatalf("NewKey() error = %v", err)
	}
	priv := key.(*PrivateKey)

	if priv.PublicKey == nil {
		t.Fatal("NewKey() returned key without embedded public key")
	}
	if priv.PublicKey.Params != format.Params {
		t.Error("public key params must be the same Params as the generating format")
	}
	if priv.Version != 0 || priv.PublicKey.Version != 0 {
		t.Errorf("key versions = %d/%d, want 0/0", priv.Version, priv.PublicKey.Version)
	}
}

func TestU_NewKey_FreshMaterial(t *testing.T) {
	f := newTestFactory()
	format := NewKeyFormat(curve.P256, SHA256)

	k1, err := f.NewKey(format)
	if err != nil {
		t.Fatalf("NewKey() error = %v", err)
	}
	k2, err := f.NewKey(format)
	if err != nil {
		t.Fatalf("NewKey() error = %v", err)
	}

	priv1, priv2 := k1.(*PrivateKey), k2.(*PrivateKey)
	if bytes.Equal(priv1.KeyValue, priv2.KeyValue) {
		t.Error("two independent NewKey() calls returned identical key material")
	}
	if priv1.PublicKey.Params != priv2.PublicKey.Params {
		t.Error("keys generated from one format must share its params")
	}
}

func TestU_NewKey_AllCurves(t *testing.T) {
	f := newTestFactory()

	for _, c := range []curve.ID{curve.P256, curve.P384, curve.P521, curve.X25519} {
		t.Run(string(c), func(t *testing.T) {
			key, err := f.NewKey(NewKeyFormat(c, SHA256))
			if err != nil {
				t.Fatalf("NewKey(%s) error = %v", c, err)
			}
			priv := key.(*PrivateKey)

			size := c.CoordinateSize()
			if len(priv.PublicKey.X) != size {
				t.Errorf("len(X) = %d, want %d", len(priv.PublicKey.X), size)
			}
			if c == curve.X25519 {
				if len(priv.PublicKey.Y) != 0 {
					t.Errorf("x25519 key has Y coordinate of length %d", len(priv.PublicKey.Y))
				}
			} else if len(priv.PublicKey.Y) != size {
				t.Errorf("len(Y) = %d, want %d", len(priv.PublicKey.Y), size)
			}
			if err := ValidatePrivateKey(priv); err != nil {
				t.Errorf("generated key fails validation: %v", err)
			}
		})
	}
}

func TestU_NewKey_FromSerializedFormat(t *testing.T) {
	f := newTestFactory()
	format := NewKeyFormat(curve.P384, SHA384)

	serialized, err := format.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	key, err := f.NewKey(serialized)
	if err != nil {
		t.Fatalf("NewKey(serialized) error = %v", err)
	}
	priv := key.(*PrivateKey)
	if priv.PublicKey.Params.KEM.Curve != curve.P384 {
		t.Errorf("curve = %s, want %s", priv.PublicKey.Params.KEM.Curve, curve.P384)
	}
	if priv.PublicKey.Params.KEM.HKDFHash != SHA384 {
		t.Errorf("hash = %s, want %s", priv.PublicKey.Params.KEM.HKDFHash, SHA384)
	}
}

func TestU_NewKey_InvalidInputs(t *testing.T) {
	f := newTestFactory()

	tests := []struct {
		name    string
		format  any
		wantErr error
	}{
		{"nil format", nil, registry.ErrInvalidArgument},
		{"nil typed format", (*KeyFormat)(nil), registry.ErrInvalidArgument},
		{"unexpected type", 42, registry.ErrInvalidArgument},
		{"empty bytes", []byte{}, registry.ErrInvalidArgument},
		{"undecodable bytes", []byte{0x01, 0x02, 0x03}, registry.ErrMalformedKey},
		{"format without params", &KeyFormat{}, registry.ErrIncompleteKey},
		{"unknown curve", &KeyFormat{Params: &Params{
			KEM:         &KEMParams{Curve: "p127", HKDFHash: SHA256},
			DEM:         &DEMParams{AEAD: &registry.KeyTemplate{TypeURL: AES256GCMTypeURL}},
			PointFormat: PointUncompressed,
		}}, registry.ErrInvalidKeyFormat},
		{"unknown hash", &KeyFormat{Params: &Params{
			KEM:         &KEMParams{Curve: curve.P256, HKDFHash: "md5"},
			DEM:         &DEMParams{AEAD: &registry.KeyTemplate{TypeURL: AES256GCMTypeURL}},
			PointFormat: PointUncompressed,
		}}, registry.ErrInvalidKeyFormat},
		{"missing DEM template", &KeyFormat{Params: &Params{
			KEM:         &KEMParams{Curve: curve.P256, HKDFHash: SHA256},
			DEM:         &DEMParams{},
			PointFormat: PointUncompressed,
		}}, registry.ErrInvalidKeyFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.NewKey(tt.format)
			if err == nil {
				t.Fatal("NewKey() succeeded, want error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewKey() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestU_NewKeyData_Envelope(t *testing.T) {
	f := newTestFactory()
	serialized, err := NewKeyFormat(curve.P256, SHA256).Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	kd, err := f.NewKeyData(serialized)
	if err != nil {
		t.Fatalf("NewKeyData() error = %v", err)
	}
	if kd.TypeURL != PrivateKeyTypeURL {
		t.Errorf("TypeURL = %s, want %s", kd.TypeURL, PrivateKeyTypeURL)
	}
	if kd.MaterialType != registry.MaterialAsymmetricPrivate {
		t.Errorf("MaterialType = %s, want ASYMMETRIC_PRIVATE", kd.MaterialType)
	}

	// The envelope value must round-trip to a valid private key.
	priv, err := ParsePrivateKey(kd.Value)
	if err != nil {
		t.Fatalf("ParsePrivateKey() error = %v", err)
	}
	if priv.PublicKey.Params.KEM.Curve != curve.P256 {
		t.Errorf("curve = %s, want %s", priv.PublicKey.Params.KEM.Curve, curve.P256)
	}
}

func TestU_PublicKeyData_Projection(t *testing.T) {
	f := newTestFactory()

	key, err := f.NewKey(NewKeyFormat(curve.P521, SHA512))
	if err != nil {
		t.Fatalf("NewKey() error = %v", err)
	}
	priv := key.(*PrivateKey)

	serialized, err := priv.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	kd, err := f.PublicKeyData(serialized)
	if err != nil {
		t.Fatalf("PublicKeyData() error = %v", err)
	}
	if kd.TypeURL != PublicKeyTypeURL {
		t.Errorf("TypeURL = %s, want %s", kd.TypeURL, PublicKeyTypeURL)
	}
	if kd.MaterialType != registry.MaterialAsymmetricPublic {
		t.Errorf("MaterialType = %s, want ASYMMETRIC_PUBLIC", kd.MaterialType)
	}

	pub, err := ParsePublicKey(kd.Value)
	if err != nil {
		t.Fatalf("ParsePublicKey() error = %v", err)
	}
	if !bytes.Equal(pub.X, priv.PublicKey.X) || !bytes.Equal(pub.Y, priv.PublicKey.Y) {
		t.Error("projected public key coordinates differ from the embedded public key")
	}
	if pub.Version != priv.PublicKey.Version {
		t.Errorf("version = %d, want %d", pub.Version, priv.PublicKey.Version)
	}
	if pub.Params.KEM.Curve != priv.PublicKey.Params.KEM.Curve ||
		pub.Params.KEM.HKDFHash != priv.PublicKey.Params.KEM.HKDFHash ||
		pub.Params.PointFormat != priv.PublicKey.Params.PointFormat ||
		pub.Params.DEM.AEAD.TypeURL != priv.PublicKey.Params.DEM.AEAD.TypeURL {
		t.Error("projected public key params differ from the embedded public key params")
	}
}

func TestU_PublicKeyData_InvalidInputs(t *testing.T) {
	f := newTestFactory()
	format := NewKeyFormat(curve.P256, SHA256)

	key, err := f.NewKey(format)
	if err != nil {
		t.Fatalf("NewKey() error = %v", err)
	}
	priv := key.(*PrivateKey)

	missingKeyValue := &PrivateKey{Version: 0, PublicKey: priv.PublicKey}
	missingKeyValueBytes, err := missingKeyValue.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	missingPublicKey := &PrivateKey{Version: 0, KeyValue: priv.KeyValue}
	missingPublicKeyBytes, err := missingPublicKey.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	futureVersion := &PrivateKey{Version: 1, PublicKey: priv.PublicKey, KeyValue: priv.KeyValue}
	futureVersionBytes, err := futureVersion.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	tests := []struct {
		name    string
		input   []byte
		wantErr error
	}{
		{"empty input", nil, registry.ErrInvalidArgument},
		{"undecodable bytes", []byte{0xff, 0xfe}, registry.ErrMalformedKey},
		{"missing key value", missingKeyValueBytes, registry.ErrIncompleteKey},
		{"missing public key", missingPublicKeyBytes, registry.ErrIncompleteKey},
		{"future version", futureVersionBytes, registry.ErrKeyVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.PublicKeyData(tt.input)
			if err == nil {
				t.Fatal("PublicKeyData() succeeded, want error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("PublicKeyData() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
