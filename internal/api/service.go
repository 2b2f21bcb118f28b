package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/cipherworks/hybrid-kms/internal/audit"
	"github.com/cipherworks/hybrid-kms/internal/curve"
	"github.com/cipherworks/hybrid-kms/internal/ecies"
	"github.com/cipherworks/hybrid-kms/internal/registry"
)

// KeyService generates and serves hybrid-encryption keys through the
// key-type registry. Generated private keys are held in memory, keyed by a
// random identifier; only public projections ever leave the service.
type KeyService struct {
	reg *registry.Registry

	mu   sync.RWMutex
	keys map[string]*registry.KeyData
}

// NewKeyService creates a KeyService backed by the given registry.
func NewKeyService(reg *registry.Registry) *KeyService {
	return &KeyService{
		reg:  reg,
		keys: make(map[string]*registry.KeyData),
	}
}

// Generate mints a fresh private key for the given curve and HKDF hash and
// stores it. It returns the new key's identifier and its public half.
func (s *KeyService) Generate(curveName, hashName string) (string, *ecies.PublicKey, error) {
	curveID, err := curve.ParseID(curveName)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", registry.ErrInvalidKeyFormat, err)
	}
	if hashName == "" {
		hashName = string(ecies.SHA256)
	}

	format := ecies.NewKeyFormat(curveID, ecies.HashType(hashName))
	serializedFormat, err := format.Marshal()
	if err != nil {
		return "", nil, err
	}

	kd, err := s.reg.NewKeyData(ecies.PrivateKeyTypeURL, serializedFormat)
	if err != nil {
		_ = audit.LogKeyGenerated("", ecies.PrivateKeyTypeURL, curveName, hashName, false)
		return "", nil, err
	}

	id, err := newKeyID()
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	s.keys[id] = kd
	s.mu.Unlock()

	if err := audit.LogKeyGenerated(id, kd.TypeURL, curveName, hashName, true); err != nil {
		return "", nil, fmt.Errorf("audit failed: %w", err)
	}

	key, err := ecies.ParsePrivateKey(kd.Value)
	if err != nil {
		return "", nil, err
	}
	return id, key.PublicKey, nil
}

// Public projects the public key envelope out of the stored private key.
func (s *KeyService) Public(id string) (*registry.KeyData, error) {
	s.mu.RLock()
	kd, ok := s.keys[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, id)
	}

	pub, err := s.reg.PublicKeyData(kd)
	if err != nil {
		_ = audit.LogPublicKeyExported(id, kd.TypeURL, false)
		return nil, err
	}
	if err := audit.LogPublicKeyExported(id, kd.TypeURL, true); err != nil {
		return nil, fmt.Errorf("audit failed: %w", err)
	}
	return pub, nil
}

// List returns the stored keys in unspecified order.
func (s *KeyService) List() []KeyListEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]KeyListEntry, 0, len(s.keys))
	for id, kd := range s.keys {
		entries = append(entries, KeyListEntry{
			ID:           id,
			TypeURL:      kd.TypeURL,
			MaterialType: kd.MaterialType.String(),
		})
	}
	return entries
}

// newKeyID generates a random 8-byte hex key identifier.
func newKeyID() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("failed to generate key ID: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
