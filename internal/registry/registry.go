package registry

import (
	"fmt"
	"sync"
)

// Registry maps key-type URLs to their managers. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	managers map[string]KeyManager
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{managers: make(map[string]KeyManager)}
}

// Register adds a manager under its type URL. Re-registering the same type
// URL with a different manager is an error; registering the identical
// manager again is a no-op.
func (r *Registry) Register(km KeyManager) error {
	if km == nil {
		return fmt.Errorf("register: %w: nil manager", ErrInvalidArgument)
	}
	typeURL := km.TypeURL()
	if typeURL == "" {
		return fmt.Errorf("register: %w: empty type URL", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.managers[typeURL]; ok {
		if existing == km {
			return nil
		}
		return fmt.Errorf("register %s: %w", typeURL, ErrManagerExists)
	}
	r.managers[typeURL] = km
	return nil
}

// For returns the manager registered for the given type URL.
func (r *Registry) For(typeURL string) (KeyManager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	km, ok := r.managers[typeURL]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrManagerNotFound, typeURL)
	}
	return km, nil
}

// Contains reports whether a manager is registered for the type URL.
func (r *Registry) Contains(typeURL string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.managers[typeURL]
	return ok
}

// TypeURLs returns the registered type URLs in unspecified order.
func (r *Registry) TypeURLs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	urls := make([]string, 0, len(r.managers))
	for u := range r.managers {
		urls = append(urls, u)
	}
	return urls
}

// NewKeyData mints fresh key material for the given type URL by dispatching
// to the registered manager's factory.
func (r *Registry) NewKeyData(typeURL string, serializedFormat []byte) (*KeyData, error) {
	km, err := r.For(typeURL)
	if err != nil {
		return nil, err
	}
	return km.KeyFactory().NewKeyData(serializedFormat)
}

// PublicKeyData projects the public half out of private key material held in
// the given envelope. The envelope must carry ASYMMETRIC_PRIVATE material of
// a registered private key type.
func (r *Registry) PublicKeyData(kd *KeyData) (*KeyData, error) {
	if kd == nil {
		return nil, fmt.Errorf("public key data: %w: nil key data", ErrInvalidArgument)
	}
	if kd.MaterialType != MaterialAsymmetricPrivate {
		return nil, fmt.Errorf("public key data: %w: material type %s", ErrInvalidArgument, kd.MaterialType)
	}

	km, err := r.For(kd.TypeURL)
	if err != nil {
		return nil, err
	}
	pf, ok := km.KeyFactory().(PrivateKeyFactory)
	if !ok {
		return nil, fmt.Errorf("public key data [%s]: %w: not a private key type", kd.TypeURL, ErrInvalidArgument)
	}
	return pf.PublicKeyData(kd.Value)
}
