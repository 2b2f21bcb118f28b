// Package keyset stores KeyData envelopes at rest, optionally encrypted
// under a passphrase. Encryption uses scrypt for key derivation and
// XChaCha20-Poly1305 for authenticated encryption; it protects key material
// on disk and is unrelated to the hybrid primitive the keys serve.
package keyset

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/cipherworks/hybrid-kms/internal/registry"
)

// scrypt parameters. Changing them breaks existing files, so they are part
// of the on-disk format.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

const saltSize = 16

// envelope is the on-disk form: either a plain serialized KeyData, or a
// ciphertext plus the KDF salt and AEAD nonce needed to open it.
type envelope struct {
	Encrypted bool   `cbor:"1,keyasint"`
	Salt      []byte `cbor:"2,keyasint,omitempty"`
	Nonce     []byte `cbor:"3,keyasint,omitempty"`
	Data      []byte `cbor:"4,keyasint"`
}

// Save writes the key data to path with mode 0600. If passphrase is
// non-empty the serialized envelope is encrypted; private key material
// should never be written without one.
func Save(path string, kd *registry.KeyData, passphrase []byte) error {
	if kd == nil {
		return fmt.Errorf("keyset save: %w: nil key data", registry.ErrInvalidArgument)
	}

	plain, err := cbor.Marshal(kd)
	if err != nil {
		return fmt.Errorf("keyset save: failed to serialize key data: %w", err)
	}

	env := envelope{Data: plain}
	if len(passphrase) > 0 {
		env, err = seal(plain, passphrase)
		if err != nil {
			return fmt.Errorf("keyset save: %w", err)
		}
	}

	out, err := cbor.Marshal(&env)
	if err != nil {
		return fmt.Errorf("keyset save: failed to serialize envelope: %w", err)
	}
	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("keyset save: %w", err)
	}
	return nil
}

// Load reads a key data envelope from path, decrypting it if it was saved
// with a passphrase.
func Load(path string, passphrase []byte) (*registry.KeyData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keyset load: %w", err)
	}

	var env envelope
	if err := cbor.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("keyset load: %w: %v", registry.ErrMalformedKey, err)
	}

	plain := env.Data
	if env.Encrypted {
		if len(passphrase) == 0 {
			return nil, fmt.Errorf("keyset load: keyset is encrypted but no passphrase provided")
		}
		plain, err = open(&env, passphrase)
		if err != nil {
			return nil, fmt.Errorf("keyset load: %w", err)
		}
	}

	kd := new(registry.KeyData)
	if err := cbor.Unmarshal(plain, kd); err != nil {
		return nil, fmt.Errorf("keyset load: %w: %v", registry.ErrMalformedKey, err)
	}
	if kd.TypeURL == "" || len(kd.Value) == 0 {
		return nil, fmt.Errorf("keyset load: %w: missing type URL or value", registry.ErrIncompleteKey)
	}
	return kd, nil
}

// seal encrypts plain under a scrypt-derived key.
func seal(plain, passphrase []byte) (envelope, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return envelope{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return envelope{}, fmt.Errorf("failed to derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return envelope{}, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return envelope{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return envelope{
		Encrypted: true,
		Salt:      salt,
		Nonce:     nonce,
		Data:      aead.Seal(nil, nonce, plain, nil),
	}, nil
}

// open decrypts an encrypted envelope.
func open(env *envelope, passphrase []byte) ([]byte, error) {
	if len(env.Salt) != saltSize {
		return nil, fmt.Errorf("%w: bad salt length", registry.ErrMalformedKey)
	}

	key, err := scrypt.Key(passphrase, env.Salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	if len(env.Nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: bad nonce length", registry.ErrMalformedKey)
	}

	plain, err := aead.Open(nil, env.Nonce, env.Data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keyset: wrong passphrase or corrupted file")
	}
	return plain, nil
}
