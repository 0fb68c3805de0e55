package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/tartampluch/go-fortune/internal/config"
	"golang.org/x/crypto/chacha20poly1305"
)

// Encrypted seals every value with XChaCha20-Poly1305 before handing it to the inner store.
// The key name is bound as additional data so values cannot be swapped between keys.
type Encrypted struct {
	inner Store
	key   []byte
}

// NewEncrypted wraps inner. key must be 32 bytes.
func NewEncrypted(inner Store, key []byte) (*Encrypted, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%s: key must be %d bytes", config.ErrStoreKey, chacha20poly1305.KeySize)
	}
	return &Encrypted{inner: inner, key: append([]byte(nil), key...)}, nil
}

func (e *Encrypted) Save(ctx context.Context, key string, value []byte) error {
	aead, err := chacha20poly1305.NewX(e.key)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrEncrypt, err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(value)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("%s: %w", config.ErrEncrypt, err)
	}

	sealed := aead.Seal(nonce, nonce, value, []byte(key))
	return e.inner.Save(ctx, key, sealed)
}

func (e *Encrypted) Load(ctx context.Context, key string) ([]byte, error) {
	sealed, err := e.inner.Load(ctx, key)
	if err != nil || sealed == nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(e.key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDecrypt, err)
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, fmt.Errorf("%s %q: %w", config.ErrDecrypt, key, errors.New("ciphertext too short"))
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", config.ErrDecrypt, key, err)
	}
	return plain, nil
}

func (e *Encrypted) Remove(ctx context.Context, key string) error {
	return e.inner.Remove(ctx, key)
}
