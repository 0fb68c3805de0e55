package store

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-fortune/internal/config"
	"github.com/zalando/go-keyring"
)

// KeyringKey returns the storage encryption key held in the OS keyring,
// creating and saving a random one on first use.
func KeyringKey(service, user string) ([]byte, error) {
	encoded, err := keyring.Get(service, user)
	switch {
	case err == nil:
		key, decErr := base64.StdEncoding.DecodeString(encoded)
		if decErr != nil || len(key) != config.StorageKeySize {
			return nil, fmt.Errorf("%s: stored key is malformed", config.ErrStoreKey)
		}
		return key, nil
	case !errors.Is(err, keyring.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", config.ErrStoreKey, err)
	}

	key := make([]byte, config.StorageKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreKey, err)
	}
	if err := keyring.Set(service, user, base64.StdEncoding.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreKey, err)
	}

	slog.Info(config.MsgKeyCreated, config.LogKeyComponent, config.CompStore)
	return key, nil
}
