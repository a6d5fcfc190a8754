package auth

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const (
	keyringService = "tasksync"
	sessionKey     = "oauth-session"
)

// KeyringStore persists the session in the system keyring, falling back
// to an encrypted file under the config directory on headless systems.
type KeyringStore struct {
	ring keyring.Keyring
}

// OpenKeyringStore opens the system keyring. fileDir is the directory
// used by the file backend fallback.
func OpenKeyringStore(fileDir string) (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: keyringService,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt("tasksync-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

// Load implements Store.
func (k *KeyringStore) Load() (Session, error) {
	item, err := k.ring.Get(sessionKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("loading session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(item.Data, &s); err != nil {
		return Session{}, fmt.Errorf("decoding session: %w", err)
	}
	return s, nil
}

// Save implements Store.
func (k *KeyringStore) Save(s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := k.ring.Set(keyring.Item{Key: sessionKey, Data: data}); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Clear implements Store.
func (k *KeyringStore) Clear() error {
	err := k.ring.Remove(sessionKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
