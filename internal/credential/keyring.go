// Package credential stores the send gateway's Bearer token in the
// system keyring. The token never touches the config file.
package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const (
	serviceName = "maildraft"
	tokenKey    = "gateway-token"
)

func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/maildraft/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("maildraft-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Token retrieves the stored gateway token. A missing entry is an
// error; callers treat it as "no token configured".
func Token() (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(tokenKey)
	if err != nil {
		return "", fmt.Errorf("getting gateway token: %w", err)
	}
	return string(item.Data), nil
}

// StoreToken saves the gateway token, replacing any previous one.
func StoreToken(value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	if err := ring.Set(keyring.Item{Key: tokenKey, Data: []byte(value)}); err != nil {
		return fmt.Errorf("storing gateway token: %w", err)
	}
	return nil
}

// DeleteToken removes the stored gateway token.
func DeleteToken() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	if err := ring.Remove(tokenKey); err != nil {
		return fmt.Errorf("deleting gateway token: %w", err)
	}
	return nil
}
