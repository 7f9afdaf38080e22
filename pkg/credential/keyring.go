package credential

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringSource reads and writes one OS keyring entry. Zero fields select
// KeyringService and KeyringAccount.
type KeyringSource struct {
	Service string
	Account string
}

func (s KeyringSource) entry() (service, account string) {
	service, account = s.Service, s.Account
	if service == "" {
		service = KeyringService
	}
	if account == "" {
		account = KeyringAccount
	}
	return service, account
}

// Name implements Source.
func (s KeyringSource) Name() string {
	service, account := s.entry()
	return "keyring:" + service + "/" + account
}

// Lookup implements Source.
func (s KeyringSource) Lookup() (string, error) {
	v, err := keyring.Get(s.entry())
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", wrap("keyring get", err)
	}

	v = strings.TrimSpace(v)
	if v == "" {
		return "", ErrNotFound
	}
	return v, nil
}

// Store writes key to the entry, replacing any previous value.
func (s KeyringSource) Store(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return wrap("keyring set", errors.New("empty key"))
	}

	service, account := s.entry()
	if err := keyring.Set(service, account, key); err != nil {
		return wrap("keyring set", err)
	}
	return nil
}

// Delete removes the entry. A missing entry is not an error.
func (s KeyringSource) Delete() error {
	err := keyring.Delete(s.entry())
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return wrap("keyring delete", err)
}
