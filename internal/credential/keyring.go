// Package credential keeps the CLI's login session in the system keyring.
package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "taskdesk"

const (
	ownerKey = "owner"
	tokenKey = "token"
)

// ErrNoSession is returned when nobody is logged in.
var ErrNoSession = errors.New("no saved session")

// Session is the owner the CLI acts as, plus the bearer token used when
// talking to a taskdesk server.
type Session struct {
	OwnerID string
	Token   string
}

// Vault reads and writes the session in a keyring.
type Vault struct {
	ring keyring.Keyring
}

// openKeyring returns a configured keyring instance.
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
		FileDir:                  "~/.config/taskdesk/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("taskdesk-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Open returns a Vault over the system keyring.
func Open() (*Vault, error) {
	ring, err := openKeyring()
	if err != nil {
		return nil, err
	}
	return &Vault{ring: ring}, nil
}

// NewVault wraps an existing keyring.
func NewVault(ring keyring.Keyring) *Vault {
	return &Vault{ring: ring}
}

// Save stores the session, replacing any previous one.
func (v *Vault) Save(s Session) error {
	if s.OwnerID == "" {
		return errors.New("session owner must not be empty")
	}
	if err := v.set(ownerKey, s.OwnerID); err != nil {
		return err
	}
	if s.Token == "" {
		return v.remove(tokenKey)
	}
	return v.set(tokenKey, s.Token)
}

// Load returns the saved session or ErrNoSession.
func (v *Vault) Load() (Session, error) {
	owner, err := v.get(ownerKey)
	if err != nil {
		return Session{}, err
	}
	token, err := v.get(tokenKey)
	if err != nil && !errors.Is(err, ErrNoSession) {
		return Session{}, err
	}
	return Session{OwnerID: owner, Token: token}, nil
}

// Clear removes the session. Clearing without a session succeeds.
func (v *Vault) Clear() error {
	if err := v.remove(ownerKey); err != nil {
		return err
	}
	return v.remove(tokenKey)
}

func (v *Vault) get(key string) (string, error) {
	item, err := v.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

func (v *Vault) set(key, value string) error {
	err := v.ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

func (v *Vault) remove(key string) error {
	err := v.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}
