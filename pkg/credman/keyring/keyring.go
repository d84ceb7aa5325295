// Package keyring keeps the JSON-RPC secret of the daemon in the operating
// system keyring, with a file in the config directory as fallback.
package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const secretBytes = 32

// ErrInvalidSecret is returned for a stored value that is not a hex secret.
var ErrInvalidSecret = errors.New("invalid secret format")

// SecretStore persists a single generated secret.
type SecretStore interface {
	// Set generates a new secret, stores it and returns it.
	Set() (string, error)
	Get() (string, error)
	Delete() error
}

type Keyring struct {
	AppName string
	Field   string
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
	randRead      = rand.Read
)

func NewKeyring() *Keyring {
	return &Keyring{
		AppName: "taskpro",
		Field:   "rpc-secret",
	}
}

// generate returns a hex encoded random secret.
func generate() (string, error) {
	b := make([]byte, secretBytes)
	if _, err := randRead(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func validate(s string) (string, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != secretBytes {
		return "", ErrInvalidSecret
	}
	return s, nil
}

func (k *Keyring) Set() (string, error) {
	secret, err := generate()
	if err != nil {
		return "", err
	}
	if err := keyringSet(k.AppName, k.Field, secret); err != nil {
		return "", err
	}
	return secret, nil
}

func (k *Keyring) Get() (string, error) {
	s, err := keyringGet(k.AppName, k.Field)
	if err != nil {
		return "", err
	}
	return validate(s)
}

func (k *Keyring) Delete() error {
	return keyringDelete(k.AppName, k.Field)
}

var _ SecretStore = (*Keyring)(nil)
