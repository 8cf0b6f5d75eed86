// Package secret resolves the webhook URL, the job's only secret. The
// URL is treated as an opaque string and never parsed.
package secret

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"

	"tarjousbot/pkg/errors"
)

const (
	envKey         = "TARJOUSBOT_WEBHOOK_URL"
	webhookFile    = "webhook.conf"
	keyringService = "tarjousbot"
	keyringKey     = "webhook_url"
)

// ErrNotFound signals that a source has no webhook URL stored
var ErrNotFound = stderrors.New("webhook URL not found")

// Source yields the webhook URL from one backing location
type Source interface {
	Resolve() (string, error)
}

// EnvSource reads the webhook URL from an environment variable
type EnvSource struct {
	Key string
}

func (s *EnvSource) Resolve() (string, error) {
	value := strings.TrimSpace(os.Getenv(s.Key))
	if value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

// FileSource reads the webhook URL from a config file under the state
// directory
type FileSource struct {
	Path string
}

func (s *FileSource) Resolve() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read webhook config: %w", err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

// KeyringSource reads the webhook URL from the system keychain
type KeyringSource struct {
	Service string
	Key     string
}

func (s *KeyringSource) Resolve() (string, error) {
	value, err := keyring.Get(s.Service, s.Key)
	if err != nil {
		// An unavailable keychain is indistinguishable from an absent
		// entry for our purposes; the next source gets its turn.
		return "", ErrNotFound
	}
	return value, nil
}

// Resolver tries a chain of sources in order
type Resolver struct {
	sources []Source
}

// NewResolver builds the default chain: environment variable, webhook
// config file under the state directory, then the system keychain.
func NewResolver(stateDir string) *Resolver {
	return &Resolver{
		sources: []Source{
			&EnvSource{Key: envKey},
			&FileSource{Path: filepath.Join(stateDir, webhookFile)},
			&KeyringSource{Service: keyringService, Key: keyringKey},
		},
	}
}

// Resolve returns the webhook URL from the first source that has one.
// Exhausting the chain is a configuration error.
func (r *Resolver) Resolve() (string, error) {
	for _, source := range r.sources {
		value, err := source.Resolve()
		if err == nil {
			return value, nil
		}
		if !stderrors.Is(err, ErrNotFound) {
			return "", err
		}
	}

	return "", errors.New(errors.ErrorTypeConfig, "webhook URL is not configured")
}

// StoreKeyring saves the webhook URL into the system keychain
func StoreKeyring(url string) error {
	if strings.TrimSpace(url) == "" {
		return errors.New(errors.ErrorTypeConfig, "webhook URL must not be empty")
	}
	if err := keyring.Set(keyringService, keyringKey, url); err != nil {
		return fmt.Errorf("failed to store webhook URL in keyring: %w", err)
	}
	return nil
}
