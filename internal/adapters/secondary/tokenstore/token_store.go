// Package tokenstore keeps SAS Logon refresh tokens in the OS keychain, one
// entry per Viya host, with a file fallback for headless machines.
package tokenstore

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/zalando/go-keyring"

	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/ports/output"
)

const DefaultService = "viya-model-manager"

type tokenStore struct {
	service     string
	fallbackDir string
}

// NewTokenStore returns a TokenStore backed by the OS keychain. When the
// keychain is unavailable tokens are written to fallbackDir with mode 0600;
// an empty fallbackDir disables the fallback.
func NewTokenStore(service, fallbackDir string) ports.TokenStore {
	if service == "" {
		service = DefaultService
	}
	return &tokenStore{service: service, fallbackDir: fallbackDir}
}

func (s *tokenStore) Save(host, refreshToken string) error {
	user := hostKey(host)
	if err := keyring.Set(s.service, user, refreshToken); err != nil {
		if s.fallbackDir == "" {
			return fmt.Errorf("save token to keychain: %w", err)
		}
		log.WithError(err).Warn("keychain unavailable, falling back to file")
		return s.saveFile(user, refreshToken)
	}

	// Clean up any file left by an earlier fallback
	s.removeFile(user)
	return nil
}

func (s *tokenStore) Load(host string) (string, error) {
	user := hostKey(host)
	token, err := keyring.Get(s.service, user)
	if err == nil && token != "" {
		return token, nil
	}
	if s.fallbackDir == "" {
		return "", fmt.Errorf("no stored token for %s: %w", user, domain.ErrNoCredentials)
	}

	token, ferr := s.loadFile(user)
	if ferr != nil {
		return "", ferr
	}

	// Migrate to keychain
	if migrateErr := keyring.Set(s.service, user, token); migrateErr == nil {
		log.WithField("host", user).Info("migrated token from file to OS keychain")
		s.removeFile(user)
	}
	return token, nil
}

func (s *tokenStore) Delete(host string) error {
	user := hostKey(host)
	if err := keyring.Delete(s.service, user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		if s.fallbackDir == "" {
			return fmt.Errorf("delete token from keychain: %w", err)
		}
		log.WithError(err).Debug("keychain delete failed")
	}
	s.removeFile(user)
	return nil
}

func (s *tokenStore) path(user string) string {
	name := strings.NewReplacer(":", "_", "/", "_").Replace(user)
	return filepath.Join(s.fallbackDir, name+".token")
}

func (s *tokenStore) saveFile(user, token string) error {
	if err := os.MkdirAll(s.fallbackDir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path(user), []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (s *tokenStore) loadFile(user string) (string, error) {
	b, err := os.ReadFile(s.path(user))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("no stored token for %s: %w", user, domain.ErrNoCredentials)
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *tokenStore) removeFile(user string) {
	if s.fallbackDir == "" {
		return
	}
	_ = os.Remove(s.path(user))
}

// hostKey reduces a base URL to host[:port] so "https://viya.example.com/"
// and "viya.example.com" share one entry.
func hostKey(host string) string {
	if u, err := url.Parse(host); err == nil && u.Host != "" {
		return strings.ToLower(u.Host)
	}
	return strings.ToLower(strings.TrimRight(host, "/"))
}
