package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrNoCredential = errors.New("no stored credential")

// CredentialStore supplies the recruiter's bearer token.
type CredentialStore interface {
	Token() (string, error)
}

// FileStore reads the token from an environment variable first, then from a file.
type FileStore struct {
	path   string
	envVar string
	now    func() time.Time
}

func NewFileStore(path, envVar string) *FileStore {
	return &FileStore{path: path, envVar: envVar, now: time.Now}
}

// Token returns the stored token. A missing, empty or expired token yields
// ErrNoCredential. Tokens that are not JWTs are returned as they are.
func (s *FileStore) Token() (string, error) {
	token := ""
	if s.envVar != "" {
		token = strings.TrimSpace(os.Getenv(s.envVar))
	}
	if token == "" && s.path != "" {
		data, err := os.ReadFile(s.path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to read token file: %w", err)
		}
		token = strings.TrimSpace(string(data))
	}
	if token == "" {
		return "", ErrNoCredential
	}
	if _, err := InspectToken(token, s.now()); errors.Is(err, ErrExpiredToken) {
		return "", fmt.Errorf("%w: %v", ErrNoCredential, err)
	}
	return token, nil
}

// Save writes a token to the store's file, readable only by the owner.
func (s *FileStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrNoCredential
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Recruiter returns the email in the stored token, or "" when unknown.
func Recruiter(store CredentialStore) string {
	token, err := store.Token()
	if err != nil {
		return ""
	}
	claims, err := InspectToken(token, time.Now())
	if err != nil {
		return ""
	}
	return claims.Email
}
