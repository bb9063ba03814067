package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials is the on-disk shape of a cached identity. Stored with 0600
// permissions in the config directory so a login survives process restarts.
type Credentials struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func (c *Credentials) Identity() *Identity {
	return &Identity{
		User:         User{ID: c.UserID, Email: c.Email},
		Token:        c.Token,
		RefreshToken: c.RefreshToken,
		ExpiresAt:    c.ExpiresAt,
	}
}

// Expired reports whether the cached token is past its expiry. The JWT exp
// claim wins when present; verification is the server's job, so the token
// is decoded without checking the signature.
func (c *Credentials) Expired(now time.Time) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(c.Token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return now.After(exp.Time)
		}
	}
	if c.ExpiresAt.IsZero() {
		return true
	}
	return now.After(c.ExpiresAt)
}

// SaveCredentials writes the identity to path, creating parent directories
// as needed.
func SaveCredentials(path string, id *Identity) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create credential directory: %w", err)
	}
	creds := Credentials{
		UserID:       id.User.ID,
		Email:        id.User.Email,
		Token:        id.Token,
		RefreshToken: id.RefreshToken,
		ExpiresAt:    id.ExpiresAt,
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// LoadCredentials reads cached credentials. Returns (nil, nil) when no
// cache exists.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	return &creds, nil
}

// ClearCredentials removes the cache. Missing files are not an error.
func ClearCredentials(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
