package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken        = errors.New("no session token available, please log in")
	ErrSessionExpired = errors.New("session has expired, please log in again")
)

// TokenSource supplies the bearer token attached to every API request. Call
// sites depend on this interface instead of reading token storage themselves.
type TokenSource interface {
	Token() (string, error)
}

// Static wraps a fixed token string.
type Static string

func (s Static) Token() (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// File reads the token from a file on every call, the headless analog of the
// browser's local/session storage. The file holds the raw JWT, optionally
// newline-terminated.
type File struct {
	Path string
}

func (f File) Token() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}

	if err := checkExpiry(token); err != nil {
		return "", err
	}
	return token, nil
}

// checkExpiry peeks at the JWT's registered claims without verifying the
// signature (the client holds no signing secret) so an expired session is
// reported before a doomed request goes out. Tokens that do not parse as JWTs
// are passed through untouched; the server is the authority either way.
func checkExpiry(token string) error {
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return ErrSessionExpired
	}
	return nil
}
