package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func writeTokenFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestStatic(t *testing.T) {
	t.Run("Returns the wrapped token", func(t *testing.T) {
		token, err := Static("abc").Token()
		require.NoError(t, err)
		assert.Equal(t, "abc", token)
	})

	t.Run("Empty token reports no session", func(t *testing.T) {
		_, err := Static("").Token()
		assert.ErrorIs(t, err, ErrNoToken)
	})
}

func TestFile(t *testing.T) {
	t.Run("Reads and trims the stored token", func(t *testing.T) {
		valid := signedToken(t, time.Now().Add(time.Hour))
		path := writeTokenFile(t, valid+"\n")

		token, err := File{Path: path}.Token()
		require.NoError(t, err)
		assert.Equal(t, valid, token)
	})

	t.Run("Missing file reports no session", func(t *testing.T) {
		_, err := File{Path: filepath.Join(t.TempDir(), "absent")}.Token()
		assert.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("Empty file reports no session", func(t *testing.T) {
		path := writeTokenFile(t, "\n")
		_, err := File{Path: path}.Token()
		assert.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("Expired token is rejected before any request", func(t *testing.T) {
		path := writeTokenFile(t, signedToken(t, time.Now().Add(-time.Minute)))
		_, err := File{Path: path}.Token()
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("Opaque non-JWT token passes through", func(t *testing.T) {
		path := writeTokenFile(t, "opaque-api-key")
		token, err := File{Path: path}.Token()
		require.NoError(t, err)
		assert.Equal(t, "opaque-api-key", token)
	})
}
