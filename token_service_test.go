package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	auth "github.com/goliatone/go-user-service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	signingKey := []byte("test-signing-key")
	tokenExpiration := 24
	issuer := "test-issuer"
	audience := jwt.ClaimStrings{"test-audience"}

	t.Run("creates token service with logger", func(t *testing.T) {
		service := auth.NewTokenService(signingKey, tokenExpiration, issuer, audience, noopLogger{})
		assert.NotNil(t, service)
	})

	t.Run("creates token service with nil logger", func(t *testing.T) {
		service := auth.NewTokenService(signingKey, tokenExpiration, issuer, audience, nil)
		assert.NotNil(t, service)
	})
}

func TestTokenServiceGenerate(t *testing.T) {
	service := auth.NewTokenService(
		[]byte("test-signing-key"),
		2,
		"test-issuer",
		jwt.ClaimStrings{"test-audience"},
		noopLogger{},
	)

	identity := staticIdentity{id: "11111111-2222-3333-4444-555555555555", email: "user@example.com"}

	t.Run("mints a token that validates back to the same claims", func(t *testing.T) {
		token, expiresAt, err := service.Generate(identity)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, 3, len(strings.Split(token, ".")))

		claims, err := service.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, identity.ID(), claims.Subject())
		assert.Equal(t, identity.ID(), claims.UserID())
		assert.Equal(t, identity.Email(), claims.Email())
		assert.WithinDuration(t, expiresAt, claims.Expires(), time.Second)
	})

	t.Run("expiry is the configured duration from issuance", func(t *testing.T) {
		_, expiresAt, err := service.Generate(identity)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(2*time.Hour), expiresAt, 5*time.Second)
	})
}

func TestTokenServiceValidate(t *testing.T) {
	key := []byte("test-signing-key")
	service := auth.NewTokenService(key, 1, "test-issuer", jwt.ClaimStrings{"test-audience"}, noopLogger{})

	identity := staticIdentity{id: "user-1", email: "user@example.com"}

	t.Run("rejects tampered tokens", func(t *testing.T) {
		token, _, err := service.Generate(identity)
		require.NoError(t, err)

		tampered := token[:len(token)-2] + "xx"

		_, err = service.Validate(tampered)
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := service.Validate("not-a-token")
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("rejects tokens signed with a different key", func(t *testing.T) {
		other := auth.NewTokenService([]byte("other-key"), 1, "test-issuer", jwt.ClaimStrings{"test-audience"}, noopLogger{})
		token, _, err := other.Generate(identity)
		require.NoError(t, err)

		_, err = service.Validate(token)
		require.Error(t, err)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		claims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				Subject:   identity.ID(),
				Audience:  jwt.ClaimStrings{"test-audience"},
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
			UID:       identity.ID(),
			UserEmail: identity.Email(),
		}

		token, err := service.SignClaims(claims)
		require.NoError(t, err)

		_, err = service.Validate(token)
		require.Error(t, err)
		assert.True(t, auth.IsTokenExpiredError(err))
	})

	t.Run("rejects tokens with the wrong issuer", func(t *testing.T) {
		other := auth.NewTokenService(key, 1, "someone-else", jwt.ClaimStrings{"test-audience"}, noopLogger{})
		token, _, err := other.Generate(identity)
		require.NoError(t, err)

		_, err = service.Validate(token)
		require.Error(t, err)
	})
}

func TestTokenServiceSignClaims(t *testing.T) {
	service := auth.NewTokenService([]byte("test-signing-key"), 1, "", nil, noopLogger{})

	t.Run("rejects nil claims", func(t *testing.T) {
		_, err := service.SignClaims(nil)
		require.Error(t, err)
	})

	t.Run("signs minimal claims", func(t *testing.T) {
		claims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(hoursFromNow(1)),
			},
		}

		_, err := service.SignClaims(claims)
		require.NoError(t, err)
	})
}
