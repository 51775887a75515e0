package auth_test

import (
	"context"
	"testing"
	"time"

	auth "github.com/goliatone/go-user-service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthenticator(t *testing.T) {
	provider := &MockIdentityProvider{}
	auther := auth.NewAuthenticator(provider, newTestConfig())

	assert.NotNil(t, auther)
	assert.NotNil(t, auther.TokenService())
}

func TestAutherLogin(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig()

	t.Run("returns a signed token and its expiry", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "user@example.com", "Sup3r-secret!").
			Return(staticIdentity{id: "user-1", email: "user@example.com"}, nil).Once()

		auther := auth.NewAuthenticator(provider, cfg).WithLogger(noopLogger{})

		token, expiresAt, err := auther.Login(ctx, "user@example.com", "Sup3r-secret!")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

		claims, err := auther.TokenService().Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID())
		assert.Equal(t, "user@example.com", claims.Email())
		assert.WithinDuration(t, expiresAt, claims.Expires(), time.Second)

		provider.AssertExpectations(t)
	})

	t.Run("propagates verification failures", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "user@example.com", "wrong").
			Return(nil, auth.ErrInvalidCredentials).Once()

		auther := auth.NewAuthenticator(provider, cfg).WithLogger(noopLogger{})

		_, _, err := auther.Login(ctx, "user@example.com", "wrong")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

		provider.AssertExpectations(t)
	})

	t.Run("nil identity is rejected", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "user@example.com", "Sup3r-secret!").
			Return(nil, nil).Once()

		auther := auth.NewAuthenticator(provider, cfg).WithLogger(noopLogger{})

		_, _, err := auther.Login(ctx, "user@example.com", "Sup3r-secret!")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

		provider.AssertExpectations(t)
	})

}
