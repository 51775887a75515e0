package config_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-user-service/config"
	"github.com/stretchr/testify/assert"
)

func validConfig() *config.BaseConfig {
	return &config.BaseConfig{
		Auth: config.Auth{
			SigningKey:      "signing-key",
			TokenExpiration: 72,
		},
		Persistence: config.Persistence{
			DSN: "file::memory:?cache=shared",
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("accepts a complete config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("requires a signing key", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.SigningKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("requires a positive token expiration", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.TokenExpiration = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("requires a DSN", func(t *testing.T) {
		cfg := validConfig()
		cfg.Persistence.DSN = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestAuthDefaults(t *testing.T) {
	auth := &config.Auth{}

	assert.Equal(t, "HS256", auth.GetSigningMethod())
	assert.Equal(t, "user_credentials", auth.GetContextKey())
	assert.Equal(t, "Bearer", auth.GetAuthScheme())
	assert.Equal(t, "header:Authorization,cookie:user_credentials", auth.GetTokenLookup())
}

func TestAuthTokenLookupTracksContextKey(t *testing.T) {
	auth := &config.Auth{ContextKey: "session"}
	assert.Equal(t, "header:Authorization,cookie:session", auth.GetTokenLookup())

	auth.TokenLookup = "cookie:other"
	assert.Equal(t, "cookie:other", auth.GetTokenLookup())
}

func TestServerDefaults(t *testing.T) {
	assert.Equal(t, ":8080", config.Server{}.GetAddress())
	assert.Equal(t, ":3000", config.Server{Address: ":3000"}.GetAddress())
}

func TestPersistenceDefaults(t *testing.T) {
	p := config.Persistence{}

	assert.Equal(t, "sqlite", p.GetDriver())
	assert.Equal(t, 5*time.Second, p.GetPingTimeout())

	p.PingTimeoutExpression = "30s"
	assert.Equal(t, 30*time.Second, p.GetPingTimeout())

	p.PingTimeoutExpression = "not-a-duration"
	assert.Panics(t, func() { p.GetPingTimeout() })
}
