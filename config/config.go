package config

import (
	"fmt"
	"time"

	"github.com/goliatone/go-errors"
)

// BaseConfig is the immutable process configuration. It is loaded once at
// startup and passed by reference into the components that need it.
type BaseConfig struct {
	App         App         `json:"app" koanf:"app"`
	Auth        Auth        `json:"auth" koanf:"auth"`
	Server      Server      `json:"server" koanf:"server"`
	Persistence Persistence `json:"persistence" koanf:"persistence"`
}

type App struct {
	Name string `json:"name" koanf:"name"`
	Env  string `json:"env" koanf:"env"`
}

type Auth struct {
	SigningKey      string   `json:"signing_key" koanf:"signing_key"`
	SigningMethod   string   `json:"signing_method" koanf:"signing_method"`
	ContextKey      string   `json:"context_key" koanf:"context_key"`
	TokenExpiration int      `json:"token_expiration" koanf:"token_expiration"`
	TokenLookup     string   `json:"token_lookup" koanf:"token_lookup"`
	AuthScheme      string   `json:"auth_scheme" koanf:"auth_scheme"`
	Issuer          string   `json:"issuer" koanf:"issuer"`
	Audience        []string `json:"audience" koanf:"audience"`
	PasswordCost    int      `json:"password_cost" koanf:"password_cost"`
}

type Server struct {
	Address string `json:"address" koanf:"address"`
}

type Persistence struct {
	Driver                string `json:"driver" koanf:"driver"`
	DSN                   string `json:"dsn" koanf:"dsn"`
	PingTimeoutExpression string `json:"ping_timeout" koanf:"ping_timeout"`
	Debug                 bool   `json:"debug" koanf:"debug"`
}

func (a *BaseConfig) Validate() error {
	if a.Auth.SigningKey == "" {
		return errors.New("auth.signing_key is required", errors.CategoryValidation)
	}

	if a.Auth.TokenExpiration <= 0 {
		return errors.New("auth.token_expiration must be positive", errors.CategoryValidation)
	}

	if a.Persistence.DSN == "" {
		return errors.New("persistence.dsn is required", errors.CategoryValidation)
	}

	return nil
}

func (a *BaseConfig) GetApp() App                 { return a.App }
func (a *BaseConfig) GetAuth() *Auth              { return &a.Auth }
func (a *BaseConfig) GetServer() Server           { return a.Server }
func (a *BaseConfig) GetPersistence() Persistence { return a.Persistence }

func (a App) GetName() string { return a.Name }
func (a App) GetEnv() string  { return a.Env }

func (s Server) GetAddress() string {
	if s.Address == "" {
		return ":8080"
	}
	return s.Address
}

func (a *Auth) GetSigningKey() string { return a.SigningKey }

func (a *Auth) GetSigningMethod() string {
	if a.SigningMethod == "" {
		return "HS256"
	}
	return a.SigningMethod
}

func (a *Auth) GetContextKey() string {
	if a.ContextKey == "" {
		return "user_credentials"
	}
	return a.ContextKey
}

func (a *Auth) GetTokenExpiration() int { return a.TokenExpiration }

func (a *Auth) GetTokenLookup() string {
	if a.TokenLookup == "" {
		return "header:Authorization,cookie:" + a.GetContextKey()
	}
	return a.TokenLookup
}

func (a *Auth) GetAuthScheme() string {
	if a.AuthScheme == "" {
		return "Bearer"
	}
	return a.AuthScheme
}

func (a *Auth) GetIssuer() string { return a.Issuer }

func (a *Auth) GetAudience() []string { return a.Audience }

func (a *Auth) GetPasswordCost() int { return a.PasswordCost }

func (p Persistence) GetDriver() string {
	if p.Driver == "" {
		return "sqlite"
	}
	return p.Driver
}

func (p Persistence) GetDSN() string { return p.DSN }

func (p Persistence) GetDebug() bool { return p.Debug }

func (p Persistence) GetPingTimeout() time.Duration {
	if p.PingTimeoutExpression == "" {
		return 5 * time.Second
	}

	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}
