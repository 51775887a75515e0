package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-user-service/middleware/jwtware"
)

// RouteAuthenticator binds the Authenticator to an HTTP surface: it issues
// the credential on both transports (cookie and Authorization header) and
// guards protected routes.
type RouteAuthenticator struct {
	auth         Authenticator
	cfg          Config
	Logger       Logger
	ErrorHandler func(c *fiber.Ctx, err error) error
	validators   []TokenValidator
}

func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	a := &RouteAuthenticator{
		cfg:    cfg,
		auth:   auther,
		Logger: defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

func (a *RouteAuthenticator) WithLogger(l Logger) *RouteAuthenticator {
	if l != nil {
		a.Logger = l
	}
	return a
}

// WithTokenValidators appends validators for credentials the service did not
// mint itself, e.g. externally issued tokens verified against a JWK set.
// They run after the service's own validator; call before building guards.
func (a *RouteAuthenticator) WithTokenValidators(validators ...TokenValidator) *RouteAuthenticator {
	a.validators = append(a.validators, validators...)
	return a
}

func (a *RouteAuthenticator) tokenValidator() TokenValidator {
	primary := TokenValidatorFunc(a.auth.TokenService().Validate)
	if len(a.validators) == 0 {
		return primary
	}

	chain := make([]TokenValidator, 0, len(a.validators)+1)
	chain = append(chain, primary)
	chain = append(chain, a.validators...)

	return NewMultiTokenValidator(chain...)
}

// ProtectedRoute returns the JWT guard middleware. Tokens are looked up on
// every transport the login handler writes to, so a client can authenticate
// with either the cookie or the bearer header.
func (a *RouteAuthenticator) ProtectedRoute(errorHandler func(*fiber.Ctx, error) error) fiber.Handler {
	return jwtware.New(jwtware.Config{
		ErrorHandler: errorHandler,
		SigningKey: jwtware.SigningKey{
			Key:    []byte(a.cfg.GetSigningKey()),
			JWTAlg: a.cfg.GetSigningMethod(),
		},
		AuthScheme:      a.cfg.GetAuthScheme(),
		ContextKey:      a.cfg.GetContextKey(),
		TokenLookup:     a.cfg.GetTokenLookup(),
		TokenValidator:  jwtware.TokenValidatorAdapter(a.tokenValidator().Validate),
		ContextEnricher: ContextEnricherAdapter,
	})
}

// Login authenticates the payload and, on success, writes the credential to
// both transports. The cookie expires at the token's own expiry instant so
// the two can never disagree.
func (a *RouteAuthenticator) Login(c *fiber.Ctx, payload LoginPayload) (string, error) {
	token, expiresAt, err := a.auth.Login(c.UserContext(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login error", "error", err)
		return "", err
	}

	a.setCookieToken(c, token, expiresAt)
	c.Set(fiber.HeaderAuthorization, a.cfg.GetAuthScheme()+" "+token)

	return token, nil
}

// Logout instructs the client to drop the credential. The server keeps no
// session state, so logging out an already logged out client is a no-op
// that still succeeds.
func (a *RouteAuthenticator) Logout(c *fiber.Ctx) {
	a.cookieDel(c, a.cfg.GetContextKey())
	c.Set(fiber.HeaderAuthorization, "")
}

// MakeAPIAuthErrorHandler classifies guard failures into the JSON error
// envelope. Expired and malformed tokens get distinct text codes; anything
// else collapses into a generic invalid-token 401.
func (a *RouteAuthenticator) MakeAPIAuthErrorHandler() func(*fiber.Ctx, error) error {
	return func(c *fiber.Ctx, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else if errors.As(err, &richErr) && richErr.Category == errors.CategoryAuth {
			// keep the classified error
		} else {
			richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
				WithCode(errors.CodeUnauthorized).
				WithTextCode(TextCodeTokenMalformed)
		}

		return a.ErrorHandler(c, richErr)
	}
}

func (a *RouteAuthenticator) setCookieToken(c *fiber.Ctx, val string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     a.cfg.GetContextKey(),
		Value:    val,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) cookieDel(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) defaultErrHandler(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Auth middleware error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	return JSONError(c, richErr)
}
