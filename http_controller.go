package auth

import (
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// APIBasePath prefixes every route the service exposes.
const APIBasePath = "/api/v1"

// HTTPAuthenticator is the surface controllers need from the route
// authenticator.
type HTTPAuthenticator interface {
	Login(c *fiber.Ctx, payload LoginPayload) (string, error)
	Logout(c *fiber.Ctx)
	ProtectedRoute(errorHandler func(*fiber.Ctx, error) error) fiber.Handler
	MakeAPIAuthErrorHandler() func(*fiber.Ctx, error) error
}

var _ HTTPAuthenticator = (*RouteAuthenticator)(nil)

// RegisterAuthRoutes mounts signup, signin, and signout under the API root.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController) {
	grp := app.Group(APIBasePath + "/auth")

	grp.Post("/signup", controller.Signup)
	grp.Post("/signin", controller.Signin)
	grp.Get("/signout", controller.Signout)
}

// RegisterUserRoutes mounts the user read endpoints under the API root. The
// list route carries no guard; the detail route is self-only.
func RegisterUserRoutes(app fiber.Router, controller *UsersController) {
	grp := app.Group(APIBasePath + "/users")

	grp.Get("/", controller.List)
	grp.Get("/:id", controller.Guard, controller.Show)
}

type AuthController struct {
	Logger Logger
	Repo   RepositoryManager
	Auther HTTPAuthenticator
	cfg    Config
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing HTTPAuthenticator in auth controller...")
	}

	return c
}

func WithAuthControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

func WithAuthControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithAuthControllerAuther(auther HTTPAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithAuthControllerConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.cfg = cfg
		return c
	}
}

// SignupRequest payload
type SignupRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r SignupRequest) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(
				&r.Email,
				validation.Required,
				is.Email,
			),
			validation.Field(
				&r.Password,
				validation.Required,
				validation.Length(8, 64),
				validation.By(passwordStrength),
			),
		)
	}, "Invalid signup request payload")
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Email
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(
				&r.Email,
				validation.Required,
				is.Email,
			),
			validation.Field(
				&r.Password,
				validation.Required,
			),
		)
	}, "Invalid login request payload")
}

// passwordStrength enforces at least one uppercase letter, one lowercase
// letter, and one digit or symbol.
func passwordStrength(value any) error {
	s, _ := value.(string)

	var upper, lower, other bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r), unicode.IsPunct(r), unicode.IsSymbol(r):
			other = true
		}
	}

	if !upper || !lower || !other {
		return validation.NewError(
			"validation_password_strength",
			"must contain an uppercase letter, a lowercase letter, and a digit or symbol",
		)
	}

	return nil
}

// Signup creates the user record. No credential is issued here; signin is a
// separate step.
func (a *AuthController) Signup(c *fiber.Ctx) error {
	payload := new(SignupRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("signup parse payload", "error", err)
		return JSONError(c, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("signup validate payload", "error", err)
		return JSONError(c, err)
	}

	var record *User
	msg := RegisterUserMessage{
		Email:    payload.Email,
		Password: payload.Password,
		OnResponse: func(u *User) {
			record = u
		},
	}

	if a.cfg != nil {
		msg.PasswordCost = a.cfg.GetPasswordCost()
	}

	registerUser := NewRegisterUserHandler(a.Repo)
	if err := registerUser.Execute(c.UserContext(), msg); err != nil {
		a.Logger.Error("signup execute", "error", err)
		return JSONError(c, err)
	}

	return JSONSuccess(c, fiber.StatusCreated, "user created", record.Public())
}

// Signin authenticates and hands the credential back on both transports.
func (a *AuthController) Signin(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("signin parse payload", "error", err)
		return JSONError(c, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("signin validate payload", "error", err)
		return JSONError(c, err)
	}

	token, err := a.Auther.Login(c, payload)
	if err != nil {
		a.Logger.Error("signin login", "error", err)
		return JSONError(c, err)
	}

	return JSONSuccess(c, fiber.StatusOK, "user logged in", fiber.Map{
		"token": token,
	})
}

// Signout tells the client to drop its credential. There is nothing to
// revoke server side, so repeated calls all succeed.
func (a *AuthController) Signout(c *fiber.Ctx) error {
	a.Auther.Logout(c)
	return JSONSuccess(c, fiber.StatusOK, "user logged out", nil)
}

type UsersController struct {
	Logger Logger
	Repo   RepositoryManager
	Auther HTTPAuthenticator
	cfg    Config
	guard  fiber.Handler
}

func NewUsersController(repo RepositoryManager, auther HTTPAuthenticator, cfg Config) *UsersController {
	if repo == nil {
		panic("Missing RepositoryManager in users controller...")
	}

	if auther == nil {
		panic("Missing HTTPAuthenticator in users controller...")
	}

	if cfg == nil {
		panic("Missing Config in users controller...")
	}

	return &UsersController{
		Logger: defLogger{},
		Repo:   repo,
		Auther: auther,
		cfg:    cfg,
		guard:  auther.ProtectedRoute(auther.MakeAPIAuthErrorHandler()),
	}
}

func (u *UsersController) WithLogger(l Logger) *UsersController {
	if l != nil {
		u.Logger = l
	}
	return u
}

// Guard is the JWT middleware for the detail route.
func (u *UsersController) Guard(c *fiber.Ctx) error {
	return u.guard(c)
}

// List returns every user as {id, email}. The route is open, no guard runs
// before it.
func (u *UsersController) List(c *fiber.Ctx) error {
	records, err := u.Repo.Users().ListPublic(c.UserContext())
	if err != nil {
		u.Logger.Error("users list", "error", err)
		return JSONError(c, err)
	}

	return JSONSuccess(c, fiber.StatusOK, "users", records)
}

// Show returns the caller's own record. The lookup runs first: a missing id
// is a 404, a live record owned by someone else gets the same not-found
// message with a forbidden status.
func (u *UsersController) Show(c *fiber.Ctx) error {
	id := c.Params("id")

	claims, ok := ClaimsFromFiber(c, u.cfg.GetContextKey())
	if !ok {
		return JSONError(c, ErrMissingCredential)
	}

	record, err := u.Repo.Users().GetByID(c.UserContext(), id)
	if err != nil {
		if errors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			return JSONError(c, ErrUserNotFound)
		}
		u.Logger.Error("users show", "error", err)
		return JSONError(c, err)
	}

	if record == nil {
		return JSONError(c, ErrUserNotFound)
	}

	if claims.UserID() != id {
		u.Logger.Warn("users show ownership rejected", "caller", claims.UserID())
		return JSONError(c, ErrOwnershipRequired)
	}

	return JSONSuccess(c, fiber.StatusOK, "user", record.Public())
}
