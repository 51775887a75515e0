package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	auth "github.com/goliatone/go-user-service"
	"github.com/goliatone/go-user-service/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"
)

type App struct {
	config *gconfig.Container[*config.BaseConfig]
	bunDB  *bun.DB
	auth   auth.Authenticator
	auther *auth.RouteAuthenticator
	repo   auth.RepositoryManager
	srv    *fiber.App
	logger *glog.BaseLogger
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("user-service"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	if err := cfg.Raw().Validate(); err != nil {
		panic(err)
	}

	fmt.Println(print.MaybePrettyJSON(cfg.Raw().GetApp()))

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	go func() {
		if err := app.srv.Listen(app.Config().GetServer().GetAddress()); err != nil {
			app.GetLogger("server").Error("server stopped", "error", err)
		}
	}()

	WaitExitSignal()

	if err := app.srv.Shutdown(); err != nil {
		app.GetLogger("server").Error("shutdown error", "error", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	pcfg := app.Config().GetPersistence()

	db, dialect, err := openDatabase(pcfg)
	if err != nil {
		return err
	}

	persistence.RegisterModel((*auth.User)(nil))

	client, err := persistence.New(pcfg, db, dialect)
	if err != nil {
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(auth.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}

	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	app.bunDB = client.DB()
	app.repo = auth.NewRepositoryManager(client.DB())

	return nil
}

// openDatabase picks the SQL driver and bun dialect from the configured DSN.
// Postgres schemes get pgdriver; everything else goes through the sqlite shim
// for local and test runs.
func openDatabase(pcfg config.Persistence) (*sql.DB, schema.Dialect, error) {
	dsn := pcfg.GetDSN()

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		connector := pgdriver.NewConnector(pgdriver.WithDSN(dsn))
		return sql.OpenDB(connector), pgdialect.New(), nil
	}

	db, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, nil, err
	}

	return db, sqlitedialect.New(), nil
}

func WithHTTPServer(ctx context.Context, app *App) error {
	acfg := app.Config().GetAuth()

	provider := auth.NewUserProvider(app.repo.Users())
	authenticator := auth.NewAuthenticator(provider, acfg).
		WithLogger(loggerAdapter{app.GetLogger("auth")})

	auther, err := auth.NewHTTPAuthenticator(authenticator, acfg)
	if err != nil {
		return err
	}
	auther.WithLogger(loggerAdapter{app.GetLogger("auth:http")})

	app.auth = authenticator
	app.auther = auther

	srv := fiber.New(fiber.Config{
		AppName:       app.Config().GetApp().GetName(),
		StrictRouting: false,
	})

	authController := auth.NewAuthController(
		auth.WithAuthControllerRepo(app.repo),
		auth.WithAuthControllerAuther(auther),
		auth.WithAuthControllerConfig(acfg),
		auth.WithAuthControllerLogger(loggerAdapter{app.GetLogger("auth:ctrl")}),
	)

	usersController := auth.NewUsersController(app.repo, auther, acfg).
		WithLogger(loggerAdapter{app.GetLogger("users:ctrl")})

	auth.RegisterAuthRoutes(srv, authController)
	auth.RegisterUserRoutes(srv, usersController)

	app.srv = srv

	return nil
}

func WaitExitSignal() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(
		quit,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	return <-quit
}

// loggerAdapter narrows a glog child logger to the root Logger interface.
type loggerAdapter struct {
	lgr glog.Logger
}

func (l loggerAdapter) Debug(format string, args ...any) { l.lgr.Debug(format, args...) }
func (l loggerAdapter) Info(format string, args ...any)  { l.lgr.Info(format, args...) }
func (l loggerAdapter) Warn(format string, args ...any)  { l.lgr.Warn(format, args...) }
func (l loggerAdapter) Error(format string, args ...any) { l.lgr.Error(format, args...) }
