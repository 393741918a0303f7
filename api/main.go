package api

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brpaz/echozap"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	oapiMiddleware "github.com/oapi-codegen/echo-middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/caremesh/healthcare/auth"
	"github.com/caremesh/healthcare/authz"
	"github.com/caremesh/healthcare/config"
	"github.com/caremesh/healthcare/doctors"
	"github.com/caremesh/healthcare/errors"
	"github.com/caremesh/healthcare/logger"
	"github.com/caremesh/healthcare/mappings"
	"github.com/caremesh/healthcare/patients"
	"github.com/caremesh/healthcare/reports"
	"github.com/caremesh/healthcare/store"
	"github.com/caremesh/healthcare/users"
)

// Routes that are reachable without an access token. The openapi document
// marks the corresponding operations as public so the authorizer is not
// invoked for them either.
var publicRoutes = []string{
	"/ready",
	"/health",
	"/api/auth/register",
	"/api/auth/login",
	"/api/auth/refresh",
}

var probeRoutes = []string{
	"/ready",
	"/health",
}

func Start(e *echo.Echo, cfg *config.Config, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(fmt.Sprintf(":%d", cfg.HttpPort)); err != nil {
					fmt.Println(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

func RunMigrations(db *sql.DB, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return store.Migrate(ctx, db)
		},
		OnStop: nil,
	})
}

func SetReady(healthCheck *HealthCheck, db *sql.DB, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return err
			}

			// Lifecycle hooks run in topological order, so migrations have
			// already been applied when readiness flips.
			healthCheck.SetReady(true)
			return nil
		},
		OnStop: nil,
	})
}

func NewServer(cfg *config.Config, log *zap.Logger, handler *Handler, healthCheck *HealthCheck, authorizer authz.RequestAuthorizer, authenticator auth.Authenticator) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.Debug

	swagger, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	// Do not validate servers in the open api spec
	swagger.Servers = nil

	probeSkipper := RouteSkipper(probeRoutes)
	authMiddleware := auth.NewAuthMiddleware(authenticator, auth.AuthMiddlewareOpts{
		Skipper: RouteSkipper(publicRoutes),
	})
	requestValidator := oapiMiddleware.OapiRequestValidatorWithOptions(swagger, &oapiMiddleware.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: authorizer.Authorize,
		},
		Skipper: probeSkipper,
	})

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(echozap.ZapLogger(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))
	e.Use(authMiddleware)
	e.Use(requestValidator)

	e.HTTPErrorHandler = errors.CustomHTTPErrorHandler

	e.GET("/ready", healthCheck.Ready)
	e.GET("/health", healthCheck.Health)
	RegisterHandlers(e, handler)

	return e, nil
}

func Dependencies() []fx.Option {
	return []fx.Option{
		fx.Provide(
			config.NewConfig,
			logger.NewProductionLogger,
			logger.Suggar,
			store.NewConfig,
			store.GetConnectionString,
			store.NewClient,
			users.NewRepository,
			users.NewService,
			auth.NewConfig,
			auth.NewTokenIssuer,
			auth.NewRefreshTokenRepository,
			auth.NewAuthenticator,
			auth.NewService,
			patients.NewRepository,
			patients.NewService,
			doctors.NewRepository,
			doctors.NewService,
			mappings.NewRepository,
			mappings.NewService,
			mappings.NewDoctorCounter,
			mappings.NewPatientCounter,
			authz.NewRequestAuthorizer,
			reports.NewGenerator,
			NewHealthCheck,
			NewHandler,
			NewServer,
		),
	}
}

func MainLoop() {
	options := append(Dependencies(),
		fx.Invoke(RunMigrations),
		fx.Invoke(SetReady),
		fx.Invoke(Start),
	)
	fx.New(options...).Run()
}
