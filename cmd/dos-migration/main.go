package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/ftrs/dos-migration/internal/domain/healthcareservice"
	"github.com/ftrs/dos-migration/internal/domain/location"
	"github.com/ftrs/dos-migration/internal/domain/migrationrun"
	"github.com/ftrs/dos-migration/internal/domain/organisation"
	"github.com/ftrs/dos-migration/internal/migration/application"
	"github.com/ftrs/dos-migration/internal/platform/auth"
	"github.com/ftrs/dos-migration/internal/platform/db"
	"github.com/ftrs/dos-migration/internal/platform/docstore"
	"github.com/ftrs/dos-migration/internal/platform/metrics"
	"github.com/ftrs/dos-migration/internal/platform/middleware"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dos-migration",
		Short:         "Migrate DoS services into the FHIR service directory",
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(syncCmd())
	root.AddCommand(transformCmd())
	root.AddCommand(referenceDataCmd())
	root.AddCommand(queueCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(restoreCmd())
	root.AddCommand(migrateCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the migration trigger API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	ctx := context.Background()
	env, err := connect(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	logger := env.zl
	logger.Info().Str("env", env.cfg.Env).Str("workspace", env.cfg.Workspace).Msg("connected to databases")

	metrics.Init(env.pools())

	e := newServer(env)

	go func() {
		addr := ":" + env.cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func newServer(env *env) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(env.zl))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(env.zl))

	if env.cfg.IsLocal() && env.cfg.AuthSigningKey == "" {
		env.zl.Warn().Msg("AUTH_SIGNING_KEY not set, all scopes granted to every caller")
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     auth.DefaultIssuer,
			SigningKey: []byte(env.cfg.AuthSigningKey),
			Skipper:    auth.AuthSkipper,
		}))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(env.pools()))
	e.GET("/metrics", metrics.Handler())

	api := e.Group("")
	application.NewHandler(env.application()).RegisterRoutes(api)

	migrationrun.NewHandler(env.runs()).RegisterRoutes(api)

	fhirGroup := e.Group("/fhir", auth.RequireScope(auth.ScopeRead))
	organisation.NewHandler(organisation.NewRepoDocstore(env.docs, env.tables(docstore.EntityOrganisation))).RegisterRoutes(fhirGroup)
	location.NewHandler(location.NewRepoDocstore(env.docs, env.tables(docstore.EntityLocation))).RegisterRoutes(fhirGroup)
	healthcareservice.NewHandler(healthcareservice.NewRepoDocstore(env.docs, env.tables(docstore.EntityHealthcareService))).RegisterRoutes(api, fhirGroup)

	return e
}
