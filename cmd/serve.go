package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"registry-sync/core/config"
	"registry-sync/core/database"
	"registry-sync/core/loader"
	"registry-sync/core/logger"
	"registry-sync/core/metrics"
	"registry-sync/core/middleware/auth"
	"registry-sync/core/middleware/rayid"
	"registry-sync/feature/health"
	"registry-sync/feature/packages"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "registry-sync/docs/swagger"
)

// @title Registry Sync API
// @version 1.0
// @description Read API over the reconciled package registry.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the registry read API",
	Long:  `Starts the HTTP server exposing stored packages, recent runs and metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		// the API still answers heartbeats without a database
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Database connection failed", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to registry database", zap.String("driver", cfg.Database.Driver))
		}

		app, err := newServer(cfg, db, logg)
		if err != nil {
			return err
		}

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

// newServer builds the Fiber app with middleware and features. db may be nil.
func newServer(cfg *config.Config, db *gorm.DB, logg *zap.Logger) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout(),
	})

	mgr := loader.NewManager(logg)
	mgr.Register(health.NewFeature(db, metrics.New().RegisterRuntime(), logg))
	mgr.Register(packages.NewFeature(db, logg))

	// RayID must be first to trace everything
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Swagger is public, mounted ahead of auth
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{"/heartbeat"}}))

	if err := mgr.LoadAll(app); err != nil {
		return nil, err
	}
	return app, nil
}
