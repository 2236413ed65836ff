package cmd

import (
	"fmt"
	"time"

	"catalog-sync/core/loader"
	"catalog-sync/core/logger"
	"catalog-sync/core/metrics"
	"catalog-sync/core/middleware/auth"
	"catalog-sync/core/middleware/rayid"
	syncfeature "catalog-sync/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "catalog-sync/docs/swagger"
)

// @title Catalog Sync API
// @version 1.0
// @description Dropbox asset sync and SKU image matching.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the catalog sync server",
	Long:  `Starts the HTTP server exposing the sync triggers and run log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		logg := a.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		app := fiber.New(a.cfg.Server.FiberConfig())

		mgr := loader.NewManager(logg)
		mgr.Register(syncfeature.NewFeature(a.service, logg))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())
		app.Use(metrics.Middleware())
		app.Use(func(c *fiber.Ctx) error {
			start := time.Now()
			err := c.Next()
			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("latency", time.Since(start)),
			}
			l := logger.WithRayID(logg, c)
			if err != nil {
				l.Error("Request failed", append(fields, zap.Error(err))...)
				return err
			}
			l.Info("Request completed", fields...)
			return nil
		})

		// Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey, Skip: []string{"/swagger", "/metrics"}}))

		if err := mgr.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		go func() {
			logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			if err := app.Listen(a.cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		<-cmd.Context().Done()
		logg.Info("Shutting down server...")
		_ = app.Shutdown()

		// Background runs would otherwise be left running in the log.
		logg.Info("Waiting for background sync runs")
		a.service.Wait()
		return nil
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
