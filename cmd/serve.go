package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mlist-manager/core/loader"
	"mlist-manager/core/logger"
	"mlist-manager/core/middleware/auth"
	"mlist-manager/core/middleware/rayid"
	"mlist-manager/feature/history"
	"mlist-manager/feature/roster"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the roster summary and run history over HTTP",
		Long: `Starts a read-only HTTP server exposing GET /roster and, when the history
database is enabled, GET /history. Requests must carry X-API-Key when server.api_key is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()

	// 1. Load Configuration
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	// 2. Initialize Logger
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	// 3. Roster service with optional history and mirror
	svc, repo, closeSvc := newRosterService(ctx, cfg, logg)
	defer closeSvc()

	app, err := newApp(logg, cfg.Server.ApiKey, roster.NewFeature(svc), history.NewFeature(repo, logg))
	if err != nil {
		return err
	}

	// 4. Start Server
	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("port", cfg.Server.Port))
		errCh <- app.Listen(cfg.Server.Addr())
	}()

	// 5. Graceful Shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-sig:
	case <-ctx.Done():
	}

	logg.Info("Shutting down server...")
	return app.Shutdown()
}

// newApp builds the fiber app with the middleware chain and the given features.
func newApp(logg *zap.Logger, apiKey string, features ...loader.Feature) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every later log line carries it.
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

	app.Use(auth.New(auth.Config{ApiKey: apiKey}))

	mgr := loader.NewManager()
	for _, f := range features {
		mgr.Register(f)
	}
	loaded, err := mgr.LoadAll(app)
	if err != nil {
		return nil, fmt.Errorf("failed to load features: %w", err)
	}
	logg.Info("Features loaded", zap.Strings("features", loaded))

	return app, nil
}
