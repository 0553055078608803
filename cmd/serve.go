package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"backup-validator/core/config"
	"backup-validator/core/loader"
	"backup-validator/core/logger"
	"backup-validator/core/middleware/auth"
	"backup-validator/core/middleware/rayid"
	"backup-validator/core/scheduler"
	"backup-validator/core/storage"
	"backup-validator/feature/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "backup-validator/docs/swagger"
)

// @title Backup Validator API
// @version 1.0
// @description API for running and inspecting backup replication validations.
// @host localhost:8080
// @BasePath /

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the validation API server",
	Long: `Starts the HTTP API for on-demand validation runs and, when server.schedule
is set, runs validations periodically.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if err := cfg.Server.ValidSchedule(); err != nil {
			logg.Fatal("Invalid schedule", zap.String("schedule", cfg.Server.Schedule), zap.Error(err))
		}

		// 3. Run history (Optional)
		history := openHistory(cfg.Database, logg)

		// 4. Initialize Storage
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
		store := storage.NewObjectStore(client, cfg.Storage, logg)
		svc := validation.NewService(client, store, cfg.Validation, history, logg)

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		mgr := loader.NewManager(logg)
		mgr.Register(validation.NewFeature(svc))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
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

		// 3. Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		// 4. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Scheduled runs
		var sched *scheduler.Scheduler
		if cfg.Server.HasSchedule() {
			sched, err = scheduler.New(cfg.Server.Schedule, func(ctx context.Context) error {
				_, err := svc.RunShared(ctx, svc.Config())
				return err
			}, logg)
			if err != nil {
				logg.Fatal("Failed to create scheduler", zap.Error(err))
			}
			sched.Start()
			logg.Info("Scheduled validation enabled", zap.String("schedule", cfg.Server.Schedule))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		if sched != nil {
			sched.Stop()
		}
		svc.Close()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
