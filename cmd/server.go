package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/hrportal/analytics/analyticsapi"
	"github.com/Abraxas-365/hrportal/chatbot/chatbotapi"
	"github.com/Abraxas-365/hrportal/onboarding/onboardingapi"
	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/Abraxas-365/hrportal/pkg/logx"
	"github.com/Abraxas-365/hrportal/pkg/metrics"
	"github.com/Abraxas-365/hrportal/recruitment/application/applicationapi"
	"github.com/Abraxas-365/hrportal/recruitment/candidate/candidateapi"
	"github.com/Abraxas-365/hrportal/recruitment/job/jobapi"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
)

var withWorker bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&withWorker, "with-worker", false, "also run the parse workers in this process")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logx.Info("starting HR portal API", logx.String("env", cfg.App.Env))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	if withWorker {
		pool, err := startWorkers(ctx, container)
		if err != nil {
			return err
		}
		defer pool.Stop()
	}

	app := newServer(container)

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logx.Info("server listening", logx.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logx.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logx.Error("server forced to shutdown", logx.Err(err))
	}
	logx.Info("server exited")
	return nil
}

func newServer(c *Container) *fiber.App {
	cfg := c.Config

	app := fiber.New(fiber.Config{
		AppName:               "HR Portal API",
		DisableStartupMessage: true,
		BodyLimit:             cfg.Server.BodyLimitMB * 1024 * 1024,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler:          errx.FiberErrorHandler(logInternalError),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"status": "ok",
			"db":     c.DB.PingContext(ctx.Context()) == nil,
			"redis":  c.Redis.Ping(ctx.Context()).Err() == nil,
		})
	})
	app.Get("/metrics", metrics.Handler())

	limiter := func(ctx *fiber.Ctx) error { return ctx.Next() }
	if cfg.Server.RateLimit.Enabled {
		limiter = c.RateLimiter.Middleware()
	}

	// Recruitment: /api/jobs, /api/candidates, /api/applications, /api/public, /api/resumes
	jobapi.RegisterRoutes(app, c.JobHandlers, c.AuthMiddleware)
	candidateapi.RegisterRoutes(app, c.CandidateHandlers, c.AuthMiddleware)
	applicationapi.RegisterRoutes(app, c.ApplicationHandlers, c.AuthMiddleware, limiter)
	c.ResumeHandlers.RegisterRoutes(app, c.AuthMiddleware)

	// HR operations: /api/onboarding, /api/analytics, /api/chatbot
	onboardingapi.RegisterRoutes(app, c.OnboardingHandlers, c.AuthMiddleware)
	analyticsapi.RegisterRoutes(app, c.AnalyticsHandlers, c.AuthMiddleware)
	chatbotapi.RegisterRoutes(app, c.ChatbotHandlers, c.AuthMiddleware, limiter)

	return app
}

func logInternalError(c *fiber.Ctx, err error) {
	logx.Error("request failed",
		logx.String("method", c.Method()),
		logx.String("path", c.Path()),
		logx.Err(err))
}
