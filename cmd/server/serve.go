package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/spf13/cobra"

	"github.com/arturoeanton/go-repo-onboarding/internal/handler"
	"github.com/arturoeanton/go-repo-onboarding/internal/mcp"
	"github.com/arturoeanton/go-repo-onboarding/internal/metrics"
	"github.com/arturoeanton/go-repo-onboarding/internal/middleware"
	"github.com/arturoeanton/go-repo-onboarding/pkg/config"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, false)
	if err := cfg.Validate(); err != nil {
		return err
	}

	m := metrics.New()
	stack, err := newServerStack(cfg, logger, m)
	if err != nil {
		return err
	}
	defer func() {
		if err := stack.connector.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing database")
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("port", cfg.Port).
		Str("model", cfg.GroqModel).
		Bool("mcp_enabled", cfg.MCPEnabled).
		Msg("starting onboarding api")

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 30*time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logger, m))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowCredentials: true,
	}))

	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	api := app.Group("/api")
	api.Get("/health", handler.Health(cfg.AppName, version))

	session := middleware.JWTMiddleware(stack.jwt)
	handler.NewAuthHandler(stack.auth, cfg.FrontendURL, logger).Register(api, session)
	handler.NewAnalysisHandler(stack.analysis, stack.chat, stack.conventions, stack.auth, logger).Register(api, session)
	handler.NewAssessmentHandler(stack.assessment, logger).Register(api, session)
	handler.NewRepoHandler(stack.repo, stack.auth, logger).Register(api, session)

	// MCP server (separate port)
	var mcpServer *mcp.Server
	if cfg.MCPEnabled {
		mcpServer = mcp.NewServer(cfg.AppName, version, stack.analysis, stack.chat, stack.conventions, logger)
		go func() {
			if err := mcpServer.Start(":" + cfg.MCPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("mcp server failed")
			}
		}()
	}

	err = app.Listen(":"+cfg.Port, fiber.ListenConfig{
		GracefulContext:       ctx,
		ShutdownTimeout:       10 * time.Second,
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	if mcpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := mcpServer.Shutdown(shutdownCtx); serr != nil {
			logger.Warn().Err(serr).Msg("mcp shutdown")
		}
	}
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
