package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/noah-isme/flowcoach-api/internal/database"
	"github.com/noah-isme/flowcoach-api/internal/handler"
	"github.com/noah-isme/flowcoach-api/internal/middleware"
	"github.com/noah-isme/flowcoach-api/internal/repository"
	"github.com/noah-isme/flowcoach-api/internal/router"
	"github.com/noah-isme/flowcoach-api/internal/service"
	"github.com/noah-isme/flowcoach-api/internal/utils"
	"github.com/noah-isme/flowcoach-api/pkg/ai"
)

var (
	autoMigrate bool
	accessLog   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := boot()
		if err != nil {
			return err
		}
		return serve(rt)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "migrate the database before serving")
	serveCmd.Flags().BoolVar(&accessLog, "access-log", false, "write an access log line per request")
}

func serve(rt *runtime) error {
	cfg, logger := rt.cfg, rt.logger

	if autoMigrate {
		if err := database.Migrate(rt.db); err != nil {
			return err
		}
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		return err
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	if cfg.OpenAIAPIKey == "" {
		logger.Warn().Msg("OpenAI API key not configured; generation and evaluation requests will fail")
	}
	completer := ai.NewOpenAIClient(ai.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
		Logger:  logger,
	})
	model := completer.Model()

	userRepo := repository.NewUserRepository(rt.db)
	useCaseRepo := repository.NewUseCaseRepository(rt.db)
	workflowRepo := repository.NewWorkflowSubmissionRepository(rt.db)
	documentRepo := repository.NewJSONSubmissionRepository(rt.db)

	events := service.NewSubmissionPublisher(redisClient, natsConn, cfg.EventsChannel, logger)
	userService := service.NewUserService(userRepo, rt.validate, logger)
	useCaseService := service.NewUseCaseService(useCaseRepo, completer, model, rt.validate, logger)
	workflowService := service.NewWorkflowEvaluationService(workflowRepo, completer, model, events, rt.validate, logger)
	jsonService := service.NewJSONEvaluationService(documentRepo, completer, model, events, cfg.MaxUploadBytes, rt.validate, logger)
	viewService := service.NewViewService(useCaseService, workflowService, jsonService, logger)
	historyService := service.NewHistoryService(workflowRepo, documentRepo, logger)
	adminService := service.NewAdminService(workflowRepo, documentRepo, redisClient, cfg.AdminCacheTTL, cfg.AdminWindow, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		BodyLimit:    int(cfg.MaxUploadBytes) + 64<<10,
		ErrorHandler: errorHandler(logger),
	})

	middleware.Register(app, middleware.Config{
		Logger:      &logger,
		MetricsPath: router.MetricsPath,
		AccessLog:   accessLog,
	})
	router.Register(app, cfg, router.Dependencies{
		FunctionHandler: handler.NewFunctionHandler(useCaseService, workflowService, jsonService, logger),
		ViewHandler:     handler.NewViewHandler(userService, viewService, historyService, logger),
		AdminHandler:    handler.NewAdminHandler(adminService, logger),
		Users:           userService,
		Logger:          logger,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("model", model).Msg("starting server")
		errCh <- app.Listen(cfg.HTTPAddress())
	}()

	return waitForShutdown(app, logger, errCh)
}

func errorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "internal server error"
		if fiberErr, ok := err.(*fiber.Error); ok {
			status = fiberErr.Code
			message = fiberErr.Message
		}
		if status >= fiber.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.Path()).Str("correlation_id", middleware.GetCorrelationID(c)).Msg("unhandled error")
		}
		return utils.SendError(c, status, message)
	}
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger, errCh <-chan error) error {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-shutdownCtx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
