package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/yashsdhond/expense-tracker-mcp-server/internal/amqp"
	"github.com/yashsdhond/expense-tracker-mcp-server/internal/categories"
	"github.com/yashsdhond/expense-tracker-mcp-server/internal/cli"
	apphttp "github.com/yashsdhond/expense-tracker-mcp-server/internal/http"
	applog "github.com/yashsdhond/expense-tracker-mcp-server/internal/log"
	"github.com/yashsdhond/expense-tracker-mcp-server/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.OpenStore(logger, cfg.SQLiteDBPath)

	// AMQP is optional: without a broker the API still records expenses,
	// it just stops emitting created events.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	svc := services.NewExpenseService(store, amqpClient)
	defer svc.Close()

	cats, err := categories.Load()
	if err != nil {
		logger.Error("Failed to load categories", applog.FieldError, err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, cats, cfg.RateLimitPerMinute)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	})

	logger.Info("Starting expensed server", "port", cfg.Port, "db_path", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
