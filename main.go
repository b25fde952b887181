package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/username/chindiferencia/backend/src/config"
	"github.com/username/chindiferencia/backend/src/handlers"
	"github.com/username/chindiferencia/backend/src/logger"
	"github.com/username/chindiferencia/backend/src/parsers/agent"
	"github.com/username/chindiferencia/backend/src/parsers/counterparty"
	"github.com/username/chindiferencia/backend/src/processors"
	"github.com/username/chindiferencia/backend/src/services"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Chindiferencia backend server starting...",
		"timezone", config.Cfg.Location.String(),
		"adminChargePattern", config.Cfg.AdminChargePattern.String())

	reconciliationService := services.NewReconciliationService(
		agent.NewParser(config.Cfg.AdminChargePattern, config.Cfg.Location),
		counterparty.NewParser(config.Cfg.Location),
		processors.NewReconciliationProcessor(),
	)
	sessionStore := services.NewSessionStore(
		config.Cfg.SessionTTL,
		config.Cfg.SessionCleanupInterval,
		processors.NewSummaryProcessor(),
	)

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handlers.NewRouter(config.Cfg, reconciliationService, sessionStore),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.L.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.L.Error("Graceful shutdown failed", "error", err)
		}
	}()

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
