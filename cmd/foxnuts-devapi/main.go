package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/five82/foxnuts/internal/logging"
	"github.com/five82/foxnuts/internal/mockapi"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", envOr("FOXNUTS_DEVAPI_ADDR", "127.0.0.1:5000"), "listen address")
	secret := flag.String("secret", envOr("FOXNUTS_DEVAPI_SECRET", ""), "token signing secret (optional)")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger, closeLog, err := logging.New(logging.Options{Service: "foxnuts-devapi", Level: *level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "foxnuts-devapi: %v\n", err)
		return 1
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mockapi.New(mockapi.Options{Secret: *secret, Logger: logger}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dev api listening", slog.String("address", *addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
			return 1
		}
	}
	return 0
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
