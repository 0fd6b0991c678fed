// server runs the account service: the REST API on HTTP_ADDR and the gRPC
// health surface on GRPC_ADDR. Without DATABASE_URL it runs on in-memory
// stores seeded with the demo accounts.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"hotel-booking-account/backend/internal/config"
	"hotel-booking-account/backend/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.SetupDefault(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
	log.Info("server stopped")
}
