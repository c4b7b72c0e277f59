// Stand-alone stub backend for local development and demos. The client
// binary points at it with API_BASE_URL=http://localhost:8080.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/marcuslira2/task-manager-front/internal/stubserver"
)

func main() {
	cfg := stubserver.DefaultConfig()
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database path")
	flag.StringVar(&cfg.JWTSecret, "secret", envOr("STUB_JWT_SECRET", cfg.JWTSecret), "token signing secret")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	srv, err := stubserver.New(cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to start stub server", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		sugar.Fatalw("stub server failed", "err", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
