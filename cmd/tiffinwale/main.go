package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tiffinwale/internal/common/logger"
	"tiffinwale/internal/config"
	"tiffinwale/internal/connections/database"
	"tiffinwale/internal/connections/rabbitmq"
	"tiffinwale/internal/microservices/orders"
	"tiffinwale/internal/microservices/production"

	"go.uber.org/zap"
)

func main() {
	mode := flag.String("mode", "", "orders-service | production-service")
	port := flag.Int("port", 0, "http port")
	cfgPath := flag.String("config", "", "path to YAML config (default: search config.yaml, deploy/config.example.yaml)")
	flag.Parse()

	lg := logger.New("bootstrap")
	defer func() { _ = lg.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path := *cfgPath
	if path == "" {
		var err error
		if path, err = config.FindConfig(); err != nil {
			lg.Error("config_not_found", zap.Error(err))
			os.Exit(1)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		lg.Error("config_load_failed", zap.Error(err))
		os.Exit(1)
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		lg.Error("db_connect_failed", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	lg.Info("postgres_connected",
		zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Database))

	switch *mode {
	case "orders-service":
		if *port == 0 {
			*port = 3000
		}
		rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			lg.Error("rabbitmq_connect_failed", zap.Error(err))
			os.Exit(1)
		}
		defer rmq.Close()
		lg.Info("rabbitmq_connected", zap.String("host", cfg.RabbitMQ.Host))

		if err := orders.Run(ctx, *port, db, rmq); err != nil {
			lg.Error("fatal", zap.Error(err))
			os.Exit(1)
		}
	case "production-service":
		if *port == 0 {
			*port = 3001
		}
		if err := production.Run(ctx, *port, db); err != nil {
			lg.Error("fatal", zap.Error(err))
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: orders-service | production-service")
		os.Exit(2)
	}
}
