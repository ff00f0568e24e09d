package orders

import (
	"context"
	"database/sql"
	"strconv"

	"tiffinwale/internal/common/httpx"
	"tiffinwale/internal/common/logger"
	"tiffinwale/internal/connections/rabbitmq"
	"tiffinwale/internal/microservices/orders/handlers"
	"tiffinwale/internal/microservices/orders/service"

	"go.uber.org/zap"
)

// Run wires the orders service and serves until ctx is cancelled.
func Run(ctx context.Context, port int, db *sql.DB, rmq *rabbitmq.Client) error {
	lg := logger.New("orders-service")
	defer func() { _ = lg.Sync() }()

	svc := service.New(db, rmq, lg)
	h := handlers.New(svc)
	mux := handlers.Router(h)

	lg.Info("service_started", zap.Int("port", port))
	return httpx.New(":"+strconv.Itoa(port), mux).Run(ctx)
}
