package production

import (
	"context"
	"database/sql"
	"strconv"

	"tiffinwale/internal/common/httpx"
	"tiffinwale/internal/common/logger"
	"tiffinwale/internal/microservices/production/handlers"
	"tiffinwale/internal/microservices/production/service"

	"go.uber.org/zap"
)

// Run wires the production service and serves until ctx is cancelled.
// Read-only: it never writes to the order store and needs no broker.
func Run(ctx context.Context, port int, db *sql.DB) error {
	lg := logger.New("production-service")
	defer func() { _ = lg.Sync() }()

	svc := service.New(db, lg)
	h := handlers.New(svc)
	mux := handlers.Router(h)

	lg.Info("service_started", zap.Int("port", port))
	return httpx.New(":"+strconv.Itoa(port), mux).Run(ctx)
}
