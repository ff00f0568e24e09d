package service

import (
	"context"
	"database/sql"
	"time"

	"tiffinwale/internal/connections/rabbitmq"
	"tiffinwale/internal/domain"
	"tiffinwale/internal/microservices/orders/repository"

	"go.uber.org/zap"
)

// EventPublisher is the slice of the rabbitmq client the service needs.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

type OrdersServiceInterface interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	ListOrders(ctx context.Context, f repository.ListFilter) ([]domain.Order, error)
	Transition(ctx context.Context, orderID string, target domain.OrderStatus, actor domain.Actor, reason string) (domain.Order, error)
	Timeline(ctx context.Context, orderID string, limit, offset int) ([]domain.StatusChange, error)
}

type OrdersService struct {
	repo repository.OrdersRepositoryInterface
	pub  EventPublisher
	lg   *zap.Logger
	now  func() time.Time
}

func New(db *sql.DB, rmq *rabbitmq.Client, lg *zap.Logger) *OrdersService {
	s := &OrdersService{
		repo: repository.NewOrdersRepository(db),
		lg:   lg,
		now:  func() time.Time { return time.Now().UTC() },
	}
	if rmq != nil {
		s.pub = rmq
	}
	return s
}
