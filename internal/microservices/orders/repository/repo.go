package repository

import (
	"context"
	"time"

	"tiffinwale/internal/domain"
)

// ListFilter narrows the partner-side order listing.
type ListFilter struct {
	PartnerID string
	Status    domain.OrderStatus
	Date      *time.Time
	Limit     int
	Offset    int
}

type OrdersRepositoryInterface interface {
	Create(ctx context.Context, o domain.Order) error
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	List(ctx context.Context, f ListFilter) ([]domain.Order, error)

	// UpdateStatus persists a transition conditioned on the previously read
	// status and appends the audit row in the same transaction. Returns
	// domain.ErrStaleState when the stored status no longer matches
	// expectedPrev, domain.ErrOrderNotFound when the order vanished.
	UpdateStatus(ctx context.Context, o domain.Order, expectedPrev domain.OrderStatus, change domain.StatusChange) error

	StatusLog(ctx context.Context, orderID string, limit, offset int) ([]domain.StatusChange, error)
}
