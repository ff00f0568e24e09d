package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tiffinwale/internal/connections/rabbitmq"
	"tiffinwale/internal/domain"
	"tiffinwale/internal/microservices/orders/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateOrderInput is the validated shape of an incoming order. Items may be
// empty for subscription-generated orders; those fall back to the plan's meal
// specification at aggregation time.
type CreateOrderInput struct {
	CustomerID           string
	PartnerID            string
	MealType             domain.MealType
	ScheduledDate        time.Time
	DeliverySlot         domain.DeliverySlot
	Items                []domain.OrderItem
	Plan                 *domain.PlanRef
	DeliveryAddress      string
	DeliveryInstructions string
}

func (s *OrdersService) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	if in.CustomerID == "" {
		return domain.Order{}, errors.New("customer id is required")
	}
	if in.PartnerID == "" {
		return domain.Order{}, errors.New("partner id is required")
	}
	if in.DeliveryAddress == "" {
		return domain.Order{}, errors.New("delivery address is required")
	}
	if in.ScheduledDate.IsZero() {
		return domain.Order{}, errors.New("scheduled date is required")
	}
	if len(in.Items) == 0 && (in.Plan == nil || in.Plan.MealSpecification == nil) {
		return domain.Order{}, errors.New("order needs items or a subscription plan")
	}
	if in.Plan != nil {
		if err := in.Plan.MealSpecification.Validate(); err != nil {
			return domain.Order{}, fmt.Errorf("meal specification: %w", err)
		}
	}

	total := 0.0
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return domain.Order{}, fmt.Errorf("invalid quantity for item %q", it.Name)
		}
		if it.Price < 0 {
			return domain.Order{}, fmt.Errorf("invalid price for item %q", it.Name)
		}
		total += float64(it.Quantity) * it.Price
	}

	now := s.now()
	o := domain.Order{
		ID:                   uuid.NewString(),
		CustomerID:           in.CustomerID,
		PartnerID:            in.PartnerID,
		MealType:             in.MealType,
		ScheduledDate:        in.ScheduledDate,
		DeliverySlot:         in.DeliverySlot,
		Items:                in.Items,
		Plan:                 in.Plan,
		Status:               domain.StatusPending,
		TotalAmount:          total,
		DeliveryAddress:      in.DeliveryAddress,
		DeliveryInstructions: in.DeliveryInstructions,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return domain.Order{}, fmt.Errorf("save order: %w", err)
	}
	s.lg.Info("order_created",
		zap.String("order_id", o.ID),
		zap.String("partner_id", o.PartnerID),
		zap.String("meal_type", string(o.MealType)),
		zap.Float64("total", o.TotalAmount))
	return o, nil
}

func (s *OrdersService) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *OrdersService) ListOrders(ctx context.Context, f repository.ListFilter) ([]domain.Order, error) {
	return s.repo.List(ctx, f)
}

// Transition is the only mutating path for order status. Purpose-built
// endpoints (accept, ready, delivered, ...) all route through here, so an
// illegal transition cannot be reached via an alternate route. The write is
// conditioned on the status read below; a concurrent writer surfaces as
// domain.ErrStaleState and the caller re-reads and retries.
func (s *OrdersService) Transition(ctx context.Context, orderID string, target domain.OrderStatus, actor domain.Actor, reason string) (domain.Order, error) {
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	prev := o.Status

	now := s.now()
	if err := domain.ApplyTransition(&o, target, actor, reason, now); err != nil {
		return domain.Order{}, err
	}

	change := domain.StatusChange{
		OrderID:    o.ID,
		FromStatus: prev,
		ToStatus:   o.Status,
		ChangedBy:  actor,
		Reason:     o.StatusReason,
		ChangedAt:  now,
	}
	if err := s.repo.UpdateStatus(ctx, o, prev, change); err != nil {
		return domain.Order{}, err
	}

	s.publishStatusChanged(ctx, o, prev, actor)
	s.lg.Info("status_transition_applied",
		zap.String("order_id", o.ID),
		zap.String("from", string(prev)),
		zap.String("to", string(o.Status)),
		zap.String("actor", string(actor)))
	return o, nil
}

func (s *OrdersService) Timeline(ctx context.Context, orderID string, limit, offset int) ([]domain.StatusChange, error) {
	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.StatusLog(ctx, orderID, limit, offset)
}

// publishStatusChanged emits the event after the commit. The transition
// already happened; a broker hiccup must not fail the request, so publish
// errors are logged and dropped.
func (s *OrdersService) publishStatusChanged(ctx context.Context, o domain.Order, from domain.OrderStatus, actor domain.Actor) {
	if s.pub == nil {
		return
	}
	ev := domain.StatusChangedEvent{
		OrderID:    o.ID,
		PartnerID:  o.PartnerID,
		CustomerID: o.CustomerID,
		From:       from,
		To:         o.Status,
		ChangedBy:  actor,
		Reason:     o.StatusReason,
		OccurredAt: o.UpdatedAt,
	}
	body, err := json.Marshal(ev)
	if err != nil {
		s.lg.Error("event_marshal_failed", zap.Error(err))
		return
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	key := fmt.Sprintf("orders.status.%s", o.Status)
	if err := s.pub.Publish(pctx, rabbitmq.OrdersExchange, key, body); err != nil {
		s.lg.Error("event_publish_failed",
			zap.String("order_id", o.ID),
			zap.String("routing_key", key),
			zap.Error(err))
	}
}
