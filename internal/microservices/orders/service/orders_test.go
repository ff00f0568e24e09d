package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"tiffinwale/internal/domain"
	"tiffinwale/internal/microservices/orders/repository"

	"go.uber.org/zap"
)

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

type fakeOrdersRepo struct {
	orders map[string]domain.Order
	log    []domain.StatusChange

	updateErr error
	created   []domain.Order
}

func newFakeOrdersRepo(orders ...domain.Order) *fakeOrdersRepo {
	r := &fakeOrdersRepo{orders: map[string]domain.Order{}}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrdersRepo) Create(_ context.Context, o domain.Order) error {
	r.orders[o.ID] = o
	r.created = append(r.created, o)
	return nil
}

func (r *fakeOrdersRepo) GetOrder(_ context.Context, id string) (domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (r *fakeOrdersRepo) List(_ context.Context, _ repository.ListFilter) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOrdersRepo) UpdateStatus(_ context.Context, o domain.Order, expectedPrev domain.OrderStatus, change domain.StatusChange) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	cur, ok := r.orders[o.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if cur.Status != expectedPrev {
		return domain.ErrStaleState
	}
	r.orders[o.ID] = o
	r.log = append(r.log, change)
	return nil
}

func (r *fakeOrdersRepo) StatusLog(_ context.Context, orderID string, _, _ int) ([]domain.StatusChange, error) {
	var out []domain.StatusChange
	for _, c := range r.log {
		if c.OrderID == orderID {
			out = append(out, c)
		}
	}
	return out, nil
}

type publishedEvent struct {
	exchange string
	key      string
	body     []byte
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, exchange, key string, body []byte) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{exchange, key, body})
	return nil
}

func newTestService(repo *fakeOrdersRepo, pub *fakePublisher) *OrdersService {
	s := &OrdersService{
		repo: repo,
		lg:   zap.NewNop(),
		now:  func() time.Time { return testNow },
	}
	if pub != nil {
		s.pub = pub
	}
	return s
}

func validInput() CreateOrderInput {
	return CreateOrderInput{
		CustomerID:      "cust-1",
		PartnerID:       "partner-1",
		MealType:        domain.MealLunch,
		ScheduledDate:   testNow,
		DeliverySlot:    domain.SlotAfternoon,
		DeliveryAddress: "12 MG Road",
		Items: []domain.OrderItem{
			{MenuItemID: "thali-1", Name: "Standard Thali", Quantity: 2, Price: 120},
			{MenuItemID: "extra-papad", Name: "Papad", Quantity: 3, Price: 10},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	repo := newFakeOrdersRepo()
	svc := newTestService(repo, nil)

	o, err := svc.CreateOrder(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if o.ID == "" {
		t.Error("expected a generated order id")
	}
	if o.Status != domain.StatusPending {
		t.Errorf("status = %s, want pending", o.Status)
	}
	if o.TotalAmount != 2*120+3*10 {
		t.Errorf("total = %v, want 270", o.TotalAmount)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 persisted order, got %d", len(repo.created))
	}
}

func TestCreateOrderValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateOrderInput)
	}{
		{"missing customer", func(in *CreateOrderInput) { in.CustomerID = "" }},
		{"missing partner", func(in *CreateOrderInput) { in.PartnerID = "" }},
		{"missing address", func(in *CreateOrderInput) { in.DeliveryAddress = "" }},
		{"missing date", func(in *CreateOrderInput) { in.ScheduledDate = time.Time{} }},
		{"no items and no plan", func(in *CreateOrderInput) { in.Items = nil }},
		{"zero quantity", func(in *CreateOrderInput) { in.Items[0].Quantity = 0 }},
		{"negative price", func(in *CreateOrderInput) { in.Items[0].Price = -1 }},
		{"invalid plan spec", func(in *CreateOrderInput) {
			neg := -1
			in.Plan = &domain.PlanRef{PlanID: "p1", MealSpecification: &domain.MealSpecification{Rotis: &neg}}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeOrdersRepo()
			svc := newTestService(repo, nil)
			in := validInput()
			tc.mutate(&in)
			if _, err := svc.CreateOrder(context.Background(), in); err == nil {
				t.Fatal("expected validation error")
			}
			if len(repo.created) != 0 {
				t.Fatal("invalid order must not be persisted")
			}
		})
	}
}

func TestCreateOrderPlanOnly(t *testing.T) {
	in := validInput()
	in.Items = nil
	two := 2
	in.Plan = &domain.PlanRef{
		PlanID: "p1", PlanName: "Basic Lunch",
		MealSpecification: &domain.MealSpecification{Rotis: &two},
	}
	svc := newTestService(newFakeOrdersRepo(), nil)
	o, err := svc.CreateOrder(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if o.TotalAmount != 0 {
		t.Errorf("total = %v, want 0 for plan-only order", o.TotalAmount)
	}
}

func TestTransitionPublishesEvent(t *testing.T) {
	repo := newFakeOrdersRepo(domain.Order{
		ID: "o1", CustomerID: "c1", PartnerID: "p1", Status: domain.StatusPending,
	})
	pub := &fakePublisher{}
	svc := newTestService(repo, pub)

	o, err := svc.Transition(context.Background(), "o1", domain.StatusConfirmed, domain.ActorPartner, "")
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if o.Status != domain.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", o.Status)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.key != "orders.status.confirmed" {
		t.Errorf("routing key = %q", ev.key)
	}
	var payload domain.StatusChangedEvent
	if err := json.Unmarshal(ev.body, &payload); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if payload.From != domain.StatusPending || payload.To != domain.StatusConfirmed {
		t.Errorf("event from/to = %s/%s", payload.From, payload.To)
	}
	if payload.ChangedBy != domain.ActorPartner {
		t.Errorf("event actor = %s", payload.ChangedBy)
	}
}

func TestTransitionAppendsAuditRow(t *testing.T) {
	repo := newFakeOrdersRepo(domain.Order{ID: "o1", Status: domain.StatusPending})
	svc := newTestService(repo, nil)

	if _, err := svc.Transition(context.Background(), "o1", domain.StatusRejected, domain.ActorPartner, "out of stock"); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if len(repo.log) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(repo.log))
	}
	c := repo.log[0]
	if c.FromStatus != domain.StatusPending || c.ToStatus != domain.StatusRejected {
		t.Errorf("audit from/to = %s/%s", c.FromStatus, c.ToStatus)
	}
	if c.Reason != "out of stock" {
		t.Errorf("audit reason = %q", c.Reason)
	}
	if !c.ChangedAt.Equal(testNow) {
		t.Errorf("audit changed_at = %v", c.ChangedAt)
	}
}

func TestTransitionInvalidNeverHitsRepo(t *testing.T) {
	repo := newFakeOrdersRepo(domain.Order{ID: "o1", Status: domain.StatusPending})
	pub := &fakePublisher{}
	svc := newTestService(repo, pub)

	_, err := svc.Transition(context.Background(), "o1", domain.StatusPreparing, domain.ActorPartner, "")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if got := repo.orders["o1"].Status; got != domain.StatusPending {
		t.Errorf("stored status mutated to %s", got)
	}
	if len(repo.log) != 0 || len(pub.events) != 0 {
		t.Error("rejected transition must write no audit row and publish nothing")
	}
}

func TestTransitionStaleState(t *testing.T) {
	repo := newFakeOrdersRepo(domain.Order{ID: "o1", Status: domain.StatusPending})
	repo.updateErr = domain.ErrStaleState
	pub := &fakePublisher{}
	svc := newTestService(repo, pub)

	_, err := svc.Transition(context.Background(), "o1", domain.StatusConfirmed, domain.ActorPartner, "")
	if !errors.Is(err, domain.ErrStaleState) {
		t.Fatalf("expected ErrStaleState, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Error("stale write must publish nothing")
	}
}

func TestTransitionUnknownOrder(t *testing.T) {
	svc := newTestService(newFakeOrdersRepo(), nil)
	_, err := svc.Transition(context.Background(), "missing", domain.StatusConfirmed, domain.ActorPartner, "")
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestTransitionSurvivesPublishFailure(t *testing.T) {
	repo := newFakeOrdersRepo(domain.Order{ID: "o1", Status: domain.StatusPending})
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := newTestService(repo, pub)

	o, err := svc.Transition(context.Background(), "o1", domain.StatusConfirmed, domain.ActorPartner, "")
	if err != nil {
		t.Fatalf("publish failure must not fail the transition: %v", err)
	}
	if o.Status != domain.StatusConfirmed {
		t.Fatalf("status = %s", o.Status)
	}
	if got := repo.orders["o1"].Status; got != domain.StatusConfirmed {
		t.Fatalf("stored status = %s", got)
	}
}

func TestTimeline(t *testing.T) {
	repo := newFakeOrdersRepo(domain.Order{ID: "o1", Status: domain.StatusPending})
	svc := newTestService(repo, nil)

	if _, err := svc.Transition(context.Background(), "o1", domain.StatusConfirmed, domain.ActorPartner, ""); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	changes, err := svc.Timeline(context.Background(), "o1", 50, 0)
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if len(changes) != 1 || changes[0].ToStatus != domain.StatusConfirmed {
		t.Fatalf("timeline = %+v", changes)
	}

	if _, err := svc.Timeline(context.Background(), "missing", 50, 0); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
