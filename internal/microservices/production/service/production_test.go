package service

import (
	"context"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"tiffinwale/internal/domain"

	"go.uber.org/zap"
)

var serviceDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

type fakeProductionRepo struct {
	orders []domain.Order
	err    error
}

func (f *fakeProductionRepo) FindByPartnerAndDate(_ context.Context, _ string, _ time.Time) ([]domain.Order, error) {
	return f.orders, f.err
}

func newTestService(orders []domain.Order) *ProductionService {
	return &ProductionService{
		repo:    &fakeProductionRepo{orders: orders},
		isExtra: domain.IsExtraItem,
		lg:      zap.NewNop(),
	}
}

// Scenario: an empty-items order falls back to its plan spec and every
// structured category lands in the right bucket.
func TestFoldPlanSpecFallback(t *testing.T) {
	spec := &domain.MealSpecification{
		Rotis:  intPtr(2),
		Sabzis: []domain.Sabzi{{Name: "Aloo Gobi", Quantity: "1 bowl"}},
		Dal:    &domain.DalSpec{Type: "Tadka", Quantity: "1 bowl"},
	}
	orders := []domain.Order{{
		ID:       "o1",
		MealType: domain.MealLunch,
		Status:   domain.StatusConfirmed,
		Plan:     &domain.PlanRef{PlanID: "p1", PlanName: "Basic Lunch", MealSpecification: spec},
	}}

	sum := Fold(serviceDate, orders, nil)

	if sum.TotalOrders != 1 {
		t.Fatalf("TotalOrders = %d", sum.TotalOrders)
	}
	if sum.MealBreakdown.Lunch != 1 {
		t.Errorf("lunch = %d, want 1", sum.MealBreakdown.Lunch)
	}
	if sum.IngredientTotals.Rotis != 2 {
		t.Errorf("rotis = %d, want 2", sum.IngredientTotals.Rotis)
	}
	if got := sum.IngredientTotals.Sabzis["Aloo Gobi"]; got != 1 {
		t.Errorf("sabzis[Aloo Gobi] = %d, want 1", got)
	}
	if sum.IngredientTotals.Dal.Total != 1 || sum.IngredientTotals.Dal.Types["Tadka"] != 1 {
		t.Errorf("dal = %+v", sum.IngredientTotals.Dal)
	}
	// Confirmed is its own bucket: neither pending nor preparing moves.
	if sum.StatusBreakdown.Pending != 0 || sum.StatusBreakdown.Preparing != 0 {
		t.Errorf("pending/preparing = %d/%d, want 0/0",
			sum.StatusBreakdown.Pending, sum.StatusBreakdown.Preparing)
	}
	if sum.StatusBreakdown.Confirmed != 1 {
		t.Errorf("confirmed = %d, want 1", sum.StatusBreakdown.Confirmed)
	}
	if got := sum.PlanBreakdown["Basic Lunch"]; got.Count != 1 || len(got.OrderIDs) != 1 || got.OrderIDs[0] != "o1" {
		t.Errorf("plan breakdown = %+v", got)
	}
}

// Scenario: one delivered, one cancelled. The cancelled order counts toward
// the total and its status bucket but contributes nothing to production.
func TestFoldCancelledExcludedFromProduction(t *testing.T) {
	spec := &domain.MealSpecification{Rotis: intPtr(3), Salad: true}
	orders := []domain.Order{
		{
			ID: "o1", MealType: domain.MealDinner, Status: domain.StatusDelivered,
			Plan: &domain.PlanRef{PlanName: "Dinner Plan", MealSpecification: spec},
		},
		{
			ID: "o2", MealType: domain.MealDinner, Status: domain.StatusCancelled,
			Plan: &domain.PlanRef{PlanName: "Dinner Plan", MealSpecification: spec},
		},
	}

	sum := Fold(serviceDate, orders, nil)

	if sum.TotalOrders != 2 {
		t.Fatalf("TotalOrders = %d, want 2", sum.TotalOrders)
	}
	if sum.CompletionPercentage != 50 {
		t.Errorf("completion = %d, want 50", sum.CompletionPercentage)
	}
	if sum.MealBreakdown.Dinner != 1 {
		t.Errorf("dinner = %d, want 1 (cancelled excluded)", sum.MealBreakdown.Dinner)
	}
	if sum.IngredientTotals.Rotis != 3 || sum.IngredientTotals.Salad != 1 {
		t.Errorf("ingredients = %+v (cancelled must contribute 0)", sum.IngredientTotals)
	}
	if sum.StatusBreakdown.Cancelled != 1 || sum.StatusBreakdown.Delivered != 1 {
		t.Errorf("status breakdown = %+v", sum.StatusBreakdown)
	}
	if got := sum.PlanBreakdown["Dinner Plan"]; got.Count != 1 {
		t.Errorf("plan count = %d, want 1 (cancelled excluded)", got.Count)
	}
}

func TestFoldFreeTextItemsContributeNoIngredients(t *testing.T) {
	orders := []domain.Order{{
		ID:       "o1",
		MealType: domain.MealBreakfast,
		Status:   domain.StatusPreparing,
		Items: []domain.OrderItem{
			{Name: "Poha with 2 rotis", Quantity: 1, Price: 60},
			{MenuItemID: "extra-chai", Name: "Chai", Quantity: 1, Price: 15},
		},
	}}

	sum := Fold(serviceDate, orders, nil)

	// Free text is never parsed into ingredient counts.
	if sum.IngredientTotals.Rotis != 0 {
		t.Errorf("rotis = %d, want 0", sum.IngredientTotals.Rotis)
	}
	if len(sum.IngredientTotals.Sabzis) != 0 {
		t.Errorf("sabzis = %v, want empty", sum.IngredientTotals.Sabzis)
	}
	if sum.MealBreakdown.Breakfast != 1 {
		t.Errorf("breakfast = %d, want 1", sum.MealBreakdown.Breakfast)
	}
	if got := sum.IngredientTotals.Extras["Chai"]; got != 1 {
		t.Errorf("extras[Chai] = %d, want 1", got)
	}
	if got := sum.PlanBreakdown["Unknown Plan"]; got.Count != 1 {
		t.Errorf("unknown plan count = %d, want 1", got.Count)
	}
}

func TestFoldDalRiceTypeDefaults(t *testing.T) {
	orders := []domain.Order{{
		ID: "o1", MealType: domain.MealLunch, Status: domain.StatusPending,
		Plan: &domain.PlanRef{PlanName: "Thali", MealSpecification: &domain.MealSpecification{
			Dal:  &domain.DalSpec{Quantity: "1 bowl"},
			Rice: &domain.RiceSpec{Quantity: "1 plate"},
		}},
	}}
	sum := Fold(serviceDate, orders, nil)
	if sum.IngredientTotals.Dal.Types["mixed"] != 1 {
		t.Errorf("dal types = %v, want mixed:1", sum.IngredientTotals.Dal.Types)
	}
	if sum.IngredientTotals.Rice.Types["white"] != 1 {
		t.Errorf("rice types = %v, want white:1", sum.IngredientTotals.Rice.Types)
	}
}

func TestFoldSpecExtrasOnlyWhenIncluded(t *testing.T) {
	orders := []domain.Order{{
		ID: "o1", MealType: domain.MealLunch, Status: domain.StatusReady,
		Plan: &domain.PlanRef{PlanName: "Deluxe", MealSpecification: &domain.MealSpecification{
			Extras: []domain.ExtraSpec{
				{Name: "Papad", Included: true, Cost: 0},
				{Name: "Sweet", Included: false, Cost: 25},
			},
			Salad: true,
			Curd:  true,
		}},
	}}
	sum := Fold(serviceDate, orders, nil)
	if sum.IngredientTotals.Extras["Papad"] != 1 {
		t.Errorf("extras = %v, want Papad:1", sum.IngredientTotals.Extras)
	}
	if _, ok := sum.IngredientTotals.Extras["Sweet"]; ok {
		t.Error("non-included extra must not be counted")
	}
	if sum.IngredientTotals.Salad != 1 || sum.IngredientTotals.Curd != 1 {
		t.Errorf("salad/curd = %d/%d, want 1/1", sum.IngredientTotals.Salad, sum.IngredientTotals.Curd)
	}
}

// Permuting the order set must never change the summary: the fold is
// commutative and associative.
func TestFoldOrderIndependent(t *testing.T) {
	spec1 := &domain.MealSpecification{Rotis: intPtr(2), Sabzis: []domain.Sabzi{{Name: "Bhindi", Quantity: "1 bowl"}}}
	spec2 := &domain.MealSpecification{Dal: &domain.DalSpec{Type: "Moong"}, Curd: true}
	orders := []domain.Order{
		{ID: "o1", MealType: domain.MealLunch, Status: domain.StatusDelivered,
			Plan: &domain.PlanRef{PlanName: "A", MealSpecification: spec1}},
		{ID: "o2", MealType: domain.MealLunch, Status: domain.StatusPreparing,
			Plan: &domain.PlanRef{PlanName: "B", MealSpecification: spec2}},
		{ID: "o3", MealType: domain.MealDinner, Status: domain.StatusCancelled},
		{ID: "o4", MealType: domain.MealSnack, Status: domain.StatusPending,
			Items: []domain.OrderItem{{Name: "Samosa", Quantity: 2, Price: 20}}},
	}

	want := Fold(serviceDate, orders, nil)
	// PlanBreakdown order id slices depend on input order only within a plan;
	// keep plans distinct so DeepEqual is exact.
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]domain.Order(nil), orders...)
		rnd.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := Fold(serviceDate, shuffled, nil)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("summary differs after permutation %d:\ngot  %+v\nwant %+v", i, got, want)
		}
	}
}

func TestFoldCompletionPercentage(t *testing.T) {
	mk := func(status domain.OrderStatus, id string) domain.Order {
		return domain.Order{ID: id, MealType: domain.MealLunch, Status: status}
	}
	cases := []struct {
		orders []domain.Order
		want   int
	}{
		{nil, 0},
		{[]domain.Order{mk(domain.StatusPending, "a")}, 0},
		{[]domain.Order{mk(domain.StatusDelivered, "a")}, 100},
		{[]domain.Order{mk(domain.StatusDelivered, "a"), mk(domain.StatusPending, "b"), mk(domain.StatusPending, "c")}, 33},
		{[]domain.Order{mk(domain.StatusDelivered, "a"), mk(domain.StatusDelivered, "b"), mk(domain.StatusPending, "c")}, 67},
	}
	for _, tc := range cases {
		got := Fold(serviceDate, tc.orders, nil)
		if got.CompletionPercentage != tc.want {
			t.Errorf("%d orders: completion = %d, want %d",
				len(tc.orders), got.CompletionPercentage, tc.want)
		}
	}
}

func TestFoldEmptySpecAggregatesToZero(t *testing.T) {
	orders := []domain.Order{{
		ID: "o1", MealType: domain.MealLunch, Status: domain.StatusPending,
		Plan: &domain.PlanRef{PlanName: "Minimal", MealSpecification: &domain.MealSpecification{}},
	}}
	sum := Fold(serviceDate, orders, nil)
	it := sum.IngredientTotals
	if it.Rotis != 0 || len(it.Sabzis) != 0 || it.Dal.Total != 0 || it.Rice.Total != 0 ||
		len(it.Extras) != 0 || it.Salad != 0 || it.Curd != 0 {
		t.Errorf("empty spec must aggregate to zero, got %+v", it)
	}
}

func TestSummarizeUnknownPartnerYieldsEmptySummary(t *testing.T) {
	svc := newTestService(nil)
	sum, err := svc.Summarize(context.Background(), "nobody", serviceDate)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.TotalOrders != 0 || sum.CompletionPercentage != 0 {
		t.Fatalf("expected zero summary, got %+v", sum)
	}
	if sum.Date != "2026-09-01" {
		t.Fatalf("date = %q", sum.Date)
	}
}
