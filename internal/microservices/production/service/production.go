package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"tiffinwale/internal/domain"
	"tiffinwale/internal/microservices/production/repository"

	"go.uber.org/zap"
)

// Fallback type labels when a plan spec names a dal or rice without a type.
const (
	defaultDalType  = "mixed"
	defaultRiceType = "white"
)

const unknownPlanName = "Unknown Plan"

type ProductionServiceInterface interface {
	Summarize(ctx context.Context, partnerID string, date time.Time) (domain.ProductionSummary, error)
}

type ProductionService struct {
	repo    repository.ProductionRepositoryInterface
	isExtra domain.ExtraPredicate
	lg      *zap.Logger
}

func New(db *sql.DB, lg *zap.Logger) *ProductionService {
	return &ProductionService{
		repo:    repository.NewProductionRepository(db),
		isExtra: domain.IsExtraItem,
		lg:      lg,
	}
}

// Summarize loads the partner's orders for the date and folds them into the
// kitchen production summary. Read-only; safe under unlimited concurrency.
// An unknown partner or an empty day is a normal state and yields a zero
// summary, not an error.
func (s *ProductionService) Summarize(ctx context.Context, partnerID string, date time.Time) (domain.ProductionSummary, error) {
	orders, err := s.repo.FindByPartnerAndDate(ctx, partnerID, date)
	if err != nil {
		return domain.ProductionSummary{}, fmt.Errorf("load orders: %w", err)
	}
	sum := Fold(date, orders, s.isExtra)
	s.lg.Debug("summary_computed",
		zap.String("partner_id", partnerID),
		zap.String("date", sum.Date),
		zap.Int("total_orders", sum.TotalOrders))
	return sum, nil
}

// Fold aggregates an order set into a ProductionSummary. Pure function:
// commutative and associative over the orders, so permuting the input yields
// an identical summary. Cancelled, rejected and skipped orders count toward
// total orders and the status breakdown only.
func Fold(date time.Time, orders []domain.Order, isExtra domain.ExtraPredicate) domain.ProductionSummary {
	if isExtra == nil {
		isExtra = domain.IsExtraItem
	}
	sum := domain.ProductionSummary{
		Date:             date.Format("2006-01-02"),
		TotalOrders:      len(orders),
		IngredientTotals: domain.NewIngredientTotals(),
		PlanBreakdown:    map[string]domain.PlanCount{},
	}

	for _, o := range orders {
		bumpStatus(&sum.StatusBreakdown, o.Status)
		if !o.Status.Active() {
			continue
		}

		bumpMeal(&sum.MealBreakdown, o.MealType)

		c := domain.ClassifyWith(o, isExtra)
		for _, src := range c.Base {
			if src.Spec == nil {
				// Free-text base item: no structured decomposition, so it
				// contributes to nothing beyond the order-level counts.
				continue
			}
			foldSpec(&sum.IngredientTotals, src.Spec)
		}
		for _, it := range c.Extra {
			sum.IngredientTotals.Extras[domain.ExtraKey(it)]++
		}

		planName := unknownPlanName
		if o.Plan != nil && o.Plan.PlanName != "" {
			planName = o.Plan.PlanName
		}
		pc := sum.PlanBreakdown[planName]
		pc.Count++
		pc.OrderIDs = append(pc.OrderIDs, o.ID)
		sum.PlanBreakdown[planName] = pc
	}

	if sum.TotalOrders > 0 {
		sum.CompletionPercentage = int(math.Round(
			100 * float64(sum.StatusBreakdown.Delivered) / float64(sum.TotalOrders)))
	}
	return sum
}

func foldSpec(t *domain.IngredientTotals, spec *domain.MealSpecification) {
	if spec.Rotis != nil {
		t.Rotis += *spec.Rotis
	}
	// Sabzi quantities are free-form labels; count orders requesting the
	// dish, never try to sum the labels.
	for _, s := range spec.Sabzis {
		t.Sabzis[s.Name]++
	}
	if spec.Dal != nil {
		t.Dal.Total++
		typ := spec.Dal.Type
		if typ == "" {
			typ = defaultDalType
		}
		t.Dal.Types[typ]++
	}
	if spec.Rice != nil {
		t.Rice.Total++
		typ := spec.Rice.Type
		if typ == "" {
			typ = defaultRiceType
		}
		t.Rice.Types[typ]++
	}
	for _, e := range spec.Extras {
		if e.Included {
			t.Extras[e.Name]++
		}
	}
	if spec.Salad {
		t.Salad++
	}
	if spec.Curd {
		t.Curd++
	}
}

func bumpMeal(mb *domain.MealBreakdown, mt domain.MealType) {
	switch mt {
	case domain.MealBreakfast:
		mb.Breakfast++
	case domain.MealLunch:
		mb.Lunch++
	case domain.MealDinner:
		mb.Dinner++
	case domain.MealSnack:
		mb.Snack++
	}
}

func bumpStatus(sb *domain.StatusBreakdown, st domain.OrderStatus) {
	switch st {
	case domain.StatusPending:
		sb.Pending++
	case domain.StatusConfirmed:
		sb.Confirmed++
	case domain.StatusPreparing:
		sb.Preparing++
	case domain.StatusReady:
		sb.Ready++
	case domain.StatusOutForDelivery:
		sb.OutForDelivery++
	case domain.StatusDelivered:
		sb.Delivered++
	case domain.StatusCancelled:
		sb.Cancelled++
	case domain.StatusRejected:
		sb.Rejected++
	case domain.StatusSkipped:
		sb.Skipped++
	}
}
