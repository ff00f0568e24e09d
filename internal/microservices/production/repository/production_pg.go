package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tiffinwale/internal/domain"
)

type ProductionRepositoryInterface interface {
	// FindByPartnerAndDate loads every order scheduled for the service date,
	// regardless of status, with line items and the denormalized plan data.
	FindByPartnerAndDate(ctx context.Context, partnerID string, date time.Time) ([]domain.Order, error)
}

type ProductionRepository struct {
	db *sql.DB
}

func NewProductionRepository(db *sql.DB) ProductionRepositoryInterface {
	return &ProductionRepository{db: db}
}

func (r *ProductionRepository) FindByPartnerAndDate(ctx context.Context, partnerID string, date time.Time) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.customer_id, o.partner_id, o.meal_type, o.scheduled_date,
		       o.delivery_slot, o.status, o.total_amount, o.is_paid,
		       o.created_at, o.updated_at, o.delivered_at,
		       p.id, p.name, p.meal_specification
		FROM orders o
		LEFT JOIN subscription_plans p ON p.id = o.plan_id
		WHERE o.partner_id = $1 AND o.scheduled_date = $2
		ORDER BY o.created_at
	`, partnerID, date)
	if err != nil {
		return nil, fmt.Errorf("find orders for production: %w", err)
	}
	defer rows.Close()

	byID := map[string]*domain.Order{}
	var out []*domain.Order
	for rows.Next() {
		var (
			o                domain.Order
			mealType, slot   string
			status           string
			planID, planName sql.NullString
			specRaw          []byte
			deliveredAt      sql.NullTime
		)
		if err := rows.Scan(
			&o.ID, &o.CustomerID, &o.PartnerID, &mealType, &o.ScheduledDate,
			&slot, &status, &o.TotalAmount, &o.IsPaid,
			&o.CreatedAt, &o.UpdatedAt, &deliveredAt,
			&planID, &planName, &specRaw,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.MealType = domain.MealType(mealType)
		o.DeliverySlot = domain.DeliverySlot(slot)
		o.Status = domain.OrderStatus(status)
		if deliveredAt.Valid {
			t := deliveredAt.Time
			o.DeliveredAt = &t
		}
		if planID.Valid {
			ref := &domain.PlanRef{PlanID: planID.String, PlanName: planName.String}
			if len(specRaw) > 0 {
				var spec domain.MealSpecification
				if err := json.Unmarshal(specRaw, &spec); err != nil {
					return nil, fmt.Errorf("decode meal specification for plan %s: %w", planID.String, err)
				}
				ref.MealSpecification = &spec
			}
			o.Plan = ref
		}
		cp := o
		byID[cp.ID] = &cp
		out = append(out, &cp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, byID); err != nil {
		return nil, err
	}

	res := make([]domain.Order, 0, len(out))
	for _, o := range out {
		res = append(res, *o)
	}
	return res, nil
}

func (r *ProductionRepository) attachItems(ctx context.Context, byID map[string]*domain.Order) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, COALESCE(menu_item_id,''), COALESCE(name,''),
		       COALESCE(special_instructions,''), quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var it domain.OrderItem
		if err := rows.Scan(&orderID, &it.MenuItemID, &it.Name,
			&it.SpecialInstructions, &it.Quantity, &it.Price); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}
