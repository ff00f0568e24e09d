package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tiffinwale/internal/domain"
)

type OrdersRepository struct {
	db *sql.DB
}

func NewOrdersRepository(db *sql.DB) OrdersRepositoryInterface {
	return &OrdersRepository{db: db}
}

const orderColumns = `
o.id, o.customer_id, o.partner_id, o.meal_type, o.scheduled_date,
o.delivery_slot, o.status, COALESCE(o.status_reason,''), o.total_amount, o.is_paid,
o.delivery_address, COALESCE(o.delivery_instructions,''),
o.created_at, o.updated_at, o.delivered_at,
p.id, p.name, p.meal_specification`

func (r *OrdersRepository) Create(ctx context.Context, o domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var planID any
	if o.Plan != nil {
		planID = o.Plan.PlanID
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders
		    (id, customer_id, partner_id, meal_type, scheduled_date, delivery_slot,
		     plan_id, status, total_amount, is_paid, delivery_address,
		     delivery_instructions, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$13)
	`,
		o.ID, o.CustomerID, o.PartnerID, string(o.MealType), o.ScheduledDate,
		string(o.DeliverySlot), planID, string(o.Status), o.TotalAmount, o.IsPaid,
		o.DeliveryAddress, nullIfEmpty(o.DeliveryInstructions), o.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, name, special_instructions, quantity, price)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, o.ID, nullIfEmpty(it.MenuItemID), nullIfEmpty(it.Name),
			nullIfEmpty(it.SpecialInstructions), it.Quantity, it.Price,
		); err != nil {
			return fmt.Errorf("insert order item %q: %w", it.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_log (order_id, from_status, to_status, changed_by, changed_at)
		VALUES ($1, '', $2, $3, $4)
	`, o.ID, string(o.Status), string(domain.ActorCustomer), o.CreatedAt); err != nil {
		return fmt.Errorf("insert status log: %w", err)
	}

	return tx.Commit()
}

func (r *OrdersRepository) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		LEFT JOIN subscription_plans p ON p.id = o.plan_id
		WHERE o.id = $1
	`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrOrderNotFound)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	if err := r.attachItems(ctx, map[string]*domain.Order{o.ID: &o}); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrdersRepository) List(ctx context.Context, f ListFilter) ([]domain.Order, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where := []string{"o.partner_id = $1"}
	args := []any{f.PartnerID}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, "o.status = $"+strconv.Itoa(len(args)))
	}
	if f.Date != nil {
		args = append(args, *f.Date)
		where = append(where, "o.scheduled_date = $"+strconv.Itoa(len(args)))
	}
	args = append(args, f.Limit, f.Offset)

	q := `
		SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN subscription_plans p ON p.id = o.plan_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY o.created_at DESC
		LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	byID := map[string]*domain.Order{}
	var out []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
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

func (r *OrdersRepository) UpdateStatus(ctx context.Context, o domain.Order, expectedPrev domain.OrderStatus, change domain.StatusChange) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status=$2, status_reason=$3, updated_at=$4, delivered_at=$5
		WHERE id=$1 AND status=$6
	`, o.ID, string(o.Status), nullIfEmpty(o.StatusReason), o.UpdatedAt,
		o.DeliveredAt, string(expectedPrev))
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the order is gone or somebody moved it first.
		var cur string
		err := tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id=$1`, o.ID).Scan(&cur)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("order %s: %w", o.ID, domain.ErrOrderNotFound)
		}
		if err != nil {
			return err
		}
		return fmt.Errorf("order %s: expected %s, found %s: %w",
			o.ID, expectedPrev, cur, domain.ErrStaleState)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_log (order_id, from_status, to_status, changed_by, reason, changed_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, change.OrderID, string(change.FromStatus), string(change.ToStatus),
		string(change.ChangedBy), nullIfEmpty(change.Reason), change.ChangedAt,
	); err != nil {
		return fmt.Errorf("insert status log: %w", err)
	}

	return tx.Commit()
}

func (r *OrdersRepository) StatusLog(ctx context.Context, orderID string, limit, offset int) ([]domain.StatusChange, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, from_status, to_status, changed_by, COALESCE(reason,''), changed_at
		FROM order_status_log
		WHERE order_id=$1
		ORDER BY changed_at ASC
		LIMIT $2 OFFSET $3
	`, orderID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("status log: %w", err)
	}
	defer rows.Close()

	var out []domain.StatusChange
	for rows.Next() {
		var c domain.StatusChange
		var from, to, by string
		if err := rows.Scan(&c.OrderID, &from, &to, &by, &c.Reason, &c.ChangedAt); err != nil {
			return nil, err
		}
		c.FromStatus = domain.OrderStatus(from)
		c.ToStatus = domain.OrderStatus(to)
		c.ChangedBy = domain.Actor(by)
		out = append(out, c)
	}
	return out, rows.Err()
}

// attachItems loads line items for the given orders in one query.
func (r *OrdersRepository) attachItems(ctx context.Context, byID map[string]*domain.Order) error {
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		o                  domain.Order
		mealType, slot     string
		status             string
		planID, planName   sql.NullString
		specRaw            []byte
		deliveredAt        sql.NullTime
	)
	if err := row.Scan(
		&o.ID, &o.CustomerID, &o.PartnerID, &mealType, &o.ScheduledDate,
		&slot, &status, &o.StatusReason, &o.TotalAmount, &o.IsPaid,
		&o.DeliveryAddress, &o.DeliveryInstructions,
		&o.CreatedAt, &o.UpdatedAt, &deliveredAt,
		&planID, &planName, &specRaw,
	); err != nil {
		return domain.Order{}, err
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
				return domain.Order{}, fmt.Errorf("decode meal specification for plan %s: %w", planID.String, err)
			}
			ref.MealSpecification = &spec
		}
		o.Plan = ref
	}
	return o, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
