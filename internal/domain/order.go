package domain

import "time"

// Order is the aggregate root of the fulfillment pipeline.
// Invariants: status moves only along the transition table in statemachine.go;
// DeliveredAt is set if and only if Status is delivered.
type Order struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	PartnerID  string `json:"partner_id"`

	MealType      MealType     `json:"meal_type"`
	ScheduledDate time.Time    `json:"scheduled_date"`
	DeliverySlot  DeliverySlot `json:"delivery_slot"`

	Items []OrderItem `json:"items,omitempty"`

	// Plan carries the denormalized subscription data used as the classifier
	// fallback when Items is empty. Nil for pure ad-hoc orders.
	Plan *PlanRef `json:"subscription_plan,omitempty"`

	Status       OrderStatus `json:"status"`
	StatusReason string      `json:"status_reason,omitempty"`

	TotalAmount float64 `json:"total_amount"`
	IsPaid      bool    `json:"is_paid"`

	DeliveryAddress      string `json:"delivery_address"`
	DeliveryInstructions string `json:"delivery_instructions,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// OrderItem is a single line item. Names and special instructions are free
// text entered by catalog owners; the core never parses ingredient counts out
// of them.
type OrderItem struct {
	MenuItemID          string  `json:"menu_item_id,omitempty"`
	Name                string  `json:"name,omitempty"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
	Quantity            int     `json:"quantity"`
	Price               float64 `json:"price"`
}

// PlanRef is the denormalized subscription-plan reference stored on an order.
type PlanRef struct {
	PlanID            string             `json:"plan_id"`
	PlanName          string             `json:"plan_name"`
	MealSpecification *MealSpecification `json:"meal_specification,omitempty"`
}

// StatusChange is one row of the order status audit trail.
type StatusChange struct {
	OrderID    string      `json:"order_id"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status"`
	ChangedBy  Actor       `json:"changed_by"`
	Reason     string      `json:"reason,omitempty"`
	ChangedAt  time.Time   `json:"changed_at"`
}
