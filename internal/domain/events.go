package domain

import "time"

// StatusChangedEvent is published to the orders_topic exchange after every
// applied transition. Downstream consumers (notifications, tracking) are not
// part of this repo.
type StatusChangedEvent struct {
	OrderID    string      `json:"order_id"`
	PartnerID  string      `json:"partner_id"`
	CustomerID string      `json:"customer_id"`
	From       OrderStatus `json:"from"`
	To         OrderStatus `json:"to"`
	ChangedBy  Actor       `json:"changed_by"`
	Reason     string      `json:"reason,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
