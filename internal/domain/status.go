package domain

import (
	"fmt"
	"strings"
)

// OrderStatus is the canonical status vocabulary. Synonyms seen on the wire
// ("outfordelivery", "completed", "canceled") are collapsed by ParseStatus and
// never reach the core.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
	StatusRejected       OrderStatus = "rejected"
	StatusSkipped        OrderStatus = "skipped"
)

// AllStatuses in pipeline order, terminals last.
var AllStatuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
	StatusOutForDelivery, StatusDelivered, StatusCancelled,
	StatusRejected, StatusSkipped,
}

// ParseStatus normalizes an incoming status string to the canonical enum.
func ParseStatus(s string) (OrderStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "-", "_")
	switch norm {
	case "outfordelivery", "out_for_delivery":
		return StatusOutForDelivery, nil
	case "completed", "delivered":
		return StatusDelivered, nil
	case "canceled", "cancelled":
		return StatusCancelled, nil
	case "pending", "confirmed", "preparing", "ready", "rejected", "skipped":
		return OrderStatus(norm), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusRejected, StatusSkipped:
		return true
	}
	return false
}

// Active reports whether the order still counts toward kitchen production
// (ingredient totals and the meal breakdown).
func (s OrderStatus) Active() bool {
	switch s {
	case StatusCancelled, StatusRejected, StatusSkipped:
		return false
	}
	return true
}

// MealType of a scheduled order.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

func ParseMealType(s string) (MealType, error) {
	switch MealType(strings.ToLower(strings.TrimSpace(s))) {
	case MealBreakfast:
		return MealBreakfast, nil
	case MealLunch:
		return MealLunch, nil
	case MealDinner:
		return MealDinner, nil
	case MealSnack:
		return MealSnack, nil
	}
	return "", fmt.Errorf("unknown meal type %q", s)
}

// DeliverySlot is the coarse dispatch window.
type DeliverySlot string

const (
	SlotMorning     DeliverySlot = "morning"
	SlotAfternoon   DeliverySlot = "afternoon"
	SlotEvening     DeliverySlot = "evening"
	SlotUnscheduled DeliverySlot = "unscheduled"
)

func ParseDeliverySlot(s string) (DeliverySlot, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "" {
		return SlotUnscheduled, nil
	}
	switch DeliverySlot(norm) {
	case SlotMorning, SlotAfternoon, SlotEvening, SlotUnscheduled:
		return DeliverySlot(norm), nil
	}
	return "", fmt.Errorf("unknown delivery slot %q", s)
}
