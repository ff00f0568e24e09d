package domain

import (
	"fmt"
	"strings"
	"time"
)

// Actor identifies who requests a transition.
type Actor string

const (
	ActorPartner  Actor = "partner"
	ActorCustomer Actor = "customer"
	ActorSystem   Actor = "system"
)

func ParseActor(s string) (Actor, error) {
	switch Actor(strings.ToLower(strings.TrimSpace(s))) {
	case ActorPartner:
		return ActorPartner, nil
	case ActorCustomer:
		return ActorCustomer, nil
	case ActorSystem:
		return ActorSystem, nil
	}
	return "", fmt.Errorf("unknown actor %q", s)
}

// AllowTransition is the single authority on status legality. Cancellation and
// rejection are allowed from every non-terminal state; a skip is a
// customer-initiated meal skip and only makes sense before the kitchen starts.
var AllowTransition = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusConfirmed, StatusRejected, StatusCancelled, StatusSkipped},
	StatusConfirmed:      {StatusPreparing, StatusRejected, StatusCancelled, StatusSkipped},
	StatusPreparing:      {StatusReady, StatusRejected, StatusCancelled},
	StatusReady:          {StatusOutForDelivery, StatusRejected, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusRejected, StatusCancelled},
	// terminal states
	StatusDelivered: {},
	StatusCancelled: {},
	StatusRejected:  {},
	StatusSkipped:   {},
}

// CanTransition reports whether from -> to is listed in the table.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range AllowTransition[from] {
		if s == to {
			return true
		}
	}
	return false
}

// actorMayRequest gates targets by role: customers may only skip, the system
// may only cancel (timeouts), partners drive everything else.
func actorMayRequest(actor Actor, to OrderStatus) bool {
	switch actor {
	case ActorCustomer:
		return to == StatusSkipped
	case ActorSystem:
		return to == StatusCancelled
	case ActorPartner:
		return to != StatusSkipped
	}
	return false
}

// ApplyTransition validates and applies a status change in memory, carrying
// out the side effects the target state requires. The caller still has to
// persist the order conditioned on the previously read status; this function
// does not touch storage.
func ApplyTransition(o *Order, to OrderStatus, actor Actor, reason string, now time.Time) error {
	if o == nil {
		return fmt.Errorf("order is nil")
	}
	from := o.Status
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if !actorMayRequest(actor, to) {
		return fmt.Errorf("%w: actor %s may not set %s", ErrInvalidTransition, actor, to)
	}
	switch to {
	case StatusCancelled, StatusRejected:
		if strings.TrimSpace(reason) == "" {
			return fmt.Errorf("%w: transition to %s", ErrMissingReason, to)
		}
	}

	o.Status = to
	o.UpdatedAt = now
	switch to {
	case StatusDelivered:
		t := now
		o.DeliveredAt = &t
	case StatusCancelled, StatusRejected:
		o.StatusReason = strings.TrimSpace(reason)
	}
	return nil
}
