package domain

import "errors"

// Failure kinds the fulfillment core can surface. Everything else
// (no orders for a date, no plan, no items) is a normal business state.
var (
	// ErrInvalidTransition: the requested status change is not permitted from
	// the current state, or the actor may not request it. Terminal for the
	// request, never retried.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrStaleState: the optimistic-concurrency precondition failed; the
	// stored status no longer matches the one the caller read. Retryable by
	// re-reading and re-attempting.
	ErrStaleState = errors.New("order status changed concurrently")

	// ErrMissingReason: cancellation/rejection without a reason string.
	ErrMissingReason = errors.New("cancellation reason is required")

	// ErrInvalidDate: malformed date parameter to the production aggregator.
	ErrInvalidDate = errors.New("invalid date")

	ErrOrderNotFound = errors.New("order not found")
)
