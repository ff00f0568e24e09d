package handlers

import "net/http"

func Router(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/orders", h.Orders.Create)
	mux.HandleFunc("GET /api/v1/orders", h.Orders.List)
	mux.HandleFunc("GET /api/v1/orders/{order_id}", h.Orders.Get)
	mux.HandleFunc("GET /api/v1/orders/{order_id}/timeline", h.Orders.Timeline)

	// Generic transition plus the purpose-built shortcuts. All of them route
	// through the same Transition call in the service.
	mux.HandleFunc("POST /api/v1/orders/{order_id}/status", h.Orders.UpdateStatus)
	mux.HandleFunc("POST /api/v1/orders/{order_id}/accept", h.Orders.Accept)
	mux.HandleFunc("POST /api/v1/orders/{order_id}/reject", h.Orders.Reject)
	mux.HandleFunc("POST /api/v1/orders/{order_id}/preparing", h.Orders.StartPreparing)
	mux.HandleFunc("POST /api/v1/orders/{order_id}/ready", h.Orders.MarkReady)
	mux.HandleFunc("POST /api/v1/orders/{order_id}/out-for-delivery", h.Orders.MarkOutForDelivery)
	mux.HandleFunc("POST /api/v1/orders/{order_id}/delivered", h.Orders.MarkDelivered)
	mux.HandleFunc("POST /api/v1/orders/{order_id}/cancel", h.Orders.Cancel)
	mux.HandleFunc("POST /api/v1/orders/{order_id}/skip", h.Orders.Skip)

	return mux
}
