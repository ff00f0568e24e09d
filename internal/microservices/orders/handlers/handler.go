package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"tiffinwale/internal/domain"
	"tiffinwale/internal/microservices/orders/service"
)

type Handler struct {
	Orders *OrdersHandler
}

func New(s service.OrdersServiceInterface) *Handler {
	return &Handler{Orders: NewOrdersHandler(s)}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem emits the shared error shape (simplified RFC7807 Problem+JSON).
func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}

// writeDomainError maps the core's failure kinds onto HTTP. StaleState is the
// only retryable kind; it still gets 409 so callers re-read before retrying.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		writeProblem(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeProblem(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, domain.ErrStaleState):
		writeProblem(w, http.StatusConflict, "stale_state", err.Error())
	case errors.Is(err, domain.ErrMissingReason):
		writeProblem(w, http.StatusBadRequest, "missing_reason", err.Error())
	default:
		writeProblem(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func param(r *http.Request, key string) string {
	return r.PathValue(key)
}

func atoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}
