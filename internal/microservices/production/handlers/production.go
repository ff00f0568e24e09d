package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tiffinwale/internal/domain"
	"tiffinwale/internal/microservices/production/service"
)

type Handler struct {
	Production *ProductionHandler
}

func New(s service.ProductionServiceInterface) *Handler {
	return &Handler{Production: NewProductionHandler(s)}
}

type ProductionHandler struct {
	service service.ProductionServiceInterface
}

func NewProductionHandler(s service.ProductionServiceInterface) *ProductionHandler {
	return &ProductionHandler{service: s}
}

// Summary computes the kitchen production summary for the calling partner.
// Partner identity arrives in X-Partner-ID, placed there by the auth gateway
// in front of this service. Date defaults to today (UTC).
func (h *ProductionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	partnerID := r.Header.Get("X-Partner-ID")
	if partnerID == "" {
		writeProblem(w, http.StatusBadRequest, "missing_partner", "X-Partner-ID header is required")
		return
	}

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid_date", err.Error())
		return
	}

	sum, err := h.service.Summarize(r.Context(), partnerID, date)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", domain.ErrInvalidDate, s)
	}
	return d, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}
