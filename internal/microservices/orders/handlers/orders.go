package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"tiffinwale/internal/domain"
	"tiffinwale/internal/microservices/orders/repository"
	"tiffinwale/internal/microservices/orders/service"
)

type OrdersHandler struct {
	service service.OrdersServiceInterface
}

func NewOrdersHandler(s service.OrdersServiceInterface) *OrdersHandler {
	return &OrdersHandler{service: s}
}

type createOrderRequest struct {
	CustomerID           string             `json:"customer_id"`
	PartnerID            string             `json:"partner_id"`
	MealType             string             `json:"meal_type"`
	ScheduledDate        string             `json:"scheduled_date"` // YYYY-MM-DD
	DeliverySlot         string             `json:"delivery_slot"`
	Items                []orderItemRequest `json:"items"`
	Plan                 *planRequest       `json:"subscription_plan,omitempty"`
	DeliveryAddress      string             `json:"delivery_address"`
	DeliveryInstructions string             `json:"delivery_instructions"`
}

type orderItemRequest struct {
	MenuItemID          string  `json:"menu_item_id"`
	Name                string  `json:"name"`
	SpecialInstructions string  `json:"special_instructions"`
	Quantity            int     `json:"quantity"`
	Price               float64 `json:"price"`
}

type planRequest struct {
	PlanID            string                    `json:"plan_id"`
	PlanName          string                    `json:"plan_name"`
	MealSpecification *domain.MealSpecification `json:"meal_specification,omitempty"`
}

type transitionRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
	Reason string `json:"reason"`
}

func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	mealType, err := domain.ParseMealType(req.MealType)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	slot, err := domain.ParseDeliverySlot(req.DeliverySlot)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	date, err := time.Parse("2006-01-02", req.ScheduledDate)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "validation", "scheduled_date must be YYYY-MM-DD")
		return
	}

	in := service.CreateOrderInput{
		CustomerID:           req.CustomerID,
		PartnerID:            req.PartnerID,
		MealType:             mealType,
		ScheduledDate:        date,
		DeliverySlot:         slot,
		DeliveryAddress:      req.DeliveryAddress,
		DeliveryInstructions: req.DeliveryInstructions,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, domain.OrderItem{
			MenuItemID:          it.MenuItemID,
			Name:                it.Name,
			SpecialInstructions: it.SpecialInstructions,
			Quantity:            it.Quantity,
			Price:               it.Price,
		})
	}
	if req.Plan != nil {
		in.Plan = &domain.PlanRef{
			PlanID:            req.Plan.PlanID,
			PlanName:          req.Plan.PlanName,
			MealSpecification: req.Plan.MealSpecification,
		}
	}

	o, err := h.service.CreateOrder(r.Context(), in)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), param(r, "order_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.ListFilter{
		PartnerID: q.Get("partner_id"),
		Limit:     atoiDefault(q.Get("limit"), 20),
		Offset:    atoiDefault(q.Get("offset"), 0),
	}
	if f.PartnerID == "" {
		writeProblem(w, http.StatusBadRequest, "validation", "partner_id is required")
		return
	}
	if s := q.Get("status"); s != "" {
		status, err := domain.ParseStatus(s)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "validation", err.Error())
			return
		}
		f.Status = status
	}
	if d := q.Get("date"); d != "" {
		date, err := time.Parse("2006-01-02", d)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		f.Date = &date
	}

	orders, err := h.service.ListOrders(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "count": len(orders)})
}

func (h *OrdersHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	id := param(r, "order_id")
	limit := atoiDefault(r.URL.Query().Get("limit"), 50)
	offset := atoiDefault(r.URL.Query().Get("offset"), 0)
	events, err := h.service.Timeline(r.Context(), id, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order_id": id, "events": events})
}

// UpdateStatus is the generic transition endpoint.
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	target, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	actor := domain.ActorPartner
	if req.Actor != "" {
		if actor, err = domain.ParseActor(req.Actor); err != nil {
			writeProblem(w, http.StatusBadRequest, "validation", err.Error())
			return
		}
	}
	h.transition(w, r, target, actor, req.Reason)
}

func (h *OrdersHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, domain.StatusConfirmed, domain.ActorPartner, "")
}

func (h *OrdersHandler) StartPreparing(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, domain.StatusPreparing, domain.ActorPartner, "")
}

func (h *OrdersHandler) MarkReady(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, domain.StatusReady, domain.ActorPartner, "")
}

func (h *OrdersHandler) MarkOutForDelivery(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, domain.StatusOutForDelivery, domain.ActorPartner, "")
}

func (h *OrdersHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, domain.StatusDelivered, domain.ActorPartner, "")
}

func (h *OrdersHandler) Reject(w http.ResponseWriter, r *http.Request) {
	reason, ok := decodeReason(w, r)
	if !ok {
		return
	}
	h.transition(w, r, domain.StatusRejected, domain.ActorPartner, reason)
}

func (h *OrdersHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	actor := domain.ActorPartner
	if req.Actor != "" {
		var err error
		if actor, err = domain.ParseActor(req.Actor); err != nil {
			writeProblem(w, http.StatusBadRequest, "validation", err.Error())
			return
		}
	}
	h.transition(w, r, domain.StatusCancelled, actor, req.Reason)
}

func (h *OrdersHandler) Skip(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, domain.StatusSkipped, domain.ActorCustomer, "")
}

func (h *OrdersHandler) transition(w http.ResponseWriter, r *http.Request, target domain.OrderStatus, actor domain.Actor, reason string) {
	o, err := h.service.Transition(r.Context(), param(r, "order_id"), target, actor, reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func decodeReason(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return "", false
	}
	return req.Reason, true
}
