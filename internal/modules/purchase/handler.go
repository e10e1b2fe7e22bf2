package purchase

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rmachado/loja-erp/internal/modules/finance"
	"github.com/rmachado/loja-erp/internal/modules/inventory"
)

// Handler exposes purchase order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/purchase-orders", func(r chi.Router) {
		r.Post("/", h.create)                     // POST   /api/v1/purchase-orders
		r.Get("/", h.list)                        // GET    /api/v1/purchase-orders?status=PENDING&supplier_id=
		r.Get("/{id}", h.get)                     // GET    /api/v1/purchase-orders/{id}
		r.Get("/number/{number}", h.getByNumber)  // GET    /api/v1/purchase-orders/number/{number}
		r.Post("/{id}/receive", h.receive)        // POST   /api/v1/purchase-orders/{id}/receive
		r.Delete("/{id}", h.cancel)               // DELETE /api/v1/purchase-orders/{id}
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.service.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) getByNumber(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetByNumber(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orders, err := h.service.List(r.Context(), q.Get("status"), q.Get("supplier_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	var req ReceiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.service.Receive(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "order cancelled"})
}

func respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, ErrInvalidTransition):
		code = http.StatusConflict
	case errors.Is(err, finance.ErrInconsistentTotals):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, inventory.ErrInsufficientStock), errors.Is(err, inventory.ErrUnknownSizeRow):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, sql.ErrNoRows):
		code = http.StatusNotFound
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
