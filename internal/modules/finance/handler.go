package finance

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes financial ledger HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/payables", func(r chi.Router) {
		r.Post("/", h.createPayable)
		r.Get("/", h.listPayables) // ?status=PENDING&due_from=2026-01-01&due_to=2026-01-31
		r.Get("/{id}", h.getPayable)
		r.Patch("/{id}/pay", h.markPayablePaid)
		r.Get("/order/{order_id}", h.listOrderPayables)
	})
	r.Route("/api/v1/receivables", func(r chi.Router) {
		r.Post("/", h.createReceivable)
		r.Get("/", h.listReceivables)
		r.Get("/{id}", h.getReceivable)
		r.Patch("/{id}/receive", h.markReceivableReceived)
		r.Get("/sale/{sale_id}", h.listSaleReceivables)
	})
}

func (h *Handler) createPayable(w http.ResponseWriter, r *http.Request) {
	var req CreatePayableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.CreatePayable(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) getPayable(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetPayable(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) listPayables(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ps, err := h.service.ListPayables(r.Context(), q.Get("status"), q.Get("due_from"), q.Get("due_to"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, ps)
}

func (h *Handler) listOrderPayables(w http.ResponseWriter, r *http.Request) {
	ps, err := h.service.ListOrderPayables(r.Context(), chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, ps)
}

func (h *Handler) markPayablePaid(w http.ResponseWriter, r *http.Request) {
	var req SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.MarkPayablePaid(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "payable paid"})
}

func (h *Handler) createReceivable(w http.ResponseWriter, r *http.Request) {
	var req CreateReceivableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rc, err := h.service.CreateReceivable(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, rc)
}

func (h *Handler) getReceivable(w http.ResponseWriter, r *http.Request) {
	rc, err := h.service.GetReceivable(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, rc)
}

func (h *Handler) listReceivables(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rs, err := h.service.ListReceivables(r.Context(), q.Get("status"), q.Get("due_from"), q.Get("due_to"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, rs)
}

func (h *Handler) listSaleReceivables(w http.ResponseWriter, r *http.Request) {
	rs, err := h.service.ListSaleReceivables(r.Context(), chi.URLParam(r, "sale_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, rs)
}

func (h *Handler) markReceivableReceived(w http.ResponseWriter, r *http.Request) {
	var req SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.MarkReceivableReceived(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "receivable received"})
}

func respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, ErrAlreadySettled):
		code = http.StatusConflict
	case errors.Is(err, ErrInconsistentTotals):
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
