package inventory

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Handler exposes stock ledger HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/inventory", func(r chi.Router) {
		r.Post("/{product_id}/adjust", h.adjust)
		r.Get("/{product_id}/total", h.totalStock)
		r.Get("/{product_id}/sizes", h.listSizeStock)
		r.Get("/{product_id}/movements", h.listMovements) // ?limit=50
	})
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.Adjust(r.Context(), chi.URLParam(r, "product_id"), req); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "stock adjusted"})
}

func (h *Handler) totalStock(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.TotalStock(r.Context(), chi.URLParam(r, "product_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]int{"total_stock": total})
}

func (h *Handler) listSizeStock(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListSizeStock(r.Context(), chi.URLParam(r, "product_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, rows)
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	ms, err := h.service.ListMovements(r.Context(), chi.URLParam(r, "product_id"), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, ms)
}

func respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrUnknownSizeRow):
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
