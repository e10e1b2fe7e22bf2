package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Post("/categories", h.createCategory)
		r.Get("/categories", h.listCategories)
		r.Put("/categories/{id}", h.renameCategory)
		r.Delete("/categories/{id}", h.deleteCategory)

		r.Post("/brands", h.createBrand)
		r.Get("/brands", h.listBrands)
		r.Put("/brands/{id}", h.renameBrand)
		r.Delete("/brands/{id}", h.deleteBrand)

		r.Post("/sizes", h.createSize)
		r.Get("/sizes", h.listSizes)
		r.Delete("/sizes/{id}", h.deleteSize)

		r.Post("/products", h.createProduct)
		r.Get("/products", h.listProducts) // ?category_id=
		r.Get("/products/{id}", h.getProduct)
		r.Put("/products/{id}", h.updateProduct)
		r.Delete("/products/{id}", h.deleteProduct)
	})
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.CreateCategory(r.Context(), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, c)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.service.ListCategories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, cs)
}

func (h *Handler) renameCategory(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.RenameCategory(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "category deleted"})
}

func (h *Handler) createBrand(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	b, err := h.service.CreateBrand(r.Context(), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, b)
}

func (h *Handler) listBrands(w http.ResponseWriter, r *http.Request) {
	bs, err := h.service.ListBrands(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, bs)
}

func (h *Handler) renameBrand(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	b, err := h.service.RenameBrand(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, b)
}

func (h *Handler) deleteBrand(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBrand(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "brand deleted"})
}

func (h *Handler) createSize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label     string `json:"label"`
		SortOrder int    `json:"sort_order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sz, err := h.service.CreateSize(r.Context(), req.Label, req.SortOrder)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, sz)
}

func (h *Handler) listSizes(w http.ResponseWriter, r *http.Request) {
	ss, err := h.service.ListSizes(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, ss)
}

func (h *Handler) deleteSize(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSize(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "size deleted"})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.service.ListProducts(r.Context(), r.URL.Query().Get("category_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, ps)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "product deleted"})
}

func respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrValidation):
		code = http.StatusBadRequest
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
