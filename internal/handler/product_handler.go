package handler

import (
	"encoding/json"
	"net/http"

	"kioskpos/internal/service"
	"kioskpos/pkg/logger"
)

type ProductHandler struct {
	catalog service.CatalogServiceInterface
	logger  *logger.Logger
}

func NewProductHandler(catalog service.CatalogServiceInterface, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger.WithComponent("product_handler"),
	}
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), req)
	if err != nil {
		writeError(w, statusForError(err, http.StatusBadRequest), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req service.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), productID, req)
	if err != nil {
		writeError(w, statusForError(err, http.StatusBadRequest), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), productID); err != nil {
		writeError(w, statusForError(err, http.StatusInternalServerError), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		writeError(w, statusForError(err, http.StatusInternalServerError), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// ListAvailableProducts handles GET /api/v1/products
func (h *ProductHandler) ListAvailableProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAvailableProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	writeJSON(w, http.StatusOK, toProductResponses(products))
}

// ListAllProducts handles GET /api/v1/products/all
func (h *ProductHandler) ListAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAllProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	writeJSON(w, http.StatusOK, toProductResponses(products))
}

// ListProductsByCategory handles GET /api/v1/products/category/{category}
func (h *ProductHandler) ListProductsByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")

	products, err := h.catalog.ListProductsByCategory(r.Context(), category)
	if err != nil {
		h.logger.Error("Failed to list products", "category", category, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	writeJSON(w, http.StatusOK, toProductResponses(products))
}
