package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrops-br/catalog-api/internal/app/dto"
	"github.com/mrops-br/catalog-api/internal/app/service"
	"github.com/mrops-br/catalog-api/internal/domain"
	"github.com/mrops-br/catalog-api/internal/infrastructure/http/response"
)

// maxBodyBytes caps create payloads at 100kb.
const maxBodyBytes = 100 << 10

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeCreateProductRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// writeError maps domain errors to responses. Anything that is not a
// validation or not-found error becomes a bare 500.
func (h *ProductHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *domain.ValidationError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		response.Error(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.As(err, &vErr):
		response.Error(w, http.StatusBadRequest, vErr.Title())
	case errors.Is(err, domain.ErrProductNotFound):
		response.Error(w, http.StatusNotFound, "Product not found")
	default:
		h.logger.ErrorContext(r.Context(), "Request failed",
			slog.String("http.request.method", r.Method),
			slog.String("url.path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		response.ServerError(w)
	}
}
