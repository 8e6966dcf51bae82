package v1

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"catalog-service/internal/domain"
	"catalog-service/internal/usecase"
	"catalog-service/pkg/logger"
	"catalog-service/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the body of POST /api/v1/products.
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Weight      decimal.Decimal `json:"weight"`
}

type ProductResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Weight      json.Number `json:"weight"`
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       json.Number(p.Price().String()),
		Weight:      json.Number(p.Weight().String()),
	}
}

type ProductHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewProductHandler(uc *usecase.CatalogUsecase) *ProductHandler {
	return &ProductHandler{catalogUC: uc}
}

// Register mounts the product routes on mux.
func (h *ProductHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/products", h.CreateProduct)
	mux.HandleFunc("GET /api/v1/products", h.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", h.GetProduct)
	mux.HandleFunc("DELETE /api/v1/products/{id}", h.DeleteProduct)

	mux.HandleFunc("GET /api/v1/products/search", h.Search)
	mux.HandleFunc("GET /api/v1/products/price-range", h.PriceRange)
	mux.HandleFunc("GET /api/v1/products/weight-range", h.WeightRange)
	mux.HandleFunc("GET /api/v1/products/expensive", h.Expensive)
	mux.HandleFunc("GET /api/v1/products/lightweight", h.Lightweight)
	mux.HandleFunc("GET /api/v1/products/affordable-lightweight", h.AffordableLightweight)
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.catalogUC.CreateProduct(r.Context(), usecase.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Weight:      req.Weight,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/products/"+product.ID())
	utils.WriteJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogUC.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUC.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respond(w, r, func(ctx context.Context) (domain.PagedResult[domain.Product], error) {
		return h.catalogUC.ListProducts(ctx, page)
	})
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := parsePage(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	term := q.Get("term")
	if term == "" {
		utils.WriteError(w, http.StatusBadRequest, "query parameter term is required")
		return
	}
	h.respond(w, r, func(ctx context.Context) (domain.PagedResult[domain.Product], error) {
		return h.catalogUC.SearchProducts(ctx, term, page)
	})
}

func (h *ProductHandler) PriceRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, min, max, err := parseRange(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respond(w, r, func(ctx context.Context) (domain.PagedResult[domain.Product], error) {
		return h.catalogUC.ProductsByPriceRange(ctx, min, max, page)
	})
}

func (h *ProductHandler) WeightRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, min, max, err := parseRange(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respond(w, r, func(ctx context.Context) (domain.PagedResult[domain.Product], error) {
		return h.catalogUC.ProductsByWeightRange(ctx, min, max, page)
	})
}

func (h *ProductHandler) Expensive(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := parsePage(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	threshold, err := utils.ParseDecimal(q, "threshold", domain.DefaultExpensiveThreshold)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respond(w, r, func(ctx context.Context) (domain.PagedResult[domain.Product], error) {
		return h.catalogUC.ExpensiveProducts(ctx, threshold, page)
	})
}

func (h *ProductHandler) Lightweight(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := parsePage(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	maxWeight, err := utils.ParseDecimal(q, "maxWeight", domain.DefaultLightweightMax)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respond(w, r, func(ctx context.Context) (domain.PagedResult[domain.Product], error) {
		return h.catalogUC.LightweightProducts(ctx, maxWeight, page)
	})
}

func (h *ProductHandler) AffordableLightweight(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := parsePage(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	maxPrice, err := utils.ParseDecimal(q, "maxPrice", domain.DefaultAffordableMaxPrice)
	if err != nil {
		writeError(w, r, err)
		return
	}
	maxWeight, err := utils.ParseDecimal(q, "maxWeight", domain.DefaultLightweightMax)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respond(w, r, func(ctx context.Context) (domain.PagedResult[domain.Product], error) {
		return h.catalogUC.AffordableAndLightweightProducts(ctx, maxPrice, maxWeight, page)
	})
}

func (h *ProductHandler) respond(w http.ResponseWriter, r *http.Request, run func(context.Context) (domain.PagedResult[domain.Product], error)) {
	result, err := run(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.MapItems(result, toProductResponse))
}

// --- Request parsing ---

func parsePage(q url.Values) (domain.PageRequest, error) {
	pageNumber, err := utils.ParseInt(q, "pageNumber", domain.DefaultPageNumber)
	if err != nil {
		return domain.PageRequest{}, err
	}
	pageSize, err := utils.ParseInt(q, "pageSize", domain.DefaultPageSize)
	if err != nil {
		return domain.PageRequest{}, err
	}
	page := domain.PageRequest{PageNumber: pageNumber, PageSize: pageSize}
	if err := page.Validate(); err != nil {
		return domain.PageRequest{}, err
	}
	return page, nil
}

func parseRange(q url.Values) (domain.PageRequest, decimal.Decimal, decimal.Decimal, error) {
	page, err := parsePage(q)
	if err != nil {
		return domain.PageRequest{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	min, err := utils.RequireDecimal(q, "min")
	if err != nil {
		return domain.PageRequest{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	max, err := utils.RequireDecimal(q, "max")
	if err != nil {
		return domain.PageRequest{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	return page, min, max, nil
}

// writeError maps domain and request errors to a status. Client errors carry
// their message; anything else is logged and hidden.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var paramErr *utils.ParamError
	switch {
	case errors.Is(err, domain.ErrInvalidProduct), errors.Is(err, domain.ErrInvalidPage), errors.As(err, &paramErr):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		utils.WriteError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, context.DeadlineExceeded):
		logger.WithContext(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("Catalog query timed out")
		utils.WriteError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		utils.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
