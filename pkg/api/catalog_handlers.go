package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/KeenIsHere/reactecom/pkg/audit"
	"github.com/KeenIsHere/reactecom/pkg/auth"
	"github.com/KeenIsHere/reactecom/pkg/catalog"
	"github.com/KeenIsHere/reactecom/pkg/contextkeys"
	"github.com/KeenIsHere/reactecom/pkg/httputil"
	"github.com/KeenIsHere/reactecom/pkg/middleware"
	"github.com/KeenIsHere/reactecom/pkg/observability"
)

// CatalogHandlers handles category and product requests. Reads require
// any resolvable token; writes require an admin token.
type CatalogHandlers struct {
	store    catalog.Store
	authn    *middleware.Authenticator
	recorder *audit.Recorder
	logger   *observability.Logger
	metrics  *observability.Metrics
}

// NewCatalogHandlers creates the catalog handlers. recorder and metrics
// may be nil.
func NewCatalogHandlers(store catalog.Store, authn *middleware.Authenticator, recorder *audit.Recorder, logger *observability.Logger, metrics *observability.Metrics) *CatalogHandlers {
	return &CatalogHandlers{
		store:    store,
		authn:    authn,
		recorder: recorder,
		logger:   logger,
		metrics:  metrics,
	}
}

// RegisterRoutes registers the catalog routes with their auth gates.
func (h *CatalogHandlers) RegisterRoutes(router *mux.Router) {
	router.Handle("/categories", h.authn.RequireUser(http.HandlerFunc(h.listCategories))).Methods("GET")
	router.Handle("/categories", h.authn.RequireAdmin(http.HandlerFunc(h.createCategory))).Methods("POST")
	router.Handle("/products", h.authn.RequireUser(http.HandlerFunc(h.listProducts))).Methods("GET")
	router.Handle("/products", h.authn.RequireAdmin(http.HandlerFunc(h.createProduct))).Methods("POST")
}

// createCategory handles POST /categories
func (h *CatalogHandlers) createCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if httputil.IsJSONRequest(r) {
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.WriteBadRequest(w, "invalid request body")
			return
		}
	} else {
		req.CategoryName = httputil.FormValue(r, "category_name")
	}

	if req.CategoryName == "" {
		httputil.WriteBadRequest(w, auth.NewMissingFieldError("category_name").Error())
		return
	}

	category := &catalog.Category{Name: req.CategoryName}
	if _, err := h.store.CreateCategory(r.Context(), category); err != nil {
		h.countWrite("category", "error")
		h.logger.WithError(err).
			WithField("request_id", contextkeys.RequestID(r.Context())).
			Error("Failed to add category")
		httputil.WriteInternalError(w)
		return
	}

	h.countWrite("category", "success")
	userID, _ := contextkeys.UserID(r.Context())
	h.recorder.Record(r.Context(), audit.Event{
		Action:    audit.ActionCategoryCreated,
		UserID:    userID,
		RequestID: contextkeys.RequestID(r.Context()),
		RemoteIP:  r.RemoteAddr,
		Outcome:   "success",
		Detail:    map[string]string{"category_id": strconv.FormatInt(category.ID, 10)},
	})
	httputil.WriteCreated(w, "Category added successfully", category)
}

// listCategories handles GET /categories
func (h *CatalogHandlers) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.logger.WithError(err).
			WithField("request_id", contextkeys.RequestID(r.Context())).
			Error("Failed to list categories")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, "Categories fetched successfully", categories)
}

// createProduct handles POST /products
func (h *CatalogHandlers) createProduct(w http.ResponseWriter, r *http.Request) {
	req, missing, ok := h.parseProduct(w, r)
	if !ok {
		return
	}
	if len(missing) > 0 {
		httputil.WriteBadRequest(w, auth.NewMissingFieldError(missing...).Error())
		return
	}

	product := &catalog.Product{
		Title:       req.ProductName,
		Price:       req.Price,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
	}
	if _, err := h.store.CreateProduct(r.Context(), product); err != nil {
		if errors.Is(err, catalog.ErrUnknownCategory) {
			h.countWrite("product", "unknown_category")
			httputil.WriteBadRequest(w, "category_id does not reference an existing category")
			return
		}
		h.countWrite("product", "error")
		h.logger.WithError(err).
			WithField("request_id", contextkeys.RequestID(r.Context())).
			Error("Failed to add product")
		httputil.WriteInternalError(w)
		return
	}

	h.countWrite("product", "success")
	userID, _ := contextkeys.UserID(r.Context())
	h.recorder.Record(r.Context(), audit.Event{
		Action:    audit.ActionProductCreated,
		UserID:    userID,
		RequestID: contextkeys.RequestID(r.Context()),
		RemoteIP:  r.RemoteAddr,
		Outcome:   "success",
		Detail:    map[string]string{"product_id": strconv.FormatInt(product.ID, 10)},
	})
	httputil.WriteCreated(w, "Product added successfully", product)
}

// parseProduct reads the request from JSON or form fields and reports
// which required fields are absent. ok is false when the body itself was
// unreadable and a response has already been written.
func (h *CatalogHandlers) parseProduct(w http.ResponseWriter, r *http.Request) (createProductRequest, []string, bool) {
	var req createProductRequest
	var missing []string

	if httputil.IsJSONRequest(r) {
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.WriteBadRequest(w, "invalid request body")
			return req, nil, false
		}
		if req.ProductName == "" {
			missing = append(missing, "product_name")
		}
		if req.Price <= 0 {
			missing = append(missing, "price")
		}
		if req.Description == "" {
			missing = append(missing, "description")
		}
		if req.CategoryID == 0 {
			missing = append(missing, "category_id")
		}
		return req, missing, true
	}

	req.ProductName = httputil.FormValue(r, "product_name")
	req.Description = httputil.FormValue(r, "description")
	req.ImageURL = httputil.FormValue(r, "image_url")

	if req.ProductName == "" {
		missing = append(missing, "product_name")
	}
	if raw := httputil.FormValue(r, "price"); raw == "" {
		missing = append(missing, "price")
	} else if price, err := strconv.ParseFloat(raw, 64); err != nil || price <= 0 {
		missing = append(missing, "price")
	} else {
		req.Price = price
	}
	if req.Description == "" {
		missing = append(missing, "description")
	}
	if raw := httputil.FormValue(r, "category_id"); raw == "" {
		missing = append(missing, "category_id")
	} else if id, err := strconv.ParseInt(raw, 10, 64); err != nil || id <= 0 {
		missing = append(missing, "category_id")
	} else {
		req.CategoryID = id
	}
	return req, missing, true
}

// listProducts handles GET /products
func (h *CatalogHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		h.logger.WithError(err).
			WithField("request_id", contextkeys.RequestID(r.Context())).
			Error("Failed to list products")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, "Products fetched successfully", products)
}

func (h *CatalogHandlers) countWrite(entity, status string) {
	if h.metrics != nil {
		h.metrics.CatalogWritesTotal.WithLabelValues(entity, status).Inc()
	}
}
