package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/alcohol-tracker/internal/catalog/domain"
	"github.com/tair/alcohol-tracker/pkg/auth"
	"github.com/tair/alcohol-tracker/pkg/logger"
	"github.com/tair/alcohol-tracker/pkg/metrics"
	"github.com/tair/alcohol-tracker/pkg/response"
)

const maxResultsLimit = 100

// Catalog is what the handler needs from the lookup service
type Catalog interface {
	FindByIdentifier(ctx context.Context, id string) (*domain.SearchResult, bool)
	SearchByText(ctx context.Context, query string, maxResults int) []domain.SearchResult
	Products(ctx context.Context) []domain.Product
	Stats(ctx context.Context) domain.Stats
	Refresh(ctx context.Context, force bool) (*domain.Snapshot, error)
}

// CatalogHandler exposes the product catalog under /api/systembolaget
type CatalogHandler struct {
	catalog     Catalog
	tokens      *auth.TokenManager
	searchLimit func(http.Handler) http.Handler
	metrics     *metrics.HTTPMetrics
}

// NewCatalogHandler wires the handler. searchLimit wraps the search routes and
// may be nil.
func NewCatalogHandler(catalog Catalog, tokens *auth.TokenManager, searchLimit func(http.Handler) http.Handler, reg prometheus.Registerer) *CatalogHandler {
	if searchLimit == nil {
		searchLimit = func(next http.Handler) http.Handler { return next }
	}
	return &CatalogHandler{
		catalog:     catalog,
		tokens:      tokens,
		searchLimit: searchLimit,
		metrics:     metrics.NewHTTPMetrics(reg, "catalog_service"),
	}
}

func (h *CatalogHandler) limited(next http.HandlerFunc) http.HandlerFunc {
	return h.searchLimit(next).ServeHTTP
}

func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	const prefix = "/api/systembolaget"

	router.HandleFunc(prefix+"/search/ean/{ean}", h.metrics.Wrap(prefix+"/search/ean/{ean}", h.limited(h.SearchByEan))).Methods("GET")
	router.HandleFunc(prefix+"/search/text", h.metrics.Wrap(prefix+"/search/text", h.limited(h.SearchByText))).Methods("GET")
	router.HandleFunc(prefix+"/products", h.metrics.Wrap(prefix+"/products", h.GetProducts)).Methods("GET")
	router.HandleFunc(prefix+"/stats", h.metrics.Wrap(prefix+"/stats", h.GetStats)).Methods("GET")

	// Admin routes
	router.HandleFunc(prefix+"/refresh", h.metrics.Wrap(prefix+"/refresh", auth.AdminMiddleware(h.tokens)(h.Refresh))).Methods("POST")
}

// SearchByEan handles GET /api/systembolaget/search/ean/{ean}
func (h *CatalogHandler) SearchByEan(w http.ResponseWriter, r *http.Request) {
	ean := strings.TrimSpace(mux.Vars(r)["ean"])
	if ean == "" {
		response.Fail(w, http.StatusBadRequest, "EAN cannot be empty")
		return
	}

	result, ok := h.catalog.FindByIdentifier(r.Context(), ean)
	if !ok {
		response.Fail(w, http.StatusNotFound, fmt.Sprintf("No product found with EAN: %s", ean))
		return
	}

	response.OK(w, result)
}

// SearchByText handles GET /api/systembolaget/search/text
func (h *CatalogHandler) SearchByText(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	if strings.TrimSpace(query) == "" {
		response.Fail(w, http.StatusBadRequest, "Query cannot be empty")
		return
	}

	maxResults := 20
	if raw := q.Get("maxResults"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxResultsLimit {
			response.Fail(w, http.StatusBadRequest, fmt.Sprintf("MaxResults must be between 1 and %d", maxResultsLimit))
			return
		}
		maxResults = n
	}

	response.OK(w, h.catalog.SearchByText(r.Context(), query, maxResults))
}

// GetProducts handles GET /api/systembolaget/products
func (h *CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.catalog.Products(r.Context()))
}

// GetStats handles GET /api/systembolaget/stats
func (h *CatalogHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.catalog.Stats(r.Context()))
}

// Refresh handles POST /api/systembolaget/refresh
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	snap, err := h.catalog.Refresh(r.Context(), force)
	if err != nil {
		logger.Error(r.Context()).Err(err).Bool("force", force).Msg("Catalog refresh failed")
		response.Fail(w, http.StatusBadGateway, "Failed to refresh product data")
		return
	}

	response.JSON(w, http.StatusOK, response.Response{
		Success: true,
		Message: "Product data refreshed successfully",
		Data: map[string]interface{}{
			"products":  len(snap.Products),
			"fetchedAt": snap.Timestamp,
			"timestamp": time.Now().UTC(),
		},
	})
}
