package storefront

import (
	"log/slog"
	"net/http"

	"github.com/okonkwolabs/kasuwa/internal/catalog"
	"github.com/okonkwolabs/kasuwa/internal/inventory"
	"github.com/okonkwolabs/kasuwa/internal/telemetry"
)

// ProductsHandler serves the catalog and stock levels.
type ProductsHandler struct {
	catalog *catalog.Catalog
	stock   *inventory.Simulator
	logger  *slog.Logger
}

// NewProductsHandler creates a new products handler
func NewProductsHandler(c *catalog.Catalog, stock *inventory.Simulator, logger *slog.Logger) *ProductsHandler {
	return &ProductsHandler{catalog: c, stock: stock, logger: logger}
}

// List handles GET /products?category=&vendor=
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	vendor := r.URL.Query().Get("vendor")

	if telemetry.Business != nil {
		filter := "none"
		switch {
		case category != "":
			filter = "category"
		case vendor != "":
			filter = "vendor"
		}
		telemetry.Business.ProductSearches.WithLabelValues(filter).Inc()
	}

	writeJSON(w, h.logger, http.StatusOK, h.catalog.List(r.Context(), category, vendor))
}

// productView is a product plus its live stock level and any running
// price drop.
type productView struct {
	catalog.Product
	Stock    int `json:"stock"`
	Discount int `json:"active_discount_percent,omitempty"`
}

// Get handles GET /products/{slug}
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.BySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if telemetry.Business != nil {
		telemetry.Business.ProductViews.WithLabelValues(product.Slug).Inc()
	}
	writeJSON(w, h.logger, http.StatusOK, productView{
		Product:  *product,
		Stock:    h.stock.Stock(product.ID),
		Discount: h.stock.Discount(product.ID),
	})
}

// Vendors handles GET /vendors
func (h *ProductsHandler) Vendors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.catalog.Vendors(r.Context()))
}

// Categories handles GET /categories
func (h *ProductsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.catalog.Categories(r.Context()))
}

// Stock handles GET /stock
func (h *ProductsHandler) Stock(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.stock.Levels())
}
