package routes

import (
	"net/http"

	"github.com/okonkwolabs/kasuwa/internal/handler/storefront"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Products, vendors and stock
	ProductsHandler *storefront.ProductsHandler

	// Cart and floating button preference
	CartHandler *storefront.CartHandler

	// Checkout wizard and pickup stations
	CheckoutHandler *storefront.CheckoutHandler

	// Theme
	ThemeHandler *storefront.ThemeHandler

	// Order history
	OrdersHandler *storefront.OrdersHandler

	// Saved for later
	SavedHandler *storefront.SavedHandler

	// Promo codes
	PromoHandler *storefront.PromoHandler

	// Prometheus scrape endpoint
	MetricsHandler http.Handler
}
