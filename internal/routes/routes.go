package routes

import (
	"net/http"

	"github.com/okonkwolabs/kasuwa/internal/router"
)

// RegisterStorefrontRoutes registers all shopper-facing routes.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Product browsing
	r.Get("/products", deps.ProductsHandler.List)
	r.Get("/products/{slug}", deps.ProductsHandler.Get)
	r.Get("/vendors", deps.ProductsHandler.Vendors)
	r.Get("/categories", deps.ProductsHandler.Categories)
	r.Get("/stock", deps.ProductsHandler.Stock)

	// Shopping cart
	r.Get("/cart", deps.CartHandler.View)
	r.Post("/cart/items", deps.CartHandler.Add)
	r.Put("/cart/items/{id}", deps.CartHandler.UpdateQuantity)
	r.Delete("/cart/items/{id}", deps.CartHandler.Remove)
	r.Delete("/cart", deps.CartHandler.Clear)
	r.Get("/cart/estimate", deps.CartHandler.Estimate)
	r.Get("/cart/button-position", deps.CartHandler.ButtonPosition)
	r.Put("/cart/button-position", deps.CartHandler.SetButtonPosition)

	// Checkout flow
	r.Post("/checkout", deps.CheckoutHandler.Begin)
	r.Get("/checkout", deps.CheckoutHandler.Get)
	r.Put("/checkout/delivery", deps.CheckoutHandler.SetDelivery)
	r.Put("/checkout/contact", deps.CheckoutHandler.SetContact)
	r.Put("/checkout/payment", deps.CheckoutHandler.SetPayment)
	r.Post("/checkout/next", deps.CheckoutHandler.Next)
	r.Post("/checkout/back", deps.CheckoutHandler.Back)
	r.Get("/checkout/quote", deps.CheckoutHandler.Quote)
	r.Post("/checkout/place-order", deps.CheckoutHandler.PlaceOrder)
	r.Get("/pickup-stations", deps.CheckoutHandler.Stations)
	r.Get("/pickup-stations/{id}", deps.CheckoutHandler.Station)

	// Theme
	r.Get("/theme", deps.ThemeHandler.Get)
	r.Put("/theme/mode", deps.ThemeHandler.SetMode)
	r.Put("/theme/palette", deps.ThemeHandler.UpdatePalette)
	r.Post("/theme/reset", deps.ThemeHandler.Reset)

	// Order history
	r.Get("/orders", deps.OrdersHandler.List)
	r.Get("/orders/latest", deps.OrdersHandler.Latest)
	r.Get("/orders/{id}", deps.OrdersHandler.Get)

	// Saved for later, keyed by shop domain
	r.Get("/saved/{shop}", deps.SavedHandler.List)
	r.Post("/saved/{shop}/{item}", deps.SavedHandler.Save)
	r.Post("/saved/{shop}/{item}/restore", deps.SavedHandler.Restore)
	r.Delete("/saved/{shop}/{item}", deps.SavedHandler.Remove)

	// Promo codes
	r.Post("/promo/lookup", deps.PromoHandler.Lookup)

	// Operational endpoints
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle(http.MethodGet, "/metrics", deps.MetricsHandler)
}
