// Package api exposes the cart engine over HTTP. Handlers are thin: they
// decode requests, delegate to the cart, catalog, and checkout components,
// and map domain errors to status codes. All totals come from the cart's
// snapshot; nothing here recomputes pricing.
package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/briqstore/cart-engine/internal/catalog"
	"github.com/briqstore/cart-engine/internal/checkout"
	"github.com/briqstore/cart-engine/internal/session"
)

// Handler serves the cart API.
type Handler struct {
	sessions *session.Manager
	products catalog.Repository
	checkout *checkout.Service
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(sessions *session.Manager, products catalog.Repository, checkoutSvc *checkout.Service) *Handler {
	return &Handler{
		sessions: sessions,
		products: products,
		checkout: checkoutSvc,
	}
}

// Routes returns the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Get("/shipping", h.listShippingTiers)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Post("/items", h.addItem)
		r.Patch("/items", h.updateQuantity)
		r.Delete("/items", h.removeItem)
		r.Post("/coupon", h.applyCoupon)
		r.Delete("/coupon", h.removeCoupon)
		r.Put("/shipping", h.setShippingMethod)
		r.Delete("/", h.clearCart)
	})

	r.Post("/checkout", h.placeOrder)

	return r
}
