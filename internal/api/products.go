package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/briqstore/cart-engine/internal/catalog"
	"github.com/briqstore/cart-engine/internal/shipping"
)

type productView struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category,omitempty"`
	Image    string          `json:"image,omitempty"`
	Pieces   int             `json:"pieces,omitempty"`
}

func toProductView(p catalog.Product) productView {
	return productView{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
		Image:    p.Image,
		Pieces:   p.Pieces,
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	views := make([]productView, len(products))
	for i, p := range products {
		views[i] = toProductView(p)
	}
	respondJSON(w, r, http.StatusOK, views)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toProductView(*p))
}

type shippingTierView struct {
	Method   string           `json:"method"`
	Name     string           `json:"name"`
	Price    decimal.Decimal  `json:"price"`
	FreeAt   *decimal.Decimal `json:"freeAt,omitempty"`
	Estimate string           `json:"estimate"`
}

func (h *Handler) listShippingTiers(w http.ResponseWriter, r *http.Request) {
	tiers := shipping.Tiers()
	views := make([]shippingTierView, len(tiers))
	for i, t := range tiers {
		views[i] = shippingTierView{
			Method:   string(t.Method),
			Name:     t.Name,
			Price:    t.Price,
			FreeAt:   t.FreeAt,
			Estimate: t.Estimate,
		}
	}
	respondJSON(w, r, http.StatusOK, views)
}
