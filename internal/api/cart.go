package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/briqstore/cart-engine/internal/cart"
	"github.com/briqstore/cart-engine/internal/catalog"
	"github.com/briqstore/cart-engine/internal/coupon"
	"github.com/briqstore/cart-engine/internal/shipping"
)

type lineItemView struct {
	ProductID string            `json:"productId"`
	Name      string            `json:"name"`
	UnitPrice decimal.Decimal   `json:"unitPrice"`
	Quantity  int               `json:"quantity"`
	Variant   map[string]string `json:"variant,omitempty"`
	Image     string            `json:"image,omitempty"`
}

type couponView struct {
	Code        string          `json:"code"`
	Kind        string          `json:"kind"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description,omitempty"`
}

type summaryView struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	TaxableAmount decimal.Decimal `json:"taxableAmount"`
	Tax           decimal.Decimal `json:"tax"`
	Shipping      decimal.Decimal `json:"shipping"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"itemCount"`
}

type cartView struct {
	Items          []lineItemView `json:"items"`
	Coupon         *couponView    `json:"coupon,omitempty"`
	ShippingMethod string         `json:"shippingMethod"`
	Summary        summaryView    `json:"summary"`
}

func viewOf(c *cart.Cart) cartView {
	items := c.Items()
	snap := c.Snapshot()

	v := cartView{
		Items:          make([]lineItemView, len(items)),
		ShippingMethod: string(c.ShippingMethod()),
		Summary: summaryView{
			Subtotal:      snap.Subtotal,
			Discount:      snap.Discount,
			TaxableAmount: snap.TaxableAmount,
			Tax:           snap.Tax,
			Shipping:      snap.Shipping,
			Total:         snap.Total,
			ItemCount:     snap.ItemCount,
		},
	}
	for i, li := range items {
		v.Items[i] = lineItemView{
			ProductID: li.ProductID,
			Name:      li.Name,
			UnitPrice: li.UnitPrice,
			Quantity:  li.Quantity,
			Variant:   li.Variant,
			Image:     li.Image,
		}
	}
	if r := c.Coupon(); r != nil {
		v.Coupon = &couponView{
			Code:        r.Code,
			Kind:        string(r.Kind),
			Value:       r.Value,
			Description: r.Description,
		}
	}
	return v
}

func (h *Handler) cartFor(w http.ResponseWriter, r *http.Request) *cart.Cart {
	return h.sessions.Get(r.Context(), sessionID(w, r))
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, viewOf(h.cartFor(w, r)))
}

type addItemRequest struct {
	ProductID string            `json:"productId"`
	Quantity  int               `json:"quantity"`
	Variant   map[string]string `json:"variant,omitempty"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		respondError(w, r, http.StatusBadRequest, "productId required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	p, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	c := h.cartFor(w, r)
	c.AddItem(r.Context(), *p, req.Quantity, cart.Variant(req.Variant))
	respondJSON(w, r, http.StatusOK, viewOf(c))
}

type updateItemRequest struct {
	ProductID string            `json:"productId"`
	Quantity  int               `json:"quantity"`
	Variant   map[string]string `json:"variant,omitempty"`
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		respondError(w, r, http.StatusBadRequest, "productId required")
		return
	}

	c := h.cartFor(w, r)
	c.UpdateQuantity(r.Context(), req.ProductID, cart.Variant(req.Variant), req.Quantity)
	respondJSON(w, r, http.StatusOK, viewOf(c))
}

type removeItemRequest struct {
	ProductID string            `json:"productId"`
	Variant   map[string]string `json:"variant,omitempty"`
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	var req removeItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	c := h.cartFor(w, r)
	c.RemoveItem(r.Context(), req.ProductID, cart.Variant(req.Variant))
	respondJSON(w, r, http.StatusOK, viewOf(c))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	c := h.cartFor(w, r)
	c.Clear(r.Context())
	respondJSON(w, r, http.StatusOK, viewOf(c))
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

func (h *Handler) applyCoupon(w http.ResponseWriter, r *http.Request) {
	var req applyCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	c := h.cartFor(w, r)
	if err := c.ApplyCoupon(r.Context(), req.Code); err != nil {
		switch {
		case errors.Is(err, coupon.ErrInvalidCoupon):
			respondError(w, r, http.StatusUnprocessableEntity, "invalid coupon code")
		case errors.Is(err, coupon.ErrCouponIneligible):
			respondError(w, r, http.StatusUnprocessableEntity, "order subtotal below coupon minimum")
		case errors.Is(err, coupon.ErrCouponExpired):
			respondError(w, r, http.StatusUnprocessableEntity, "coupon expired")
		case errors.Is(err, coupon.ErrCouponUsageLimitReached):
			respondError(w, r, http.StatusUnprocessableEntity, "coupon usage limit reached")
		default:
			respondInternal(w, r, err)
		}
		return
	}
	respondJSON(w, r, http.StatusOK, viewOf(c))
}

func (h *Handler) removeCoupon(w http.ResponseWriter, r *http.Request) {
	c := h.cartFor(w, r)
	c.RemoveCoupon(r.Context())
	respondJSON(w, r, http.StatusOK, viewOf(c))
}

type setShippingRequest struct {
	Method string `json:"method"`
}

func (h *Handler) setShippingMethod(w http.ResponseWriter, r *http.Request) {
	var req setShippingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	c := h.cartFor(w, r)
	c.SetShippingMethod(r.Context(), shipping.Method(req.Method))
	respondJSON(w, r, http.StatusOK, viewOf(c))
}
