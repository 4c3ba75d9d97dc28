package api

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/briqstore/cart-engine/internal/checkout"
)

type orderView struct {
	ID             string          `json:"id"`
	Items          []lineItemView  `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	Tax            decimal.Decimal `json:"tax"`
	Shipping       decimal.Decimal `json:"shipping"`
	Total          decimal.Decimal `json:"total"`
	CouponCode     string          `json:"couponCode,omitempty"`
	ShippingMethod string          `json:"shippingMethod"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	c := h.cartFor(w, r)

	o, err := h.checkout.Checkout(r.Context(), c)
	if err != nil {
		var declined *checkout.PaymentDeclinedError
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, r, http.StatusBadRequest, "cart is empty")
		case errors.As(err, &declined):
			respondError(w, r, http.StatusPaymentRequired, "payment declined")
		default:
			respondInternal(w, r, err)
		}
		return
	}

	v := orderView{
		ID:             o.ID,
		Items:          make([]lineItemView, len(o.Items)),
		Subtotal:       o.Subtotal,
		Discount:       o.Discount,
		Tax:            o.Tax,
		Shipping:       o.Shipping,
		Total:          o.Total,
		CouponCode:     o.CouponCode,
		ShippingMethod: string(o.ShippingMethod),
		CreatedAt:      o.CreatedAt,
	}
	for i, item := range o.Items {
		v.Items[i] = lineItemView{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Variant:   item.Variant,
		}
	}
	respondJSON(w, r, http.StatusCreated, v)
}
