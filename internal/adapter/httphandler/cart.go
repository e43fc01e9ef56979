package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/zafago/storefront/internal/core/domain"
	"github.com/zafago/storefront/internal/core/port"
)

type CartHandler struct {
	cartSvc port.CartService
}

func RegisterCart(mux *http.ServeMux, cartSvc port.CartService) {
	h := CartHandler{cartSvc}
	mux.HandleFunc("GET /v1/carts/{cartID}", h.ViewCart)
	mux.HandleFunc("POST /v1/carts/{cartID}/items", h.AddItem)
	mux.HandleFunc("PATCH /v1/carts/{cartID}/items/{productID}", h.UpdateQuantity)
	mux.HandleFunc("DELETE /v1/carts/{cartID}/items/{productID}", h.RemoveItem)
	mux.HandleFunc("DELETE /v1/carts/{cartID}", h.ClearCart)
	mux.HandleFunc("POST /v1/carts/{cartID}/coupon", h.ApplyCoupon)
	mux.HandleFunc("GET /v1/carts/{cartID}/summary", h.CheckoutSummary)
}

func (h CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.ViewCart"
	log := slog.With("op", op)

	items, err := h.cartSvc.ViewCart(r.Context(), r.PathValue("cartID"))
	if err != nil {
		writeServiceErr(w, log, err)
		return
	}

	views := make([]CartItem, len(items))
	for i, item := range items {
		views[i] = toCartItemView(item)
	}
	writeJSON(w, log, views)
}

func (h CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.AddItem"
	log := slog.With("op", op)

	var v CartItem
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	err := h.cartSvc.AddItem(
		r.Context(), r.PathValue("cartID"), domain.CartItem(v),
	)
	if err != nil {
		writeServiceErr(w, log, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.UpdateQuantity"
	log := slog.With("op", op)

	var v QuantityUpdate
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	err := h.cartSvc.UpdateQuantity(
		r.Context(),
		r.PathValue("cartID"), r.PathValue("productID"), v.Quantity,
	)
	if err != nil {
		writeServiceErr(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.RemoveItem"
	log := slog.With("op", op)

	err := h.cartSvc.RemoveItem(
		r.Context(), r.PathValue("cartID"), r.PathValue("productID"),
	)
	if err != nil {
		writeServiceErr(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.ClearCart"
	log := slog.With("op", op)

	if err := h.cartSvc.ClearCart(r.Context(), r.PathValue("cartID")); err != nil {
		writeServiceErr(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ApplyCoupon answers 200 for unknown codes too: an invalid coupon is
// a routine outcome the client renders, not a request error.
func (h CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.ApplyCoupon"
	log := slog.With("op", op)

	var v CouponRequest
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	res, err := h.cartSvc.ApplyCoupon(r.Context(), r.PathValue("cartID"), v.Code)
	if err != nil {
		writeServiceErr(w, log, err)
		return
	}

	writeJSON(w, log, toCouponView(res))
}

func (h CartHandler) CheckoutSummary(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.CheckoutSummary"
	log := slog.With("op", op)

	summary, err := h.cartSvc.CheckoutSummary(
		r.Context(), r.PathValue("cartID"), r.URL.Query().Get("coupon"),
	)
	if err != nil {
		writeServiceErr(w, log, err)
		return
	}

	writeJSON(w, log, toSummaryView(summary))
}
