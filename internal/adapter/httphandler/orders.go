package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/zafago/storefront/internal/core/port"
)

type OrdersHandler struct {
	cartSvc port.CartService
}

func RegisterOrders(mux *http.ServeMux, cartSvc port.CartService) {
	h := OrdersHandler{cartSvc}
	mux.HandleFunc("POST /v1/orders", h.PlaceOrder)
}

func (h OrdersHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.PlaceOrder"
	log := slog.With("op", op)

	var v OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	if v.CartID == "" {
		http.Error(w, "cart_id is required", http.StatusBadRequest)
		return
	}

	order, err := h.cartSvc.PlaceOrder(r.Context(), v.CartID, v.CouponCode)
	if err != nil {
		writeServiceErr(w, log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toOrderView(order)); err != nil {
		log.Error("failed to write response body", "err", err)
		return
	}

	log.Info("order placed", "orderID", order.ID)
}
