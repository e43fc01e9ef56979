package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/zafago/storefront/internal/core/domain"
	"github.com/zafago/storefront/internal/core/service"
)

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

// writeServiceErr maps core failures onto status codes: contract
// violations are the caller's bug (422), everything else is a
// dependency failure (503).
func writeServiceErr(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		log.Warn("rejected invalid input", "err", err)
	case errors.Is(err, service.ErrEmptyCart):
		http.Error(w, "cart is empty", http.StatusUnprocessableEntity)
		log.Warn("rejected empty cart", "err", err)
	default:
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		log.Error("service failure", "err", err)
	}
}

func errInvalidParam(name string) error {
	return fmt.Errorf("invalid query param %q", name)
}
