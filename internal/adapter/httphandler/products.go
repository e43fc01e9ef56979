package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/zafago/storefront/internal/core/domain"
	"github.com/zafago/storefront/internal/core/port"
)

const defaultTrendingLimit = 10

type ProductsHandler struct {
	catalogSvc port.CatalogService
	pSaver     port.ProductsSaver
}

func RegisterProducts(
	mux *http.ServeMux,
	catalogSvc port.CatalogService,
	pSaver port.ProductsSaver,
) {
	h := ProductsHandler{catalogSvc, pSaver}
	mux.HandleFunc("GET /v1/products", h.ListProducts)
	mux.HandleFunc("GET /v1/products/trending", h.Trending)
	mux.HandleFunc("POST /v1/products", h.PostProducts)
}

func (h ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ListProducts"
	log := slog.With("op", op)

	criteria, err := parseCriteria(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Warn("failed to parse query", "err", err)
		return
	}

	ps, err := h.catalogSvc.ListProducts(r.Context(), criteria)
	if err != nil {
		http.Error(w, "failed to list products", http.StatusServiceUnavailable)
		log.Error("failed to list products", "err", err)
		return
	}

	views := make([]Product, len(ps))
	for i, p := range ps {
		views[i] = toProductView(p)
	}
	writeJSON(w, log, views)
}

func (h ProductsHandler) Trending(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.Trending"
	log := slog.With("op", op)

	limit := defaultTrendingLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	counts, err := h.catalogSvc.Trending(r.Context(), limit)
	if err != nil {
		http.Error(w, "failed to read trending", http.StatusServiceUnavailable)
		log.Error("failed to read trending", "err", err)
		return
	}

	views := make([]SalesCount, len(counts))
	for i, c := range counts {
		views[i] = SalesCount(c)
	}
	writeJSON(w, log, views)
}

func (h ProductsHandler) PostProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PostProducts"
	log := slog.With("op", op)

	var ps []Product
	err := json.NewDecoder(r.Body).Decode(&ps)
	if err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	err = h.pSaver.SaveProducts(r.Context(), h.toDomain(ps))
	if err != nil {
		http.Error(
			w, "failed to accept products", http.StatusServiceUnavailable,
		)
		log.Error("failed to save products", "err", err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	log.Info("accepted", "nProducts", len(ps))
}

func (ProductsHandler) toDomain(ps []Product) (domainPs []domain.Product) {
	for _, p := range ps {
		released, _ := time.Parse(time.RFC3339, p.ReleaseDate)
		domainPs = append(domainPs, domain.Product{
			ID:          p.ID,
			Title:       p.Title,
			Price:       p.Price,
			Discount:    p.Discount,
			Platform:    p.Platform,
			Category:    p.Category,
			Genres:      p.Genres,
			Publisher:   p.Publisher,
			ReleaseDate: released,
			Rating:      p.Rating,
			Sales:       p.Sales,
			Image:       p.Image,
		})
	}
	return domainPs
}

func parseCriteria(r *http.Request) (domain.FilterCriteria, error) {
	q := r.URL.Query()

	c := domain.FilterCriteria{
		Category:   q.Get("category"),
		Search:     q.Get("search"),
		Platforms:  q["platform"],
		Genres:     q["genre"],
		Publishers: q["publisher"],
		Upcoming:   q.Get("filter") == "upcoming",
		Sort:       q.Get("sort"),
	}

	if s := q.Get("price_min"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.FilterCriteria{}, errInvalidParam("price_min")
		}
		c.PriceMin = v
	}

	if s := q.Get("price_max"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.FilterCriteria{}, errInvalidParam("price_max")
		}
		c.PriceMax = v
	}

	return c, nil
}
