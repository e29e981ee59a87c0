package api

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"vegist/internal/models"
	"vegist/internal/storefront"
)

const livenessMessage = "Vegist is running"

type RateLimiter interface {
	IsRateLimited(ctx context.Context, key string, max int, window time.Duration) bool
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	svc *storefront.Service

	limiter    RateLimiter
	rateMax    int
	rateWindow time.Duration

	checkNames []string
	checks     map[string]Pinger
}

func NewHandler(svc *storefront.Service) *Handler {
	h := &Handler{svc: svc, checks: make(map[string]Pinger)}
	return h.WithHealthCheck("store", svc)
}

// WithRateLimit limits write requests per client IP.
func (h *Handler) WithRateLimit(l RateLimiter, max int, window time.Duration) *Handler {
	h.limiter = l
	h.rateMax = max
	h.rateWindow = window
	return h
}

func (h *Handler) WithHealthCheck(name string, p Pinger) *Handler {
	if _, ok := h.checks[name]; !ok {
		h.checkNames = append(h.checkNames, name)
	}
	h.checks[name] = p
	return h
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *Handler) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.limiter != nil && h.limiter.IsRateLimited(r.Context(), clientIP(r), h.rateMax, h.rateWindow) {
			writeError(w, r, errRateLimited)
			return
		}
		next(w, r)
	}
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(livenessMessage))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "healthy", http.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, name := range h.checkNames {
		if err := h.checks[name].Ping(ctx); err != nil {
			results[name] = err.Error()
			status, code = "unhealthy", http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	writeJSON(w, code, map[string]any{"status": status, "checks": results})
}

// Users

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Register(r.Context(), u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Catalog

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) ListCategoryProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProductsByCategory(r.Context(), r.PathValue("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct answers a JSON null for an unknown but well-formed id.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProductByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.CreateProduct(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Cart

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var item models.CartItem
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.AddToCart(r.Context(), item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) ListCartItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListCartItems(r.Context(), strings.TrimSpace(r.URL.Query().Get("email")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.RemoveCartItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Favorites

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListFavorites(r.Context(), strings.TrimSpace(r.URL.Query().Get("email")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var fav models.Favorite
	if err := decodeJSON(r, &fav); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.AddFavorite(r.Context(), fav)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// RemoveFavorite takes a product_id in the path, not a favorite id.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.RemoveFavorite(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
