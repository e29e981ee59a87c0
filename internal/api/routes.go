package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vegist/internal/telemetry"
)

func NewRouter(h *Handler, cors CORSConfig) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /metrics", promhttp.Handler())

	handle := func(pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, telemetry.Middleware(pattern, fn))
	}

	handle("GET /{$}", h.Root)
	handle("GET /healthz", h.Health)

	handle("POST /user", h.rateLimited(h.RegisterUser))
	handle("GET /user", h.ListUsers)

	handle("GET /categories", h.ListCategories)
	handle("GET /categories/{category}", h.ListCategoryProducts)
	handle("GET /products", h.ListProducts)
	handle("GET /products/{id}", h.GetProduct)
	handle("POST /products", h.rateLimited(h.CreateProduct))

	handle("POST /addToCard", h.rateLimited(h.AddToCart))
	handle("GET /addToCard", h.ListCartItems)
	handle("DELETE /addToCard/{id}", h.rateLimited(h.RemoveCartItem))

	handle("GET /favorite", h.ListFavorites)
	handle("POST /favorite", h.rateLimited(h.AddFavorite))
	handle("DELETE /favorite/{id}", h.rateLimited(h.RemoveFavorite))

	return telemetry.RequestLogger(withServerDefaults(CORSMiddleware(cors)(mux)))
}

func withServerDefaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
