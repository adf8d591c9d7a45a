package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/gamestore-storefront/api/controllers"
	"github.com/angelmondragon/gamestore-storefront/api/middleware"
	"github.com/angelmondragon/gamestore-storefront/pkg/config"
	"github.com/angelmondragon/gamestore-storefront/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	sf controllers.Storefront,
	page controllers.PageRenderer,
	backend controllers.Pinger,
	cache controllers.Pinger,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, backend, cache))
	})

	if cfg.HTTP.MetricsEnabled && gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/", controllers.StorefrontPage(sf, page, logg))
	r.Post("/filters", controllers.StorefrontApplyFilters(sf, logg))
	r.Post("/categories/{category}", controllers.StorefrontSelectCategory(sf, logg))

	r.Route("/products", func(r chi.Router) {
		r.Post("/{productId}/open", controllers.StorefrontOpenProduct(sf, logg))
		r.Post("/close", controllers.StorefrontCloseProduct(sf))
	})

	r.Route("/cart", func(r chi.Router) {
		r.Post("/open", controllers.StorefrontOpenCart(sf))
		r.Post("/close", controllers.StorefrontCloseCart(sf))
		r.Post("/add", controllers.StorefrontAddToCart(sf, logg))
		r.Post("/items/{itemId}/remove", controllers.StorefrontRemoveCartItem(sf, logg))
		r.Post("/items/{itemId}/quantity", controllers.StorefrontUpdateQuantity(sf, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(cfg.HTTP.CORSOrigins))
		r.Get("/state", controllers.StorefrontState(sf))
		r.Post("/search", controllers.StorefrontSearch(sf, logg))
	})

	return r
}
