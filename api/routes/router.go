package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/autostore/storefront-backend/api/controllers"
	cartcontrollers "github.com/autostore/storefront-backend/api/controllers/cart"
	catalogcontrollers "github.com/autostore/storefront-backend/api/controllers/catalog"
	checkoutcontrollers "github.com/autostore/storefront-backend/api/controllers/checkout"
	"github.com/autostore/storefront-backend/api/middleware"
	cartsvc "github.com/autostore/storefront-backend/internal/cart"
	"github.com/autostore/storefront-backend/internal/catalog"
	checkoutsvc "github.com/autostore/storefront-backend/internal/checkout"
	"github.com/autostore/storefront-backend/internal/expiry"
	"github.com/autostore/storefront-backend/pkg/config"
	"github.com/autostore/storefront-backend/pkg/logger"
	"github.com/autostore/storefront-backend/pkg/metrics"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Carts       *cartsvc.Sessions
	Checkouts   *checkoutsvc.Sessions
	Catalog     *catalog.Client
	Expiry      *expiry.Service
	Metrics     *metrics.StorefrontMetrics
	Registry    *prometheus.Registry
	CachePinger controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(deps.Config.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.CachePinger))
	})

	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(deps.Logger))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(deps.Carts, deps.Logger))
			r.Post("/items", cartcontrollers.CartAddItem(deps.Carts, deps.Catalog, deps.Metrics, deps.Logger))
			r.Post("/items/{productId}/decrement", cartcontrollers.CartDecrementItem(deps.Carts, deps.Metrics, deps.Logger))
			r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(deps.Carts, deps.Metrics, deps.Logger))
			r.Delete("/", cartcontrollers.CartClear(deps.Carts, deps.Metrics, deps.Logger))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutcontrollers.CheckoutSubmit(deps.Checkouts, deps.Metrics, deps.Logger))
			r.Get("/options", checkoutcontrollers.CheckoutOptions(deps.Expiry, deps.Logger))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/search", catalogcontrollers.ProductSearch(deps.Catalog, deps.Logger))
			r.Get("/by-category", catalogcontrollers.ProductsByCategory(deps.Catalog, deps.Logger))
			r.Get("/{productId}", catalogcontrollers.ProductFetch(deps.Catalog, deps.Logger))
		})
	})

	return r
}
