package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/lucroreal-backend/api/controllers"
	analyticscontrollers "github.com/angelmondragon/lucroreal-backend/api/controllers/analytics"
	"github.com/angelmondragon/lucroreal-backend/api/middleware"
	"github.com/angelmondragon/lucroreal-backend/internal/analytics"
	"github.com/angelmondragon/lucroreal-backend/pkg/config"
	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
	"github.com/angelmondragon/lucroreal-backend/pkg/logger"
	"github.com/angelmondragon/lucroreal-backend/pkg/redis"
)

const uploadPolicyName = "uploads"

// Deps are the collaborators the router wires into handlers. RedisPinger and
// Limiter stay nil when redis is not configured.
type Deps struct {
	Analytics   analytics.Service
	RedisPinger redis.Pinger
	Limiter     redis.RateLimiter
	Metrics     http.Handler
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.RedisPinger))
	})
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}

	uploadPolicy := middleware.NewRateLimitPolicy(uploadPolicyName, cfg.Upload.RateLimitWindow, cfg.Upload.RateLimit)
	uploadParams := analyticscontrollers.UploadParams{
		MaxBytes:           cfg.Upload.MaxBytes(),
		DefaultMarketplace: defaultMarketplace(cfg.Upload.DefaultMarketplace),
	}
	svc := deps.Analytics

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(uploadPolicy, deps.Limiter, logg))
			r.Post("/uploads/sales", analyticscontrollers.UploadSales(svc, uploadParams, logg))
			r.Post("/uploads/costs", analyticscontrollers.UploadCosts(svc, uploadParams, logg))
		})

		r.Get("/snapshot", analyticscontrollers.GetSnapshot(svc))
		r.Get("/sales", analyticscontrollers.ListSales(svc, logg))
		r.Get("/products", analyticscontrollers.ListProducts(svc, logg))
		r.Get("/orders", analyticscontrollers.ListOrders(svc, logg))
		r.Get("/summary", analyticscontrollers.GetSummary(svc, logg))
		r.Get("/costs", analyticscontrollers.ListCosts(svc, logg))
		r.Post("/simulate", analyticscontrollers.Simulate(svc, logg))
	})

	return r
}

func defaultMarketplace(raw string) enums.Marketplace {
	m, err := enums.ParseMarketplace(raw)
	if err != nil || !m.IsValid() {
		return enums.MarketplaceMercadoLivre
	}
	return m
}
