package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradelink-io/tradelink-backend/api/controllers"
	"github.com/tradelink-io/tradelink-backend/api/middleware"
	accountsvc "github.com/tradelink-io/tradelink-backend/internal/accounts"
	catalogsvc "github.com/tradelink-io/tradelink-backend/internal/catalog"
	categorysvc "github.com/tradelink-io/tradelink-backend/internal/categories"
	pricingsvc "github.com/tradelink-io/tradelink-backend/internal/pricing"
	promotionsvc "github.com/tradelink-io/tradelink-backend/internal/promotions"
	"github.com/tradelink-io/tradelink-backend/pkg/config"
	"github.com/tradelink-io/tradelink-backend/pkg/enums"
	"github.com/tradelink-io/tradelink-backend/pkg/logger"
	"github.com/tradelink-io/tradelink-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Accounts   accountsvc.Service
	Catalog    catalogsvc.Service
	Pricing    pricingsvc.Service
	Categories categorysvc.Service
	Promotions promotionsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	stores map[string]controllers.Pinger,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, stores))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/register/company", controllers.RegisterCompany(svcs.Accounts, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/register/retailer", controllers.RegisterRetailer(svcs.Accounts, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.Login(svcs.Accounts, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/products", controllers.SearchProducts(svcs.Catalog, logg))
		r.Get("/products/{productID}", controllers.GetProduct(svcs.Catalog, logg))
		r.Get("/products/{productID}/pricing", controllers.QuotePrice(svcs.Pricing, logg))
		r.Get("/products/slug/{slug}", controllers.GetProductBySlug(svcs.Catalog, logg))

		r.Get("/categories", controllers.ListCategories(svcs.Categories, logg))
		r.Get("/categories/{categoryID}", controllers.GetCategory(svcs.Categories, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.AccountRoleCompany), logg))

			r.Post("/products", controllers.CreateProduct(svcs.Catalog, logg))
			r.Patch("/products/{productID}/inventory", controllers.UpdateInventory(svcs.Catalog, logg))
			r.Patch("/products/{productID}/pricing", controllers.UpdatePricing(svcs.Catalog, logg))
			r.Delete("/products/{productID}", controllers.DeactivateProduct(svcs.Catalog, logg))

			r.Post("/categories", controllers.CreateCategory(svcs.Categories, logg))
			r.Put("/categories/{categoryID}", controllers.RenameCategory(svcs.Categories, logg))

			r.Route("/promotions", func(r chi.Router) {
				r.Post("/", controllers.CreatePromotion(svcs.Promotions, logg))
				r.Get("/", controllers.ListPromotions(svcs.Promotions, logg))
				r.Post("/{promotionID}/products", controllers.LinkPromotionProduct(svcs.Promotions, logg))
				r.Delete("/{promotionID}/products/{productID}", controllers.UnlinkPromotionProduct(svcs.Promotions, logg))
			})
		})
	})

	return r
}
