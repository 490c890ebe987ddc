package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tradelink-io/tradelink-backend/api/controllers"
	"github.com/tradelink-io/tradelink-backend/api/routes"
	"github.com/tradelink-io/tradelink-backend/internal/accounts"
	"github.com/tradelink-io/tradelink-backend/internal/catalog"
	"github.com/tradelink-io/tradelink-backend/internal/categories"
	"github.com/tradelink-io/tradelink-backend/internal/companies"
	"github.com/tradelink-io/tradelink-backend/internal/pricing"
	"github.com/tradelink-io/tradelink-backend/internal/promotions"
	"github.com/tradelink-io/tradelink-backend/internal/retailers"
	"github.com/tradelink-io/tradelink-backend/pkg/config"
	"github.com/tradelink-io/tradelink-backend/pkg/db"
	"github.com/tradelink-io/tradelink-backend/pkg/db/models"
	"github.com/tradelink-io/tradelink-backend/pkg/logger"
	"github.com/tradelink-io/tradelink-backend/pkg/metrics"
	"github.com/tradelink-io/tradelink-backend/pkg/migrate"
	pkgmongo "github.com/tradelink-io/tradelink-backend/pkg/mongo"
	"github.com/tradelink-io/tradelink-backend/pkg/redis"

	"github.com/google/uuid"
)

// profileRepos bridges the accounts service to the company and retailer
// repositories.
type profileRepos struct {
	companies *companies.Repository
	retailers *retailers.Repository
}

func (p profileRepos) FindCompanyByOwner(ctx context.Context, owner uuid.UUID) (*models.Company, error) {
	return p.companies.FindByOwner(ctx, owner)
}

func (p profileRepos) FindRetailerByOwner(ctx context.Context, owner uuid.UUID) (*models.Retailer, error) {
	return p.retailers.FindByOwner(ctx, owner)
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	mongoClient, err := pkgmongo.New(context.Background(), cfg.Mongo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap mongo", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Close(context.Background()); err != nil {
			logg.Error(context.Background(), "error closing mongo", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pricingMetrics := metrics.NewPricingMetrics(registry)

	productRepo := catalog.NewRepository(mongoClient)
	if err := productRepo.EnsureIndexes(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to ensure catalog indexes", err)
		os.Exit(1)
	}

	companyRepo := companies.NewRepository(dbClient)
	retailerRepo := retailers.NewRepository(dbClient)
	categoryRepo := categories.NewRepository(dbClient)
	promotionRepo := promotions.NewRepository(dbClient)
	userRepo := accounts.NewRepository(dbClient)

	catalogService, err := catalog.NewService(productRepo, companyRepo, categoryRepo, logg, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	promotionService, err := promotions.NewService(promotionRepo, productRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create promotions service", err)
		os.Exit(1)
	}
	pricingService, err := pricing.NewService(productRepo, promotionService, logg, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}
	categoryService, err := categories.NewService(categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create categories service", err)
		os.Exit(1)
	}
	accountService, err := accounts.NewService(
		userRepo,
		profileRepos{companies: companyRepo, retailers: retailerRepo},
		cfg.JWT,
		cfg.Password,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create accounts service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, registry,
			map[string]controllers.Pinger{
				"postgres": dbClient,
				"mongo":    mongoClient,
				"redis":    redisClient,
			},
			routes.Services{
				Accounts:   accountService,
				Catalog:    catalogService,
				Pricing:    pricingService,
				Categories: categoryService,
				Promotions: promotionService,
			}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
