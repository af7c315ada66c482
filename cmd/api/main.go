package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/feastlyhq/feastly-backend/api/routes"
	"github.com/feastlyhq/feastly-backend/internal/addresses"
	"github.com/feastlyhq/feastly-backend/internal/auth"
	"github.com/feastlyhq/feastly-backend/internal/cart"
	"github.com/feastlyhq/feastly-backend/internal/favorites"
	"github.com/feastlyhq/feastly-backend/internal/media"
	"github.com/feastlyhq/feastly-backend/internal/orders"
	"github.com/feastlyhq/feastly-backend/internal/profiles"
	"github.com/feastlyhq/feastly-backend/internal/restaurants"
	"github.com/feastlyhq/feastly-backend/internal/roles"
	"github.com/feastlyhq/feastly-backend/internal/users"
	"github.com/feastlyhq/feastly-backend/pkg/auth/session"
	"github.com/feastlyhq/feastly-backend/pkg/config"
	"github.com/feastlyhq/feastly-backend/pkg/db"
	"github.com/feastlyhq/feastly-backend/pkg/env"
	"github.com/feastlyhq/feastly-backend/pkg/logger"
	"github.com/feastlyhq/feastly-backend/pkg/metrics"
	"github.com/feastlyhq/feastly-backend/pkg/migrate"
	"github.com/feastlyhq/feastly-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	jobMetrics := metrics.NewJobMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())
	profileRepo := profiles.NewRepository(dbClient.DB())
	roleRepo := roles.NewRepository(dbClient.DB())
	restaurantRepo := restaurants.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	favoritesRepo := favorites.NewRepository(dbClient.DB())
	addressRepo := addresses.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		RoleRepo:       roleRepo,
		ProfileRepo:    profileRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		Login:          authService,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	profileService, err := profiles.NewService(profileRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	roleService, err := roles.NewService(roleRepo, profileRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create role service", err)
		os.Exit(1)
	}

	restaurantService, err := restaurants.NewService(restaurantRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create restaurant service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(redisClient, restaurantRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:        orderRepo,
		TX:          dbClient,
		Cart:        cartService,
		Restaurants: restaurantRepo,
		Orders:      cfg.Orders,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(media.ServiceParams{Media: cfg.Media})
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	favoritesService, err := favorites.NewService(favoritesRepo, restaurantRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
		os.Exit(1)
	}

	addressService, err := addresses.NewService(addressRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	poller, err := orders.NewPoller(orders.PollerParams{
		Logger:   logg,
		Metrics:  jobMetrics,
		Interval: cfg.Orders.PollInterval,
		Fn: func(ctx context.Context) error {
			return multierr.Combine(dbClient.Ping(ctx), redisClient.Ping(ctx))
		},
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order poller", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.RouterParams{
		Config:            cfg,
		Logger:            logg,
		HTTPMetrics:       httpMetrics,
		Gatherer:          registry,
		DB:                dbClient,
		Redis:             redisClient,
		SessionChecker:    sessionManager,
		AuthService:       authService,
		RegisterService:   registerService,
		ProfileService:    profileService,
		RoleService:       roleService,
		RestaurantService: restaurantService,
		CartService:       cartService,
		OrderService:      orderService,
		MediaService:      mediaService,
		FavoritesService:  favoritesService,
		AddressService:    addressService,
	})

	addr := ":" + env.Get("PORT", cfg.App.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	poller.Start(ctx)
	defer poller.Stop()

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error shutting down api server", err)
		}
	}

	logg.Info(ctx, "api server shut down gracefully")
}
