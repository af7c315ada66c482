package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feastlyhq/feastly-backend/api/controllers"
	"github.com/feastlyhq/feastly-backend/api/middleware"
	"github.com/feastlyhq/feastly-backend/internal/addresses"
	"github.com/feastlyhq/feastly-backend/internal/auth"
	"github.com/feastlyhq/feastly-backend/internal/cart"
	"github.com/feastlyhq/feastly-backend/internal/favorites"
	"github.com/feastlyhq/feastly-backend/internal/media"
	"github.com/feastlyhq/feastly-backend/internal/orders"
	"github.com/feastlyhq/feastly-backend/internal/profiles"
	"github.com/feastlyhq/feastly-backend/internal/restaurants"
	"github.com/feastlyhq/feastly-backend/internal/roles"
	"github.com/feastlyhq/feastly-backend/pkg/auth/session"
	"github.com/feastlyhq/feastly-backend/pkg/config"
	"github.com/feastlyhq/feastly-backend/pkg/db"
	"github.com/feastlyhq/feastly-backend/pkg/guard"
	"github.com/feastlyhq/feastly-backend/pkg/logger"
	"github.com/feastlyhq/feastly-backend/pkg/metrics"
	"github.com/feastlyhq/feastly-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	DB    db.Pinger
	Redis *redis.Client

	SessionChecker session.AccessSessionChecker

	AuthService       auth.Service
	RegisterService   auth.RegisterService
	ProfileService    profiles.Service
	RoleService       roles.Service
	RestaurantService restaurants.Service
	CartService       cart.Service
	OrderService      orders.Service
	MediaService      media.Service
	FavoritesService  favorites.Service
	AddressService    addresses.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.App),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

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

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// sign-in and sign-up are guest-only surfaces
			r.Group(func(r chi.Router) {
				r.Use(
					middleware.OptionalAuth(cfg.JWT, p.SessionChecker, logg),
					middleware.Guard(guard.RequireGuest, logg),
				)
				r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).
					Post("/login", controllers.AuthLogin(p.AuthService, logg))
				r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).
					Post("/register", controllers.AuthRegister(p.RegisterService, logg))
			})

			r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
			r.Post("/logout", controllers.AuthLogout(p.AuthService, cfg.JWT, logg))

			r.Group(func(r chi.Router) {
				r.Use(
					middleware.Auth(cfg.JWT, p.SessionChecker, logg),
					middleware.Guard(guard.RequireSignedIn, logg),
				)
				r.Get("/session", controllers.AuthSession(p.AuthService, logg))
			})
		})

		// public browsing works for guests and signed-in users alike
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, p.SessionChecker, logg))
			r.Get("/restaurants", controllers.RestaurantList(p.RestaurantService, logg))
			r.Get("/restaurants/{restaurantId}", controllers.RestaurantDetail(p.RestaurantService, logg))
			r.Get("/restaurants/{restaurantId}/menu", controllers.RestaurantMenu(p.RestaurantService, logg))
			r.Get("/restaurants/key/{uniqueKey}", controllers.RestaurantByKey(p.RestaurantService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Guard(guard.RequireSignedIn, logg))
				r.Post("/roles/select", controllers.RoleSelect(p.RoleService, logg))
				r.Get("/roles/me", controllers.RoleFetch(p.RoleService, logg))
			})

			// everything below assumes role selection already happened
			r.Group(func(r chi.Router) {
				r.Use(middleware.Guard(guard.RequireAuthenticated, logg))
				r.Get("/profile", controllers.ProfileFetch(p.ProfileService, logg))
				r.Put("/profile", controllers.ProfileUpdate(p.ProfileService, logg))
				r.Post("/media", controllers.MediaUpload(p.MediaService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Guard(guard.RequireCustomer, logg))

				r.Route("/cart", func(r chi.Router) {
					r.Get("/", controllers.CartFetch(p.CartService, logg))
					r.Post("/items", controllers.CartAddItem(p.CartService, logg))
					r.Put("/items/{itemId}", controllers.CartUpdateItem(p.CartService, logg))
					r.Delete("/items/{itemId}", controllers.CartRemoveItem(p.CartService, logg))
					r.Delete("/", controllers.CartClear(p.CartService, logg))
				})

				r.Post("/checkout", controllers.Checkout(p.OrderService, logg))
				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.CustomerOrders(p.OrderService, logg))
					r.Get("/{orderId}", controllers.CustomerOrderDetail(p.OrderService, logg))
					r.Post("/{orderId}/cancel", controllers.CancelOrder(p.OrderService, logg))
					r.Post("/{orderId}/payment", controllers.OrderUpdatePaymentStatus(p.OrderService, logg))
				})

				r.Route("/favorites", func(r chi.Router) {
					r.Get("/restaurants", controllers.FavoriteRestaurants(p.FavoritesService, logg))
					r.Put("/restaurants/{restaurantId}", controllers.FavoriteRestaurantAdd(p.FavoritesService, logg))
					r.Delete("/restaurants/{restaurantId}", controllers.FavoriteRestaurantRemove(p.FavoritesService, logg))
					r.Get("/items", controllers.FavoriteMenuItems(p.FavoritesService, logg))
					r.Put("/items/{itemId}", controllers.FavoriteMenuItemAdd(p.FavoritesService, logg))
					r.Delete("/items/{itemId}", controllers.FavoriteMenuItemRemove(p.FavoritesService, logg))
				})

				r.Route("/addresses", func(r chi.Router) {
					r.Get("/", controllers.AddressList(p.AddressService, logg))
					r.Post("/", controllers.AddressCreate(p.AddressService, logg))
					r.Put("/{addressId}", controllers.AddressUpdate(p.AddressService, logg))
					r.Delete("/{addressId}", controllers.AddressDelete(p.AddressService, logg))
				})
			})

			r.Route("/owner", func(r chi.Router) {
				r.Use(middleware.Guard(guard.RequireOwner, logg))

				r.Route("/restaurant", func(r chi.Router) {
					r.Post("/", controllers.RestaurantCreate(p.RestaurantService, logg))
					r.Get("/", controllers.RestaurantMine(p.RestaurantService, logg))
					r.Put("/", controllers.RestaurantUpdate(p.RestaurantService, logg))
					r.Put("/open", controllers.RestaurantSetOpen(p.RestaurantService, logg))
				})

				r.Route("/menu", func(r chi.Router) {
					r.Get("/", controllers.OwnerMenu(p.RestaurantService, logg))
					r.Post("/sections", controllers.SectionCreate(p.RestaurantService, logg))
					r.Put("/sections/{sectionId}", controllers.SectionUpdate(p.RestaurantService, logg))
					r.Delete("/sections/{sectionId}", controllers.SectionDelete(p.RestaurantService, logg))
					r.Post("/items", controllers.ItemCreate(p.RestaurantService, logg))
					r.Put("/items/{itemId}", controllers.ItemUpdate(p.RestaurantService, logg))
					r.Delete("/items/{itemId}", controllers.ItemDelete(p.RestaurantService, logg))
					r.Put("/items/{itemId}/availability", controllers.ItemSetAvailability(p.RestaurantService, logg))
				})

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.OwnerOrders(p.OrderService, p.RestaurantService, logg))
					r.Get("/stats", controllers.OrderStats(p.OrderService, p.RestaurantService, logg))
					r.Get("/revenue", controllers.OrderDailyRevenue(p.OrderService, p.RestaurantService, logg))
					r.Get("/{orderId}", controllers.OwnerOrderDetail(p.OrderService, p.RestaurantService, logg))
					r.Put("/{orderId}/status", controllers.OrderUpdateStatus(p.OrderService, p.RestaurantService, logg))
				})
			})
		})
	})

	return r
}
