package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orderdeskhq/orderdesk-backend/api/controllers"
	"github.com/orderdeskhq/orderdesk-backend/api/middleware"
	internalauth "github.com/orderdeskhq/orderdesk-backend/internal/auth"
	"github.com/orderdeskhq/orderdesk-backend/internal/inventory"
	"github.com/orderdeskhq/orderdesk-backend/internal/ledger"
	"github.com/orderdeskhq/orderdesk-backend/internal/orders"
	"github.com/orderdeskhq/orderdesk-backend/internal/products"
	"github.com/orderdeskhq/orderdesk-backend/pkg/auth/session"
	"github.com/orderdeskhq/orderdesk-backend/pkg/config"
	"github.com/orderdeskhq/orderdesk-backend/pkg/db"
	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
	"github.com/orderdeskhq/orderdesk-backend/pkg/logger"
	"github.com/orderdeskhq/orderdesk-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             *db.Client
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker

	AuthService      internalauth.Service
	OrdersService    orders.Service
	ProductsService  products.Service
	InventoryService inventory.Service
	LedgerService    ledger.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.Login(deps.AuthService, logg))
		r.Post("/refresh", controllers.Refresh(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
			r.Post("/logout", controllers.Logout(deps.AuthService, logg))
			r.With(middleware.RequireRole(logg, string(enums.UserRoleAdmin))).
				Post("/users/{userId}/invalidate-sessions", controllers.InvalidateSessions(deps.AuthService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.OrdersService, logg))
			r.Post("/", controllers.CreateOrder(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.GetOrder(deps.OrdersService, logg))
			r.Patch("/{orderId}", controllers.PatchOrder(deps.OrdersService, logg))
			r.Delete("/{orderId}", controllers.DeleteOrder(deps.OrdersService, logg))
			r.Get("/{orderId}/movements", controllers.OrderMovements(deps.LedgerService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.ProductsService, logg))
			r.Get("/{productId}", controllers.GetProduct(deps.ProductsService, logg))
			r.Get("/{productId}/movements", controllers.ProductMovements(deps.LedgerService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, string(enums.UserRoleAdmin), string(enums.UserRoleStaff)))
				r.Post("/", controllers.CreateProduct(deps.ProductsService, logg))
				r.Patch("/{productId}", controllers.PatchProduct(deps.ProductsService, logg))
				r.Post("/{productId}/adjust-stock", controllers.AdjustStock(deps.ProductsService, logg))
			})
		})

		r.Get("/inventory/overview", controllers.InventoryOverview(deps.InventoryService, logg))
	})

	return r
}
