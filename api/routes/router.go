package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storecraft-backend/api/controllers"
	"github.com/angelmondragon/storecraft-backend/api/middleware"
	authsvc "github.com/angelmondragon/storecraft-backend/internal/auth"
	"github.com/angelmondragon/storecraft-backend/internal/categories"
	"github.com/angelmondragon/storecraft-backend/internal/errorlog"
	ordersvc "github.com/angelmondragon/storecraft-backend/internal/orders"
	productsvc "github.com/angelmondragon/storecraft-backend/internal/products"
	"github.com/angelmondragon/storecraft-backend/internal/usermanagement"
	"github.com/angelmondragon/storecraft-backend/pkg/auth/session"
	"github.com/angelmondragon/storecraft-backend/pkg/config"
	"github.com/angelmondragon/storecraft-backend/pkg/db/models"
	"github.com/angelmondragon/storecraft-backend/pkg/logger"
	"github.com/angelmondragon/storecraft-backend/pkg/metrics"
	"github.com/angelmondragon/storecraft-backend/pkg/redis"
)

// Deps collects everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            controllers.Pinger
	Redis         *redis.Client
	Sessions      session.Checker
	Metrics       *metrics.HTTPMetrics
	ErrorRecorder *errorlog.Recorder

	AuthService           authsvc.Service
	RegisterService       authsvc.RegisterService
	UserManagementService usermanagement.Service
	ProductService        productsvc.Service
	CategoryService       categories.Service
	OrderService          ordersvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.ErrorLog(deps.ErrorRecorder),
	)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
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

	requireAuth := middleware.Auth(cfg.JWT, deps.Sessions, logg)
	requireAdmin := middleware.RequireRole(models.RoleAdmin, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
			Post("/register", controllers.AuthRegister(deps.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
			r.Post("/change-password", controllers.AuthChangePassword(deps.AuthService, logg))
			r.Get("/profile", controllers.AuthProfile(deps.AuthService, logg))
			r.Put("/profile", controllers.AuthUpdateProfile(deps.AuthService, logg))
		})
	})

	r.Route("/api/usermanagement", func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)
		r.Get("/users", controllers.AdminListUsers(deps.UserManagementService, logg))
		r.Get("/users/{userId}", controllers.AdminGetUser(deps.UserManagementService, logg))
		r.Post("/assign-role", controllers.AdminAssignRole(deps.UserManagementService, logg))
		r.Post("/remove-role", controllers.AdminRemoveRole(deps.UserManagementService, logg))
		r.Put("/activate/{userId}", controllers.AdminSetUserActive(deps.UserManagementService, logg, true))
		r.Put("/deactivate/{userId}", controllers.AdminSetUserActive(deps.UserManagementService, logg, false))
	})

	r.Route("/api/product", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.ProductService, logg))
		r.Get("/active", controllers.ListActiveProducts(deps.ProductService, logg))
		r.Get("/search", controllers.SearchProducts(deps.ProductService, logg))
		r.Get("/{productId}", controllers.GetProduct(deps.ProductService, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Post("/", controllers.CreateProduct(deps.ProductService, logg))
			r.Put("/{productId}", controllers.UpdateProduct(deps.ProductService, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(deps.ProductService, logg))
		})
	})

	r.Route("/api/category", func(r chi.Router) {
		r.Get("/", controllers.ListCategories(deps.CategoryService, logg))
		r.Get("/{categoryId}", controllers.GetCategory(deps.CategoryService, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Post("/", controllers.CreateCategory(deps.CategoryService, logg))
			r.Put("/{categoryId}", controllers.UpdateCategory(deps.CategoryService, logg))
			r.Delete("/{categoryId}", controllers.DeleteCategory(deps.CategoryService, logg))
		})
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", controllers.CreateOrder(deps.OrderService, logg))
		r.Get("/", controllers.ListOrders(deps.OrderService, logg))
		r.Get("/{orderId}", controllers.GetOrder(deps.OrderService, logg))
	})

	return r
}
