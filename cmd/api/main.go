package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storecraft-backend/api/routes"
	authsvc "github.com/angelmondragon/storecraft-backend/internal/auth"
	"github.com/angelmondragon/storecraft-backend/internal/categories"
	"github.com/angelmondragon/storecraft-backend/internal/errorlog"
	ordersvc "github.com/angelmondragon/storecraft-backend/internal/orders"
	productsvc "github.com/angelmondragon/storecraft-backend/internal/products"
	"github.com/angelmondragon/storecraft-backend/internal/roles"
	"github.com/angelmondragon/storecraft-backend/internal/usermanagement"
	"github.com/angelmondragon/storecraft-backend/internal/users"
	"github.com/angelmondragon/storecraft-backend/pkg/auth/session"
	"github.com/angelmondragon/storecraft-backend/pkg/config"
	"github.com/angelmondragon/storecraft-backend/pkg/db"
	"github.com/angelmondragon/storecraft-backend/pkg/logger"
	"github.com/angelmondragon/storecraft-backend/pkg/metrics"
	"github.com/angelmondragon/storecraft-backend/pkg/migrate"
	"github.com/angelmondragon/storecraft-backend/pkg/redis"
)

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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	roleRepo := roles.NewRepository(conn)
	categoryRepo := categories.NewRepository(conn)
	productRepo := productsvc.NewRepository(conn)
	orderRepo := ordersvc.NewRepository(conn)

	registerService, err := authsvc.NewRegisterService(authsvc.RegisterServiceParams{
		TxRunner:       dbClient,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userManagementService, err := usermanagement.NewService(usermanagement.ServiceParams{
		UserRepo:       userRepo,
		RoleRepo:       roleRepo,
		SessionManager: sessionManager,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user management service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productsvc.ServiceParams{
		Repo:         productRepo,
		CategoryRepo: categoryRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	categoryService, err := categories.NewService(categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(ordersvc.ServiceParams{
		TxRunner: dbClient,
		Repo:     orderRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(routes.Deps{
		Config:        cfg,
		Logger:        logg,
		DB:            dbClient,
		Redis:         redisClient,
		Sessions:      sessionManager,
		Metrics:       metrics.NewHTTPMetrics("storecraft-api"),
		ErrorRecorder: errorlog.NewRecorder(errorlog.NewRepository(conn), logg),

		AuthService:           authService,
		RegisterService:       registerService,
		UserManagementService: userManagementService,
		ProductService:        productService,
		CategoryService:       categoryService,
		OrderService:          orderService,
	})

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
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "server shutdown failed", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
		}
	}

	if err := multierr.Append(redisClient.Close(), dbClient.Close()); err != nil {
		logg.Error(ctx, "error closing resources", err)
		os.Exit(1)
	}
}
