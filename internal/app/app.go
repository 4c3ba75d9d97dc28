package app

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/briqstore/cart-engine/internal/api"
	"github.com/briqstore/cart-engine/internal/cart"
	"github.com/briqstore/cart-engine/internal/catalog"
	"github.com/briqstore/cart-engine/internal/checkout"
	"github.com/briqstore/cart-engine/internal/coupon"
	"github.com/briqstore/cart-engine/internal/pricing"
	"github.com/briqstore/cart-engine/internal/session"
	filestore "github.com/briqstore/cart-engine/internal/storage/file"
	"github.com/briqstore/cart-engine/internal/storage/postgres"
	"github.com/briqstore/cart-engine/pkg/health"
	"github.com/briqstore/cart-engine/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles
// graceful shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	policy := pricing.Policy{TaxRate: cfg.taxRate()}

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	var (
		products   catalog.Repository
		coupons    coupon.Directory
		orders     checkout.Repository
		storeFor   func(sessionID string) cart.Store
		poolCloser func()
	)

	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		poolCloser = pool.Close

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return errors.Wrap(err, "run migrations")
		}

		healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
			return pool.Ping(ctx)
		})

		products = postgres.NewProductRepository(pool)
		coupons = postgres.NewCouponRepository(pool)
		orders = postgres.NewOrderRepository(pool)
		cartStates := postgres.NewCartStateRepository(pool)
		storeFor = func(sessionID string) cart.Store {
			return cartStates.ForSession(sessionID)
		}
	} else {
		lg.Info("No database configured, using in-memory fixtures",
			zap.String("data_dir", cfg.DataDir))
		products = catalog.NewMemoryRepository(fixtureProducts()...)
		coupons = coupon.NewMemoryDirectory(fixtureCoupons()...)
		orders = checkout.NewMemoryRepository()
		storeFor = func(sessionID string) cart.Store {
			return filestore.NewStore(filepath.Join(cfg.DataDir, "carts", sessionID+".json"))
		}
	}
	if poolCloser != nil {
		defer poolCloser()
	}

	validator := coupon.NewDirectoryValidator(coupons)
	sessions := session.NewManager(func(sessionID string) *cart.Cart {
		return cart.New(policy, validator, storeFor(sessionID), lg.Named("cart"))
	})
	checkoutSvc := checkout.NewService(orders, checkout.NopInitiator{})
	handler := api.NewHandler(sessions, products, checkoutSvc)

	healthSvc.SetReady(true)

	root := chi.NewRouter()
	root.Get("/livez", healthSvc.LiveEndpoint)
	root.Get("/readyz", healthSvc.ReadyEndpoint)
	root.Mount("/api", handler.Routes())

	instrumented := otelhttp.NewHandler(root, "cart-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(instrumented,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
