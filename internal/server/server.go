// Package server boots the storefront: configuration, MongoDB, the optional
// Redis cache, the payment gateway, and the HTTP stack.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/kirana/app/repositories"
	"github.com/shashiranjanraj/kirana/app/routes"
	"github.com/shashiranjanraj/kirana/app/services"
	"github.com/shashiranjanraj/kirana/config"
	"github.com/shashiranjanraj/kirana/pkg/cache"
	"github.com/shashiranjanraj/kirana/pkg/logger"
	"github.com/shashiranjanraj/kirana/pkg/metrics"
	"github.com/shashiranjanraj/kirana/pkg/middleware"
	"github.com/shashiranjanraj/kirana/pkg/payment"
	"github.com/shashiranjanraj/kirana/pkg/reqid"
	"github.com/shashiranjanraj/kirana/pkg/router"
)

// Start boots every subsystem and serves HTTP until SIGINT/SIGTERM, then
// drains in-flight requests before disconnecting from Mongo.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := repositories.Connect(ctx, config.MongoURL(), config.MongoDB()); err != nil {
		return err
	}
	defer repositories.Disconnect(context.Background())

	if err := repositories.EnsureIndexes(ctx); err != nil {
		return err
	}

	// The cache is optional: a dead Redis downgrades reads to Mongo.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err.Error())
	}

	if col := config.LogMongoCollection(); col != "" {
		mongoHandler := logger.NewMongoHandler(repositories.DB().Collection(col))
		logger.SetHandler(logger.NewMultiHandler(logger.L.Handler(), mongoHandler))
	}

	r := router.New()
	r.Use(
		reqid.Middleware(),
		metrics.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	routes.RegisterAPI(r, buildDeps())

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("kirana listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

// buildDeps wires repositories into services. The payment gateway degrades
// to a disabled stub when Braintree credentials are absent so the rest of
// the storefront keeps serving.
func buildDeps() routes.Deps {
	db := repositories.DB()

	users := repositories.NewUserRepository(db)
	categories := repositories.NewCategoryRepository(db)
	products := repositories.NewProductRepository(db)
	orders := repositories.NewOrderRepository(db)

	var gateway payment.Gateway
	gateway, err := payment.New(payment.Config{
		Environment: config.BraintreeEnv(),
		MerchantID:  config.BraintreeMerchantID(),
		PublicKey:   config.BraintreePublicKey(),
		PrivateKey:  config.BraintreePrivateKey(),
	})
	if err != nil {
		logger.Warn("payment gateway disabled", "error", err.Error())
		gateway = payment.Disabled()
	}

	return routes.Deps{
		Auth:       services.NewAuthService(users),
		Orders:     services.NewOrderService(orders, users),
		Categories: services.NewCategoryService(categories),
		Products:   services.NewProductService(products, categories, orders, gateway),
	}
}
