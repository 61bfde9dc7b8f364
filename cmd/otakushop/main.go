// cmd/otakushop/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/Sullpe/OtakuShop/config"
	"github.com/Sullpe/OtakuShop/internal/account"
	"github.com/Sullpe/OtakuShop/internal/cart"
	"github.com/Sullpe/OtakuShop/internal/catalog"
	"github.com/Sullpe/OtakuShop/internal/checkout"
	"github.com/Sullpe/OtakuShop/pkg/statestore"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))
	cfg.Print()

	volumes, err := catalog.LoadVolumes(cfg.CatalogFile)
	if err != nil {
		slog.Error("failed to load catalog", "err", err)
		os.Exit(1)
	}

	catalogSvc, err := catalog.NewService(volumes)
	if err != nil {
		slog.Error("failed to build catalog", "err", err)
		os.Exit(1)
	}
	slog.Info("catalog loaded", "volumes", len(volumes))

	store := statestore.Open(cfg.StateFile)
	defer store.Close()

	rules := cart.PricingRules{
		FreeShippingThreshold: decimal.NewFromFloat(cfg.Pricing.FreeShippingThreshold),
		FlatShippingFee:       decimal.NewFromFloat(cfg.Pricing.FlatShippingFee),
		TaxRate:               decimal.NewFromFloat(cfg.Pricing.TaxRate),
	}
	cartSvc := cart.NewService(store, catalogSvc, rules)

	accountSvc := account.NewService(store, account.Config{
		TokenSecret:      []byte(cfg.Auth.TokenSecret),
		TokenTTL:         cfg.Auth.TokenTTL,
		LoginRatePerMin:  cfg.Auth.LoginRatePerMin,
		SimulatedLatency: cfg.Auth.SimulatedLatency,
	})

	payment := checkout.NewSimulatedPayment(cfg.Auth.SimulatedLatency)
	checkoutSvc := checkout.NewService(store, catalogSvc, cartSvc, payment)
	checkoutHandler := checkout.NewHandler(checkoutSvc, accountSvc)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Mount("/catalog", catalog.NewHandler(catalogSvc).Routes())
		r.Mount("/carts", cart.NewHandler(cartSvc).Routes())
		r.Mount("/auth", account.NewHandler(accountSvc).Routes())
		r.Mount("/checkout", checkoutHandler.Routes())
		r.Mount("/orders", checkoutHandler.OrderRoutes())
	})

	server := &http.Server{
		Addr:              cfg.HTTPServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting storefront", "addr", cfg.HTTPServerAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("unexpected server shutdown", "err", err)
			stop()
		}
	}()

	<-sigCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("closing http server...")
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown gracefully", "err", err)
	}
	slog.Info("http server is closed")
}
