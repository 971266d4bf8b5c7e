package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"example.com/stripe-shop/app/internal/config"
	domproduct "example.com/stripe-shop/app/internal/domain/product"
	"example.com/stripe-shop/app/internal/infra/catalog"
	"example.com/stripe-shop/app/internal/infra/events"
	"example.com/stripe-shop/app/internal/infra/ledger"
	"example.com/stripe-shop/app/internal/infra/mail"
	stripeinfra "example.com/stripe-shop/app/internal/infra/payment/stripe"
	"example.com/stripe-shop/app/internal/infra/persistence/mysql"
	"example.com/stripe-shop/app/internal/infra/persistence/postgres"
	"example.com/stripe-shop/app/internal/infra/security"
	httpapi "example.com/stripe-shop/app/internal/interface/http"
	"example.com/stripe-shop/app/internal/obs"
	cartuc "example.com/stripe-shop/app/internal/usecase/cart"
	checkoutuc "example.com/stripe-shop/app/internal/usecase/checkout"
	productuc "example.com/stripe-shop/app/internal/usecase/product"
	webhookuc "example.com/stripe-shop/app/internal/usecase/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := obs.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// closer runs shutdown funcs in reverse registration order.
type closer struct {
	funcs []func() error
}

func (c *closer) add(f func() error) {
	c.funcs = append(c.funcs, f)
}

func (c *closer) closeAll(logger *slog.Logger) {
	for i := len(c.funcs) - 1; i >= 0; i-- {
		if err := c.funcs[i](); err != nil {
			logger.Error("close", "error", err)
		}
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers closer
	defer closers.closeAll(logger)

	products, err := openCatalog(ctx, cfg.Catalog, &closers)
	if err != nil {
		return err
	}

	processed, err := openLedger(ctx, cfg.Redis, &closers, logger)
	if err != nil {
		return err
	}

	var notifiers []webhookuc.Notifier
	if len(cfg.Kafka.Brokers) > 0 {
		pub := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		closers.add(pub.Close)
		notifiers = append(notifiers, pub)
		logger.Info("kafka publisher enabled", "topic", cfg.Kafka.Topic)
	}
	if cfg.SMTP.Addr != "" {
		notifiers = append(notifiers, mail.NewReceiptMailer(cfg.SMTP.Addr, cfg.SMTP.From))
		logger.Info("receipt mailer enabled", "smtp", cfg.SMTP.Addr)
	}

	gateway := stripeinfra.NewGateway(stripeinfra.GatewayConfig{
		SecretKey:  cfg.Stripe.SecretKey,
		SuccessURL: cfg.Checkout.SuccessURL,
		CancelURL:  cfg.Checkout.CancelURL,
		BackendURL: cfg.Stripe.BackendURL,
	})

	api := httpapi.NewAPI(httpapi.Dependencies{
		ProductService:  productuc.NewService(products),
		CartService:     cartuc.NewService(security.NewCartTokenService(cfg.Cart.TokenSecret, cfg.Cart.TokenTTL), products),
		CheckoutService: checkoutuc.NewService(gateway, cfg.Checkout.Currency, cfg.Checkout.RequestTimeout, logger),
		WebhookService:  webhookuc.NewService(stripeinfra.VerifyEvent, cfg.Stripe.WebhookSecret, processed, logger, notifiers...),
		FrontendURL:     cfg.HTTP.FrontendURL,
		MaxBodyBytes:    cfg.HTTP.MaxBodyBytes,
		Logger:          logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      api.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "catalog", cfg.Catalog.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openCatalog(ctx context.Context, cfg config.CatalogConfig, closers *closer) (domproduct.Repository, error) {
	switch cfg.Driver {
	case config.CatalogDriverMySQL:
		db, err := mysql.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		closers.add(db.Close)
		return mysql.NewProductRepository(db), nil
	case config.CatalogDriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		closers.add(func() error { pool.Close(); return nil })
		return postgres.NewProductRepository(pool), nil
	case config.CatalogDriverFile:
		return catalog.NewFileRepository(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unknown catalog driver %q", cfg.Driver)
	}
}

func openLedger(ctx context.Context, cfg config.RedisConfig, closers *closer, logger *slog.Logger) (webhookuc.Ledger, error) {
	if cfg.Addr == "" {
		logger.Warn("REDIS_ADDR not set, webhook dedupe is per process")
		return ledger.NewMemoryLedger(cfg.EventTTL), nil
	}

	client := ledger.NewRedisClient(cfg.Addr, cfg.Password, cfg.DB)
	closers.add(client.Close)
	l := ledger.NewRedisLedger(client, cfg.EventTTL)
	if err := l.Ping(ctx); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return l, nil
}
