// Package api assembles the HTTP API binary: storage, migrations, cache,
// the mail queue, the payment provider clients and every service behind
// the routes.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/coddink/interview-backend/internal/cache"
	"github.com/coddink/interview-backend/internal/config"
	"github.com/coddink/interview-backend/internal/lib/jwt"
	"github.com/coddink/interview-backend/internal/lib/password"
	"github.com/coddink/interview-backend/internal/lib/rabbitmq"
	"github.com/coddink/interview-backend/internal/lib/sl"
	"github.com/coddink/interview-backend/internal/migrations"
	"github.com/coddink/interview-backend/internal/models"
	"github.com/coddink/interview-backend/internal/paymentprovider/paypal"
	"github.com/coddink/interview-backend/internal/paymentprovider/portone"
	couponservice "github.com/coddink/interview-backend/internal/services/coupon"
	interviewservice "github.com/coddink/interview-backend/internal/services/interview"
	mailservice "github.com/coddink/interview-backend/internal/services/mail"
	orderservice "github.com/coddink/interview-backend/internal/services/order"
	paymentservice "github.com/coddink/interview-backend/internal/services/payment"
	productservice "github.com/coddink/interview-backend/internal/services/product"
	subscriptionservice "github.com/coddink/interview-backend/internal/services/subscription"
	userservice "github.com/coddink/interview-backend/internal/services/user"
	"github.com/coddink/interview-backend/internal/storage/repository"
)

// App owns the HTTP server and the connections it was built on.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	amqp   *amqp.Connection
}

// New wires the whole API. It connects to PostgreSQL, runs the
// migrations, connects to Redis and RabbitMQ, builds the provider
// clients and services, seeds the admin account and mounts the routes.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	amqpConn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	amqpCh, err := rabbitmq.SetupChannel(amqpConn, rabbitmq.GetMailQueues())
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.AccessTTL, cfg.RememberTTL)
	portoneClient := portone.NewClient(cfg.PortOneBaseURL, cfg.PortOneAPISecret, cfg.PortOneTimeout)
	paypalClient := paypal.NewClient(cfg.PayPalBaseURL, cfg.PayPalClientID, cfg.PayPalClientSecret, cfg.PayPalTimeout)

	mailer := mailservice.NewMailService(mailservice.ChannelPublisher{Ch: amqpCh}, logger)
	users := userservice.NewUserService(db, db, mailer, cacheRedis, jwtMaker, logger)
	subscriptions := subscriptionservice.NewSubscriptionService(db, cacheRedis, logger)
	coupons := couponservice.NewCouponService(db, cacheRedis, logger)
	products := productservice.NewProductService(db, logger)
	orders := orderservice.NewOrderService(db, paypalClient, logger)
	payments := paymentservice.NewPaymentService(db, portoneClient, logger)
	interview := interviewservice.NewInterviewService(cacheRedis, interviewservice.DefaultQuestionBank(), logger)

	if err := seedAdmin(ctx, db, cfg.Admin, logger); err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, &Services{
		Users:         users,
		Subscriptions: subscriptions,
		Coupons:       coupons,
		Products:      products,
		Orders:        orders,
		Payments:      payments,
		Interview:     interview,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		amqp:   amqpConn,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully and closes the database and broker connections.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close database", sl.Err(cerr))
		}
		if cerr := a.amqp.Close(); cerr != nil {
			a.logger.Error("failed to close broker connection", sl.Err(cerr))
		}
		return err
	}
}

// adminSeedStore is the slice of the repository the admin seed needs.
type adminSeedStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user models.User) (int64, error)
}

// seedAdmin creates the bootstrap admin account on first start. An
// existing account with the configured email is left untouched.
func seedAdmin(ctx context.Context, db adminSeedStore, cfg config.Admin, logger *slog.Logger) error {
	if cfg.AdminPassword == "" {
		logger.Warn("admin password not configured, skipping admin seed")
		return nil
	}

	exists, err := db.EmailExists(ctx, cfg.AdminEmail)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := password.GetHash(cfg.AdminPassword)
	if err != nil {
		return err
	}
	// Admin routes are gated by role, not by tier.
	_, err = db.CreateUser(ctx, models.User{
		Email:            cfg.AdminEmail,
		PasswordHash:     hash,
		Nickname:         "admin",
		Role:             models.RoleAdmin,
		SubscriptionType: models.SubscriptionFree,
	})
	if err != nil {
		return err
	}
	logger.Info("admin account seeded", slog.String("email", cfg.AdminEmail))
	return nil
}
