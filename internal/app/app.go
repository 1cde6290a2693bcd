package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-tickets/internal/config"
	"github.com/metinatakli/cinema-tickets/internal/domain"
	"github.com/metinatakli/cinema-tickets/internal/payment"
	"github.com/metinatakli/cinema-tickets/internal/repository"
	"github.com/metinatakli/cinema-tickets/internal/service"
	appvalidator "github.com/metinatakli/cinema-tickets/internal/validator"
	"github.com/metinatakli/cinema-tickets/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

var (
	version = vcs.Version()
)

const (
	PaymentProviderNoop   = "noop"
	PaymentProviderStripe = "stripe"

	ReservationBackendNoop     = "noop"
	ReservationBackendPostgres = "postgres"
	ReservationBackendRedis    = "redis"
)

// TicketService is the purchase API the HTTP handlers depend on.
type TicketService interface {
	Quote(accountID int64, requests ...domain.TicketRequest) (domain.PurchaseOrder, error)
	PurchaseTickets(ctx context.Context, accountID int64, requests ...domain.TicketRequest) error
}

type Application struct {
	config        Config
	logger        *slog.Logger
	validator     *validator.Validate
	ticketService TicketService
}

type Config struct {
	Port               int
	Env                string
	PricingEnvFile     string
	PaymentProvider    string
	ReservationBackend string
	OtelCollectorUrl   string
	DB                 DBConfig
	Redis              RedisConfig
	Stripe             StripeConfig
	Venue              VenueConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type StripeConfig struct {
	SecretKey     string
	PaymentMethod string
}

type VenueConfig struct {
	Name     string
	Capacity int
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.PricingEnvFile, "pricing-env-file", ".env", "Optional env file with ticket prices in pence")

	flag.StringVar(&cfg.PaymentProvider, "payment-provider", PaymentProviderNoop, "Payment provider (noop|stripe)")
	flag.StringVar(&cfg.ReservationBackend, "reservation-backend", ReservationBackendNoop,
		"Seat reservation backend (noop|postgres|redis)")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.Stripe.SecretKey, "stripe-key", "", "Stripe secret key")
	flag.StringVar(&cfg.Stripe.PaymentMethod, "stripe-payment-method", "pm_card_visa", "Stripe payment method to charge")

	flag.StringVar(&cfg.Venue.Name, "venue-name", "main", "Venue whose seats are allocated")
	flag.IntVar(&cfg.Venue.Capacity, "venue-capacity", 200, "Number of seats in the venue")

	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector gRPC endpoint")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(NewMultiHandler(
		slog.NewTextHandler(os.Stdout, nil),
		otelslog.NewHandler(serviceName),
	))

	app, cleanup, err := NewApplication(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		return err
	}
	defer cleanup()

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		return err
	}
	defer shutdownTelemetry(context.Background())

	return app.run()
}

// NewApplication wires the pricing engine, the configured collaborators and the ticket
// service. The returned cleanup function releases any database or Redis connections.
func NewApplication(cfg Config, logger *slog.Logger) (*Application, func(), error) {
	pricing, err := config.LoadPricing(cfg.PricingEnvFile)
	if err != nil {
		return nil, nil, err
	}

	engine, err := domain.NewEngine(pricing)
	if err != nil {
		return nil, nil, err
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	payments, err := newPaymentService(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var reservations domain.SeatReservationService

	switch cfg.ReservationBackend {
	case ReservationBackendNoop, "":
		reservations = repository.NewNoopSeatReservationService(logger)
	case ReservationBackendPostgres:
		db, err := NewDatabasePool(cfg)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, db.Close)

		reservations = repository.NewPostgresSeatReservationRepository(db)
	case ReservationBackendRedis:
		redisClient, err := NewRedisClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { redisClient.Close() })

		reservations = repository.NewRedisSeatAllocator(redisClient, cfg.Venue.Name, cfg.Venue.Capacity)
	default:
		return nil, nil, fmt.Errorf("unknown reservation backend %q", cfg.ReservationBackend)
	}

	logger.Info("pricing loaded",
		"adult", pricing.Prices[domain.TicketCategoryAdult].StringFixed(2),
		"child", pricing.Prices[domain.TicketCategoryChild].StringFixed(2),
		"infant", pricing.Prices[domain.TicketCategoryInfant].StringFixed(2),
		"max_tickets", pricing.MaxTicketsPerPurchase,
	)

	ticketService, err := service.NewTicketService(engine, payments, reservations)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return NewApp(cfg, logger, appvalidator.NewValidator(), ticketService), cleanup, nil
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	validator *validator.Validate,
	ticketService TicketService) *Application {

	return &Application{
		config:        cfg,
		logger:        logger,
		validator:     validator,
		ticketService: ticketService,
	}
}

func newPaymentService(cfg Config, logger *slog.Logger) (domain.PaymentService, error) {
	switch cfg.PaymentProvider {
	case PaymentProviderNoop, "":
		return payment.NewNoopPaymentService(logger), nil
	case PaymentProviderStripe:
		if cfg.Stripe.SecretKey == "" {
			return nil, errors.New("stripe secret key is required for the stripe payment provider")
		}

		client := &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: cfg.Stripe.SecretKey}

		return payment.NewStripePaymentService(client, cfg.Stripe.PaymentMethod, logger), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.PaymentProvider)
	}
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := redisotel.InstrumentTracing(rdb)
	if err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(app.requestLogger)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.GetHealth)

		r.Post("/tickets/quote", app.QuoteTicketsHandler)
		r.Post("/tickets/purchase", app.PurchaseTicketsHandler)
	})

	return r
}
