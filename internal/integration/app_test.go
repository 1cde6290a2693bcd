package integration_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-tickets/internal/app"
	"github.com/metinatakli/cinema-tickets/internal/domain"
	"github.com/metinatakli/cinema-tickets/internal/repository"
	"github.com/metinatakli/cinema-tickets/internal/service"
	appvalidator "github.com/metinatakli/cinema-tickets/internal/validator"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type TestApp struct {
	App          *app.Application
	DB           *pgxpool.Pool
	RedisClient  *redis.Client
	Payments     *RecordingPaymentService
	Reservations *repository.PostgresSeatReservationRepository
	Allocator    *repository.RedisSeatAllocator
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	engine, err := domain.NewEngine(domain.DefaultPricingConfig())
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	payments := &RecordingPaymentService{decline: map[int64]bool{TestDecliningAccountId: true}}
	reservations := repository.NewPostgresSeatReservationRepository(db)
	allocator := repository.NewRedisSeatAllocator(redisClient, cfg.Venue.Name, cfg.Venue.Capacity)

	var seats domain.SeatReservationService
	switch cfg.ReservationBackend {
	case app.ReservationBackendPostgres:
		seats = reservations
	case app.ReservationBackendRedis:
		seats = allocator
	default:
		db.Close()
		redisClient.Close()
		return nil, fmt.Errorf("unsupported reservation backend %q", cfg.ReservationBackend)
	}

	ticketService, err := service.NewTicketService(engine, payments, seats)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	application := app.NewApp(cfg, logger, appvalidator.NewValidator(), ticketService)

	return &TestApp{
		App:          application,
		DB:           db,
		RedisClient:  redisClient,
		Payments:     payments,
		Reservations: reservations,
		Allocator:    allocator,
	}, nil
}

func (a *TestApp) Close() {
	a.DB.Close()
	a.RedisClient.Close()
}

// RecordingPaymentService accepts every payment except for declining accounts and
// keeps the accepted charges per account.
type RecordingPaymentService struct {
	mu      sync.Mutex
	decline map[int64]bool
	charges map[int64][]decimal.Decimal
}

func (p *RecordingPaymentService) MakePayment(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	if p.decline[accountID] {
		return errors.New(TestDeclineMessage)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.charges == nil {
		p.charges = make(map[int64][]decimal.Decimal)
	}
	p.charges[accountID] = append(p.charges[accountID], amount)

	return nil
}

func (p *RecordingPaymentService) Charges(accountID int64) []decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]decimal.Decimal(nil), p.charges[accountID]...)
}

func (p *RecordingPaymentService) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.charges = nil
}
