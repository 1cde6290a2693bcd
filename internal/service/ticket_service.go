package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/metinatakli/cinema-tickets/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/metinatakli/cinema-tickets/internal/service"

// TicketService is the purchase entry point. It validates and prices a purchase with
// the engine, then charges the account and reserves the seats.
//
// A reservation failure after a successful payment is reported as a failed purchase;
// the payment is not reversed.
type TicketService struct {
	engine       *domain.Engine
	payments     domain.PaymentService
	reservations domain.SeatReservationService

	tracer    trace.Tracer
	purchases metric.Int64Counter
}

func NewTicketService(
	engine *domain.Engine,
	payments domain.PaymentService,
	reservations domain.SeatReservationService) (*TicketService, error) {

	meter := otel.Meter(instrumentationName)

	purchases, err := meter.Int64Counter(
		"tickets.purchases",
		metric.WithDescription("Ticket purchase attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create purchases counter: %w", err)
	}

	return &TicketService{
		engine:       engine,
		payments:     payments,
		reservations: reservations,
		tracer:       otel.Tracer(instrumentationName),
		purchases:    purchases,
	}, nil
}

// Quote validates and prices a purchase without charging or reserving anything.
func (s *TicketService) Quote(accountID int64, requests ...domain.TicketRequest) (domain.PurchaseOrder, error) {
	if err := s.engine.ValidateAccountID(accountID); err != nil {
		return domain.PurchaseOrder{}, err
	}

	if err := s.engine.ValidateTicketRequests(requests); err != nil {
		return domain.PurchaseOrder{}, err
	}

	order, err := s.engine.CalculateTotals(requests)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}

	if err := s.engine.ApplyBusinessRules(order.TicketCounts); err != nil {
		return domain.PurchaseOrder{}, err
	}

	return order, nil
}

func (s *TicketService) PurchaseTickets(ctx context.Context, accountID int64, requests ...domain.TicketRequest) error {
	ctx, span := s.tracer.Start(ctx, "TicketService.PurchaseTickets",
		trace.WithAttributes(attribute.Int64("account.id", accountID)))
	defer span.End()

	err := s.purchase(ctx, accountID, requests)

	outcome := "success"
	if err != nil {
		outcome = domain.ReasonCode(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	s.purchases.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))

	return err
}

func (s *TicketService) purchase(ctx context.Context, accountID int64, requests []domain.TicketRequest) error {
	order, err := s.Quote(accountID, requests...)
	if err != nil {
		return err
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("order.amount", order.TotalAmountDue.String()),
		attribute.Int("order.seats", order.TotalSeatsRequired),
	)

	err = s.payments.MakePayment(ctx, accountID, order.TotalAmountDue)
	if err != nil {
		return domain.WrapCollaboratorFailure(err)
	}

	err = s.reservations.ReserveSeats(ctx, accountID, order.TotalSeatsRequired)
	if err != nil {
		return domain.WrapCollaboratorFailure(err)
	}

	return nil
}

// IsCollaboratorFailure reports whether err came from the payment or reservation collaborator.
func IsCollaboratorFailure(err error) bool {
	return errors.Is(err, domain.ErrCollaboratorFailed)
}
