package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/metinatakli/cinema-tickets/internal/config"
	"github.com/metinatakli/cinema-tickets/internal/domain"
	"github.com/metinatakli/cinema-tickets/internal/payment"
	"github.com/metinatakli/cinema-tickets/internal/repository"
	"github.com/metinatakli/cinema-tickets/internal/service"
	"github.com/shopspring/decimal"
)

type scenario struct {
	name       string
	accountID  int64
	requests   []domain.TicketRequest
	failCharge bool
}

var (
	adult  = domain.TicketCategoryAdult
	child  = domain.TicketCategoryChild
	infant = domain.TicketCategoryInfant
)

func tickets(category domain.TicketCategory, count int) domain.TicketRequest {
	return domain.MustTicketRequest(category, count)
}

var scenarios = []scenario{
	{name: "adults only", accountID: 1, requests: []domain.TicketRequest{tickets(adult, 2)}},
	{name: "family", accountID: 2, requests: []domain.TicketRequest{tickets(adult, 2), tickets(child, 2), tickets(infant, 1)}},
	{name: "maximum tickets", accountID: 3, requests: []domain.TicketRequest{tickets(adult, 20), tickets(child, 5)}},
	{name: "one infant per adult", accountID: 4, requests: []domain.TicketRequest{tickets(adult, 3), tickets(infant, 3)}},
	{name: "too many tickets", accountID: 5, requests: []domain.TicketRequest{tickets(adult, 26)}},
	{name: "child without adult", accountID: 6, requests: []domain.TicketRequest{tickets(child, 2)}},
	{name: "more infants than adults", accountID: 7, requests: []domain.TicketRequest{tickets(adult, 1), tickets(infant, 2)}},
	{name: "zero account id", accountID: 0, requests: []domain.TicketRequest{tickets(adult, 1)}},
	{name: "negative account id", accountID: -1, requests: []domain.TicketRequest{tickets(adult, 1)}},
	{name: "payment declined", accountID: 8, requests: []domain.TicketRequest{tickets(adult, 1)}, failCharge: true},
}

// decliningPaymentService rejects every charge.
type decliningPaymentService struct{}

func (decliningPaymentService) MakePayment(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	return errors.New("card declined")
}

func main() {
	envFile := flag.String("pricing-env-file", ".env", "Optional env file with ticket prices in pence")
	verbose := flag.Bool("v", false, "Log collaborator calls")
	flag.Parse()

	var out io.Writer = io.Discard
	if *verbose {
		out = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(out, nil))

	pricing, err := config.LoadPricing(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load pricing: %v\n", err)
		os.Exit(1)
	}

	engine, err := domain.NewEngine(pricing)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid pricing: %v\n", err)
		os.Exit(1)
	}

	reservations := repository.NewNoopSeatReservationService(logger)
	accepting, err := service.NewTicketService(engine, payment.NewNoopPaymentService(logger), reservations)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create ticket service: %v\n", err)
		os.Exit(1)
	}

	declining, err := service.NewTicketService(engine, decliningPaymentService{}, reservations)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create ticket service: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("prices: adult %s, child %s, infant %s (max %d tickets per purchase)\n\n",
		pricing.Prices[adult].StringFixed(2), pricing.Prices[child].StringFixed(2),
		pricing.Prices[infant].StringFixed(2), engine.MaxTicketsPerPurchase())

	failures := 0

	for i, sc := range scenarios {
		svc := accepting
		if sc.failCharge {
			svc = declining
		}

		fmt.Printf("%2d. %s (account %d, %v)\n", i+1, sc.name, sc.accountID, sc.requests)

		order, err := svc.Quote(sc.accountID, sc.requests...)
		if err == nil {
			fmt.Printf("    quote: %s %s, %d seat(s), %d adult / %d child / %d infant\n",
				domain.Currency, order.TotalAmountDue.StringFixed(2), order.TotalSeatsRequired,
				order.TicketCounts.Adult, order.TicketCounts.Child, order.TicketCounts.Infant)
		}

		err = svc.PurchaseTickets(context.Background(), sc.accountID, sc.requests...)
		if err != nil {
			failures++
			fmt.Printf("    rejected [%s]: %v\n", domain.ReasonCode(err), err)
			continue
		}

		fmt.Println("    purchased")
	}

	fmt.Printf("\n%d of %d purchases rejected\n", failures, len(scenarios))
}
