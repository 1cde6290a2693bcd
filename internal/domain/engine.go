package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Engine validates and prices ticket purchases against a fixed PricingConfig.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	config PricingConfig
}

func NewEngine(config PricingConfig) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Engine{config: config.clone()}, nil
}

func (e *Engine) MaxTicketsPerPurchase() int {
	return e.config.MaxTicketsPerPurchase
}

// Price returns the unit price of a category.
func (e *Engine) Price(category TicketCategory) (decimal.Decimal, bool) {
	price, ok := e.config.Prices[category]
	return price, ok && category.Valid()
}

func (e *Engine) ValidateAccountID(accountID int64) error {
	if accountID <= 0 {
		return NewInvalidPurchase(ErrInvalidAccountID, "")
	}

	return nil
}

func (e *Engine) ValidateTicketRequests(requests []TicketRequest) error {
	if len(requests) == 0 {
		return NewInvalidPurchase(ErrNoTicketRequests, "")
	}

	for _, req := range requests {
		if req == (TicketRequest{}) || req.Count() <= 0 {
			return NewInvalidPurchase(ErrMalformedTicketRequest, "")
		}
	}

	return nil
}

// CalculateTotals aggregates the requests into a PurchaseOrder. Amounts are summed
// as decimals so fractional unit prices do not drift. Business rules are not applied
// here, except that a ticket count too large to represent fails with the capacity error.
func (e *Engine) CalculateTotals(requests []TicketRequest) (PurchaseOrder, error) {
	var order PurchaseOrder
	total := decimal.Zero

	for _, req := range requests {
		category := req.Category()

		// Counts are positive, so the running total bounds every other sum below.
		if req.Count() > math.MaxInt-order.TicketCounts.Total() {
			return PurchaseOrder{}, e.maxTicketsExceeded()
		}

		price, ok := e.Price(category)
		if !ok {
			return PurchaseOrder{}, NewInvalidPurchase(
				ErrUnknownTicketCategory,
				fmt.Sprintf("%s: %s", ErrUnknownTicketCategory, category),
			)
		}

		total = total.Add(price.Mul(decimal.NewFromInt(int64(req.Count()))))
		order.TicketCounts.add(category, req.Count())

		if category.SeatBearing() {
			order.TotalSeatsRequired += req.Count()
		}
	}

	order.TotalAmountDue = total

	return order, nil
}

// ApplyBusinessRules checks capacity, adult supervision and infant lap seating,
// in that order, and returns the first violation.
func (e *Engine) ApplyBusinessRules(counts TicketCounts) error {
	if !counts.within(e.config.MaxTicketsPerPurchase) {
		return e.maxTicketsExceeded()
	}

	if (counts.Child > 0 || counts.Infant > 0) && counts.Adult == 0 {
		return NewInvalidPurchase(ErrAdultRequired, "")
	}

	if counts.Infant > counts.Adult {
		return NewInvalidPurchase(
			ErrInfantsExceedAdults,
			ErrInfantsExceedAdults.Error()+" (infants sit on adult laps)",
		)
	}

	return nil
}

func (e *Engine) maxTicketsExceeded() error {
	return NewInvalidPurchase(
		ErrMaxTicketsExceeded,
		fmt.Sprintf("cannot purchase more than %d tickets at once", e.config.MaxTicketsPerPurchase),
	)
}
