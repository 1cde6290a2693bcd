package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type TicketCounts struct {
	Adult  int
	Child  int
	Infant int
}

func (c TicketCounts) Of(category TicketCategory) int {
	switch category {
	case TicketCategoryAdult:
		return c.Adult
	case TicketCategoryChild:
		return c.Child
	case TicketCategoryInfant:
		return c.Infant
	default:
		return 0
	}
}

func (c TicketCounts) Total() int {
	return c.Adult + c.Child + c.Infant
}

// within reports whether every count is non-negative and the total does not exceed max.
// Each count is checked on its own first so that the total cannot wrap around.
func (c TicketCounts) within(max int) bool {
	for _, n := range []int{c.Adult, c.Child, c.Infant} {
		if n < 0 || n > max {
			return false
		}
	}

	return c.Total() <= max
}

func (c *TicketCounts) add(category TicketCategory, n int) {
	switch category {
	case TicketCategoryAdult:
		c.Adult += n
	case TicketCategoryChild:
		c.Child += n
	case TicketCategoryInfant:
		c.Infant += n
	}
}

// PurchaseOrder is the priced and seat-counted result of one validated purchase attempt.
type PurchaseOrder struct {
	TotalAmountDue     decimal.Decimal
	TotalSeatsRequired int
	TicketCounts       TicketCounts
}

// PaymentService charges an account. Implementations are external to the purchase
// decision and may fail for any reason.
type PaymentService interface {
	MakePayment(ctx context.Context, accountID int64, amount decimal.Decimal) error
}

// SeatReservationService reserves a number of seats for an account.
type SeatReservationService interface {
	ReserveSeats(ctx context.Context, accountID int64, seats int) error
}
