package mocks

import (
	"context"

	"github.com/metinatakli/cinema-tickets/internal/domain"
)

type MockTicketService struct {
	QuoteFunc           func(accountID int64, requests ...domain.TicketRequest) (domain.PurchaseOrder, error)
	PurchaseTicketsFunc func(ctx context.Context, accountID int64, requests ...domain.TicketRequest) error
}

func (m *MockTicketService) Quote(accountID int64, requests ...domain.TicketRequest) (domain.PurchaseOrder, error) {
	return m.QuoteFunc(accountID, requests...)
}

func (m *MockTicketService) PurchaseTickets(ctx context.Context, accountID int64, requests ...domain.TicketRequest) error {
	return m.PurchaseTicketsFunc(ctx, accountID, requests...)
}
