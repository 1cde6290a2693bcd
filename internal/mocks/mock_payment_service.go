package mocks

import (
	"context"

	"github.com/metinatakli/cinema-tickets/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockPaymentService struct {
	mock.Mock
	domain.PaymentService
}

func (m *MockPaymentService) MakePayment(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}
