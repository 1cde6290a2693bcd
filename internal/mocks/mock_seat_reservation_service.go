package mocks

import (
	"context"

	"github.com/metinatakli/cinema-tickets/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSeatReservationService struct {
	mock.Mock
	domain.SeatReservationService
}

func (m *MockSeatReservationService) ReserveSeats(ctx context.Context, accountID int64, seats int) error {
	args := m.Called(ctx, accountID, seats)
	return args.Error(0)
}
