package repository

import (
	"context"
	"log/slog"
)

// NoopSeatReservationService accepts every reservation without recording it.
type NoopSeatReservationService struct {
	logger *slog.Logger
}

func NewNoopSeatReservationService(logger *slog.Logger) *NoopSeatReservationService {
	return &NoopSeatReservationService{
		logger: logger,
	}
}

func (n *NoopSeatReservationService) ReserveSeats(ctx context.Context, accountID int64, seats int) error {
	n.logger.InfoContext(ctx, "seats reserved without allocation", "account_id", accountID, "seats", seats)
	return nil
}
