package payment

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
)

// NoopPaymentService accepts every payment without contacting a provider.
type NoopPaymentService struct {
	logger *slog.Logger
}

func NewNoopPaymentService(logger *slog.Logger) *NoopPaymentService {
	return &NoopPaymentService{
		logger: logger,
	}
}

func (n *NoopPaymentService) MakePayment(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	n.logger.InfoContext(ctx, "payment accepted without charge", "account_id", accountID, "amount", amount.StringFixed(2))
	return nil
}
