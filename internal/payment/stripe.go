package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

var ErrPaymentNotCompleted = errors.New("payment was not completed")

// StripePaymentService charges accounts by creating and confirming a Stripe PaymentIntent.
type StripePaymentService struct {
	client        *paymentintent.Client
	paymentMethod string
	logger        *slog.Logger
}

func NewStripePaymentService(client *paymentintent.Client, paymentMethod string, logger *slog.Logger) *StripePaymentService {
	return &StripePaymentService{
		client:        client,
		paymentMethod: paymentMethod,
		logger:        logger,
	}
}

func (s *StripePaymentService) MakePayment(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("cannot charge a negative amount: %s", amount)
	}

	// Stripe rejects zero-amount intents.
	if amount.IsZero() {
		s.logger.Info("skipping zero amount payment", "account_id", accountID)
		return nil
	}

	minorUnits := amount.Shift(2)
	if !minorUnits.IsInteger() {
		return fmt.Errorf("amount %s has more precision than the currency allows", amount)
	}

	accountIDStr := strconv.FormatInt(accountID, 10)

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(minorUnits.IntPart()),
		Currency:      stripe.String(string(stripe.CurrencyGBP)),
		PaymentMethod: stripe.String(s.paymentMethod),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(fmt.Sprintf("Cinema tickets for account %s", accountIDStr)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())
	params.AddMetadata("account_id", accountIDStr)

	intent, err := s.client.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
			return fmt.Errorf("stripe: %s", stripeErr.Msg)
		}

		return fmt.Errorf("stripe: %w", err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("%w: payment intent %s is %s", ErrPaymentNotCompleted, intent.ID, intent.Status)
	}

	s.logger.Info("payment completed",
		"account_id", accountID,
		"amount", amount.StringFixed(2),
		"payment_intent_id", intent.ID,
	)

	return nil
}
