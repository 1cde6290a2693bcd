package domain

import (
	"fmt"
	"maps"

	"github.com/shopspring/decimal"
)

const (
	DefaultMaxTicketsPerPurchase = 25
	Currency                     = "GBP"
)

// PricingConfig holds unit prices in major currency units and the per-purchase ticket limit.
type PricingConfig struct {
	Prices                map[TicketCategory]decimal.Decimal
	MaxTicketsPerPurchase int
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		Prices: map[TicketCategory]decimal.Decimal{
			TicketCategoryInfant: decimal.Zero,
			TicketCategoryChild:  decimal.NewFromInt(15),
			TicketCategoryAdult:  decimal.NewFromInt(25),
		},
		MaxTicketsPerPurchase: DefaultMaxTicketsPerPurchase,
	}
}

func (c PricingConfig) Validate() error {
	if c.MaxTicketsPerPurchase <= 0 {
		return fmt.Errorf("%w: max tickets per purchase must be greater than 0, got %d",
			ErrInvalidPricingConfig, c.MaxTicketsPerPurchase)
	}

	for _, category := range TicketCategories {
		price, ok := c.Prices[category]
		if !ok {
			return fmt.Errorf("%w: missing price for %s", ErrInvalidPricingConfig, category)
		}

		if price.IsNegative() {
			return fmt.Errorf("%w: price for %s must not be negative", ErrInvalidPricingConfig, category)
		}
	}

	if !c.Prices[TicketCategoryInfant].IsZero() {
		return fmt.Errorf("%w: infant tickets must be free", ErrInvalidPricingConfig)
	}

	for category := range c.Prices {
		if !category.Valid() {
			return fmt.Errorf("%w: price set for %s", ErrInvalidPricingConfig, category)
		}
	}

	return nil
}

func (c PricingConfig) clone() PricingConfig {
	return PricingConfig{
		Prices:                maps.Clone(c.Prices),
		MaxTicketsPerPurchase: c.MaxTicketsPerPurchase,
	}
}
