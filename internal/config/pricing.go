package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/metinatakli/cinema-tickets/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	InfantPricePenceKey = "INFANT_PRICE_PENCE"
	ChildPricePenceKey  = "CHILD_PRICE_PENCE"
	AdultPricePenceKey  = "ADULT_PRICE_PENCE"
	MaxTicketsKey       = "MAX_TICKETS"
)

var priceKeys = map[domain.TicketCategory]string{
	domain.TicketCategoryInfant: InfantPricePenceKey,
	domain.TicketCategoryChild:  ChildPricePenceKey,
	domain.TicketCategoryAdult:  AdultPricePenceKey,
}

// LoadPricing builds the pricing config from environment variables, optionally
// layered over an env file. Prices are given in pence.
func LoadPricing(envFile string) (domain.PricingConfig, error) {
	v := viper.New()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")

		// A missing file is fine, the environment may provide everything.
		err := v.ReadInConfig()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return domain.PricingConfig{}, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	v.AutomaticEnv()
	setPricingDefaults(v)

	cfg := domain.PricingConfig{
		Prices: make(map[domain.TicketCategory]decimal.Decimal, len(priceKeys)),
	}

	for category, key := range priceKeys {
		pence, err := parseInt(v, key)
		if err != nil {
			return domain.PricingConfig{}, err
		}

		cfg.Prices[category] = decimal.New(pence, -2)
	}

	maxTickets, err := parseInt(v, MaxTicketsKey)
	if err != nil {
		return domain.PricingConfig{}, err
	}
	cfg.MaxTicketsPerPurchase = int(maxTickets)

	if err := cfg.Validate(); err != nil {
		return domain.PricingConfig{}, fmt.Errorf("pricing config validation failed: %w", err)
	}

	return cfg, nil
}

func setPricingDefaults(v *viper.Viper) {
	v.SetDefault(InfantPricePenceKey, 0)
	v.SetDefault(ChildPricePenceKey, 1500)
	v.SetDefault(AdultPricePenceKey, 2500)
	v.SetDefault(MaxTicketsKey, domain.DefaultMaxTicketsPerPurchase)
}

func parseInt(v *viper.Viper, key string) (int64, error) {
	raw := strings.TrimSpace(v.GetString(key))

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}

	return n, nil
}
