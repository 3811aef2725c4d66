package marketplace

import (
	"context"
	"strings"
)

// StaticPriceProvider serves quotes from a fixed table keyed by lower-cased
// product name. Useful as the default provider until a live feed is wired.
type StaticPriceProvider struct {
	prices map[string]string
}

func NewStaticPriceProvider(prices map[string]string) *StaticPriceProvider {
	normalized := make(map[string]string, len(prices))
	for name, price := range prices {
		normalized[strings.ToLower(strings.TrimSpace(name))] = price
	}
	return &StaticPriceProvider{prices: normalized}
}

func (p *StaticPriceProvider) PricePerKgINR(ctx context.Context, productName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	price, ok := p.prices[strings.ToLower(strings.TrimSpace(productName))]
	if !ok {
		return "", ErrPriceUnavailable
	}
	return price, nil
}

// noopPriceProvider never has a quote
type noopPriceProvider struct{}

func (noopPriceProvider) PricePerKgINR(ctx context.Context, productName string) (string, error) {
	return "", ErrPriceUnavailable
}

var (
	_ PriceProvider = (*StaticPriceProvider)(nil)
	_ PriceProvider = noopPriceProvider{}
)
