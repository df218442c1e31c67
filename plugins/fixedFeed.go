package plugins

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lightyeario/tradingbots/api"
)

// fixedFeed converts between currencies at configured rates, used when no rate service is available
type fixedFeed struct {
	rates map[string]decimal.Decimal
}

// ensure that it implements RateConverter
var _ api.RateConverter = &fixedFeed{}

// MakeFixedFeed is a factory method, rates are keyed by "FROM/TO". The reverse direction is derived
func MakeFixedFeed(rates map[string]string) (api.RateConverter, error) {
	parsed := map[string]decimal.Decimal{}
	for pair, value := range rates {
		rate, e := decimal.NewFromString(value)
		if e != nil {
			return nil, fmt.Errorf("invalid fixed rate '%s' for %s: %s", value, pair, e)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("fixed rate for %s needs to be positive, was %s", pair, rate)
		}
		parsed[pair] = rate
	}
	return &fixedFeed{rates: parsed}, nil
}

// Rate impl
func (f *fixedFeed) Rate(from string, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if rate, ok := f.rates[from+"/"+to]; ok {
		return rate, nil
	}
	if rate, ok := f.rates[to+"/"+from]; ok {
		return decimal.NewFromInt(1).DivRound(rate, 16), nil
	}
	return decimal.Zero, fmt.Errorf("no fixed rate configured for %s/%s", from, to)
}
