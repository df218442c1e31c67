package api

import (
	"github.com/shopspring/decimal"
)

// Strategy represents some logic for a bot to follow on every update cycle
type Strategy interface {
	// Setup is called once before the first cycle
	Setup() error
	Algorithm() error
	// Abort is called when Algorithm fails with an error that is not transient
	Abort() error
}

// RateConverter gives the exchange rate between two currencies, e.g. USD -> EUR
type RateConverter interface {
	Rate(from string, to string) (decimal.Decimal, error)
}
