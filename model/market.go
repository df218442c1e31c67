package model

import (
	"fmt"
	"strings"
)

// Market lists an ordered pair of currencies that can be traded against each other.
// BTC/USD = 10000; BTC is base, USD is quote. Prices are always expressed in the quote currency
type Market struct {
	// Base represents the currency that has a unit of 1 (implicit)
	Base string `json:"base"`
	// Quote represents the currency that has its unit specified relative to the base currency
	Quote string `json:"quote"`
}

// MakeMarket is a factory method
func MakeMarket(base string, quote string) *Market {
	return &Market{
		Base:  strings.ToUpper(base),
		Quote: strings.ToUpper(quote),
	}
}

// MarketFromString makes a Market out of a string like "BTC/USD"
func MarketFromString(s string) (*Market, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid market string '%s', expected format BASE/QUOTE", s)
	}
	return MakeMarket(parts[0], parts[1]), nil
}

// String is the stringer function
func (m Market) String() string {
	return m.Base + "/" + m.Quote
}

// Code is the delimiter-free code, used as a storage key
func (m Market) Code() string {
	return m.Base + m.Quote
}

// Equals compares both currencies
func (m Market) Equals(other Market) bool {
	return m.Base == other.Base && m.Quote == other.Quote
}

// Reverse swaps the base and quote
func (m Market) Reverse() *Market {
	return MakeMarket(m.Quote, m.Base)
}

// Contains returns true if the currency is either the base or the quote
func (m Market) Contains(currency string) bool {
	return m.Base == currency || m.Quote == currency
}
