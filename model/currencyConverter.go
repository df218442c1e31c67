package model

import (
	"fmt"
	"strings"
)

// CurrencyConverter translates between the codes used by one exchange and the common currency codes.
// Codes with no entry pass through unchanged in both directions
type CurrencyConverter struct {
	exchange2Common map[string]string
	common2Exchange map[string]string
}

// MakeCurrencyConverter is a factory method for CurrencyConverter, the table is keyed by exchange code.
// Every entry must have a unique reverse so that the mapping is involutive
func MakeCurrencyConverter(exchange2Common map[string]string) (*CurrencyConverter, error) {
	forward := map[string]string{}
	reverse := map[string]string{}
	for exchangeCode, commonCode := range exchange2Common {
		if exchangeCode == "" || commonCode == "" {
			return nil, fmt.Errorf("currency converter entry cannot be empty: '%s' -> '%s'", exchangeCode, commonCode)
		}
		commonCode = strings.ToUpper(commonCode)
		if other, ok := reverse[commonCode]; ok {
			return nil, fmt.Errorf("common code %s is mapped from both %s and %s", commonCode, other, exchangeCode)
		}
		forward[exchangeCode] = commonCode
		reverse[commonCode] = exchangeCode
	}

	return &CurrencyConverter{
		exchange2Common: forward,
		common2Exchange: reverse,
	}, nil
}

// MustMakeCurrencyConverter panics on an invalid table, used for package level tables
func MustMakeCurrencyConverter(exchange2Common map[string]string) *CurrencyConverter {
	c, e := MakeCurrencyConverter(exchange2Common)
	if e != nil {
		panic(e)
	}
	return c
}

// CommonCode converts an exchange code to the common code
func (c CurrencyConverter) CommonCode(exchangeCode string) string {
	if common, ok := c.exchange2Common[exchangeCode]; ok {
		return common
	}
	return strings.ToUpper(exchangeCode)
}

// ExchangeCode converts a common code to the exchange code
func (c CurrencyConverter) ExchangeCode(commonCode string) string {
	if code, ok := c.common2Exchange[strings.ToUpper(commonCode)]; ok {
		return code
	}
	return commonCode
}

// IsMapped returns true if the exchange code has an explicit entry
func (c CurrencyConverter) IsMapped(exchangeCode string) bool {
	_, ok := c.exchange2Common[exchangeCode]
	return ok
}

// ExchangeCodes lists the exchange codes with an explicit entry
func (c CurrencyConverter) ExchangeCodes() []string {
	codes := []string{}
	for code := range c.exchange2Common {
		codes = append(codes, code)
	}
	return codes
}

// Validate checks that the table round trips in both directions
func (c CurrencyConverter) Validate() error {
	for exchangeCode, commonCode := range c.exchange2Common {
		if c.ExchangeCode(commonCode) != exchangeCode {
			return fmt.Errorf("currency converter is not involutive for %s -> %s", exchangeCode, commonCode)
		}
	}
	for commonCode, exchangeCode := range c.common2Exchange {
		if c.CommonCode(exchangeCode) != commonCode {
			return fmt.Errorf("currency converter is not involutive for %s -> %s", commonCode, exchangeCode)
		}
	}
	return nil
}
