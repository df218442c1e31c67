package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Balance of a single currency; Total = Free + Used
type Balance struct {
	Currency string
	Total    Money
	Free     Money
	Used     Money
	Info     map[string]interface{}
}

// MakeBalance derives the free amount from the total and the amount committed to open orders
func MakeBalance(total Money, used Money, info map[string]interface{}) (*Balance, error) {
	free, e := total.Sub(used)
	if e != nil {
		return nil, fmt.Errorf("cannot derive free balance: %s", e)
	}
	return &Balance{
		Currency: total.Currency(),
		Total:    total,
		Free:     *free,
		Used:     used,
		Info:     info,
	}, nil
}

// MakeBalanceFromFree is used for exchanges that report free and used amounts directly
func MakeBalanceFromFree(free Money, used Money, info map[string]interface{}) (*Balance, error) {
	total, e := free.Add(used)
	if e != nil {
		return nil, fmt.Errorf("cannot derive total balance: %s", e)
	}
	return &Balance{
		Currency: free.Currency(),
		Total:    *total,
		Free:     free,
		Used:     used,
		Info:     info,
	}, nil
}

// String is the stringer function
func (b Balance) String() string {
	return fmt.Sprintf("Balance[total=%s, free=%s, used=%s]", b.Total, b.Free, b.Used)
}

// Fee describes a charge on a movement of funds, either a fixed amount or a rate of the amount
type Fee struct {
	Currency string
	Amount   *Money
	Rate     *decimal.Decimal
}

// MakeFixedFee is a factory method
func MakeFixedFee(amount Money) *Fee {
	return &Fee{
		Currency: amount.Currency(),
		Amount:   &amount,
	}
}

// MakeRateFee is a factory method, rate 0.001 is 0.1%
func MakeRateFee(currency string, rate decimal.Decimal) *Fee {
	return &Fee{
		Currency: currency,
		Rate:     &rate,
	}
}

// ApplyTo returns the fee charged on the amount
func (f Fee) ApplyTo(amount Money) (*Money, error) {
	if amount.Currency() != f.Currency {
		return nil, &CurrencyMismatchError{Op: "apply fee to", Left: f.Currency, Right: amount.String()}
	}
	if f.Amount != nil {
		return MakeMoney(f.Amount.Amount(), f.Currency), nil
	}
	if f.Rate != nil {
		return amount.MulScalar(*f.Rate), nil
	}
	return ZeroMoney(f.Currency), nil
}

// NetOf returns the amount that remains after the fee is deducted
func (f Fee) NetOf(amount Money) (*Money, error) {
	fee, e := f.ApplyTo(amount)
	if e != nil {
		return nil, e
	}
	return amount.Sub(*fee)
}

// String is the stringer function
func (f Fee) String() string {
	if f.Amount != nil {
		return fmt.Sprintf("Fee[%s]", f.Amount)
	}
	if f.Rate != nil {
		return fmt.Sprintf("Fee[%s of %s]", f.Rate, f.Currency)
	}
	return fmt.Sprintf("Fee[0 %s]", f.Currency)
}
