package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MoneyDisplayPrecision is the number of decimal places used in the canonical string form of Money
const MoneyDisplayPrecision = 8

// ErrCurrencyMismatch is the cause of every CurrencyMismatchError
var ErrCurrencyMismatch = errors.New("currency mismatch")

// CurrencyMismatchError is returned when two Money values with different currencies are combined
type CurrencyMismatchError struct {
	Op    string
	Left  string
	Right string
}

// Error impl.
func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("%s: cannot %s %s and %s", ErrCurrencyMismatch, e.Op, e.Left, e.Right)
}

// Unwrap allows errors.Is(e, ErrCurrencyMismatch)
func (e *CurrencyMismatchError) Unwrap() error {
	return ErrCurrencyMismatch
}

// Money is an immutable amount of a currency
type Money struct {
	amount   decimal.Decimal
	currency string
}

// MakeMoney is a factory method
func MakeMoney(amount decimal.Decimal, currency string) *Money {
	return &Money{
		amount:   amount,
		currency: strings.ToUpper(currency),
	}
}

// MakeMoneyFromString parses the amount part only, the currency is given separately
func MakeMoneyFromString(amount string, currency string) (*Money, error) {
	d, e := decimal.NewFromString(strings.TrimSpace(amount))
	if e != nil {
		return nil, errors.Wrapf(e, "invalid amount '%s' for currency %s", amount, currency)
	}
	return MakeMoney(d, currency), nil
}

// MustMakeMoney panics if the amount cannot be parsed
func MustMakeMoney(amount string, currency string) *Money {
	m, e := MakeMoneyFromString(amount, currency)
	if e != nil {
		panic(e)
	}
	return m
}

// ZeroMoney returns a zero amount of the currency
func ZeroMoney(currency string) *Money {
	return MakeMoney(decimal.Zero, currency)
}

// ParseMoney is the inverse of Money.String, e.g. "1.23400000 BTC"
func ParseMoney(s string) (*Money, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid money string '%s', expected '<amount> <currency>'", s)
	}
	return MakeMoneyFromString(parts[0], parts[1])
}

// MustParseMoney panics if the string cannot be parsed
func MustParseMoney(s string) *Money {
	m, e := ParseMoney(s)
	if e != nil {
		panic(e)
	}
	return m
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() string {
	return m.currency
}

// String is the stringer function, it is the canonical serialized form
func (m Money) String() string {
	if !m.amount.Round(MoneyDisplayPrecision).Equal(m.amount) {
		return m.amount.String() + " " + m.currency
	}
	return m.amount.StringFixed(MoneyDisplayPrecision) + " " + m.currency
}

func (m Money) checkCurrency(op string, other Money) error {
	if m.currency != other.currency {
		return &CurrencyMismatchError{
			Op:    op,
			Left:  m.String(),
			Right: other.String(),
		}
	}
	return nil
}

// Add returns m + other
func (m Money) Add(other Money) (*Money, error) {
	if e := m.checkCurrency("add", other); e != nil {
		return nil, e
	}
	return MakeMoney(m.amount.Add(other.amount), m.currency), nil
}

// Sub returns m - other
func (m Money) Sub(other Money) (*Money, error) {
	if e := m.checkCurrency("subtract", other); e != nil {
		return nil, e
	}
	return MakeMoney(m.amount.Sub(other.amount), m.currency), nil
}

// MustAdd panics on a currency mismatch
func (m Money) MustAdd(other Money) *Money {
	sum, e := m.Add(other)
	if e != nil {
		panic(e)
	}
	return sum
}

// MustSub panics on a currency mismatch
func (m Money) MustSub(other Money) *Money {
	diff, e := m.Sub(other)
	if e != nil {
		panic(e)
	}
	return diff
}

// Div divides two amounts of the same currency, yielding a plain ratio
func (m Money) Div(other Money) (decimal.Decimal, error) {
	if e := m.checkCurrency("divide", other); e != nil {
		return decimal.Zero, e
	}
	if other.amount.IsZero() {
		return decimal.Zero, fmt.Errorf("cannot divide %s by zero", m)
	}
	return m.amount.Div(other.amount), nil
}

// DivScalar divides by a plain number, the currency stays the same
func (m Money) DivScalar(d decimal.Decimal) *Money {
	return MakeMoney(m.amount.Div(d), m.currency)
}

// MulScalar multiplies by a plain number, the currency stays the same
func (m Money) MulScalar(d decimal.Decimal) *Money {
	return MakeMoney(m.amount.Mul(d), m.currency)
}

// Cmp compares two amounts of the same currency
func (m Money) Cmp(other Money) (int, error) {
	if e := m.checkCurrency("compare", other); e != nil {
		return 0, e
	}
	return m.amount.Cmp(other.amount), nil
}

// LessThan returns m < other
func (m Money) LessThan(other Money) (bool, error) {
	c, e := m.Cmp(other)
	return c < 0, e
}

// LessThanOrEqual returns m <= other
func (m Money) LessThanOrEqual(other Money) (bool, error) {
	c, e := m.Cmp(other)
	return c <= 0, e
}

// Min returns the smaller of two amounts of the same currency
func (m Money) Min(other Money) (*Money, error) {
	less, e := m.LessThan(other)
	if e != nil {
		return nil, e
	}
	if less {
		return MakeMoney(m.amount, m.currency), nil
	}
	return MakeMoney(other.amount, other.currency), nil
}

// Neg returns -m
func (m Money) Neg() *Money {
	return MakeMoney(m.amount.Neg(), m.currency)
}

// Round rounds the amount to the given number of decimal places
func (m Money) Round(places int32) *Money {
	return MakeMoney(m.amount.Round(places), m.currency)
}

// Truncate drops decimal places beyond places without rounding, so an amount never grows past what is available
func (m Money) Truncate(places int32) *Money {
	return MakeMoney(m.amount.Truncate(places), m.currency)
}

// IsZero returns true for a zero amount
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true for amounts strictly greater than zero
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Equals compares by value, so "1.0 BTC" equals "1.00 BTC"
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// MarshalText impl.
func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText impl.
func (m *Money) UnmarshalText(text []byte) error {
	parsed, e := ParseMoney(string(text))
	if e != nil {
		return e
	}
	*m = *parsed
	return nil
}

// MarshalJSON impl.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON impl.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if e := json.Unmarshal(data, &s); e != nil {
		return errors.Wrap(e, "money must be serialized as a string")
	}
	return m.UnmarshalText([]byte(s))
}
