package model

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyString(t *testing.T) {
	testCases := []struct {
		amount string
		want   string
	}{
		{amount: "1.234", want: "1.23400000 BTC"},
		{amount: "0", want: "0.00000000 BTC"},
		{amount: "-2.5", want: "-2.50000000 BTC"},
		{amount: "100", want: "100.00000000 BTC"},
		{amount: "0.123456789012", want: "0.123456789012 BTC"},
	}

	for _, kase := range testCases {
		t.Run(kase.amount, func(t *testing.T) {
			m := MustMakeMoney(kase.amount, "btc")
			assert.Equal(t, kase.want, m.String())
		})
	}
}

func TestMoneySerializeRoundTrip(t *testing.T) {
	testCases := []*Money{
		MustMakeMoney("1.234", "BTC"),
		MustMakeMoney("0", "USD"),
		MustMakeMoney("-0.00000001", "ETH"),
		MustMakeMoney("123456789.87654321", "XLM"),
		MustMakeMoney("0.123456789012", "DAI"),
	}

	for _, m := range testCases {
		t.Run(m.String(), func(t *testing.T) {
			parsed, e := ParseMoney(m.String())
			require.NoError(t, e)
			assert.True(t, m.Equals(*parsed), "%s != %s", m, parsed)

			bytes, e := json.Marshal(m)
			require.NoError(t, e)
			var decoded Money
			require.NoError(t, json.Unmarshal(bytes, &decoded))
			assert.True(t, m.Equals(decoded), "%s != %s", m, decoded)
		})
	}
}

func TestParseMoneyInvalid(t *testing.T) {
	for _, s := range []string{"", "1.0", "BTC", "abc BTC", "1 2 BTC"} {
		t.Run(s, func(t *testing.T) {
			_, e := ParseMoney(s)
			assert.Error(t, e)
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	testCases := []struct {
		a string
		b string
	}{
		{a: "1.5 BTC", b: "0.25 BTC"},
		{a: "0 USD", b: "100 USD"},
		{a: "-3.3 ETH", b: "1.1 ETH"},
		{a: "0.00000001 BTC", b: "99999.99999999 BTC"},
	}

	for _, kase := range testCases {
		t.Run(kase.a+"+"+kase.b, func(t *testing.T) {
			a := MustParseMoney(kase.a)
			b := MustParseMoney(kase.b)

			sum, e := a.Add(*b)
			require.NoError(t, e)
			assert.Equal(t, a.Currency(), sum.Currency())

			back, e := sum.Sub(*b)
			require.NoError(t, e)
			assert.True(t, a.Equals(*back), "(a+b)-b = %s, want %s", back, a)
		})
	}
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	btc := MustParseMoney("1 BTC")
	usd := MustParseMoney("1 USD")

	_, e := btc.Add(*usd)
	assert.True(t, errors.Is(e, ErrCurrencyMismatch))

	_, e = btc.Sub(*usd)
	assert.True(t, errors.Is(e, ErrCurrencyMismatch))

	_, e = btc.LessThan(*usd)
	assert.True(t, errors.Is(e, ErrCurrencyMismatch))

	_, e = btc.LessThanOrEqual(*usd)
	assert.True(t, errors.Is(e, ErrCurrencyMismatch))

	_, e = btc.Div(*usd)
	assert.True(t, errors.Is(e, ErrCurrencyMismatch))

	var mismatch *CurrencyMismatchError
	assert.True(t, errors.As(e, &mismatch))
	assert.Equal(t, "divide", mismatch.Op)

	assert.Panics(t, func() { btc.MustAdd(*usd) })
}

func TestMoneyScalars(t *testing.T) {
	m := MustParseMoney("10 USD")

	half := m.DivScalar(decimal.NewFromInt(2))
	assert.Equal(t, "5.00000000 USD", half.String())

	double := m.MulScalar(decimal.NewFromInt(2))
	assert.Equal(t, "20.00000000 USD", double.String())

	ratio, e := m.Div(*MustParseMoney("4 USD"))
	require.NoError(t, e)
	assert.Equal(t, "2.5", ratio.String())

	_, e = m.Div(*ZeroMoney("USD"))
	assert.Error(t, e)

	less, e := half.LessThan(*m)
	require.NoError(t, e)
	assert.True(t, less)

	min, e := m.Min(*half)
	require.NoError(t, e)
	assert.True(t, min.Equals(*half))
}

func TestMoneyTruncate(t *testing.T) {
	testCases := []struct {
		amount string
		want   string
	}{
		{amount: "1.123456789", want: "1.12345678 BTC"},
		{amount: "0.999999999", want: "0.99999999 BTC"},
		{amount: "2", want: "2.00000000 BTC"},
	}

	for _, kase := range testCases {
		t.Run(kase.amount, func(t *testing.T) {
			m := MustMakeMoney(kase.amount, "BTC")
			assert.Equal(t, kase.want, m.Truncate(MoneyDisplayPrecision).String())
		})
	}
}
