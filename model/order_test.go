package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeOrderRemaining(t *testing.T) {
	testCases := []struct {
		name          string
		amount        *Money
		filled        *Money
		wantRemaining *Money
	}{
		{
			name:          "partially filled",
			amount:        MustMakeMoney("1.5", "BTC"),
			filled:        MustMakeMoney("0.4", "BTC"),
			wantRemaining: MustMakeMoney("1.1", "BTC"),
		}, {
			name:          "unfilled",
			amount:        MustMakeMoney("2", "BTC"),
			filled:        ZeroMoney("BTC"),
			wantRemaining: MustMakeMoney("2", "BTC"),
		}, {
			name:          "unknown filled",
			amount:        MustMakeMoney("2", "BTC"),
			filled:        nil,
			wantRemaining: nil,
		},
	}

	for _, kase := range testCases {
		t.Run(kase.name, func(t *testing.T) {
			o, e := MakeOrder(OrderParams{
				ID:     "abc",
				Market: *MakeMarket("BTC", "USD"),
				Amount: kase.amount,
				Filled: kase.filled,
			})
			require.NoError(t, e)
			if kase.wantRemaining == nil {
				assert.Nil(t, o.Remaining)
				return
			}
			assert.True(t, kase.wantRemaining.Equals(*o.Remaining))
			sum := o.Remaining.MustAdd(*o.Filled)
			assert.True(t, sum.Equals(*o.Amount))
		})
	}

	_, e := MakeOrder(OrderParams{Amount: MustMakeMoney("1", "BTC"), Filled: MustMakeMoney("1", "USD")})
	assert.Error(t, e)
}

func TestOrderStatus(t *testing.T) {
	assert.Equal(t, OrderStatusCanceled, OrderStatusFromString("cancelled"))
	assert.Equal(t, OrderStatusClosed, OrderStatusFromString("closed"))
	assert.Equal(t, OrderStatusUnknown, OrderStatusFromString("weird"))
	assert.True(t, OrderStatusClosed.IsTerminal())
	assert.False(t, OrderStatusOpen.IsTerminal())
}

func TestMakeTickerMid(t *testing.T) {
	market := *MakeMarket("BTC", "USD")
	ticker, e := MakeTicker(market, TickerParams{
		Bid: MustMakeMoney("100", "USD"),
		Ask: MustMakeMoney("102", "USD"),
	})
	require.NoError(t, e)
	assert.True(t, MustMakeMoney("101", "USD").Equals(*ticker.Mid))
	assert.Nil(t, ticker.Open)
	assert.Nil(t, ticker.VWAP)

	ticker, e = MakeTicker(market, TickerParams{Bid: MustMakeMoney("100", "USD")})
	require.NoError(t, e)
	assert.Nil(t, ticker.Mid)
}

func TestBalanceAndFee(t *testing.T) {
	b, e := MakeBalance(*MustMakeMoney("10", "BTC"), *MustMakeMoney("3", "BTC"), nil)
	require.NoError(t, e)
	assert.True(t, MustMakeMoney("7", "BTC").Equals(b.Free))
	assert.True(t, b.Total.Equals(*b.Free.MustAdd(b.Used)))

	b, e = MakeBalanceFromFree(*MustMakeMoney("1.5", "ETH"), *MustMakeMoney("0.5", "ETH"), nil)
	require.NoError(t, e)
	assert.True(t, MustMakeMoney("2", "ETH").Equals(b.Total))

	fixed := MakeFixedFee(*MustMakeMoney("0.0005", "BTC"))
	net, e := fixed.NetOf(*MustMakeMoney("1", "BTC"))
	require.NoError(t, e)
	assert.True(t, MustMakeMoney("0.9995", "BTC").Equals(*net))

	rate := MakeRateFee("USD", decimal.RequireFromString("0.01"))
	fee, e := rate.ApplyTo(*MustMakeMoney("250", "USD"))
	require.NoError(t, e)
	assert.True(t, MustMakeMoney("2.5", "USD").Equals(*fee))

	_, e = rate.ApplyTo(*MustMakeMoney("1", "BTC"))
	assert.Error(t, e)
}

func TestTimestampConversions(t *testing.T) {
	ts := MakeTimestampFromSeconds(1688666559.8974)
	assert.Equal(t, int64(1688666559897), ts.AsInt64())
	assert.Equal(t, int64(1688666559), ts.AsSeconds())
	assert.Equal(t, int64(1688666559897000000), ts.AsNanos())
	assert.Equal(t, *ts, *MakeTimestampFromTime(ts.AsTime()))
}
