package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketFromString(t *testing.T) {
	testCases := []struct {
		s       string
		want    *Market
		wantErr bool
	}{
		{s: "BTC/USD", want: MakeMarket("BTC", "USD")},
		{s: "eth/btc", want: MakeMarket("ETH", "BTC")},
		{s: "BTCUSD", wantErr: true},
		{s: "/USD", wantErr: true},
		{s: "A/B/C", wantErr: true},
	}

	for _, kase := range testCases {
		t.Run(kase.s, func(t *testing.T) {
			m, e := MarketFromString(kase.s)
			if kase.wantErr {
				assert.Error(t, e)
				return
			}
			require.NoError(t, e)
			assert.True(t, kase.want.Equals(*m))
		})
	}
}

func TestMarketStrings(t *testing.T) {
	m := MakeMarket("btc", "usd")
	assert.Equal(t, "BTC/USD", m.String())
	assert.Equal(t, "BTCUSD", m.Code())
	assert.Equal(t, "USD/BTC", m.Reverse().String())
	assert.True(t, m.Contains("USD"))
	assert.False(t, m.Contains("ETH"))
	assert.Equal(t, *m, *MakeMarket("BTC", "USD"))
}
