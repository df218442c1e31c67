package networking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightyeario/tradingbots/api"
)

func TestParseDecimal(t *testing.T) {
	m := map[string]interface{}{
		"s":   "1.50000000",
		"f":   2.25,
		"bad": "abc",
		"b":   true,
	}

	testCases := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "s", want: "1.5"},
		{key: "f", want: "2.25"},
		{key: "bad", wantErr: true},
		{key: "b", wantErr: true},
		{key: "missing", wantErr: true},
	}

	for _, kase := range testCases {
		t.Run(kase.key, func(t *testing.T) {
			d, e := ParseDecimal(m, kase.key, "Test")
			if kase.wantErr {
				assert.True(t, api.IsParseError(e), "expected a parse error, got %v", e)
				return
			}
			require.NoError(t, e)
			assert.Equal(t, kase.want, d.String())
		})
	}
}

func TestParseOptionalMoney(t *testing.T) {
	m := map[string]interface{}{"o": "100.2", "n": nil}

	v, e := ParseOptionalMoney(m, "o", "USD", "Ticker")
	require.NoError(t, e)
	assert.Equal(t, "100.20000000 USD", v.String())

	v, e = ParseOptionalMoney(m, "n", "USD", "Ticker")
	require.NoError(t, e)
	assert.Nil(t, v)

	v, e = ParseOptionalMoney(m, "missing", "USD", "Ticker")
	require.NoError(t, e)
	assert.Nil(t, v)
}

func TestParseNested(t *testing.T) {
	m := map[string]interface{}{
		"descr": map[string]interface{}{"order": "buy 1 XBTUSD @ market"},
		"txid":  []interface{}{"ABC"},
	}

	descr, e := ParseMap(m, "descr", "AddOrder")
	require.NoError(t, e)
	s, e := ParseString(descr, "order", "AddOrder")
	require.NoError(t, e)
	assert.Equal(t, "buy 1 XBTUSD @ market", s)

	txids, e := ParseSlice(m, "txid", "AddOrder")
	require.NoError(t, e)
	assert.Len(t, txids, 1)

	_, e = ParseSlice(m, "descr", "AddOrder")
	assert.True(t, api.IsParseError(e))

	_, e = ListElementAsDecimal([]interface{}{"1"}, 3, "Depth")
	assert.True(t, api.IsParseError(e))
}
