package plugins

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
)

const testBinanceExchangeInfo = `{"timezone": "UTC", "serverTime": 1688666559000, "symbols": [
	{"symbol": "BTCUSDT", "status": "TRADING", "baseAsset": "BTC", "quoteAsset": "USDT",
	 "filters": [{"filterType": "PRICE_FILTER", "minPrice": "0.01"}, {"filterType": "LOT_SIZE", "minQty": "0.00001000", "maxQty": "9000", "stepSize": "0.00001"}]},
	{"symbol": "BCCBTC", "status": "TRADING", "baseAsset": "BCC", "quoteAsset": "BTC", "filters": []},
	{"symbol": "LUNABTC", "status": "BREAK", "baseAsset": "LUNA", "quoteAsset": "BTC", "filters": []}
]}`

const testBinanceOrderJSON = `{"symbol": "BTCUSDT", "orderId": %d, "clientOrderId": "c%d", "price": "%s", "origQty": "2.00000000",
	"executedQty": "%s", "cummulativeQuoteQty": "%s", "status": "%s", "timeInForce": "GTC", "type": "%s", "side": "%s",
	"stopPrice": "0.0", "icebergQty": "0.0", "time": %d, "updateTime": %d, "isWorking": true}`

// makeTestBinance serves canned responses keyed by path and records the query of every request
func makeTestBinance(t *testing.T, responses map[string]string) (*binanceBase, *[]*http.Request) {
	requests := []*http.Request{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the body is gone once the handler returns, so parse the form now
		_ = r.ParseForm()
		requests = append(requests, r)
		key := r.Method + " " + r.URL.Path
		body, ok := responses[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code": -1100, "msg": "unexpected request"}`))
			return
		}
		if status, ok := responses[key+" status"]; ok {
			var code int
			_, _ = fmt.Sscanf(status, "%d", &code)
			w.WriteHeader(code)
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return makeBinanceBase(&api.ExchangeAPIKey{Key: "key", Secret: "secret"}, server.URL), &requests
}

func TestBinanceMarkets(t *testing.T) {
	base, _ := makeTestBinance(t, map[string]string{
		"GET /api/v3/exchangeInfo": testBinanceExchangeInfo,
	})
	public := makeBinancePublic(base)

	markets, e := public.Markets()
	require.NoError(t, e)
	require.Equal(t, 2, len(markets))
	assert.Equal(t, "BCH/BTC", markets[0].String())
	assert.Equal(t, "BTC/USDT", markets[1].String())

	currencies, e := public.Currencies()
	require.NoError(t, e)
	assert.Equal(t, []string{"BCH", "BTC", "USDT"}, currencies)

	id, e := public.MarketID(*model.MakeMarket("BCH", "BTC"))
	require.NoError(t, e)
	assert.Equal(t, "BCCBTC", id)
}

func TestBinanceTicker(t *testing.T) {
	base, requests := makeTestBinance(t, map[string]string{
		"GET /api/v3/ticker/24hr": `[{"symbol": "BTCUSDT", "priceChange": "1.0", "priceChangePercent": "1.0",
			"weightedAvgPrice": "100.8", "prevClosePrice": "100.0", "lastPrice": "101.5", "lastQty": "0.1",
			"bidPrice": "100.00000000", "askPrice": "102.00000000", "openPrice": "100.5", "highPrice": "104.0", "lowPrice": "98.0",
			"volume": "10", "quoteVolume": "1000", "openTime": 1688580159000, "closeTime": 1688666559000,
			"firstId": 1, "lastId": 10, "count": 10}]`,
	})

	ticker, e := makeBinancePublic(base).Ticker(*model.MakeMarket("BTC", "USDT"))
	require.NoError(t, e)
	assert.True(t, model.MustMakeMoney("101", "USDT").Equals(*ticker.Mid), ticker.Mid.String())
	assert.True(t, model.MustMakeMoney("100.8", "USDT").Equals(*ticker.VWAP))
	assert.True(t, model.MustMakeMoney("101.5", "USDT").Equals(*ticker.Close))
	assert.Equal(t, int64(1688666559000), ticker.Timestamp.AsInt64())
	assert.Equal(t, "BTCUSDT", (*requests)[0].URL.Query().Get("symbol"))
}

func TestBinanceOrderBook(t *testing.T) {
	base, requests := makeTestBinance(t, map[string]string{
		"GET /api/v3/depth": `{"lastUpdateId": 1027024, "bids": [["100.00000000", "0.5"]], "asks": [["102.00000000", "1.5"], ["103.0", "2"]]}`,
	})

	ob, e := makeBinancePublic(base).OrderBook(*model.MakeMarket("BTC", "USDT"))
	require.NoError(t, e)
	require.Equal(t, 2, len(ob.Asks()))
	require.Equal(t, 1, len(ob.Bids()))
	assert.True(t, model.MustMakeMoney("1.5", "BTC").Equals(ob.Asks()[0].Amount))
	assert.True(t, model.MustMakeMoney("100", "USDT").Equals(ob.Bids()[0].Price))
	assert.Equal(t, "100", (*requests)[0].URL.Query().Get("limit"))
}

func TestBinanceTradesSince(t *testing.T) {
	base, requests := makeTestBinance(t, map[string]string{
		"GET /api/v3/aggTrades": `[
			{"a": 26130, "p": "100.2", "q": "0.25", "f": 2, "l": 2, "T": 1688666560500, "m": false, "M": true},
			{"a": 26129, "p": "100.1", "q": "0.5", "f": 1, "l": 1, "T": 1688666559897, "m": true, "M": true}
		]`,
	})

	trades, e := makeBinancePublic(base).TradesSince(*model.MakeMarket("BTC", "USDT"), *model.MakeTimestamp(1688666559000))
	require.NoError(t, e)
	require.Equal(t, 2, len(trades))
	assert.Equal(t, "26129", trades[0].ID)
	assert.Equal(t, model.SideSell, trades[0].Side)
	assert.Equal(t, "26130", trades[1].ID)
	assert.Equal(t, model.SideBuy, trades[1].Side)

	q := (*requests)[0].URL.Query()
	assert.Equal(t, "1688666559000", q.Get("startTime"))
	assert.Equal(t, "1000", q.Get("limit"))
}

func TestBinanceBalance(t *testing.T) {
	base, _ := makeTestBinance(t, map[string]string{
		"GET /api/v3/account": `{"makerCommission": 15, "takerCommission": 15, "canTrade": true, "balances": [
			{"asset": "BTC", "free": "7.00000000", "locked": "3.00000000"},
			{"asset": "BCC", "free": "1.00000000", "locked": "0.00000000"}
		]}`,
	})
	w := makeBinanceWallet(base)

	testCases := []struct {
		currency  string
		wantTotal string
		wantFree  string
		wantUsed  string
	}{
		{"BTC", "10", "7", "3"},
		{"BCH", "1", "1", "0"},
		{"ETH", "0", "0", "0"},
	}

	for _, kase := range testCases {
		t.Run(kase.currency, func(t *testing.T) {
			b, e := w.Balance(kase.currency)
			require.NoError(t, e)
			assert.True(t, model.MustMakeMoney(kase.wantTotal, kase.currency).Equals(b.Total), b.String())
			assert.True(t, model.MustMakeMoney(kase.wantFree, kase.currency).Equals(b.Free), b.String())
			assert.True(t, model.MustMakeMoney(kase.wantUsed, kase.currency).Equals(b.Used), b.String())
		})
	}
}

func TestBinanceDeposits(t *testing.T) {
	base, requests := makeTestBinance(t, map[string]string{
		"GET /sapi/v1/capital/deposit/hisrec": `[
			{"amount": "0.50000000", "coin": "BTC", "network": "BTC", "status": 0, "address": "bc1qa", "addressTag": "",
			 "txId": "tx-2", "insertTime": 1688666560000, "transferType": 0, "confirmTimes": "0/2"},
			{"amount": "1.00000000", "coin": "BTC", "network": "BTC", "status": 1, "address": "bc1qa", "addressTag": "",
			 "txId": "tx-1", "insertTime": 1688666559000, "transferType": 0, "confirmTimes": "2/2"},
			{"amount": "0.25000000", "coin": "BTC", "network": "BTC", "status": 6, "address": "bc1qa", "addressTag": "",
			 "txId": "tx-3", "insertTime": 1688666561000, "transferType": 0, "confirmTimes": "2/2"}
		]`,
	})
	w := makeBinanceWallet(base)

	recent, e := w.Deposits("BTC", 0)
	require.NoError(t, e)
	require.Equal(t, 3, len(recent))
	assert.Equal(t, "tx-3", recent[0].ID)
	assert.Equal(t, model.TxStatusOK, recent[0].Status)
	assert.Equal(t, "tx-2", recent[1].ID)
	assert.Equal(t, model.TxStatusPending, recent[1].Status)
	assert.Equal(t, model.TxTypeDeposit, recent[1].Type)
	assert.True(t, model.MustMakeMoney("0.5", "BTC").Equals(recent[1].Amount))
	assert.Equal(t, "bc1qa", recent[1].Address)
	assert.Equal(t, int64(1688666560000), recent[1].Timestamp.AsInt64())

	since, e := w.DepositsSince("BTC", *model.MakeTimestamp(1688666559000))
	require.NoError(t, e)
	require.Equal(t, 3, len(since))
	assert.Equal(t, "tx-1", since[0].ID)
	assert.Equal(t, "tx-3", since[2].ID)

	q := (*requests)[1].URL.Query()
	assert.Equal(t, "BTC", q.Get("coin"))
	assert.Equal(t, "1688666559000", q.Get("startTime"))
	assert.Equal(t, "0", q.Get("offset"))
	assert.Equal(t, "1000", q.Get("limit"))
}

func TestBinanceWithdrawals(t *testing.T) {
	base, _ := makeTestBinance(t, map[string]string{
		"GET /sapi/v1/capital/withdraw/history": `[
			{"address": "bc1qb", "amount": "0.99950000", "applyTime": "2023-07-06 18:02:40", "coin": "BTC", "id": "w-2",
			 "withdrawOrderId": "", "network": "BTC", "transferType": 0, "status": 4, "transactionFee": "0.0005", "txId": ""},
			{"address": "bc1qb", "amount": "0.50000000", "applyTime": "2023-07-06 18:00:00", "coin": "BTC", "id": "w-1",
			 "withdrawOrderId": "", "network": "BTC", "transferType": 0, "status": 6, "transactionFee": "0.0005", "txId": "tx-w1"}
		]`,
	})
	w := makeBinanceWallet(base)

	txs, e := w.Withdrawals("BTC", 1)
	require.NoError(t, e)
	require.Equal(t, 1, len(txs))
	assert.Equal(t, "w-2", txs[0].ID)
	assert.Equal(t, model.TxTypeWithdrawal, txs[0].Type)
	assert.Equal(t, model.TxStatusPending, txs[0].Status)
	assert.True(t, model.MustMakeMoney("0.0005", "BTC").Equals(*txs[0].Fee))
	assert.Equal(t, int64(1688666560000), txs[0].Timestamp.AsInt64())

	since, e := w.WithdrawalsSince("BTC", *model.MakeTimestamp(1688666400000))
	require.NoError(t, e)
	require.Equal(t, 2, len(since))
	assert.Equal(t, "w-1", since[0].ID)
	assert.Equal(t, model.TxStatusOK, since[0].Status)
	assert.Equal(t, "tx-w1", since[0].TxID)
}

func TestBinanceWithdraw(t *testing.T) {
	base, requests := makeTestBinance(t, map[string]string{
		"GET /sapi/v1/asset/assetDetail":       `{"BTC": {"minWithdrawAmount": 0.001, "depositStatus": true, "withdrawFee": 0.0005, "withdrawStatus": true}}`,
		"POST /sapi/v1/capital/withdraw/apply": `{"id": "7213fea8e94b4a5593d507237e5a555b"}`,
	})
	w := makeBinanceWallet(base)

	fee, e := w.WithdrawalFee("BTC")
	require.NoError(t, e)
	assert.True(t, model.MustMakeMoney("0.0005", "BTC").Equals(*fee.Amount), fee.String())

	testCases := []struct {
		subtractFee bool
		wantAmount  string
	}{
		{false, "1"},
		{true, "0.9995"},
	}

	for _, kase := range testCases {
		t.Run(fmt.Sprintf("subtractFee=%v", kase.subtractFee), func(t *testing.T) {
			*requests = nil
			tx, e := w.Withdraw(*model.MustMakeMoney("1", "BTC"), "bc1qb", kase.subtractFee)
			require.NoError(t, e)
			assert.Equal(t, "7213fea8e94b4a5593d507237e5a555b", tx.ID)
			assert.Equal(t, model.TxStatusPending, tx.Status)
			assert.True(t, model.MustMakeMoney(kase.wantAmount, "BTC").Equals(tx.Amount), tx.Amount.String())

			form := (*requests)[len(*requests)-1].Form
			assert.Equal(t, "BTC", form.Get("coin"))
			assert.Equal(t, "bc1qb", form.Get("address"))
			assert.Equal(t, kase.wantAmount, form.Get("amount"))
		})
	}

	_, e = w.WithdrawalFee("ETH")
	assert.True(t, api.IsNotSupported(e))
}

func TestBinanceOrders(t *testing.T) {
	base, _ := makeTestBinance(t, map[string]string{
		"GET /api/v3/order": fmt.Sprintf(testBinanceOrderJSON, 1, 1, "0.00000000", "2.00000000", "202.00000000", "FILLED", "MARKET", "BUY", 1688666559000, 1688666560000),
		"GET /api/v3/openOrders": "[" + fmt.Sprintf(testBinanceOrderJSON, 2, 2, "100.00000000", "0.50000000", "50.00000000", "PARTIALLY_FILLED", "LIMIT", "SELL", 1688666559000, 1688666560000) + "]",
		"GET /api/v3/allOrders": "[" +
			fmt.Sprintf(testBinanceOrderJSON, 3, 3, "99.00000000", "2.00000000", "198.00000000", "FILLED", "LIMIT", "BUY", 1688666000000, 1688666001000) + "," +
			fmt.Sprintf(testBinanceOrderJSON, 4, 4, "98.00000000", "0.00000000", "0.00000000", "NEW", "LIMIT", "BUY", 1688666100000, 1688666100000) + "," +
			fmt.Sprintf(testBinanceOrderJSON, 5, 5, "97.00000000", "0.00000000", "0.00000000", "CANCELED", "LIMIT", "BUY", 1688666200000, 1688666300000) + "]",
	})
	trading := makeBinanceTrading(base, *model.MakeMarket("BTC", "USDT"))

	o, e := trading.Order("1")
	require.NoError(t, e)
	assert.Equal(t, model.OrderStatusClosed, o.Status)
	assert.Equal(t, model.OrderTypeMarket, o.Type)
	// a market order has no price, the average fill price is used
	assert.True(t, model.MustMakeMoney("101", "USDT").Equals(*o.Price), o.Price.String())
	assert.True(t, o.Remaining.IsZero())
	assert.Equal(t, int64(1688666560000), o.ClosedAt.AsInt64())

	open, e := trading.OpenOrders(0)
	require.NoError(t, e)
	require.Equal(t, 1, len(open))
	assert.Equal(t, model.OrderStatusOpen, open[0].Status)
	assert.Equal(t, model.SideSell, open[0].Side)
	assert.True(t, model.MustMakeMoney("1.5", "BTC").Equals(*open[0].Remaining))
	assert.Nil(t, open[0].ClosedAt)

	closed, e := trading.ClosedOrders(0)
	require.NoError(t, e)
	require.Equal(t, 2, len(closed))
	assert.Equal(t, "5", closed[0].ID)
	assert.Equal(t, model.OrderStatusCanceled, closed[0].Status)
	assert.Equal(t, "3", closed[1].ID)

	limited, e := trading.ClosedOrders(1)
	require.NoError(t, e)
	assert.Equal(t, 1, len(limited))

	_, e = trading.Order("not-a-number")
	assert.Error(t, e)
}

func TestBinanceClosedOrdersSincePages(t *testing.T) {
	const total = 1500
	var requestedIDs []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		requestedIDs = append(requestedIDs, q.Get("orderId"))
		first := int64(1)
		if q.Get("orderId") != "" {
			_, _ = fmt.Sscanf(q.Get("orderId"), "%d", &first)
		}
		var limit int64
		_, _ = fmt.Sscanf(q.Get("limit"), "%d", &limit)

		elems := []string{}
		for id := first; id <= total && int64(len(elems)) < limit; id++ {
			ts := 1688666000000 + id*1000
			elems = append(elems, fmt.Sprintf(testBinanceOrderJSON, id, id, "99.00000000", "2.00000000", "198.00000000", "FILLED", "LIMIT", "BUY", ts, ts+500))
		}
		_, _ = w.Write([]byte("[" + strings.Join(elems, ",") + "]"))
	}))
	defer server.Close()

	trading := makeBinanceTrading(makeBinanceBase(&api.ExchangeAPIKey{Key: "key", Secret: "secret"}, server.URL), *model.MakeMarket("BTC", "USDT"))
	orders, e := trading.ClosedOrdersSince(*model.MakeTimestamp(1688666000000))
	require.NoError(t, e)
	assert.Equal(t, total, len(orders))
	assert.Equal(t, "1500", orders[0].ID)
	assert.Equal(t, "1", orders[total-1].ID)
	assert.Equal(t, []string{"", "1001"}, requestedIDs)
}

func TestBinancePlaceOrder(t *testing.T) {
	base, requests := makeTestBinance(t, map[string]string{
		"POST /api/v3/order": `{"symbol": "BTCUSDT", "orderId": 28, "clientOrderId": "6gCrw2kRUAF9CvJDGP16IP", "transactTime": 1688666559000,
			"price": "27500.00000000", "origQty": "1.45000000", "executedQty": "0.00000000", "cummulativeQuoteQty": "0.00000000",
			"status": "NEW", "timeInForce": "GTC", "type": "LIMIT", "side": "BUY"}`,
	})
	trading := makeBinanceTrading(base, *model.MakeMarket("BTC", "USDT"))

	o, e := trading.PlaceOrder(model.SideBuy, model.OrderTypeLimit, *model.MustMakeMoney("1.45", "BTC"), model.MustMakeMoney("27500", "USDT"))
	require.NoError(t, e)
	assert.Equal(t, "28", o.ID)
	assert.Equal(t, model.OrderStatusOpen, o.Status)
	assert.True(t, model.MustMakeMoney("1.45", "BTC").Equals(*o.Remaining))

	form := (*requests)[0].Form
	assert.Equal(t, "BTCUSDT", form.Get("symbol"))
	assert.Equal(t, "BUY", form.Get("side"))
	assert.Equal(t, "LIMIT", form.Get("type"))
	assert.Equal(t, "GTC", form.Get("timeInForce"))
	assert.Equal(t, "1.45", form.Get("quantity"))
	assert.Equal(t, "27500", form.Get("price"))

	_, e = trading.PlaceOrder(model.SideBuy, model.OrderTypeTakeProfit, *model.MustMakeMoney("1", "BTC"), nil)
	assert.True(t, api.IsNotSupported(e))
	assert.True(t, api.IsNotSupported(trading.CancelOrders([]string{"1", "2"})))
}

func TestBinanceMinOrderAmount(t *testing.T) {
	base, _ := makeTestBinance(t, map[string]string{
		"GET /api/v3/exchangeInfo": testBinanceExchangeInfo,
	})

	min := makeBinanceTrading(base, *model.MakeMarket("BTC", "USDT")).MinOrderAmount()
	require.NotNil(t, min)
	assert.True(t, model.MustMakeMoney("0.00001", "BTC").Equals(*min))
	assert.Nil(t, makeBinanceTrading(base, *model.MakeMarket("BCH", "BTC")).MinOrderAmount())
}

func TestBinanceErrors(t *testing.T) {
	testCases := []struct {
		name      string
		status    string
		body      string
		transient bool
		creds     bool
	}{
		{"rate limit", "429", `{"code": -1003, "msg": "Too many requests"}`, true, false},
		{"bad key", "401", `{"code": -2015, "msg": "Invalid API-key, IP, or permissions for action."}`, false, true},
		{"insufficient balance", "400", `{"code": -2010, "msg": "Account has insufficient balance for requested action."}`, false, false},
	}

	for _, kase := range testCases {
		t.Run(kase.name, func(t *testing.T) {
			base, _ := makeTestBinance(t, map[string]string{
				"GET /api/v3/account":        kase.body,
				"GET /api/v3/account status": kase.status,
			})

			_, e := makeBinanceWallet(base).Balance("BTC")
			require.Error(t, e)
			assert.Equal(t, kase.transient, api.IsTransient(e))
			assert.Equal(t, kase.creds, api.IsCredentialsMissing(e))
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		_, e := makeBinanceWallet(makeBinanceBase(nil, "http://127.0.0.1:1")).Balance("BTC")
		assert.True(t, api.IsTransient(e), fmt.Sprintf("%v", e))
	})
}
