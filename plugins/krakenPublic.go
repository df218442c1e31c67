package plugins

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
	"github.com/lightyeario/tradingbots/support/networking"
	"github.com/lightyeario/tradingbots/support/utils"
)

// ensure that krakenPublic conforms to the PublicAPI interface
var _ api.PublicAPI = &krakenPublic{}

// krakenPublic is the market data of the Kraken exchange
type krakenPublic struct {
	*krakenBase
}

// makeKrakenPublic is a factory method
func makeKrakenPublic(base *krakenBase) *krakenPublic {
	return &krakenPublic{krakenBase: base}
}

// Markets impl.
func (k *krakenPublic) Markets() ([]model.Market, error) {
	pairs, e := k.assetPairs()
	if e != nil {
		return nil, e
	}

	markets := []model.Market{}
	for _, p := range pairs {
		markets = append(markets, p.market)
	}
	return markets, nil
}

// Currencies impl.
func (k *krakenPublic) Currencies() ([]string, error) {
	m, e := k.queryMap("Assets", nil)
	if e != nil {
		return nil, e
	}

	currencies := []string{}
	for _, asset := range utils.SortedKeys(m) {
		info, ok := m[asset].(map[string]interface{})
		if !ok {
			return nil, api.MakeErrParsef("Assets", "could not parse asset %s of type %s", asset, reflect.TypeOf(m[asset]))
		}
		altname, e := networking.ParseString(info, "altname", "Assets")
		if e != nil {
			return nil, e
		}
		currencies = append(currencies, k.CommonCurrency(altname))
	}
	currencies = utils.Dedupe(currencies)
	sort.Strings(currencies)
	return currencies, nil
}

// singlePairResult returns the entry for the requested pair, kraken keys results by its own pair name
// which can differ from the altname we asked for
func singlePairResult(m map[string]interface{}, pairID string, method string) (interface{}, error) {
	if v, ok := m[pairID]; ok {
		return v, nil
	}

	keys := []string{}
	for k := range m {
		if k != "last" {
			keys = append(keys, k)
		}
	}
	if len(keys) != 1 {
		return nil, api.MakeErrParsef(method, "expected a single pair in the response for %s but found %d", pairID, len(keys))
	}
	return m[keys[0]], nil
}

// Ticker impl.
func (k *krakenPublic) Ticker(market model.Market) (*model.Ticker, error) {
	pairID, e := k.MarketID(market)
	if e != nil {
		return nil, e
	}
	m, e := k.queryMap("Ticker", map[string]string{"pair": pairID})
	if e != nil {
		return nil, e
	}
	v, e := singlePairResult(m, pairID, "Ticker")
	if e != nil {
		return nil, e
	}
	data, ok := v.(map[string]interface{})
	if !ok {
		return nil, api.MakeErrParsef("Ticker", "could not parse ticker of type %s", reflect.TypeOf(v))
	}

	p := model.TickerParams{Timestamp: model.Now()}
	fields := []struct {
		key    string
		index  int
		target **model.Money
	}{
		{"b", 0, &p.Bid},
		{"a", 0, &p.Ask},
		{"c", 0, &p.Last},
		{"o", 0, &p.Open},
		{"h", 1, &p.High},
		{"l", 1, &p.Low},
		{"p", 1, &p.VWAP},
	}
	for _, f := range fields {
		value, e := krakenTickerField(data, f.key, f.index, market.Quote)
		if e != nil {
			return nil, e
		}
		*f.target = value
	}
	p.Close = p.Last

	return model.MakeTicker(market, p)
}

// krakenTickerField reads a field that is either a plain value or a list indexed by [today, last 24 hours],
// an absent field stays nil
func krakenTickerField(data map[string]interface{}, key string, index int, currency string) (*model.Money, error) {
	if !networking.HasField(data, key) {
		return nil, nil
	}

	var d decimal.Decimal
	var e error
	switch v := data[key].(type) {
	case []interface{}:
		d, e = networking.ListElementAsDecimal(v, index, "Ticker")
	default:
		d, e = networking.ValueAsDecimal(v)
		if e != nil {
			e = api.MakeErrParsef("Ticker", "field '%s': %s", key, e)
		}
	}
	if e != nil {
		return nil, e
	}
	return model.MakeMoney(d, currency), nil
}

// OrderBook impl.
func (k *krakenPublic) OrderBook(market model.Market) (*model.OrderBook, error) {
	pairID, e := k.MarketID(market)
	if e != nil {
		return nil, e
	}
	m, e := k.queryMap("Depth", map[string]string{"pair": pairID})
	if e != nil {
		return nil, e
	}
	v, e := singlePairResult(m, pairID, "Depth")
	if e != nil {
		return nil, e
	}
	data, ok := v.(map[string]interface{})
	if !ok {
		return nil, api.MakeErrParsef("Depth", "could not parse depth of type %s", reflect.TypeOf(v))
	}

	asks, e := k.readLevels(data, "asks", market)
	if e != nil {
		return nil, e
	}
	bids, e := k.readLevels(data, "bids", market)
	if e != nil {
		return nil, e
	}
	return model.MakeOrderBook(market, asks, bids), nil
}

func (k *krakenPublic) readLevels(data map[string]interface{}, key string, market model.Market) ([]model.PriceLevel, error) {
	rows, e := networking.ParseSlice(data, key, "Depth")
	if e != nil {
		return nil, e
	}

	levels := []model.PriceLevel{}
	for i, r := range rows {
		row, ok := r.([]interface{})
		if !ok {
			return nil, api.MakeErrParsef("Depth", "could not parse %s row %d of type %s", key, i, reflect.TypeOf(r))
		}
		price, e := networking.ListElementAsDecimal(row, 0, "Depth")
		if e != nil {
			return nil, e
		}
		amount, e := networking.ListElementAsDecimal(row, 1, "Depth")
		if e != nil {
			return nil, e
		}
		levels = append(levels, model.PriceLevel{
			Price:  *model.MakeMoney(price, market.Quote),
			Amount: *model.MakeMoney(amount, market.Base),
		})
	}
	return levels, nil
}

// TradesSince impl.
func (k *krakenPublic) TradesSince(market model.Market, since model.Timestamp) ([]model.Trade, error) {
	pairID, e := k.MarketID(market)
	if e != nil {
		return nil, e
	}
	m, e := k.queryMap("Trades", map[string]string{
		"pair":  pairID,
		"since": fmt.Sprintf("%d", since.AsNanos()),
	})
	if e != nil {
		return nil, e
	}
	v, e := singlePairResult(m, pairID, "Trades")
	if e != nil {
		return nil, e
	}
	rows, ok := v.([]interface{})
	if !ok {
		return nil, api.MakeErrParsef("Trades", "could not parse trades of type %s", reflect.TypeOf(v))
	}

	trades := []model.Trade{}
	// rows without a trade_id are told apart by how often the same time, price and volume occurred before
	occurrences := map[string]int{}
	for i, r := range rows {
		row, ok := r.([]interface{})
		if !ok {
			return nil, api.MakeErrParsef("Trades", "could not parse row %d of type %s", i, reflect.TypeOf(r))
		}
		t, e := parseKrakenTrade(row, market)
		if e != nil {
			return nil, e
		}
		if t.ID == "" {
			key := fmt.Sprintf("%d-%s-%s", t.Timestamp.AsInt64(), t.Price.Amount(), t.Amount.Amount())
			t.ID = fmt.Sprintf("%s-%d", key, occurrences[key])
			occurrences[key]++
		}
		if t.Timestamp.AsInt64() < since.AsInt64() {
			continue
		}
		trades = append(trades, *t)
	}

	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Timestamp.AsInt64() < trades[j].Timestamp.AsInt64()
	})
	if len(trades) > api.TradesPageSize {
		trades = trades[:api.TradesPageSize]
	}
	return trades, nil
}

// parseKrakenTrade reads [price, volume, time, b|s, m|l, misc, trade_id], the id is missing on older responses
func parseKrakenTrade(row []interface{}, market model.Market) (*model.Trade, error) {
	if len(row) < 4 {
		return nil, api.MakeErrParsef("Trades", "expected at least 4 elements in a trade but found %d", len(row))
	}
	price, e := networking.ListElementAsDecimal(row, 0, "Trades")
	if e != nil {
		return nil, e
	}
	amount, e := networking.ListElementAsDecimal(row, 1, "Trades")
	if e != nil {
		return nil, e
	}
	seconds, e := networking.ListElementAsDecimal(row, 2, "Trades")
	if e != nil {
		return nil, e
	}
	sideStr, ok := row[3].(string)
	if !ok {
		return nil, api.MakeErrParsef("Trades", "could not parse side of type %s", reflect.TypeOf(row[3]))
	}
	side, e := model.SideFromString(sideStr)
	if e != nil {
		return nil, api.MakeErrParse("Trades", e.Error())
	}

	secondsFloat, _ := seconds.Float64()
	ts := model.MakeTimestampFromSeconds(secondsFloat)
	id := ""
	if len(row) > 6 && row[6] != nil {
		tradeID, e := networking.ValueAsDecimal(row[6])
		if e != nil {
			return nil, api.MakeErrParsef("Trades", "could not parse trade id: %s", e)
		}
		id = tradeID.String()
	}

	return &model.Trade{
		ID:        id,
		Market:    market,
		Side:      side,
		Price:     *model.MakeMoney(price, market.Quote),
		Amount:    *model.MakeMoney(amount, market.Base),
		Timestamp: *ts,
	}, nil
}
