package plugins

import (
	"fmt"
	"reflect"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
	"github.com/lightyeario/tradingbots/support/networking"
)

// ensure that krakenTrading conforms to the TradingAPI and OrderConstraints interfaces
var _ api.TradingAPI = &krakenTrading{}
var _ api.OrderConstraints = &krakenTrading{}

// krakenMinOrderAmounts is denominated in the base currency
var krakenMinOrderAmounts = map[string]string{
	"BCH":  "0.000002",
	"BTC":  "0.002",
	"DAI":  "10",
	"ETH":  "0.02",
	"LTC":  "0.1",
	"USDC": "5",
	"USDT": "5",
}

// krakenTrading is the order management of the Kraken exchange for one market
type krakenTrading struct {
	*krakenBase
	market model.Market
}

// makeKrakenTrading is a factory method
func makeKrakenTrading(base *krakenBase, market model.Market) *krakenTrading {
	return &krakenTrading{
		krakenBase: base,
		market:     market,
	}
}

// Market impl.
func (k *krakenTrading) Market() model.Market {
	return k.market
}

// MinOrderAmount impl.
func (k *krakenTrading) MinOrderAmount() *model.Money {
	if amount, ok := krakenMinOrderAmounts[k.market.Base]; ok {
		return model.MustMakeMoney(amount, k.market.Base)
	}
	return nil
}

// Order impl.
func (k *krakenTrading) Order(id string) (*model.Order, error) {
	pairs, e := k.assetPairs()
	if e != nil {
		return nil, e
	}
	m, e := k.queryMap("QueryOrders", map[string]string{"txid": id})
	if e != nil {
		return nil, e
	}
	raw, ok := m[id]
	if !ok {
		return nil, api.MakeErrParsef("QueryOrders", "order %s is missing from the response", id)
	}
	return parseKrakenOrder(id, raw, pairs, "QueryOrders")
}

// OpenOrders impl.
func (k *krakenTrading) OpenOrders(limit int) ([]model.Order, error) {
	pairs, e := k.assetPairs()
	if e != nil {
		return nil, e
	}
	orders, e := k.fetchOpenOrders(pairs)
	if e != nil {
		return nil, e
	}

	orders = k.filterMarket(orders)
	sortOrdersNewestFirst(orders)
	return truncateOrders(orders, limit), nil
}

// ClosedOrders impl.
func (k *krakenTrading) ClosedOrders(limit int) ([]model.Order, error) {
	return k.closedOrders(map[string]string{}, limit)
}

// ClosedOrdersSince impl.
func (k *krakenTrading) ClosedOrdersSince(since model.Timestamp) ([]model.Order, error) {
	// start only has second precision
	orders, e := k.closedOrders(map[string]string{"start": fmt.Sprintf("%d", since.AsSeconds())}, 0)
	if e != nil {
		return nil, e
	}

	filtered := []model.Order{}
	for _, o := range orders {
		ts := o.ClosedAt
		if ts == nil {
			ts = o.CreatedAt
		}
		if ts == nil || ts.AsInt64() >= since.AsInt64() {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// closedOrders pages with ofs until kraken's count is reached, the filtered result is cut at limit
func (k *krakenTrading) closedOrders(params map[string]string, limit int) ([]model.Order, error) {
	pairs, e := k.assetPairs()
	if e != nil {
		return nil, e
	}

	orders := []model.Order{}
	offset := 0
	for {
		params["ofs"] = fmt.Sprintf("%d", offset)
		m, e := k.queryMap("ClosedOrders", params)
		if e != nil {
			return nil, e
		}
		closed, e := networking.ParseMap(m, "closed", "ClosedOrders")
		if e != nil {
			return nil, e
		}
		countDec, e := networking.ParseDecimal(m, "count", "ClosedOrders")
		if e != nil {
			return nil, e
		}
		page, e := parseKrakenOrderMap(closed, pairs, "ClosedOrders")
		if e != nil {
			return nil, e
		}

		orders = append(orders, k.filterMarket(page)...)
		offset += len(page)
		if len(page) == 0 || int64(offset) >= countDec.IntPart() || (limit > 0 && len(orders) >= limit) {
			break
		}
	}

	sortOrdersNewestFirst(orders)
	return truncateOrders(orders, limit), nil
}

func (k *krakenTrading) filterMarket(orders []model.Order) []model.Order {
	filtered := []model.Order{}
	for _, o := range orders {
		if o.Market.Equals(k.market) {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// CancelOrder impl.
func (k *krakenTrading) CancelOrder(id string) error {
	m, e := k.queryMap("CancelOrder", map[string]string{"txid": id})
	if e != nil {
		return e
	}
	count, e := networking.ParseDecimal(m, "count", "CancelOrder")
	if e != nil {
		return e
	}
	if !count.IsPositive() {
		return fmt.Errorf("kraken did not cancel order %s", id)
	}
	return nil
}

// CancelOrders impl.
func (k *krakenTrading) CancelOrders(ids []string) error {
	return api.MakeErrNotSupported("cancel orders", "Kraken has no batch cancel")
}

// PlaceOrder impl.
func (k *krakenTrading) PlaceOrder(side model.Side, orderType model.OrderType, amount model.Money, price *model.Money) (*model.Order, error) {
	if !orderType.IsLimit() && !orderType.IsMarket() {
		return nil, api.MakeErrNotSupported("place order", fmt.Sprintf("Kraken adapter only places limit and market orders, not %s", orderType))
	}
	if orderType.IsLimit() && price == nil {
		return nil, fmt.Errorf("a limit order needs a price")
	}
	if amount.Currency() != k.market.Base {
		return nil, &model.CurrencyMismatchError{Op: "place order", Left: amount.String(), Right: k.market.Base}
	}

	pairID, e := k.MarketID(k.market)
	if e != nil {
		return nil, e
	}
	params := map[string]string{
		"pair":      pairID,
		"type":      side.String(),
		"ordertype": orderType.String(),
		"volume":    amount.Amount().String(),
	}
	if orderType.IsLimit() {
		if price.Currency() != k.market.Quote {
			return nil, &model.CurrencyMismatchError{Op: "place order", Left: price.String(), Right: k.market.Quote}
		}
		params["price"] = price.Amount().String()
	}
	logKraken("submitting order: pair=%s, side=%s, type=%s, volume=%s, price=%s", pairID, side, orderType, params["volume"], params["price"])

	m, e := k.queryMap("AddOrder", params)
	if e != nil {
		return nil, e
	}
	return k.parsePlacedOrder(m, pairID, side)
}

func (k *krakenTrading) parsePlacedOrder(m map[string]interface{}, pairID string, side model.Side) (*model.Order, error) {
	descr, e := networking.ParseMap(m, "descr", "AddOrder")
	if e != nil {
		return nil, e
	}
	descrOrder, e := networking.ParseString(descr, "order", "AddOrder")
	if e != nil {
		return nil, e
	}
	txids, e := networking.ParseSlice(m, "txid", "AddOrder")
	if e != nil {
		return nil, e
	}
	if len(txids) == 0 {
		return nil, api.MakeErrParse("AddOrder", "no txid in the response")
	}
	id, ok := txids[0].(string)
	if !ok {
		return nil, api.MakeErrParsef("AddOrder", "could not parse txid of type %s", reflect.TypeOf(txids[0]))
	}

	d, e := parseKrakenOrderDescription(descrOrder)
	if e != nil {
		return nil, e
	}
	if d.pair != pairID {
		return nil, api.MakeErrParsef(krakenDescriptionContext, "pair '%s' does not match the market %s", d.pair, pairID)
	}
	if d.side != side {
		return nil, api.MakeErrParsef(krakenDescriptionContext, "side '%s' does not match the requested %s", d.side, side)
	}

	var price *model.Money
	if d.price != nil {
		price = model.MakeMoney(*d.price, k.market.Quote)
	}
	return model.MakeOrder(model.OrderParams{
		ID:        id,
		Market:    k.market,
		Type:      d.orderType,
		Side:      d.side,
		Status:    model.OrderStatusOpen,
		Amount:    model.MakeMoney(d.amount, k.market.Base),
		Filled:    model.ZeroMoney(k.market.Base),
		Price:     price,
		Info:      m,
		CreatedAt: model.Now(),
	})
}
