package plugins

import (
	"context"
	"fmt"
	"strconv"

	"github.com/adshao/go-binance/v2"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
)

// ensure that binanceTrading conforms to the TradingAPI and OrderConstraints interfaces
var _ api.TradingAPI = &binanceTrading{}
var _ api.OrderConstraints = &binanceTrading{}

// binance returns at most this many orders from allOrders
const binanceOrdersLimit = 1000

var binanceOrderStatuses = map[string]model.OrderStatus{
	"NEW":              model.OrderStatusOpen,
	"PARTIALLY_FILLED": model.OrderStatusOpen,
	"PENDING_CANCEL":   model.OrderStatusOpen,
	"FILLED":           model.OrderStatusClosed,
	"CANCELED":         model.OrderStatusCanceled,
	"REJECTED":         model.OrderStatusCanceled,
	"EXPIRED":          model.OrderStatusExpired,
}

var binanceOrderTypes = map[string]model.OrderType{
	"LIMIT":             model.OrderTypeLimit,
	"LIMIT_MAKER":       model.OrderTypeLimit,
	"MARKET":            model.OrderTypeMarket,
	"STOP_LOSS":         model.OrderTypeStopLoss,
	"STOP_LOSS_LIMIT":   model.OrderTypeStopLoss,
	"TAKE_PROFIT":       model.OrderTypeTakeProfit,
	"TAKE_PROFIT_LIMIT": model.OrderTypeTakeProfit,
}

// binanceTrading is the order management of the Binance exchange for one market
type binanceTrading struct {
	*binanceBase
	market model.Market
}

// makeBinanceTrading is a factory method
func makeBinanceTrading(base *binanceBase, market model.Market) *binanceTrading {
	return &binanceTrading{
		binanceBase: base,
		market:      market,
	}
}

// Market impl.
func (b *binanceTrading) Market() model.Market {
	return b.market
}

// MinOrderAmount impl.
func (b *binanceTrading) MinOrderAmount() *model.Money {
	symbol, e := b.MarketID(b.market)
	if e != nil {
		return nil
	}
	symbols, e := b.symbols()
	if e != nil {
		logBinance("could not fetch the minimum order amount for %s: %s", symbol, e)
		return nil
	}
	s, ok := symbols[symbol]
	if !ok || s.minAmount == nil {
		return nil
	}
	return model.MakeMoney(*s.minAmount, b.market.Base)
}

func parseBinanceOrderID(id string) (int64, error) {
	orderID, e := strconv.ParseInt(id, 10, 64)
	if e != nil {
		return 0, fmt.Errorf("invalid binance order id '%s'", id)
	}
	return orderID, nil
}

// Order impl.
func (b *binanceTrading) Order(id string) (*model.Order, error) {
	orderID, e := parseBinanceOrderID(id)
	if e != nil {
		return nil, e
	}
	symbol, e := b.MarketID(b.market)
	if e != nil {
		return nil, e
	}

	o, e := b.client.NewGetOrderService().Symbol(symbol).OrderID(orderID).Do(context.Background())
	if e != nil {
		return nil, classifyBinanceError("order", e)
	}
	return b.parseOrder(o)
}

// OpenOrders impl.
func (b *binanceTrading) OpenOrders(limit int) ([]model.Order, error) {
	symbol, e := b.MarketID(b.market)
	if e != nil {
		return nil, e
	}

	raw, e := b.client.NewListOpenOrdersService().Symbol(symbol).Do(context.Background())
	if e != nil {
		return nil, classifyBinanceError("openOrders", e)
	}
	orders, e := b.parseOrders(raw, false)
	if e != nil {
		return nil, e
	}
	sortOrdersNewestFirst(orders)
	return truncateOrders(orders, limit), nil
}

// ClosedOrders impl.
func (b *binanceTrading) ClosedOrders(limit int) ([]model.Order, error) {
	return b.closedOrders(nil, limit)
}

// ClosedOrdersSince impl.
func (b *binanceTrading) ClosedOrdersSince(since model.Timestamp) ([]model.Order, error) {
	return b.closedOrders(&since, 0)
}

// closedOrders reads the most recent page when since is nil, otherwise it pages forward by order id
// until a page comes back short
func (b *binanceTrading) closedOrders(since *model.Timestamp, limit int) ([]model.Order, error) {
	symbol, e := b.MarketID(b.market)
	if e != nil {
		return nil, e
	}

	raw := []*binance.Order{}
	var nextID *int64
	for {
		service := b.client.NewListOrdersService().Symbol(symbol).Limit(binanceOrdersLimit)
		if nextID != nil {
			service = service.OrderID(*nextID)
		} else if since != nil {
			service = service.StartTime(since.AsInt64())
		}
		page, e := service.Do(context.Background())
		if e != nil {
			return nil, classifyBinanceError("allOrders", e)
		}
		raw = append(raw, page...)
		if since == nil || len(page) < binanceOrdersLimit {
			break
		}

		lastID := page[0].OrderID
		for _, o := range page {
			if o.OrderID > lastID {
				lastID = o.OrderID
			}
		}
		lastID++
		nextID = &lastID
	}

	orders, e := b.parseOrders(raw, true)
	if e != nil {
		return nil, e
	}
	sortOrdersNewestFirst(orders)
	return truncateOrders(orders, limit), nil
}

func (b *binanceTrading) parseOrders(raw []*binance.Order, terminalOnly bool) ([]model.Order, error) {
	orders := []model.Order{}
	for _, r := range raw {
		o, e := b.parseOrder(r)
		if e != nil {
			return nil, e
		}
		if terminalOnly && !o.Status.IsTerminal() {
			continue
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

func (b *binanceTrading) parseOrder(o *binance.Order) (*model.Order, error) {
	return b.makeOrder(binanceOrderFields{
		id:          o.OrderID,
		status:      string(o.Status),
		orderType:   string(o.Type),
		side:        string(o.Side),
		price:       o.Price,
		amount:      o.OrigQuantity,
		filled:      o.ExecutedQuantity,
		cost:        o.CummulativeQuoteQuantity,
		createdAtMs: o.Time,
		updatedAtMs: o.UpdateTime,
	}, "order")
}

// binanceOrderFields is what the order and the create order responses have in common
type binanceOrderFields struct {
	id          int64
	status      string
	orderType   string
	side        string
	price       string
	amount      string
	filled      string
	cost        string
	createdAtMs int64
	updatedAtMs int64
}

func (b *binanceTrading) makeOrder(f binanceOrderFields, operation string) (*model.Order, error) {
	status, ok := binanceOrderStatuses[f.status]
	if !ok {
		return nil, api.MakeErrParsef(operation, "unknown order status '%s'", f.status)
	}
	side, e := model.SideFromString(f.side)
	if e != nil {
		return nil, api.MakeErrParsef(operation, "order %d: %s", f.id, e)
	}
	orderType, ok := binanceOrderTypes[f.orderType]
	if !ok {
		orderType = model.OrderTypeUnknown
	}

	amount, e := binanceDecimal(f.amount, "origQty", operation)
	if e != nil {
		return nil, e
	}
	filled, e := binanceDecimal(f.filled, "executedQty", operation)
	if e != nil {
		return nil, e
	}
	cost, e := binancePositiveMoney(f.cost, b.market.Quote, "cummulativeQuoteQty", operation)
	if e != nil {
		return nil, e
	}
	price, e := binancePositiveMoney(f.price, b.market.Quote, "price", operation)
	if e != nil {
		return nil, e
	}
	// market orders have no price, the average fill price stands in for it
	if price == nil && cost != nil && filled.IsPositive() {
		price = model.MakeMoney(cost.Amount().Div(filled), b.market.Quote)
	}

	var createdAt, closedAt *model.Timestamp
	if f.createdAtMs > 0 {
		createdAt = model.MakeTimestamp(f.createdAtMs)
	}
	if status.IsTerminal() && f.updatedAtMs > 0 {
		closedAt = model.MakeTimestamp(f.updatedAtMs)
	}

	return model.MakeOrder(model.OrderParams{
		ID:        strconv.FormatInt(f.id, 10),
		Market:    b.market,
		Type:      orderType,
		Side:      side,
		Status:    status,
		Amount:    model.MakeMoney(amount, b.market.Base),
		Filled:    model.MakeMoney(filled, b.market.Base),
		Cost:      cost,
		Price:     price,
		Info:      map[string]interface{}{"status": f.status, "type": f.orderType},
		CreatedAt: createdAt,
		ClosedAt:  closedAt,
	})
}

// CancelOrder impl.
func (b *binanceTrading) CancelOrder(id string) error {
	orderID, e := parseBinanceOrderID(id)
	if e != nil {
		return e
	}
	symbol, e := b.MarketID(b.market)
	if e != nil {
		return e
	}

	_, e = b.client.NewCancelOrderService().Symbol(symbol).OrderID(orderID).Do(context.Background())
	if e != nil {
		return classifyBinanceError("cancel order", e)
	}
	return nil
}

// CancelOrders impl.
func (b *binanceTrading) CancelOrders(ids []string) error {
	return api.MakeErrNotSupported("cancel orders", "Binance only cancels orders one at a time or all of a symbol")
}

// PlaceOrder impl.
func (b *binanceTrading) PlaceOrder(side model.Side, orderType model.OrderType, amount model.Money, price *model.Money) (*model.Order, error) {
	if !orderType.IsLimit() && !orderType.IsMarket() {
		return nil, api.MakeErrNotSupported("place order", fmt.Sprintf("Binance adapter only places limit and market orders, not %s", orderType))
	}
	if orderType.IsLimit() && price == nil {
		return nil, fmt.Errorf("a limit order needs a price")
	}
	if amount.Currency() != b.market.Base {
		return nil, &model.CurrencyMismatchError{Op: "place order", Left: amount.String(), Right: b.market.Base}
	}
	symbol, e := b.MarketID(b.market)
	if e != nil {
		return nil, e
	}

	sideType := binance.SideTypeBuy
	if side.IsSell() {
		sideType = binance.SideTypeSell
	}
	service := b.client.NewCreateOrderService().
		Symbol(symbol).
		Side(sideType).
		Quantity(amount.Amount().String())
	if orderType.IsLimit() {
		if price.Currency() != b.market.Quote {
			return nil, &model.CurrencyMismatchError{Op: "place order", Left: price.String(), Right: b.market.Quote}
		}
		service = service.Type(binance.OrderTypeLimit).TimeInForce(binance.TimeInForceTypeGTC).Price(price.Amount().String())
	} else {
		service = service.Type(binance.OrderTypeMarket)
	}
	logBinance("submitting order: symbol=%s, side=%s, type=%s, quantity=%s", symbol, side, orderType, amount.Amount())

	resp, e := service.Do(context.Background())
	if e != nil {
		return nil, classifyBinanceError("create order", e)
	}
	return b.makeOrder(binanceOrderFields{
		id:          resp.OrderID,
		status:      string(resp.Status),
		orderType:   string(resp.Type),
		side:        string(resp.Side),
		price:       resp.Price,
		amount:      resp.OrigQuantity,
		filled:      resp.ExecutedQuantity,
		cost:        resp.CummulativeQuoteQuantity,
		createdAtMs: resp.TransactTime,
	}, "create order")
}
