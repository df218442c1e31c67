package plugins

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
)

const krakenDescriptionContext = "AddOrder descr.order"

// krakenOrderDescription is what AddOrder echoes back about a placed order, e.g.
// "buy 1.45 XBTUSD @ limit 27500.0" or "sell 0.5 XBTUSD @ market"
type krakenOrderDescription struct {
	side      model.Side
	amount    decimal.Decimal
	pair      string
	orderType model.OrderType
	price     *decimal.Decimal
}

// parseKrakenOrderDescription accepts exactly <buy|sell> <amount> <pair> @ <limit|market> [<price>],
// the price is required for limit orders and not allowed for market orders
func parseKrakenOrderDescription(descr string) (*krakenOrderDescription, error) {
	tokens := strings.Fields(descr)
	if len(tokens) != 5 && len(tokens) != 6 {
		return nil, api.MakeErrParsef(krakenDescriptionContext, "expected 5 or 6 tokens but found %d in '%s'", len(tokens), descr)
	}

	var side model.Side
	switch tokens[0] {
	case "buy":
		side = model.SideBuy
	case "sell":
		side = model.SideSell
	default:
		return nil, api.MakeErrParsef(krakenDescriptionContext, "invalid side '%s' in '%s'", tokens[0], descr)
	}

	amount, e := decimal.NewFromString(tokens[1])
	if e != nil || !amount.IsPositive() {
		return nil, api.MakeErrParsef(krakenDescriptionContext, "invalid amount '%s' in '%s'", tokens[1], descr)
	}

	pair := tokens[2]
	if tokens[3] != "@" {
		return nil, api.MakeErrParsef(krakenDescriptionContext, "expected '@' but found '%s' in '%s'", tokens[3], descr)
	}

	d := &krakenOrderDescription{
		side:   side,
		amount: amount,
		pair:   pair,
	}
	switch tokens[4] {
	case "limit":
		if len(tokens) != 6 {
			return nil, api.MakeErrParsef(krakenDescriptionContext, "limit order without a price in '%s'", descr)
		}
		price, e := decimal.NewFromString(tokens[5])
		if e != nil || !price.IsPositive() {
			return nil, api.MakeErrParsef(krakenDescriptionContext, "invalid price '%s' in '%s'", tokens[5], descr)
		}
		d.orderType = model.OrderTypeLimit
		d.price = &price
	case "market":
		if len(tokens) != 5 {
			return nil, api.MakeErrParsef(krakenDescriptionContext, "unexpected price on a market order in '%s'", descr)
		}
		d.orderType = model.OrderTypeMarket
	default:
		return nil, api.MakeErrParsef(krakenDescriptionContext, "invalid order type '%s' in '%s'", tokens[4], descr)
	}
	return d, nil
}
