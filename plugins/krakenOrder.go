package plugins

import (
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
)

// krakenRawOrder is the order object returned by OpenOrders, ClosedOrders and QueryOrders
type krakenRawOrder struct {
	Status  string              `mapstructure:"status"`
	OpenTm  float64             `mapstructure:"opentm"`
	CloseTm float64             `mapstructure:"closetm"`
	Vol     string              `mapstructure:"vol"`
	VolExec string              `mapstructure:"vol_exec"`
	Cost    string              `mapstructure:"cost"`
	Fee     string              `mapstructure:"fee"`
	Price   string              `mapstructure:"price"`
	Oflags  string              `mapstructure:"oflags"`
	Descr   krakenRawOrderDescr `mapstructure:"descr"`
}

type krakenRawOrderDescr struct {
	Pair      string `mapstructure:"pair"`
	Type      string `mapstructure:"type"`
	OrderType string `mapstructure:"ordertype"`
	Price     string `mapstructure:"price"`
	Price2    string `mapstructure:"price2"`
	Order     string `mapstructure:"order"`
}

var krakenOrderTypes = map[string]model.OrderType{
	"limit":       model.OrderTypeLimit,
	"market":      model.OrderTypeMarket,
	"stop-loss":   model.OrderTypeStopLoss,
	"take-profit": model.OrderTypeTakeProfit,
}

func parseKrakenOrder(id string, raw interface{}, pairs []krakenAssetPair, method string) (*model.Order, error) {
	rawMap, ok := raw.(map[string]interface{})
	if !ok {
		return nil, api.MakeErrParsef(method, "could not parse order %s of type %s", id, reflect.TypeOf(raw))
	}

	var o krakenRawOrder
	decoder, e := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &o,
	})
	if e != nil {
		return nil, e
	}
	if e := decoder.Decode(rawMap); e != nil {
		return nil, api.MakeErrParsef(method, "could not decode order %s: %s", id, e)
	}

	pair, e := findKrakenPair(pairs, o.Descr.Pair)
	if e != nil {
		return nil, e
	}
	market := pair.market
	side, e := model.SideFromString(o.Descr.Type)
	if e != nil {
		return nil, api.MakeErrParsef(method, "order %s: %s", id, e)
	}

	amount, e := krakenOptionalMoney(o.Vol, market.Base, method, "vol")
	if e != nil {
		return nil, e
	}
	filled, e := krakenOptionalMoney(o.VolExec, market.Base, method, "vol_exec")
	if e != nil {
		return nil, e
	}
	cost, e := krakenOptionalMoney(o.Cost, market.Quote, method, "cost")
	if e != nil {
		return nil, e
	}
	var fee *model.Money
	if feeCurrency := krakenFeeCurrency(o.Oflags, market); feeCurrency != "" {
		fee, e = krakenOptionalMoney(o.Fee, feeCurrency, method, "fee")
		if e != nil {
			return nil, e
		}
	}
	price, e := krakenOrderPrice(o, market.Quote, method)
	if e != nil {
		return nil, e
	}

	var createdAt, closedAt *model.Timestamp
	if o.OpenTm > 0 {
		createdAt = model.MakeTimestampFromSeconds(o.OpenTm)
	}
	if o.CloseTm > 0 {
		closedAt = model.MakeTimestampFromSeconds(o.CloseTm)
	}

	orderType, ok := krakenOrderTypes[o.Descr.OrderType]
	if !ok {
		orderType = model.OrderTypeUnknown
	}

	return model.MakeOrder(model.OrderParams{
		ID:        id,
		Market:    market,
		Type:      orderType,
		Side:      side,
		Status:    model.OrderStatusFromString(o.Status),
		Amount:    amount,
		Filled:    filled,
		Cost:      cost,
		Fee:       fee,
		Price:     price,
		Info:      rawMap,
		CreatedAt: createdAt,
		ClosedAt:  closedAt,
	})
}

// krakenFeeCurrency reads the fee flags, empty when neither is set since the default depends on the side
func krakenFeeCurrency(oflags string, market model.Market) string {
	for _, flag := range strings.Split(oflags, ",") {
		switch strings.TrimSpace(flag) {
		case "fciq":
			return market.Quote
		case "fcib":
			return market.Base
		}
	}
	return ""
}

// krakenOrderPrice falls back from the limit price to the secondary price to the average fill price
func krakenOrderPrice(o krakenRawOrder, currency string, method string) (*model.Money, error) {
	for _, candidate := range []string{o.Descr.Price, o.Descr.Price2, o.Price} {
		price, e := krakenOptionalMoney(candidate, currency, method, "price")
		if e != nil {
			return nil, e
		}
		if price != nil && price.IsPositive() {
			return price, nil
		}
	}
	return nil, nil
}

func krakenOptionalMoney(value string, currency string, method string, field string) (*model.Money, error) {
	if value == "" {
		return nil, nil
	}
	d, e := decimal.NewFromString(value)
	if e != nil {
		return nil, api.MakeErrParsef(method, "could not parse field '%s' as a number: %s", field, value)
	}
	return model.MakeMoney(d, currency), nil
}
