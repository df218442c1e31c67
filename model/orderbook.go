package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Side is the side of an order or trade, buy / sell
type Side bool

// SideBuy and SideSell are the two sides
const (
	SideBuy  Side = false
	SideSell Side = true
)

// IsBuy returns true for buy orders
func (s Side) IsBuy() bool {
	return s == SideBuy
}

// IsSell returns true for sell orders
func (s Side) IsSell() bool {
	return s == SideSell
}

// Opposite returns the other side
func (s Side) Opposite() Side {
	return !s
}

// String is the stringer function
func (s Side) String() string {
	if s == SideSell {
		return "sell"
	}
	return "buy"
}

var sideMap = map[string]Side{
	"buy":  SideBuy,
	"b":    SideBuy,
	"bid":  SideBuy,
	"sell": SideSell,
	"s":    SideSell,
	"ask":  SideSell,
}

// SideFromString converts from the common exchange spellings, case-insensitive
func SideFromString(s string) (Side, error) {
	side, ok := sideMap[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return SideBuy, fmt.Errorf("unrecognized side '%s'", s)
	}
	return side, nil
}

// MarshalText impl.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText impl.
func (s *Side) UnmarshalText(text []byte) error {
	side, e := SideFromString(string(text))
	if e != nil {
		return e
	}
	*s = side
	return nil
}

// OrderType represents a type of an order, example market, limit, etc.
type OrderType int8

// These are the order types known to the system, adapters may support a subset
const (
	OrderTypeUnknown    OrderType = 0
	OrderTypeLimit      OrderType = 1
	OrderTypeMarket     OrderType = 2
	OrderTypeStopLoss   OrderType = 3
	OrderTypeTakeProfit OrderType = 4
)

var orderTypeNames = map[OrderType]string{
	OrderTypeUnknown:    "unknown",
	OrderTypeLimit:      "limit",
	OrderTypeMarket:     "market",
	OrderTypeStopLoss:   "stop-loss",
	OrderTypeTakeProfit: "take-profit",
}

// IsMarket returns true for market orders
func (o OrderType) IsMarket() bool {
	return o == OrderTypeMarket
}

// IsLimit returns true for limit orders
func (o OrderType) IsLimit() bool {
	return o == OrderTypeLimit
}

// String is the stringer function
func (o OrderType) String() string {
	if name, ok := orderTypeNames[o]; ok {
		return name
	}
	return "error, unrecognized order type"
}

// OrderTypeFromString is a convenience to convert from common strings to the corresponding OrderType.
// Unrecognized strings map to OrderTypeUnknown
func OrderTypeFromString(s string) OrderType {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range orderTypeNames {
		if name == s {
			return t
		}
	}
	return OrderTypeUnknown
}

// PriceLevel is one aggregated level of an order book
type PriceLevel struct {
	Price  Money `json:"price"`
	Amount Money `json:"amount"`
}

// OrderBook encapsulates the concept of an orderbook on a market.
// asks are sorted by ascending price and bids by descending price
type OrderBook struct {
	market Market
	asks   []PriceLevel
	bids   []PriceLevel
}

// MakeOrderBook creates a new OrderBook from the asks and the bids
func MakeOrderBook(market Market, asks []PriceLevel, bids []PriceLevel) *OrderBook {
	return &OrderBook{
		market: market,
		asks:   asks,
		bids:   bids,
	}
}

// Market returns the market of the book
func (o OrderBook) Market() Market {
	return o.market
}

// Asks returns the asks in an orderbook
func (o OrderBook) Asks() []PriceLevel {
	return o.asks
}

// Bids returns the bids in an orderbook
func (o OrderBook) Bids() []PriceLevel {
	return o.bids
}

// QuotePrice walks the book to find the average price paid to execute an order of the given base amount.
// A buy order consumes asks and a sell order consumes bids
func (o OrderBook) QuotePrice(side Side, amount Money) (*Money, error) {
	if amount.Currency() != o.market.Base {
		return nil, &CurrencyMismatchError{Op: "quote", Left: amount.String(), Right: o.market.Base}
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("cannot quote a non-positive amount %s", amount)
	}
	levels := o.bids
	if side.IsBuy() {
		levels = o.asks
	}

	remaining := amount.Amount()
	cost := decimal.Zero
	for _, level := range levels {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, level.Amount.Amount())
		cost = cost.Add(take.Mul(level.Price.Amount()))
		remaining = remaining.Sub(take)
	}
	if remaining.IsPositive() {
		return nil, fmt.Errorf("order book for %s is too thin to %s %s, missing %s", o.market, side, amount, remaining)
	}
	return MakeMoney(cost.Div(amount.Amount()), o.market.Quote), nil
}

// BaseAmountFor walks the book to find the base amount that a quote amount buys (asks) or is received for (bids)
func (o OrderBook) BaseAmountFor(side Side, quoteAmount Money) (*Money, error) {
	if quoteAmount.Currency() != o.market.Quote {
		return nil, &CurrencyMismatchError{Op: "quote", Left: quoteAmount.String(), Right: o.market.Quote}
	}
	if !quoteAmount.IsPositive() {
		return ZeroMoney(o.market.Base), nil
	}
	levels := o.bids
	if side.IsBuy() {
		levels = o.asks
	}

	remaining := quoteAmount.Amount()
	base := decimal.Zero
	for _, level := range levels {
		if !remaining.IsPositive() {
			break
		}
		levelQuote := level.Amount.Amount().Mul(level.Price.Amount())
		if remaining.LessThan(levelQuote) {
			base = base.Add(remaining.Div(level.Price.Amount()))
			remaining = decimal.Zero
			break
		}
		base = base.Add(level.Amount.Amount())
		remaining = remaining.Sub(levelQuote)
	}
	if remaining.IsPositive() {
		return nil, fmt.Errorf("order book for %s is too thin to %s for %s, missing %s", o.market, side, quoteAmount, remaining)
	}
	return MakeMoney(base, o.market.Base), nil
}

// Trade represents a public trade on an exchange
type Trade struct {
	ID        string    `json:"id"`
	Market    Market    `json:"market"`
	Side      Side      `json:"side"`
	Price     Money     `json:"price"`
	Amount    Money     `json:"amount"`
	Timestamp Timestamp `json:"timestamp"`
}

// String is the stringer function
func (t Trade) String() string {
	return fmt.Sprintf("Trade[id: %s, ts: %d, market: %s, side: %s, price: %s, amount: %s]",
		t.ID,
		t.Timestamp.AsInt64(),
		t.Market,
		t.Side,
		t.Price,
		t.Amount,
	)
}
