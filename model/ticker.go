package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Ticker is a snapshot of the top of a market. Any field can be nil if the exchange did not report it
type Ticker struct {
	Market    Market
	Bid       *Money
	Ask       *Money
	Mid       *Money
	Last      *Money
	Open      *Money
	High      *Money
	Low       *Money
	Close     *Money
	VWAP      *Money
	Timestamp *Timestamp
}

// TickerParams carries the fields reported by an exchange
type TickerParams struct {
	Bid       *Money
	Ask       *Money
	Last      *Money
	Open      *Money
	High      *Money
	Low       *Money
	Close     *Money
	VWAP      *Money
	Timestamp *Timestamp
}

// MakeTicker is a factory method, mid = (bid + ask) / 2 when both are known
func MakeTicker(market Market, p TickerParams) (*Ticker, error) {
	var mid *Money
	if p.Bid != nil && p.Ask != nil {
		sum, e := p.Bid.Add(*p.Ask)
		if e != nil {
			return nil, fmt.Errorf("cannot compute mid price for %s: %s", market, e)
		}
		mid = sum.DivScalar(two)
	}

	return &Ticker{
		Market:    market,
		Bid:       p.Bid,
		Ask:       p.Ask,
		Mid:       mid,
		Last:      p.Last,
		Open:      p.Open,
		High:      p.High,
		Low:       p.Low,
		Close:     p.Close,
		VWAP:      p.VWAP,
		Timestamp: p.Timestamp,
	}, nil
}

// String is the stringer function
func (t Ticker) String() string {
	return fmt.Sprintf("Ticker[market=%s, bid=%s, ask=%s, mid=%s, last=%s]",
		t.Market,
		checkedString(t.Bid),
		checkedString(t.Ask),
		checkedString(t.Mid),
		checkedString(t.Last),
	)
}
