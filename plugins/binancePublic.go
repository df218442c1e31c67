package plugins

import (
	"context"
	"sort"
	"strconv"

	"github.com/adshao/go-binance/v2/common"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
	"github.com/lightyeario/tradingbots/support/utils"
)

// ensure that binancePublic conforms to the PublicAPI interface
var _ api.PublicAPI = &binancePublic{}

const binanceDepthLimit = 100
const binanceTradingStatus = "TRADING"

// binancePublic is the market data of the Binance exchange
type binancePublic struct {
	*binanceBase
}

// makeBinancePublic is a factory method
func makeBinancePublic(base *binanceBase) *binancePublic {
	return &binancePublic{binanceBase: base}
}

// Markets impl.
func (b *binancePublic) Markets() ([]model.Market, error) {
	symbols, e := b.symbols()
	if e != nil {
		return nil, e
	}

	markets := []model.Market{}
	for _, s := range symbols {
		if s.status == binanceTradingStatus {
			markets = append(markets, s.market)
		}
	}
	sort.Slice(markets, func(i, j int) bool {
		return markets[i].String() < markets[j].String()
	})
	return markets, nil
}

// Currencies impl.
func (b *binancePublic) Currencies() ([]string, error) {
	markets, e := b.Markets()
	if e != nil {
		return nil, e
	}

	currencies := []string{}
	for _, m := range markets {
		currencies = append(currencies, m.Base, m.Quote)
	}
	currencies = utils.Dedupe(currencies)
	sort.Strings(currencies)
	return currencies, nil
}

// Ticker impl.
func (b *binancePublic) Ticker(market model.Market) (*model.Ticker, error) {
	symbol, e := b.MarketID(market)
	if e != nil {
		return nil, e
	}
	stats, e := b.client.NewListPriceChangeStatsService().Symbol(symbol).Do(context.Background())
	if e != nil {
		return nil, classifyBinanceError("ticker/24hr", e)
	}
	if len(stats) != 1 {
		return nil, api.MakeErrParsef("ticker/24hr", "expected a single ticker for %s but found %d", symbol, len(stats))
	}
	s := stats[0]

	p := model.TickerParams{Timestamp: model.MakeTimestamp(s.CloseTime)}
	fields := []struct {
		name   string
		value  string
		target **model.Money
	}{
		{"bidPrice", s.BidPrice, &p.Bid},
		{"askPrice", s.AskPrice, &p.Ask},
		{"lastPrice", s.LastPrice, &p.Last},
		{"openPrice", s.OpenPrice, &p.Open},
		{"highPrice", s.HighPrice, &p.High},
		{"lowPrice", s.LowPrice, &p.Low},
		{"weightedAvgPrice", s.WeightedAvgPrice, &p.VWAP},
	}
	for _, f := range fields {
		value, e := binancePositiveMoney(f.value, market.Quote, f.name, "ticker/24hr")
		if e != nil {
			return nil, e
		}
		*f.target = value
	}
	p.Close = p.Last

	return model.MakeTicker(market, p)
}

// OrderBook impl.
func (b *binancePublic) OrderBook(market model.Market) (*model.OrderBook, error) {
	symbol, e := b.MarketID(market)
	if e != nil {
		return nil, e
	}
	depth, e := b.client.NewDepthService().Symbol(symbol).Limit(binanceDepthLimit).Do(context.Background())
	if e != nil {
		return nil, classifyBinanceError("depth", e)
	}

	asks, e := readBinanceLevels(depth.Asks, market)
	if e != nil {
		return nil, e
	}
	bids, e := readBinanceLevels(depth.Bids, market)
	if e != nil {
		return nil, e
	}
	return model.MakeOrderBook(market, asks, bids), nil
}

func readBinanceLevels(levels []common.PriceLevel, market model.Market) ([]model.PriceLevel, error) {
	result := []model.PriceLevel{}
	for _, l := range levels {
		price, e := binanceDecimal(l.Price, "price", "depth")
		if e != nil {
			return nil, e
		}
		amount, e := binanceDecimal(l.Quantity, "quantity", "depth")
		if e != nil {
			return nil, e
		}
		result = append(result, model.PriceLevel{
			Price:  *model.MakeMoney(price, market.Quote),
			Amount: *model.MakeMoney(amount, market.Base),
		})
	}
	return result, nil
}

// TradesSince impl.
func (b *binancePublic) TradesSince(market model.Market, since model.Timestamp) ([]model.Trade, error) {
	symbol, e := b.MarketID(market)
	if e != nil {
		return nil, e
	}
	aggTrades, e := b.client.NewAggTradesService().
		Symbol(symbol).
		StartTime(since.AsInt64()).
		Limit(api.TradesPageSize).
		Do(context.Background())
	if e != nil {
		return nil, classifyBinanceError("aggTrades", e)
	}

	trades := []model.Trade{}
	for _, t := range aggTrades {
		price, e := binanceDecimal(t.Price, "p", "aggTrades")
		if e != nil {
			return nil, e
		}
		amount, e := binanceDecimal(t.Quantity, "q", "aggTrades")
		if e != nil {
			return nil, e
		}
		// the maker was the buyer, so the taker sold
		side := model.SideBuy
		if t.IsBuyerMaker {
			side = model.SideSell
		}

		trades = append(trades, model.Trade{
			ID:        strconv.FormatInt(t.AggTradeID, 10),
			Market:    market,
			Side:      side,
			Price:     *model.MakeMoney(price, market.Quote),
			Amount:    *model.MakeMoney(amount, market.Base),
			Timestamp: *model.MakeTimestamp(t.Timestamp),
		})
	}

	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Timestamp.AsInt64() < trades[j].Timestamp.AsInt64()
	})
	return trades, nil
}
