package plugins

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
	"github.com/lightyeario/tradingbots/support/logger"
	"github.com/lightyeario/tradingbots/support/utils"
)

// tradeHistoryConfig contains the configuration params for this Strategy
type tradeHistoryConfig struct {
	Reference     referenceConfig `yaml:"reference"`
	LookbackHours int             `yaml:"lookback_hours"`
}

// String impl.
func (c tradeHistoryConfig) String() string {
	return utils.StructString(c, 0, nil)
}

// tradeHistoryStrategy keeps the trade history of a reference market up to date and reports its VWAP
type tradeHistoryStrategy struct {
	fetcher  *TradeHistoryFetcher
	market   model.Market
	lookback time.Duration
	nowFn    func() model.Timestamp
	l        logger.Logger

	lastVWAP *model.Money
}

// ensure this implements api.Strategy
var _ api.Strategy = &tradeHistoryStrategy{}

// makeTradeHistoryStrategy is a factory method
func makeTradeHistoryStrategy(fetcher *TradeHistoryFetcher, market model.Market, config *tradeHistoryConfig, l logger.Logger) (*tradeHistoryStrategy, error) {
	if config.LookbackHours <= 0 {
		return nil, fmt.Errorf("lookback_hours needs to be positive, was %d", config.LookbackHours)
	}
	return &tradeHistoryStrategy{
		fetcher:  fetcher,
		market:   market,
		lookback: time.Duration(config.LookbackHours) * time.Hour,
		nowFn:    func() model.Timestamp { return *model.Now() },
		l:        l,
	}, nil
}

// Setup impl
func (s *tradeHistoryStrategy) Setup() error {
	return nil
}

// Algorithm impl
func (s *tradeHistoryStrategy) Algorithm() error {
	since := *model.MakeTimestamp(s.nowFn().AsInt64() - s.lookback.Milliseconds())
	s.l.Infof("getting trades of %s since %s", s.market, since.AsTime())

	trades, e := s.fetcher.TradesSince(s.market, since)
	if e != nil {
		return e
	}
	if len(trades) == 0 {
		s.l.Warnf("no trades of %s in the last %s", s.market, s.lookback)
		return nil
	}

	vwap, e := volumeWeightedPrice(trades)
	if e != nil {
		return e
	}
	s.lastVWAP = vwap
	s.l.Infof("%d trades of %s (%s ... %s), vwap: %s", len(trades), s.market,
		trades[0].Timestamp.AsTime(), trades[len(trades)-1].Timestamp.AsTime(), vwap)
	return nil
}

// Abort impl, this strategy never places orders
func (s *tradeHistoryStrategy) Abort() error {
	return nil
}

func volumeWeightedPrice(trades []model.Trade) (*model.Money, error) {
	volume := decimal.Zero
	notional := decimal.Zero
	currency := trades[0].Price.Currency()
	for _, t := range trades {
		if t.Price.Currency() != currency {
			return nil, &model.CurrencyMismatchError{Op: "vwap", Left: t.Price.String(), Right: currency}
		}
		volume = volume.Add(t.Amount.Amount())
		notional = notional.Add(t.Amount.Amount().Mul(t.Price.Amount()))
	}
	if volume.IsZero() {
		return nil, fmt.Errorf("trades have no volume")
	}
	return model.MakeMoney(notional.Div(volume), currency), nil
}
