package plugins

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
	"github.com/lightyeario/tradingbots/support/logger"
	"github.com/lightyeario/tradingbots/support/utils"
)

// simpleLimitConfig contains the configuration params for this Strategy
type simpleLimitConfig struct {
	Market    string                 `yaml:"market"`
	Reference referenceConfig        `yaml:"reference"`
	Prices    priceMultipliersConfig `yaml:"prices"`
	Amounts   maxAmountsConfig       `yaml:"amounts"`
	// FROM/TO -> rate, when empty the rates come from openexchangerates
	FixedRates map[string]string `yaml:"fixed_rates"`
}

// String impl.
func (c simpleLimitConfig) String() string {
	return utils.StructString(c, 0, nil)
}

// simpleLimitStrategy quotes the market around the bid and ask of a reference market on another exchange
type simpleLimitStrategy struct {
	client          *TradingClient
	reference       api.PublicAPI
	referenceMarket model.Market
	converter       api.RateConverter
	buyMultiplier   decimal.Decimal
	sellMultiplier  decimal.Decimal
	maxBase         model.Money
	maxQuote        model.Money
	l               logger.Logger
}

// ensure this implements api.Strategy
var _ api.Strategy = &simpleLimitStrategy{}

// makeSimpleLimitStrategy is a factory method
func makeSimpleLimitStrategy(
	client *TradingClient,
	reference api.PublicAPI,
	referenceMarket model.Market,
	converter api.RateConverter,
	config *simpleLimitConfig,
	l logger.Logger,
) (*simpleLimitStrategy, error) {
	if referenceMarket.Base != client.Market().Base {
		return nil, fmt.Errorf("reference market %s needs the same base currency as %s", referenceMarket, client.Market())
	}
	buy, sell, e := config.Prices.parse()
	if e != nil {
		return nil, e
	}
	maxBase, maxQuote, e := config.Amounts.parse(client.Market())
	if e != nil {
		return nil, e
	}
	return &simpleLimitStrategy{
		client:          client,
		reference:       reference,
		referenceMarket: referenceMarket,
		converter:       converter,
		buyMultiplier:   buy,
		sellMultiplier:  sell,
		maxBase:         *maxBase,
		maxQuote:        *maxQuote,
		l:               l,
	}, nil
}

// Setup impl
func (s *simpleLimitStrategy) Setup() error {
	return nil
}

// Algorithm impl
func (s *simpleLimitStrategy) Algorithm() error {
	s.l.Infof("preparing prices using %s %s", s.reference.Name(), s.referenceMarket)
	bid, ask, e := s.referencePrices()
	if e != nil {
		return e
	}
	s.l.Infof("reference prices on %s | bid: %s | ask: %s", s.reference.Name(), bid, ask)

	priceBuy := bid.MulScalar(s.buyMultiplier).Truncate(model.MoneyDisplayPrecision)
	priceSell := ask.MulScalar(s.sellMultiplier).Truncate(model.MoneyDisplayPrecision)
	s.l.Infof("%s calculated prices | buy: %s | sell: %s", s.client.Market(), priceBuy, priceSell)

	return placeBuyAndSellOrders(s.client, *priceBuy, *priceSell, s.maxBase, s.maxQuote, s.l)
}

// referencePrices are converted to the quote currency of the traded market when the reference quotes another one
func (s *simpleLimitStrategy) referencePrices() (*model.Money, *model.Money, error) {
	ticker, e := s.reference.Ticker(s.referenceMarket)
	if e != nil {
		return nil, nil, fmt.Errorf("could not fetch reference ticker: %w", e)
	}
	if ticker.Bid == nil || ticker.Ask == nil {
		return nil, nil, fmt.Errorf("reference ticker of %s has no bid or ask", s.referenceMarket)
	}

	quote := s.client.Market().Quote
	if s.referenceMarket.Quote == quote {
		return ticker.Bid, ticker.Ask, nil
	}

	rate, e := s.converter.Rate(s.referenceMarket.Quote, quote)
	if e != nil {
		return nil, nil, fmt.Errorf("could not fetch %s/%s rate: %w", s.referenceMarket.Quote, quote, e)
	}
	s.l.Infof("%s/%s rate: %s", s.referenceMarket.Quote, quote, rate.StringFixed(2))
	bid := model.MakeMoney(ticker.Bid.Amount().Mul(rate), quote)
	ask := model.MakeMoney(ticker.Ask.Amount().Mul(rate), quote)
	return bid, ask, nil
}

// Abort impl
func (s *simpleLimitStrategy) Abort() error {
	return cancelAllOnAbort(s.client, s.l)
}
