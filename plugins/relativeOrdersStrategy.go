package plugins

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
	"github.com/lightyeario/tradingbots/support/logger"
	"github.com/lightyeario/tradingbots/support/utils"
)

// relativeOrdersConfig contains the configuration params for this Strategy
type relativeOrdersConfig struct {
	Market  string                 `yaml:"market"`
	Prices  priceMultipliersConfig `yaml:"prices"`
	Amounts maxAmountsConfig       `yaml:"amounts"`
}

// String impl.
func (c relativeOrdersConfig) String() string {
	return utils.StructString(c, 0, nil)
}

// relativeOrdersStrategy keeps one buy and one sell order around the mid price of the market
type relativeOrdersStrategy struct {
	client         *TradingClient
	buyMultiplier  decimal.Decimal
	sellMultiplier decimal.Decimal
	maxBase        model.Money
	maxQuote       model.Money
	l              logger.Logger
}

// ensure this implements api.Strategy
var _ api.Strategy = &relativeOrdersStrategy{}

// makeRelativeOrdersStrategy is a factory method
func makeRelativeOrdersStrategy(client *TradingClient, config *relativeOrdersConfig, l logger.Logger) (*relativeOrdersStrategy, error) {
	buy, sell, e := config.Prices.parse()
	if e != nil {
		return nil, e
	}
	maxBase, maxQuote, e := config.Amounts.parse(client.Market())
	if e != nil {
		return nil, e
	}
	return &relativeOrdersStrategy{
		client:         client,
		buyMultiplier:  buy,
		sellMultiplier: sell,
		maxBase:        *maxBase,
		maxQuote:       *maxQuote,
		l:              l,
	}, nil
}

// Setup impl
func (s *relativeOrdersStrategy) Setup() error {
	return nil
}

// Algorithm impl
func (s *relativeOrdersStrategy) Algorithm() error {
	ticker, e := s.client.Ticker()
	if e != nil {
		return fmt.Errorf("could not fetch ticker: %w", e)
	}
	if ticker.Mid == nil {
		return fmt.Errorf("ticker of %s has no bid and ask to compute a mid price", s.client.Market())
	}
	s.l.Infof("ticker prices | bid: %s | ask: %s | mid: %s", ticker.Bid, ticker.Ask, ticker.Mid)

	priceBuy := ticker.Mid.MulScalar(s.buyMultiplier).Truncate(model.MoneyDisplayPrecision)
	priceSell := ticker.Mid.MulScalar(s.sellMultiplier).Truncate(model.MoneyDisplayPrecision)
	s.l.Infof("relative prices | buy: %s | sell: %s", priceBuy, priceSell)

	return placeBuyAndSellOrders(s.client, *priceBuy, *priceSell, s.maxBase, s.maxQuote, s.l)
}

// Abort impl
func (s *relativeOrdersStrategy) Abort() error {
	return cancelAllOnAbort(s.client, s.l)
}

// placeBuyAndSellOrders replaces the open orders of the market with a buy and a sell order sized from the free balances.
// The orders are canceled first so the balances they lock are free again
func placeBuyAndSellOrders(
	client *TradingClient,
	priceBuy model.Money,
	priceSell model.Money,
	maxBase model.Money,
	maxQuote model.Money,
	l logger.Logger,
) error {
	if !priceBuy.IsPositive() || !priceSell.IsPositive() {
		return fmt.Errorf("order prices need to be positive, buy=%s, sell=%s", priceBuy, priceSell)
	}

	l.Info("closing open orders")
	if e := client.CancelAllOrders(); e != nil {
		return e
	}

	baseBalance, e := client.BaseBalance()
	if e != nil {
		return fmt.Errorf("could not fetch base balance: %w", e)
	}
	quoteBalance, e := client.QuoteBalance()
	if e != nil {
		return fmt.Errorf("could not fetch quote balance: %w", e)
	}

	amountBase, e := maxBase.Min(baseBalance.Free)
	if e != nil {
		return e
	}
	amountQuote, e := maxQuote.Min(quoteBalance.Free)
	if e != nil {
		return e
	}

	// the quote amount is converted to base at the buy price
	buyAmount, e := amountQuote.Div(priceBuy)
	if e != nil {
		return e
	}
	amountBuy := model.MakeMoney(buyAmount, client.Market().Base).Truncate(model.MoneyDisplayPrecision)
	amountSell := amountBase.Truncate(model.MoneyDisplayPrecision)
	l.Infof("amounts | buy: %s | sell: %s", amountBuy, amountSell)

	l.Info("starting order deployment")
	orders := []struct {
		side   model.Side
		amount *model.Money
		price  model.Money
	}{
		{side: model.SideBuy, amount: amountBuy, price: priceBuy},
		{side: model.SideSell, amount: amountSell, price: priceSell},
	}
	for _, o := range orders {
		ok, e := client.IsAboveMinOrderAmount(*o.amount)
		if e != nil {
			return e
		}
		if !ok {
			l.Warnf("skipping %s order, amount %s is below the minimum order amount %s", o.side, o.amount, client.MinOrderAmount())
			continue
		}
		placed, e := client.PlaceLimitOrder(o.side, *o.amount, o.price)
		if e != nil {
			return fmt.Errorf("could not place %s order: %w", o.side, e)
		}
		l.Infof("placed %s", placed)
	}
	return nil
}

func cancelAllOnAbort(client *TradingClient, l logger.Logger) error {
	l.Error("aborting strategy, canceling all orders")
	if e := client.CancelAllOrders(); e != nil {
		l.Errorf("failed, some orders might not be canceled: %s", e)
		return e
	}
	l.Info("all open orders were canceled")
	return nil
}
