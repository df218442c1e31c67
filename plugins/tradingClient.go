package plugins

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
	"github.com/lightyeario/tradingbots/support/logger"
)

// TradingClient is what strategies use to trade a single market: market data, balances of both currencies and orders.
// In dry-run mode nothing is submitted, orders are simulated and cancels are only logged
type TradingClient struct {
	market  model.Market
	public  api.PublicAPI
	wallet  api.WalletAPI
	trading api.TradingAPI
	dryRun  bool
	l       logger.Logger

	// simulated orders keyed by id, only used in dry-run mode
	dryRunOrders map[string]*model.Order
}

// MakeTradingClient is a factory method
func MakeTradingClient(x *Exchange, market model.Market, dryRun bool, l logger.Logger) (*TradingClient, error) {
	wallet, e := x.Wallet()
	if e != nil {
		return nil, e
	}
	trading, e := x.Trading(market)
	if e != nil {
		return nil, e
	}
	return makeTradingClient(market, x.Public(), wallet, trading, dryRun, l), nil
}

func makeTradingClient(
	market model.Market,
	public api.PublicAPI,
	wallet api.WalletAPI,
	trading api.TradingAPI,
	dryRun bool,
	l logger.Logger,
) *TradingClient {
	return &TradingClient{
		market:       market,
		public:       public,
		wallet:       wallet,
		trading:      trading,
		dryRun:       dryRun,
		l:            l,
		dryRunOrders: map[string]*model.Order{},
	}
}

// Market is the market this client trades
func (c *TradingClient) Market() model.Market {
	return c.market
}

// Wallet gives access to deposits and withdrawals
func (c *TradingClient) Wallet() api.WalletAPI {
	return c.wallet
}

// IsDryRun returns true when orders are simulated
func (c *TradingClient) IsDryRun() bool {
	return c.dryRun
}

// Ticker fetches the ticker of the market
func (c *TradingClient) Ticker() (*model.Ticker, error) {
	return c.public.Ticker(c.market)
}

// OrderBook fetches the order book of the market
func (c *TradingClient) OrderBook() (*model.OrderBook, error) {
	return c.public.OrderBook(c.market)
}

// BaseBalance fetches the balance of the base currency
func (c *TradingClient) BaseBalance() (*model.Balance, error) {
	return c.wallet.Balance(c.market.Base)
}

// QuoteBalance fetches the balance of the quote currency
func (c *TradingClient) QuoteBalance() (*model.Balance, error) {
	return c.wallet.Balance(c.market.Quote)
}

// MinOrderAmount is zero when the exchange does not publish one
func (c *TradingClient) MinOrderAmount() model.Money {
	if oc, ok := c.trading.(api.OrderConstraints); ok {
		if min := oc.MinOrderAmount(); min != nil {
			return *min
		}
	}
	return *model.ZeroMoney(c.market.Base)
}

// IsAboveMinOrderAmount returns true if an order of this base amount would be accepted by the exchange
func (c *TradingClient) IsAboveMinOrderAmount(amount model.Money) (bool, error) {
	lt, e := amount.LessThan(c.MinOrderAmount())
	if e != nil {
		return false, e
	}
	return amount.IsPositive() && !lt, nil
}

func (c *TradingClient) checkMinOrderAmount(amount model.Money) error {
	ok, e := c.IsAboveMinOrderAmount(amount)
	if e != nil {
		return e
	}
	if !ok {
		return fmt.Errorf("order amount %s is below the minimum order amount %s for %s", amount, c.MinOrderAmount(), c.market)
	}
	return nil
}

// Order fetches an order by id
func (c *TradingClient) Order(id string) (*model.Order, error) {
	if o, ok := c.dryRunOrders[id]; ok {
		return o, nil
	}
	return c.trading.Order(id)
}

// OpenOrders fetches all open orders of the market
func (c *TradingClient) OpenOrders() ([]model.Order, error) {
	return c.trading.OpenOrders(0)
}

// PlaceLimitOrder places a limit order of a base amount at a quote price
func (c *TradingClient) PlaceLimitOrder(side model.Side, amount model.Money, price model.Money) (*model.Order, error) {
	if e := c.checkMinOrderAmount(amount); e != nil {
		return nil, e
	}
	c.l.Infof("placing %s limit order on %s: amount=%s, price=%s (dryRun=%v)", side, c.market, amount, price, c.dryRun)

	if c.dryRun {
		return c.simulateOrder(side, model.OrderTypeLimit, amount, &price)
	}
	return c.trading.PlaceOrder(side, model.OrderTypeLimit, amount, &price)
}

// PlaceMarketOrder places a market order of a base amount
func (c *TradingClient) PlaceMarketOrder(side model.Side, amount model.Money) (*model.Order, error) {
	if e := c.checkMinOrderAmount(amount); e != nil {
		return nil, e
	}
	c.l.Infof("placing %s market order on %s: amount=%s (dryRun=%v)", side, c.market, amount, c.dryRun)

	if c.dryRun {
		return c.simulateOrder(side, model.OrderTypeMarket, amount, nil)
	}
	return c.trading.PlaceOrder(side, model.OrderTypeMarket, amount, nil)
}

// simulateOrder keeps limit orders open and fills market orders right away at the price quoted by the order book
func (c *TradingClient) simulateOrder(side model.Side, orderType model.OrderType, amount model.Money, price *model.Money) (*model.Order, error) {
	params := model.OrderParams{
		ID:        uuid.New().String(),
		Market:    c.market,
		Type:      orderType,
		Side:      side,
		Status:    model.OrderStatusOpen,
		Amount:    &amount,
		Filled:    model.ZeroMoney(c.market.Base),
		Price:     price,
		Fee:       model.ZeroMoney(c.market.Quote),
		Info:      map[string]interface{}{"dryRun": true},
		CreatedAt: model.Now(),
	}

	if orderType.IsMarket() {
		book, e := c.OrderBook()
		if e != nil {
			return nil, fmt.Errorf("could not simulate market order: %s", e)
		}
		avgPrice, e := book.QuotePrice(side, amount)
		if e != nil {
			return nil, fmt.Errorf("could not simulate market order: %s", e)
		}
		params.Status = model.OrderStatusClosed
		params.Filled = &amount
		params.Price = avgPrice
		params.Cost = model.MakeMoney(amount.Amount().Mul(avgPrice.Amount()), c.market.Quote)
		params.ClosedAt = params.CreatedAt
	}

	o, e := model.MakeOrder(params)
	if e != nil {
		return nil, e
	}
	c.dryRunOrders[o.ID] = o
	return o, nil
}

// CancelAllOrders cancels every open order of the market, one at a time when the exchange has no batch cancel
func (c *TradingClient) CancelAllOrders() error {
	orders, e := c.OpenOrders()
	if e != nil {
		return fmt.Errorf("could not fetch open orders to cancel: %s", e)
	}
	if len(orders) == 0 {
		c.l.Infof("no open orders to cancel on %s", c.market)
		return nil
	}

	ids := []string{}
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	if c.dryRun {
		c.l.Infof("dry run, not canceling %d orders on %s: %v", len(ids), c.market, ids)
		return nil
	}

	e = c.trading.CancelOrders(ids)
	if e == nil {
		c.l.Infof("canceled %d orders on %s", len(ids), c.market)
		return nil
	}
	if !api.IsNotSupported(e) {
		return e
	}

	for _, id := range ids {
		if e := c.trading.CancelOrder(id); e != nil {
			return fmt.Errorf("could not cancel order %s: %w", id, e)
		}
		c.l.Infof("canceled order %s on %s", id, c.market)
	}
	return nil
}

// Withdraw requests a withdrawal, in dry-run mode a pending withdrawal is simulated
func (c *TradingClient) Withdraw(amount model.Money, address string, subtractFee bool) (*model.Transaction, error) {
	c.l.Infof("withdrawing %s to %s, subtractFee=%v (dryRun=%v)", amount, address, subtractFee, c.dryRun)
	if c.dryRun {
		return &model.Transaction{
			ID:        uuid.New().String(),
			Type:      model.TxTypeWithdrawal,
			Status:    model.TxStatusPending,
			Amount:    amount,
			Address:   address,
			Timestamp: model.Now(),
			Info:      map[string]interface{}{"dryRun": true},
		}, nil
	}
	return c.wallet.Withdraw(amount, address, subtractFee)
}
