package api

import (
	"github.com/lightyeario/tradingbots/model"
)

// ExchangeAPIKey specifies API credentials for an exchange
type ExchangeAPIKey struct {
	Key    string
	Secret string
}

// IsComplete returns true if both halves of the credential are set
func (k *ExchangeAPIKey) IsComplete() bool {
	return k != nil && k.Key != "" && k.Secret != ""
}

// CurrencyTranslator converts between the exchange's own asset codes and the common currency codes
type CurrencyTranslator interface {
	CommonCurrency(exchangeCode string) string
	ExchangeCurrency(commonCode string) string
}

// PublicAPI is the read-only market data of an exchange, it never needs credentials
type PublicAPI interface {
	CurrencyTranslator

	// Name is the registry name of the exchange, e.g. "kraken"
	Name() string

	// MarketID converts a market to the exchange-specific symbol
	MarketID(market model.Market) (string, error)

	Markets() ([]model.Market, error)

	Currencies() ([]string, error)

	Ticker(market model.Market) (*model.Ticker, error)

	OrderBook(market model.Market) (*model.OrderBook, error)

	/*
		Input:
			market - market to fetch trades for
			since - inclusive lower bound, in millis
		Output:
			a single page of trades in ascending timestamp order, at most TradesPageSize long
	*/
	TradesSince(market model.Market, since model.Timestamp) ([]model.Trade, error)
}

// WalletAPI is the authenticated funds management of an exchange
type WalletAPI interface {
	CurrencyTranslator

	Balance(currency string) (*model.Balance, error)

	// Deposits returns the most recent deposits first, limit <= 0 means no limit
	Deposits(currency string, limit int) ([]model.Transaction, error)

	DepositsSince(currency string, since model.Timestamp) ([]model.Transaction, error)

	// Withdrawals returns the most recent withdrawals first, limit <= 0 means no limit
	Withdrawals(currency string, limit int) ([]model.Transaction, error)

	WithdrawalsSince(currency string, since model.Timestamp) ([]model.Transaction, error)

	/*
		Input:
			amount - amount to withdraw, the currency is taken from here
			address - destination address
			subtractFee - when true the withdrawal fee is taken out of amount instead of added on top
		Output:
			the pending withdrawal
	*/
	Withdraw(amount model.Money, address string, subtractFee bool) (*model.Transaction, error)

	WithdrawalFee(currency string) (*model.Fee, error)
}

// TradingAPI is the authenticated order management of an exchange, scoped to one market
type TradingAPI interface {
	Market() model.Market

	Order(id string) (*model.Order, error)

	// OpenOrders returns open orders, limit <= 0 means no limit
	OpenOrders(limit int) ([]model.Order, error)

	// ClosedOrders returns closed orders, limit <= 0 means no limit
	ClosedOrders(limit int) ([]model.Order, error)

	ClosedOrdersSince(since model.Timestamp) ([]model.Order, error)

	CancelOrder(id string) error

	CancelOrders(ids []string) error

	// PlaceOrder submits an order; price is required for limit orders and ignored for market orders
	PlaceOrder(side model.Side, orderType model.OrderType, amount model.Money, price *model.Money) (*model.Order, error)
}

// OrderConstraints is implemented by trading adapters that know the smallest order the exchange accepts
type OrderConstraints interface {
	// MinOrderAmount is denominated in the base currency of the market, nil when unknown
	MinOrderAmount() *model.Money
}

// TradesPageSize is the largest number of trades returned by a single TradesSince call
const TradesPageSize = 1000
