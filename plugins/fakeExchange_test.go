package plugins

import (
	"fmt"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
)

// in-memory capability adapters shared by the facade, client and strategy tests

type fakePublic struct {
	name    string
	markets []model.Market
	tickers map[string]*model.Ticker
	books   map[string]*model.OrderBook
	calls   int
}

var _ api.PublicAPI = &fakePublic{}

func makeFakePublic(name string, markets ...model.Market) *fakePublic {
	return &fakePublic{
		name:    name,
		markets: markets,
		tickers: map[string]*model.Ticker{},
		books:   map[string]*model.OrderBook{},
	}
}

func (f *fakePublic) withTicker(market model.Market, bid string, ask string) *fakePublic {
	t, _ := model.MakeTicker(market, model.TickerParams{
		Bid: model.MustMakeMoney(bid, market.Quote),
		Ask: model.MustMakeMoney(ask, market.Quote),
	})
	f.tickers[market.Code()] = t
	return f
}

func (f *fakePublic) withBook(market model.Market, askPrice string, bidPrice string, depth string) *fakePublic {
	f.books[market.Code()] = model.MakeOrderBook(market,
		[]model.PriceLevel{{Price: *model.MustMakeMoney(askPrice, market.Quote), Amount: *model.MustMakeMoney(depth, market.Base)}},
		[]model.PriceLevel{{Price: *model.MustMakeMoney(bidPrice, market.Quote), Amount: *model.MustMakeMoney(depth, market.Base)}},
	)
	return f
}

func (f *fakePublic) CommonCurrency(exchangeCode string) string { return exchangeCode }
func (f *fakePublic) ExchangeCurrency(commonCode string) string { return commonCode }
func (f *fakePublic) Name() string                              { return f.name }

func (f *fakePublic) MarketID(market model.Market) (string, error) {
	return market.Code(), nil
}

func (f *fakePublic) Markets() ([]model.Market, error) {
	f.calls++
	return f.markets, nil
}

func (f *fakePublic) Currencies() ([]string, error) {
	return nil, api.MakeErrNotSupported("currencies", "fake")
}

func (f *fakePublic) Ticker(market model.Market) (*model.Ticker, error) {
	if t, ok := f.tickers[market.Code()]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("no ticker for %s", market)
}

func (f *fakePublic) OrderBook(market model.Market) (*model.OrderBook, error) {
	if b, ok := f.books[market.Code()]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("no order book for %s", market)
}

func (f *fakePublic) TradesSince(market model.Market, since model.Timestamp) ([]model.Trade, error) {
	return []model.Trade{}, nil
}

type fakeWithdrawal struct {
	amount      model.Money
	address     string
	subtractFee bool
}

type fakeWallet struct {
	balances    map[string]string
	used        map[string]string
	deposits    []model.Transaction
	withdrawals []fakeWithdrawal
	// behave like kraken, which only lists recent deposits
	depositsSinceUnsupported bool
}

var _ api.WalletAPI = &fakeWallet{}

func makeFakeWallet(balances map[string]string) *fakeWallet {
	return &fakeWallet{balances: balances, used: map[string]string{}}
}

func (f *fakeWallet) CommonCurrency(exchangeCode string) string { return exchangeCode }
func (f *fakeWallet) ExchangeCurrency(commonCode string) string { return commonCode }

func (f *fakeWallet) Balance(currency string) (*model.Balance, error) {
	total, ok := f.balances[currency]
	if !ok {
		total = "0"
	}
	used, ok := f.used[currency]
	if !ok {
		used = "0"
	}
	return model.MakeBalance(*model.MustMakeMoney(total, currency), *model.MustMakeMoney(used, currency), nil)
}

func (f *fakeWallet) Deposits(currency string, limit int) ([]model.Transaction, error) {
	return f.filterDeposits(currency, 0), nil
}

func (f *fakeWallet) DepositsSince(currency string, since model.Timestamp) ([]model.Transaction, error) {
	if f.depositsSinceUnsupported {
		return nil, api.MakeErrNotSupported("deposits since", "fake")
	}
	return f.filterDeposits(currency, since), nil
}

func (f *fakeWallet) filterDeposits(currency string, since model.Timestamp) []model.Transaction {
	txs := []model.Transaction{}
	for _, tx := range f.deposits {
		if tx.Currency() == currency && (tx.Timestamp == nil || tx.Timestamp.AsInt64() >= since.AsInt64()) {
			txs = append(txs, tx)
		}
	}
	return txs
}

func (f *fakeWallet) Withdrawals(currency string, limit int) ([]model.Transaction, error) {
	return []model.Transaction{}, nil
}

func (f *fakeWallet) WithdrawalsSince(currency string, since model.Timestamp) ([]model.Transaction, error) {
	return []model.Transaction{}, nil
}

func (f *fakeWallet) Withdraw(amount model.Money, address string, subtractFee bool) (*model.Transaction, error) {
	f.withdrawals = append(f.withdrawals, fakeWithdrawal{amount: amount, address: address, subtractFee: subtractFee})
	return &model.Transaction{
		ID:      fmt.Sprintf("W%d", len(f.withdrawals)),
		Type:    model.TxTypeWithdrawal,
		Status:  model.TxStatusPending,
		Amount:  amount,
		Address: address,
	}, nil
}

func (f *fakeWallet) WithdrawalFee(currency string) (*model.Fee, error) {
	return nil, api.MakeErrNotSupported("withdrawal fee", "fake")
}

type fakePlacement struct {
	side      model.Side
	orderType model.OrderType
	amount    model.Money
	price     *model.Money
}

type fakeTrading struct {
	market         model.Market
	minAmount      *model.Money
	fillPrice      string
	open           []model.Order
	orders         map[string]*model.Order
	placed         []fakePlacement
	canceled       []string
	batchCanceled  [][]string
	batchSupported bool
}

var _ api.TradingAPI = &fakeTrading{}
var _ api.OrderConstraints = &fakeTrading{}

func makeFakeTrading(market model.Market) *fakeTrading {
	return &fakeTrading{
		market: market,
		orders: map[string]*model.Order{},
	}
}

func (f *fakeTrading) withOpenOrders(ids ...string) *fakeTrading {
	for _, id := range ids {
		f.open = append(f.open, model.Order{ID: id, Market: f.market, Status: model.OrderStatusOpen})
	}
	return f
}

func (f *fakeTrading) Market() model.Market         { return f.market }
func (f *fakeTrading) MinOrderAmount() *model.Money { return f.minAmount }

func (f *fakeTrading) Order(id string) (*model.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, fmt.Errorf("unknown order %s", id)
}

func (f *fakeTrading) OpenOrders(limit int) ([]model.Order, error) {
	return f.open, nil
}

func (f *fakeTrading) ClosedOrders(limit int) ([]model.Order, error) {
	return []model.Order{}, nil
}

func (f *fakeTrading) ClosedOrdersSince(since model.Timestamp) ([]model.Order, error) {
	return []model.Order{}, nil
}

func (f *fakeTrading) CancelOrder(id string) error {
	f.canceled = append(f.canceled, id)
	return nil
}

func (f *fakeTrading) CancelOrders(ids []string) error {
	if !f.batchSupported {
		return api.MakeErrNotSupported("cancel orders", "fake")
	}
	f.batchCanceled = append(f.batchCanceled, ids)
	return nil
}

// PlaceOrder keeps limit orders open and fills market orders at fillPrice
func (f *fakeTrading) PlaceOrder(side model.Side, orderType model.OrderType, amount model.Money, price *model.Money) (*model.Order, error) {
	f.placed = append(f.placed, fakePlacement{side: side, orderType: orderType, amount: amount, price: price})
	p := model.OrderParams{
		ID:     fmt.Sprintf("O%d", len(f.placed)),
		Market: f.market,
		Type:   orderType,
		Side:   side,
		Status: model.OrderStatusOpen,
		Amount: &amount,
		Filled: model.ZeroMoney(f.market.Base),
		Price:  price,
	}
	if orderType.IsMarket() {
		fill := model.MustMakeMoney(f.fillPrice, f.market.Quote)
		p.Status = model.OrderStatusClosed
		p.Filled = &amount
		p.Price = fill
		p.Cost = model.MakeMoney(amount.Amount().Mul(fill.Amount()), f.market.Quote)
		p.Fee = model.ZeroMoney(f.market.Quote)
	}
	o, e := model.MakeOrder(p)
	if e != nil {
		return nil, e
	}
	f.orders[o.ID] = o
	return o, nil
}
