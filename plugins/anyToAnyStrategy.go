package plugins

import (
	"fmt"
	"time"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
	"github.com/lightyeario/tradingbots/support/logger"
	"github.com/lightyeario/tradingbots/support/utils"
)

const anyAddress = "Any"
const startTimestampKey = "start_timestamp"

// anyToAnyConfig contains the configuration params for this Strategy
type anyToAnyConfig struct {
	From struct {
		Currency string `yaml:"currency"`
		// only deposits from this address are converted, "Any" accepts all of them
		Address string `yaml:"address"`
	} `yaml:"from"`
	To struct {
		Currency string `yaml:"currency"`
		Withdraw bool   `yaml:"withdraw"`
		Address  string `yaml:"address"`
	} `yaml:"to"`
}

// String impl.
func (c anyToAnyConfig) String() string {
	return utils.StructString(c, 0, nil)
}

// anyToAnyDeposit tracks the conversion of one deposit, it is persisted after every step
type anyToAnyDeposit struct {
	Status            model.TxStatus `json:"status"`
	OriginalAmount    model.Money    `json:"original_amount"`
	ConvertedAmount   model.Money    `json:"converted_amount"`
	ConvertedValue    model.Money    `json:"converted_value"`
	OrderIDs          []string       `json:"order_ids"`
	WithdrawalPending bool           `json:"withdrawal_pending"`
}

// anyToAnyStrategy converts every deposit of one currency into another currency with market orders,
// and optionally withdraws the proceeds
type anyToAnyStrategy struct {
	x            *Exchange
	store        api.Store
	dryRun       bool
	config       *anyToAnyConfig
	pollInterval time.Duration
	sleepFn      func(time.Duration)
	l            logger.Logger

	// uninitialized
	client         *TradingClient
	side           model.Side
	deposits       map[string]*anyToAnyDeposit
	startTimestamp model.Timestamp
}

// ensure this implements api.Strategy
var _ api.Strategy = &anyToAnyStrategy{}

// makeAnyToAnyStrategy is a factory method
func makeAnyToAnyStrategy(x *Exchange, store api.Store, dryRun bool, config *anyToAnyConfig, l logger.Logger) (*anyToAnyStrategy, error) {
	if config.From.Currency == "" || config.To.Currency == "" {
		return nil, fmt.Errorf("from.currency and to.currency are required")
	}
	if config.To.Withdraw && config.To.Address == "" {
		return nil, fmt.Errorf("to.address is required when to.withdraw is set")
	}
	if config.From.Address == "" {
		config.From.Address = anyAddress
	}
	return &anyToAnyStrategy{
		x:            x,
		store:        store,
		dryRun:       dryRun,
		config:       config,
		pollInterval: time.Second,
		sleepFn:      time.Sleep,
		l:            l,
	}, nil
}

func (s *anyToAnyStrategy) depositsKey() string {
	return s.config.From.Currency + "_deposits"
}

// Setup impl
func (s *anyToAnyStrategy) Setup() error {
	market, e := s.x.ResolveMarket(s.config.From.Currency, s.config.To.Currency)
	if e != nil {
		return e
	}
	s.side = model.SideBuy
	if market.Base == s.config.From.Currency {
		s.side = model.SideSell
	}
	s.l.Infof("converting %s to %s with %s orders on %s", s.config.From.Currency, s.config.To.Currency, s.side, market)

	s.client, e = MakeTradingClient(s.x, *market, s.dryRun, s.l)
	if e != nil {
		return e
	}

	s.deposits = map[string]*anyToAnyDeposit{}
	if _, e := s.store.Get(s.depositsKey(), &s.deposits); e != nil {
		return fmt.Errorf("could not load stored deposits: %s", e)
	}

	found, e := s.store.Get(startTimestampKey, &s.startTimestamp)
	if e != nil {
		return fmt.Errorf("could not load start timestamp: %s", e)
	}
	if !found {
		s.startTimestamp = *model.Now()
		if e := s.store.Set(startTimestampKey, s.startTimestamp); e != nil {
			return fmt.Errorf("could not store start timestamp: %s", e)
		}
	}
	s.l.Infof("tracking %d stored deposits, ignoring deposits before %s", len(s.deposits), s.startTimestamp.AsTime())
	return nil
}

// Algorithm impl
func (s *anyToAnyStrategy) Algorithm() error {
	s.l.Infof("checking for new %s deposits", s.config.From.Currency)
	if e := s.updateDeposits(); e != nil {
		return e
	}
	s.l.Info("converting pending amounts")
	if e := s.processConversions(); e != nil {
		return e
	}
	if s.config.To.Withdraw {
		s.l.Info("processing pending withdrawals")
		return s.processWithdrawals()
	}
	return nil
}

// Abort impl, market orders leave nothing on the book to clean up
func (s *anyToAnyStrategy) Abort() error {
	s.l.Error("aborting strategy")
	return nil
}

func (s *anyToAnyStrategy) saveDeposits() error {
	if e := s.store.Set(s.depositsKey(), s.deposits); e != nil {
		return fmt.Errorf("could not store deposits: %s", e)
	}
	return nil
}

// fetchDeposits falls back to the recent deposits when the exchange cannot filter by time
func (s *anyToAnyStrategy) fetchDeposits() ([]model.Transaction, error) {
	currency := s.config.From.Currency
	txs, e := s.client.Wallet().DepositsSince(currency, s.startTimestamp)
	if e == nil {
		return txs, nil
	}
	if !api.IsNotSupported(e) {
		return nil, e
	}

	recent, e := s.client.Wallet().Deposits(currency, 0)
	if e != nil {
		return nil, e
	}
	txs = []model.Transaction{}
	for _, tx := range recent {
		if tx.Timestamp != nil && tx.Timestamp.AsInt64() >= s.startTimestamp.AsInt64() {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

func (s *anyToAnyStrategy) updateDeposits() error {
	txs, e := s.fetchDeposits()
	if e != nil {
		return fmt.Errorf("could not fetch deposits: %w", e)
	}

	for _, tx := range txs {
		if s.config.From.Address != anyAddress && tx.Address != s.config.From.Address {
			continue
		}
		if d, ok := s.deposits[tx.ID]; ok {
			if d.Status != tx.Status {
				s.l.Infof("deposit %s changed status from %s to %s", tx.ID, d.Status, tx.Status)
				d.Status = tx.Status
			}
			continue
		}
		s.l.Infof("new deposit %s of %s (%s)", tx.ID, tx.Amount, tx.Status)
		s.deposits[tx.ID] = &anyToAnyDeposit{
			Status:            tx.Status,
			OriginalAmount:    tx.Amount,
			ConvertedAmount:   *model.ZeroMoney(s.config.From.Currency),
			ConvertedValue:    *model.ZeroMoney(s.config.To.Currency),
			OrderIDs:          []string{},
			WithdrawalPending: s.config.To.Withdraw,
		}
	}
	return s.saveDeposits()
}

// remainingBase is what is left to convert of a deposit, as a base amount for the order
func (s *anyToAnyStrategy) remainingBase(d *anyToAnyDeposit) (*model.Money, error) {
	remaining, e := d.OriginalAmount.Sub(d.ConvertedAmount)
	if e != nil {
		return nil, e
	}
	if s.side.IsSell() {
		return remaining, nil
	}

	book, e := s.client.OrderBook()
	if e != nil {
		return nil, fmt.Errorf("could not fetch order book: %w", e)
	}
	return book.BaseAmountFor(s.side, *remaining)
}

func (s *anyToAnyStrategy) processConversions() error {
	for _, id := range utils.SortedKeys(s.depositsAsMap()) {
		d := s.deposits[id]
		if d.Status != model.TxStatusOK {
			continue
		}
		remaining, e := s.remainingBase(d)
		if e != nil {
			return e
		}
		ok, e := s.client.IsAboveMinOrderAmount(*remaining)
		if e != nil {
			return e
		}
		if !ok {
			continue
		}

		order, e := s.client.PlaceMarketOrder(s.side, *remaining.Truncate(model.MoneyDisplayPrecision))
		if e != nil {
			return fmt.Errorf("could not convert deposit %s: %w", id, e)
		}
		// persisted right away so a restart knows about the order
		d.OrderIDs = append(d.OrderIDs, order.ID)
		if e := s.saveDeposits(); e != nil {
			return e
		}

		s.l.Infof("%s market order %s placed, waiting for it to close", s.side, order.ID)
		order, e = s.waitForClose(order)
		if e != nil {
			return e
		}
		if e := s.applyFill(d, order); e != nil {
			return e
		}
		s.l.Infof("deposit %s converted %s into %s so far", id, d.ConvertedAmount, d.ConvertedValue)
	}
	return s.saveDeposits()
}

func (s *anyToAnyStrategy) waitForClose(order *model.Order) (*model.Order, error) {
	for order.Status != model.OrderStatusClosed {
		if order.Status.IsTerminal() {
			return nil, fmt.Errorf("market order %s ended as %s without filling", order.ID, order.Status)
		}
		s.sleepFn(s.pollInterval)

		var e error
		order, e = s.client.Order(order.ID)
		if e != nil {
			return nil, fmt.Errorf("could not poll order: %w", e)
		}
	}
	return order, nil
}

// applyFill books the spent and received amounts of a closed order on the deposit.
// The fee is taken from the received side when it is charged in that currency
func (s *anyToAnyStrategy) applyFill(d *anyToAnyDeposit, order *model.Order) error {
	if order.Filled == nil || order.Cost == nil {
		return fmt.Errorf("closed order %s is missing the filled amount or the cost", order.ID)
	}
	spent, received := order.Cost, order.Filled
	if s.side.IsSell() {
		spent, received = order.Filled, order.Cost
	}

	if order.Fee != nil && !order.Fee.IsZero() {
		var e error
		if order.Fee.Currency() == received.Currency() {
			received, e = received.Sub(*order.Fee)
		} else {
			spent, e = spent.Add(*order.Fee)
		}
		if e != nil {
			return fmt.Errorf("could not apply fee of order %s: %s", order.ID, e)
		}
	}

	convertedAmount, e := d.ConvertedAmount.Add(*spent)
	if e != nil {
		return e
	}
	convertedValue, e := d.ConvertedValue.Add(*received)
	if e != nil {
		return e
	}
	d.ConvertedAmount = *convertedAmount
	d.ConvertedValue = *convertedValue
	return nil
}

func (s *anyToAnyStrategy) processWithdrawals() error {
	for _, id := range utils.SortedKeys(s.depositsAsMap()) {
		d := s.deposits[id]
		if d.Status != model.TxStatusOK || !d.WithdrawalPending {
			continue
		}
		remaining, e := s.remainingBase(d)
		if e != nil {
			return e
		}
		// not fully converted yet
		if ok, e := s.client.IsAboveMinOrderAmount(*remaining); e != nil || ok {
			if e != nil {
				return e
			}
			continue
		}

		amount := d.ConvertedValue.Truncate(model.MoneyDisplayPrecision)
		balance, e := s.client.Wallet().Balance(s.config.To.Currency)
		if e != nil {
			return fmt.Errorf("could not fetch %s balance: %w", s.config.To.Currency, e)
		}
		if enough, e := amount.LessThanOrEqual(balance.Free); e != nil || !enough {
			if e != nil {
				return e
			}
			s.l.Warnf("available balance %s is not enough for the withdrawal of %s", balance.Free, amount)
			continue
		}

		tx, e := s.client.Withdraw(*amount, s.config.To.Address, true)
		if e != nil {
			return fmt.Errorf("could not withdraw %s: %w", amount, e)
		}
		if tx.Status != model.TxStatusPending {
			s.l.Warnf("withdrawal of %s for deposit %s failed with status %s", amount, id, tx.Status)
			continue
		}
		s.l.Infof("%s withdrawal %s requested for deposit %s", s.config.To.Currency, tx.ID, id)
		d.WithdrawalPending = false
		if e := s.saveDeposits(); e != nil {
			return e
		}
	}
	return nil
}

func (s *anyToAnyStrategy) depositsAsMap() map[string]interface{} {
	m := map[string]interface{}{}
	for id, d := range s.deposits {
		m[id] = d
	}
	return m
}
