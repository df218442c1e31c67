package plugins

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
	"github.com/lightyeario/tradingbots/support/networking"
)

// ensure that krakenWallet conforms to the WalletAPI interface
var _ api.WalletAPI = &krakenWallet{}

// currency2Address2Key maps a withdrawal address to the name of the withdrawal key registered on kraken
type currency2Address2Key map[string]map[string]string

// getKey falls back to the address itself so a key name can be passed directly
func (m currency2Address2Key) getKey(currency string, address string) string {
	if address2Key, ok := m[currency]; ok {
		if key, ok := address2Key[address]; ok {
			return key
		}
	}
	return address
}

// krakenDepositMethods and krakenWithdrawalMethods name the funding method kraken expects per currency
var krakenDepositMethods = map[string]string{
	"BCH": "Bitcoin Cash",
	"BTC": "Bitcoin",
	"ETH": "Ether (Hex)",
	"LTC": "Litecoin",
}

var krakenWithdrawalMethods = map[string]string{
	"BCH": "Bitcoin Cash",
	"BTC": "Bitcoin",
	"ETH": "Ether",
	"LTC": "Litecoin",
}

var krakenWithdrawalFees = map[string]string{
	"BTC": "0.0005",
	"ETH": "0.01",
	"LTC": "0.01",
}

// krakenTxStatuses follows the funding status values, "Settled" is not final until "Success"
var krakenTxStatuses = map[string]model.TxStatus{
	"Initial": model.TxStatusPending,
	"Pending": model.TxStatusPending,
	"Settled": model.TxStatusPending,
	"Success": model.TxStatusOK,
	"Failure": model.TxStatusFailed,
}

// krakenWallet is the funds management of the Kraken exchange
type krakenWallet struct {
	*krakenBase
	withdrawKeys currency2Address2Key
}

// makeKrakenWallet is a factory method
func makeKrakenWallet(base *krakenBase, withdrawKeys currency2Address2Key) *krakenWallet {
	if withdrawKeys == nil {
		withdrawKeys = currency2Address2Key{}
	}
	return &krakenWallet{
		krakenBase:   base,
		withdrawKeys: withdrawKeys,
	}
}

// Balance impl.
func (k *krakenWallet) Balance(currency string) (*model.Balance, error) {
	m, e := k.queryMap("Balance", nil)
	if e != nil {
		return nil, e
	}

	asset := k.ExchangeCurrency(currency)
	if !networking.HasField(m, asset) {
		zero := *model.ZeroMoney(currency)
		return model.MakeBalance(zero, zero, map[string]interface{}{"message": "balance not found"})
	}
	total, e := networking.ParseMoney(m, asset, currency, "Balance")
	if e != nil {
		return nil, e
	}

	// the open orders are read with a second call, so used can be slightly staler or fresher than total
	used, e := k.usedBalance(currency)
	if e != nil {
		return nil, e
	}
	return model.MakeBalance(*total, *used, map[string]interface{}{asset: m[asset]})
}

// usedBalance is the amount of currency committed to open orders in any market
func (k *krakenWallet) usedBalance(currency string) (*model.Money, error) {
	pairs, e := k.assetPairs()
	if e != nil {
		return nil, e
	}
	orders, e := k.fetchOpenOrders(pairs)
	if e != nil {
		return nil, e
	}

	used := decimal.Zero
	for _, o := range orders {
		if o.Amount == nil {
			continue
		}
		if o.Side.IsSell() && o.Market.Base == currency {
			used = used.Add(o.Amount.Amount())
		} else if o.Side.IsBuy() && o.Market.Quote == currency {
			if o.Price == nil {
				logKraken("skipping open order %s when computing used %s, it has no price", o.ID, currency)
				continue
			}
			used = used.Add(o.Amount.Amount().Mul(o.Price.Amount()))
		}
	}
	return model.MakeMoney(used, currency), nil
}

// Deposits impl.
func (k *krakenWallet) Deposits(currency string, limit int) ([]model.Transaction, error) {
	method, ok := krakenDepositMethods[currency]
	if !ok {
		return nil, api.MakeErrNotSupported("deposits", fmt.Sprintf("no kraken deposit method is known for %s", currency))
	}
	return k.fundingStatus("DepositStatus", currency, method, model.TxTypeDeposit, limit)
}

// DepositsSince impl.
func (k *krakenWallet) DepositsSince(currency string, since model.Timestamp) ([]model.Transaction, error) {
	return nil, api.MakeErrNotSupported("deposits since", "Kraken only returns recent deposits and withdrawals")
}

// Withdrawals impl.
func (k *krakenWallet) Withdrawals(currency string, limit int) ([]model.Transaction, error) {
	method, ok := krakenWithdrawalMethods[currency]
	if !ok {
		return nil, api.MakeErrNotSupported("withdrawals", fmt.Sprintf("no kraken withdrawal method is known for %s", currency))
	}
	return k.fundingStatus("WithdrawStatus", currency, method, model.TxTypeWithdrawal, limit)
}

// WithdrawalsSince impl.
func (k *krakenWallet) WithdrawalsSince(currency string, since model.Timestamp) ([]model.Transaction, error) {
	return nil, api.MakeErrNotSupported("withdrawals since", "Kraken only returns recent deposits and withdrawals")
}

func (k *krakenWallet) fundingStatus(apiMethod string, currency string, method string, txType model.TxType, limit int) ([]model.Transaction, error) {
	list, e := k.queryList(apiMethod, map[string]string{
		"asset":  k.ExchangeCurrency(currency),
		"method": method,
	})
	if e != nil {
		return nil, e
	}

	txs := []model.Transaction{}
	for i, elem := range list {
		m, ok := elem.(map[string]interface{})
		if !ok {
			return nil, api.MakeErrParsef(apiMethod, "could not parse element %d of type %s", i, reflect.TypeOf(elem))
		}
		tx, e := parseKrakenTransaction(m, currency, txType, apiMethod)
		if e != nil {
			return nil, e
		}
		txs = append(txs, *tx)
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.AsInt64() > txs[j].Timestamp.AsInt64()
	})
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

// krakenRawTransaction is an element of DepositStatus or WithdrawStatus
type krakenRawTransaction struct {
	Method     string  `mapstructure:"method"`
	RefID      string  `mapstructure:"refid"`
	TxID       string  `mapstructure:"txid"`
	Info       string  `mapstructure:"info"`
	Amount     string  `mapstructure:"amount"`
	Fee        string  `mapstructure:"fee"`
	Time       float64 `mapstructure:"time"`
	Status     string  `mapstructure:"status"`
	StatusProp string  `mapstructure:"status-prop"`
}

func parseKrakenTransaction(m map[string]interface{}, currency string, txType model.TxType, method string) (*model.Transaction, error) {
	var raw krakenRawTransaction
	decoder, e := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &raw,
	})
	if e != nil {
		return nil, e
	}
	if e := decoder.Decode(m); e != nil {
		return nil, api.MakeErrParsef(method, "could not decode transaction: %s", e)
	}

	amount, e := krakenOptionalMoney(raw.Amount, currency, method, "amount")
	if e != nil {
		return nil, e
	}
	if amount == nil {
		return nil, api.MakeErrParsef(method, "transaction %s has no amount", raw.RefID)
	}
	fee, e := krakenOptionalMoney(raw.Fee, currency, method, "fee")
	if e != nil {
		return nil, e
	}

	status, ok := krakenTxStatuses[raw.Status]
	if !ok {
		return nil, api.MakeErrParsef(method, "unknown status '%s' on transaction %s", raw.Status, raw.RefID)
	}
	if raw.StatusProp == "canceled" || raw.StatusProp == "cancel-pending" {
		status = model.TxStatusCanceled
	}

	return &model.Transaction{
		ID:        raw.RefID,
		TxID:      raw.TxID,
		Type:      txType,
		Status:    status,
		Amount:    *amount,
		Fee:       fee,
		Address:   raw.Info,
		Timestamp: model.MakeTimestampFromSeconds(raw.Time),
		Info:      m,
	}, nil
}

// Withdraw impl.
func (k *krakenWallet) Withdraw(amount model.Money, address string, subtractFee bool) (*model.Transaction, error) {
	currency := amount.Currency()
	toSend := amount
	if subtractFee {
		fee, e := k.WithdrawalFee(currency)
		if e != nil {
			return nil, e
		}
		net, e := fee.NetOf(amount)
		if e != nil {
			return nil, e
		}
		if !net.IsPositive() {
			return nil, fmt.Errorf("amount %s does not cover the withdrawal fee %s", amount, fee)
		}
		toSend = *net
	}

	m, e := k.queryMap("Withdraw", map[string]string{
		"asset":  k.ExchangeCurrency(currency),
		"key":    k.withdrawKeys.getKey(currency, address),
		"amount": toSend.Amount().String(),
	})
	if e != nil {
		return nil, e
	}
	refid, e := networking.ParseString(m, "refid", "Withdraw")
	if e != nil {
		return nil, e
	}

	return &model.Transaction{
		ID:        refid,
		Type:      model.TxTypeWithdrawal,
		Status:    model.TxStatusPending,
		Amount:    toSend,
		Address:   address,
		Timestamp: model.Now(),
		Info:      m,
	}, nil
}

// WithdrawalFee impl.
func (k *krakenWallet) WithdrawalFee(currency string) (*model.Fee, error) {
	fee, ok := krakenWithdrawalFees[currency]
	if !ok {
		return nil, api.MakeErrNotSupported("withdrawal fee", fmt.Sprintf("no kraken withdrawal fee is known for %s", currency))
	}
	return model.MakeFixedFee(*model.MustMakeMoney(fee, currency)), nil
}
