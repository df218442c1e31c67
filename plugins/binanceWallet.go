package plugins

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
)

// ensure that binanceWallet conforms to the WalletAPI interface
var _ api.WalletAPI = &binanceWallet{}

// binance returns at most this many deposits or withdrawals per page
const binanceFundingLimit = 1000

// applyTime of a withdrawal is reported as a UTC date string
const binanceApplyTimeLayout = "2006-01-02 15:04:05"

// binanceDepositStatuses follows the capital deposit history, 6 is credited but locked for withdrawal
var binanceDepositStatuses = map[int]model.TxStatus{
	0: model.TxStatusPending,
	1: model.TxStatusOK,
	6: model.TxStatusOK,
}

// binanceWithdrawalStatuses follows the capital withdraw history: 0 email sent, 2 awaiting approval, 3 rejected, 4 processing
var binanceWithdrawalStatuses = map[int]model.TxStatus{
	0: model.TxStatusPending,
	1: model.TxStatusCanceled,
	2: model.TxStatusPending,
	3: model.TxStatusFailed,
	4: model.TxStatusPending,
	5: model.TxStatusFailed,
	6: model.TxStatusOK,
}

// binanceWallet is the funds management of the Binance exchange
type binanceWallet struct {
	*binanceBase
}

// makeBinanceWallet is a factory method
func makeBinanceWallet(base *binanceBase) *binanceWallet {
	return &binanceWallet{binanceBase: base}
}

// Balance impl.
func (b *binanceWallet) Balance(currency string) (*model.Balance, error) {
	account, e := b.client.NewGetAccountService().Do(context.Background())
	if e != nil {
		return nil, classifyBinanceError("account", e)
	}

	asset := b.ExchangeCurrency(currency)
	for _, balance := range account.Balances {
		if balance.Asset != asset {
			continue
		}
		free, e := binanceDecimal(balance.Free, "free", "account")
		if e != nil {
			return nil, e
		}
		locked, e := binanceDecimal(balance.Locked, "locked", "account")
		if e != nil {
			return nil, e
		}
		return model.MakeBalanceFromFree(
			*model.MakeMoney(free, currency),
			*model.MakeMoney(locked, currency),
			map[string]interface{}{"asset": balance.Asset, "free": balance.Free, "locked": balance.Locked},
		)
	}

	zero := *model.ZeroMoney(currency)
	return model.MakeBalance(zero, zero, map[string]interface{}{"message": "balance not found"})
}

// Deposits impl.
func (b *binanceWallet) Deposits(currency string, limit int) ([]model.Transaction, error) {
	txs, e := b.deposits(currency, nil, limit)
	if e != nil {
		return nil, e
	}
	sortTransactions(txs, true)
	return truncateTransactions(txs, limit), nil
}

// DepositsSince impl.
func (b *binanceWallet) DepositsSince(currency string, since model.Timestamp) ([]model.Transaction, error) {
	txs, e := b.deposits(currency, &since, 0)
	if e != nil {
		return nil, e
	}
	sortTransactions(txs, false)
	return txs, nil
}

// deposits reads pages by offset until a page comes back short, a positive limit stops after the first page
func (b *binanceWallet) deposits(currency string, since *model.Timestamp, limit int) ([]model.Transaction, error) {
	pageSize := binanceFundingLimit
	if limit > 0 && limit < pageSize {
		pageSize = limit
	}

	txs := []model.Transaction{}
	for offset := 0; ; offset += pageSize {
		service := b.client.NewListDepositsService().Coin(b.ExchangeCurrency(currency)).Offset(offset).Limit(pageSize)
		if since != nil {
			service = service.StartTime(since.AsInt64())
		}
		page, e := service.Do(context.Background())
		if e != nil {
			return nil, classifyBinanceError("deposit history", e)
		}
		for _, d := range page {
			tx, e := b.parseDeposit(d, currency)
			if e != nil {
				return nil, e
			}
			txs = append(txs, *tx)
		}
		if limit > 0 || len(page) < pageSize {
			return txs, nil
		}
	}
}

func (b *binanceWallet) parseDeposit(d *binance.Deposit, currency string) (*model.Transaction, error) {
	amount, e := binanceDecimal(d.Amount, "amount", "deposit history")
	if e != nil {
		return nil, e
	}
	status, ok := binanceDepositStatuses[d.Status]
	if !ok {
		status = model.TxStatusUnknown
	}

	return &model.Transaction{
		ID:        d.TxID,
		TxID:      d.TxID,
		Type:      model.TxTypeDeposit,
		Status:    status,
		Amount:    *model.MakeMoney(amount, currency),
		Address:   d.Address,
		Timestamp: model.MakeTimestamp(d.InsertTime),
		Info: map[string]interface{}{
			"coin":    d.Coin,
			"network": d.Network,
			"status":  d.Status,
		},
	}, nil
}

// Withdrawals impl.
func (b *binanceWallet) Withdrawals(currency string, limit int) ([]model.Transaction, error) {
	txs, e := b.withdrawals(currency, nil, limit)
	if e != nil {
		return nil, e
	}
	sortTransactions(txs, true)
	return truncateTransactions(txs, limit), nil
}

// WithdrawalsSince impl.
func (b *binanceWallet) WithdrawalsSince(currency string, since model.Timestamp) ([]model.Transaction, error) {
	txs, e := b.withdrawals(currency, &since, 0)
	if e != nil {
		return nil, e
	}
	sortTransactions(txs, false)
	return txs, nil
}

func (b *binanceWallet) withdrawals(currency string, since *model.Timestamp, limit int) ([]model.Transaction, error) {
	pageSize := binanceFundingLimit
	if limit > 0 && limit < pageSize {
		pageSize = limit
	}

	txs := []model.Transaction{}
	for offset := 0; ; offset += pageSize {
		service := b.client.NewListWithdrawsService().Coin(b.ExchangeCurrency(currency)).Offset(offset).Limit(pageSize)
		if since != nil {
			service = service.StartTime(since.AsInt64())
		}
		page, e := service.Do(context.Background())
		if e != nil {
			return nil, classifyBinanceError("withdraw history", e)
		}
		for _, w := range page {
			tx, e := b.parseWithdrawal(w, currency)
			if e != nil {
				return nil, e
			}
			txs = append(txs, *tx)
		}
		if limit > 0 || len(page) < pageSize {
			return txs, nil
		}
	}
}

func (b *binanceWallet) parseWithdrawal(w *binance.Withdraw, currency string) (*model.Transaction, error) {
	amount, e := binanceDecimal(w.Amount, "amount", "withdraw history")
	if e != nil {
		return nil, e
	}
	fee, e := binancePositiveMoney(w.TransactionFee, currency, "transactionFee", "withdraw history")
	if e != nil {
		return nil, e
	}
	applyTime, e := time.Parse(binanceApplyTimeLayout, w.ApplyTime)
	if e != nil {
		return nil, api.MakeErrParsef("withdraw history", "could not parse applyTime '%s' of withdrawal %s", w.ApplyTime, w.ID)
	}
	status, ok := binanceWithdrawalStatuses[w.Status]
	if !ok {
		status = model.TxStatusUnknown
	}

	return &model.Transaction{
		ID:        w.ID,
		TxID:      w.TxID,
		Type:      model.TxTypeWithdrawal,
		Status:    status,
		Amount:    *model.MakeMoney(amount, currency),
		Fee:       fee,
		Address:   w.Address,
		Timestamp: model.MakeTimestampFromTime(applyTime),
		Info: map[string]interface{}{
			"coin":    w.Coin,
			"network": w.Network,
			"status":  w.Status,
		},
	}, nil
}

// Withdraw impl.
func (b *binanceWallet) Withdraw(amount model.Money, address string, subtractFee bool) (*model.Transaction, error) {
	currency := amount.Currency()
	toSend := amount
	if subtractFee {
		fee, e := b.WithdrawalFee(currency)
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
	logBinance("submitting withdrawal: coin=%s, amount=%s, address=%s", b.ExchangeCurrency(currency), toSend.Amount(), address)

	resp, e := b.client.NewCreateWithdrawService().
		Coin(b.ExchangeCurrency(currency)).
		Address(address).
		Amount(toSend.Amount().String()).
		Do(context.Background())
	if e != nil {
		return nil, classifyBinanceError("withdraw", e)
	}

	return &model.Transaction{
		ID:        resp.ID,
		Type:      model.TxTypeWithdrawal,
		Status:    model.TxStatusPending,
		Amount:    toSend,
		Address:   address,
		Timestamp: model.Now(),
		Info:      map[string]interface{}{"id": resp.ID},
	}, nil
}

// WithdrawalFee impl.
func (b *binanceWallet) WithdrawalFee(currency string) (*model.Fee, error) {
	asset := b.ExchangeCurrency(currency)
	details, e := b.client.NewGetAssetDetailService().Asset(asset).Do(context.Background())
	if e != nil {
		return nil, classifyBinanceError("asset detail", e)
	}
	detail, ok := details[asset]
	if !ok {
		return nil, api.MakeErrNotSupported("withdrawal fee", fmt.Sprintf("binance reports no asset details for %s", asset))
	}
	return model.MakeFixedFee(*model.MakeMoney(decimal.NewFromFloat(detail.WithdrawFee), currency)), nil
}

// sortTransactions orders by timestamp, newest first when requested
func sortTransactions(txs []model.Transaction, newestFirst bool) {
	sort.SliceStable(txs, func(i, j int) bool {
		if newestFirst {
			return txs[i].Timestamp.AsInt64() > txs[j].Timestamp.AsInt64()
		}
		return txs[i].Timestamp.AsInt64() < txs[j].Timestamp.AsInt64()
	})
}

func truncateTransactions(txs []model.Transaction, limit int) []model.Transaction {
	if limit > 0 && len(txs) > limit {
		return txs[:limit]
	}
	return txs
}
