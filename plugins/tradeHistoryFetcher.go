package plugins

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
	"github.com/lightyeario/tradingbots/support/logger"
)

const tradesStoreName = "trades"

// tradeFetchFn fetches one page of trades at or after since, in ascending order
type tradeFetchFn func(market model.Market, since model.Timestamp) ([]model.Trade, error)

// tradeRecord is what is persisted per trade. The sentinel marks the start of the requested range
// so that a later call can tell whether its own start lies inside what is already stored
type tradeRecord struct {
	Trade    model.Trade `json:"trade"`
	Sentinel bool        `json:"sentinel,omitempty"`
}

// TradeHistoryFetcher keeps the trade history of a market in the store and tops it up from the exchange
type TradeHistoryFetcher struct {
	store    api.Store
	fetchFn  tradeFetchFn
	pageSize int
	l        logger.Logger
}

// MakeTradeHistoryFetcher is a factory method
func MakeTradeHistoryFetcher(store api.Store, public api.PublicAPI, l logger.Logger) *TradeHistoryFetcher {
	return makeTradeHistoryFetcher(store, public.TradesSince, api.TradesPageSize, l)
}

func makeTradeHistoryFetcher(store api.Store, fetchFn tradeFetchFn, pageSize int, l logger.Logger) *TradeHistoryFetcher {
	return &TradeHistoryFetcher{
		store:    store,
		fetchFn:  fetchFn,
		pageSize: pageSize,
		l:        l,
	}
}

// TradesSince returns every trade of the market at or after since in ascending order.
// Progress is persisted after every page, so a failed call can simply be repeated
func (f *TradeHistoryFetcher) TradesSince(market model.Market, since model.Timestamp) ([]model.Trade, error) {
	stored, e := f.load(market)
	if e != nil {
		return nil, e
	}

	cursor := since
	records := []tradeRecord{}
	if len(stored) > 0 {
		first := stored[0].Trade.Timestamp.AsInt64()
		last := stored[len(stored)-1].Trade.Timestamp.AsInt64()
		if first < since.AsInt64() && since.AsInt64() < last {
			f.l.Infof("resuming %d stored trades of %s from %s", len(stored), market, stored[len(stored)-1].Trade.Timestamp)
			cursor = stored[len(stored)-1].Trade.Timestamp
			for _, r := range stored {
				if !r.Sentinel && r.Trade.Timestamp.AsInt64() >= since.AsInt64() {
					records = append(records, r)
				}
			}
		} else {
			f.l.Infof("discarding %d stored trades of %s, they do not cover %s", len(stored), market, since)
		}
	}
	records = append([]tradeRecord{makeSentinelRecord(market, since)}, records...)

	seen := map[string]bool{}
	for _, r := range records {
		if !r.Sentinel {
			seen[r.Trade.ID] = true
		}
	}

	for {
		page, e := f.fetchFn(market, cursor)
		if e != nil {
			return nil, errors.Wrapf(e, "could not fetch trades of %s since %s", market, cursor)
		}

		added := 0
		for _, t := range page {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			records = append(records, tradeRecord{Trade: t})
			added++
		}
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Trade.Timestamp.AsInt64() < records[j].Trade.Timestamp.AsInt64()
		})

		if len(page) > 0 {
			cursor = *model.MakeTimestamp(maxTradeTimestamp(page).AsInt64() + 1)
		}
		if e := f.store.HSet(tradesStoreName, market.Code(), records); e != nil {
			return nil, fmt.Errorf("could not store trades of %s: %s", market, e)
		}
		f.l.Infof("fetched %d trades of %s (%d new), %d stored", len(page), market, added, len(records)-1)

		// an empty page is a valid answer for a quiet interval, only a short page means we are done
		if len(page) < f.pageSize {
			break
		}
	}

	trades := []model.Trade{}
	for _, r := range records {
		if !r.Sentinel && r.Trade.Timestamp.AsInt64() >= since.AsInt64() {
			trades = append(trades, r.Trade)
		}
	}
	return trades, nil
}

// Reset forgets the stored trade history of the market
func (f *TradeHistoryFetcher) Reset(market model.Market) error {
	return f.store.HDel(tradesStoreName, market.Code())
}

func (f *TradeHistoryFetcher) load(market model.Market) ([]tradeRecord, error) {
	var stored []tradeRecord
	found, e := f.store.HGet(tradesStoreName, market.Code(), &stored)
	if e != nil {
		return nil, fmt.Errorf("could not load stored trades of %s: %s", market, e)
	}
	if !found {
		return nil, nil
	}

	for i := 1; i < len(stored); i++ {
		if stored[i].Trade.Timestamp.AsInt64() < stored[i-1].Trade.Timestamp.AsInt64() {
			return nil, fmt.Errorf("stored trades of %s are not sorted at index %d (%s after %s), the store is corrupt",
				market, i, stored[i].Trade.Timestamp, stored[i-1].Trade.Timestamp)
		}
	}
	return stored, nil
}

func makeSentinelRecord(market model.Market, since model.Timestamp) tradeRecord {
	return tradeRecord{
		Trade: model.Trade{
			Market:    market,
			Price:     *model.ZeroMoney(market.Quote),
			Amount:    *model.ZeroMoney(market.Base),
			Timestamp: since,
		},
		Sentinel: true,
	}
}

func maxTradeTimestamp(trades []model.Trade) model.Timestamp {
	max := trades[0].Timestamp
	for _, t := range trades[1:] {
		if t.Timestamp.AsInt64() > max.AsInt64() {
			max = t.Timestamp
		}
	}
	return max
}
