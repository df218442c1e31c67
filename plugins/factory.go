package plugins

import (
	"fmt"
	"log"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
	"github.com/lightyeario/tradingbots/support/logger"
)

// strategyFactoryData is a data container that has all the information needed to make a strategy
type strategyFactoryData struct {
	exchange        *Exchange
	store           api.Store
	stratConfigPath string
	dryRun          bool
	oxrAppID        string
	l               logger.Logger
}

// StrategyContainer contains the strategy factory method along with some metadata
type StrategyContainer struct {
	SortOrder   uint8
	Description string
	NeedsConfig bool
	Complexity  string
	makeFn      func(strategyFactoryData strategyFactoryData) (api.Strategy, error)
}

// strategies is a map of all the strategies available
var strategies = map[string]StrategyContainer{
	"relative_orders": {
		SortOrder:   0,
		Description: "Keeps a buy and a sell limit order at fixed multiples of the mid price of the market",
		NeedsConfig: true,
		Complexity:  "Beginner",
		makeFn: func(strategyFactoryData strategyFactoryData) (api.Strategy, error) {
			var cfg relativeOrdersConfig
			if e := readStrategyConfig(strategyFactoryData.stratConfigPath, &cfg); e != nil {
				return nil, e
			}
			client, e := makeStrategyTradingClient(strategyFactoryData, cfg.Market)
			if e != nil {
				return nil, e
			}
			return makeRelativeOrdersStrategy(client, &cfg, strategyFactoryData.l)
		},
	},
	"simple_limit": {
		SortOrder:   1,
		Description: "Quotes the market around the bid and ask of a reference market on another exchange, converting fiat prices if needed",
		NeedsConfig: true,
		Complexity:  "Intermediate",
		makeFn: func(strategyFactoryData strategyFactoryData) (api.Strategy, error) {
			var cfg simpleLimitConfig
			if e := readStrategyConfig(strategyFactoryData.stratConfigPath, &cfg); e != nil {
				return nil, e
			}
			client, e := makeStrategyTradingClient(strategyFactoryData, cfg.Market)
			if e != nil {
				return nil, e
			}
			reference, referenceMarket, e := makeReference(cfg.Reference)
			if e != nil {
				return nil, e
			}

			var converter api.RateConverter
			if len(cfg.FixedRates) > 0 {
				converter, e = MakeFixedFeed(cfg.FixedRates)
			} else {
				converter, e = MakeFiatFeedOxr(strategyFactoryData.oxrAppID, 0)
			}
			if e != nil {
				return nil, fmt.Errorf("cannot make rate converter: %s", e)
			}
			return makeSimpleLimitStrategy(client, reference, *referenceMarket, converter, &cfg, strategyFactoryData.l)
		},
	},
	"any_to_any": {
		SortOrder:   2,
		Description: "Converts every deposit of one currency into another with market orders and optionally withdraws the proceeds",
		NeedsConfig: true,
		Complexity:  "Intermediate",
		makeFn: func(strategyFactoryData strategyFactoryData) (api.Strategy, error) {
			var cfg anyToAnyConfig
			if e := readStrategyConfig(strategyFactoryData.stratConfigPath, &cfg); e != nil {
				return nil, e
			}
			return makeAnyToAnyStrategy(strategyFactoryData.exchange, strategyFactoryData.store, strategyFactoryData.dryRun, &cfg, strategyFactoryData.l)
		},
	},
	"trade_history": {
		SortOrder:   3,
		Description: "Keeps the trade history of a reference market in the store and reports its volume weighted average price",
		NeedsConfig: true,
		Complexity:  "Beginner",
		makeFn: func(strategyFactoryData strategyFactoryData) (api.Strategy, error) {
			var cfg tradeHistoryConfig
			if e := readStrategyConfig(strategyFactoryData.stratConfigPath, &cfg); e != nil {
				return nil, e
			}
			reference, referenceMarket, e := makeReference(cfg.Reference)
			if e != nil {
				return nil, e
			}
			fetcher := MakeTradeHistoryFetcher(strategyFactoryData.store, reference, strategyFactoryData.l)
			return makeTradeHistoryStrategy(fetcher, *referenceMarket, &cfg, strategyFactoryData.l)
		},
	},
}

func makeStrategyTradingClient(strategyFactoryData strategyFactoryData, marketString string) (*TradingClient, error) {
	market, e := model.MarketFromString(marketString)
	if e != nil {
		return nil, fmt.Errorf("invalid market in strategy config: %s", e)
	}
	return MakeTradingClient(strategyFactoryData.exchange, *market, strategyFactoryData.dryRun, strategyFactoryData.l)
}

// makeReference builds the public data adapter of a reference market, no credentials are involved
func makeReference(cfg referenceConfig) (api.PublicAPI, *model.Market, error) {
	x, e := MakeExchange(cfg.Exchange, nil, ExchangeOptions{})
	if e != nil {
		return nil, nil, fmt.Errorf("cannot make reference exchange: %s", e)
	}
	market, e := model.MarketFromString(cfg.Market)
	if e != nil {
		return nil, nil, fmt.Errorf("invalid reference market: %s", e)
	}
	return x.Public(), market, nil
}

// MakeStrategy makes a strategy
func MakeStrategy(
	exchange *Exchange,
	store api.Store,
	strategy string,
	stratConfigPath string,
	dryRun bool,
	oxrAppID string,
	l logger.Logger,
) (api.Strategy, error) {
	log.Printf("Making strategy: %s\n", strategy)
	if strat, ok := strategies[strategy]; ok {
		if strat.NeedsConfig && stratConfigPath == "" {
			return nil, fmt.Errorf("the '%s' strategy needs a config file", strategy)
		}
		s, e := strat.makeFn(strategyFactoryData{
			exchange:        exchange,
			store:           store,
			stratConfigPath: stratConfigPath,
			dryRun:          dryRun,
			oxrAppID:        oxrAppID,
			l:               l,
		})
		if e != nil {
			return nil, fmt.Errorf("cannot make '%s' strategy: %s", strategy, e)
		}
		return s, nil
	}

	return nil, fmt.Errorf("invalid strategy type: %s", strategy)
}

// Strategies returns the list of strategies along with metadata
func Strategies() map[string]StrategyContainer {
	return strategies
}

// ExchangeOptions carries the optional settings of an exchange
type ExchangeOptions struct {
	// BaseURL overrides the REST endpoint, only honored by binance
	BaseURL string
	// WithdrawKeys maps currency -> address -> name of the withdrawal key registered on the exchange
	WithdrawKeys map[string]map[string]string
}

// exchangeFactoryData is a data container that has all the information needed to make an exchange
type exchangeFactoryData struct {
	apiKey  *api.ExchangeAPIKey
	options ExchangeOptions
}

// ExchangeContainer contains the exchange factory method along with some metadata
type ExchangeContainer struct {
	SortOrder    uint8
	Description  string
	TradeEnabled bool
	makeFn       func(exchangeFactoryData exchangeFactoryData) exchangeAdapters
}

// exchanges is a map of all the exchange integrations available
var exchanges = map[string]ExchangeContainer{
	krakenName: {
		SortOrder:    0,
		Description:  "Kraken is a popular centralized cryptocurrency exchange (https://www.kraken.com/)",
		TradeEnabled: true,
		makeFn: func(exchangeFactoryData exchangeFactoryData) exchangeAdapters {
			base := makeKrakenBase(exchangeFactoryData.apiKey)
			return exchangeAdapters{
				public: makeKrakenPublic(base),
				makeWalletFn: func() api.WalletAPI {
					return makeKrakenWallet(base, currency2Address2Key(exchangeFactoryData.options.WithdrawKeys))
				},
				makeTradingFn: func(market model.Market) api.TradingAPI {
					return makeKrakenTrading(base, market)
				},
			}
		},
	},
	binanceName: {
		SortOrder:    1,
		Description:  "Binance is a popular centralized cryptocurrency exchange (https://www.binance.com/), balances and trading only",
		TradeEnabled: true,
		makeFn: func(exchangeFactoryData exchangeFactoryData) exchangeAdapters {
			base := makeBinanceBase(exchangeFactoryData.apiKey, exchangeFactoryData.options.BaseURL)
			return exchangeAdapters{
				public: makeBinancePublic(base),
				makeWalletFn: func() api.WalletAPI {
					return makeBinanceWallet(base)
				},
				makeTradingFn: func(market model.Market) api.TradingAPI {
					return makeBinanceTrading(base, market)
				},
			}
		},
	},
}

// MakeExchange is a factory method to make an exchange based on a given type.
// A nil or incomplete apiKey still gives access to public data
func MakeExchange(exchangeType string, apiKey *api.ExchangeAPIKey, options ExchangeOptions) (*Exchange, error) {
	exchange, ok := exchanges[exchangeType]
	if !ok {
		return nil, fmt.Errorf("invalid exchange type: %s", exchangeType)
	}
	if apiKey.IsComplete() && !exchange.TradeEnabled {
		return nil, fmt.Errorf("trading is not enabled on this exchange: %s", exchangeType)
	}

	adapters := exchange.makeFn(exchangeFactoryData{
		apiKey:  apiKey,
		options: options,
	})
	return makeExchange(exchangeType, apiKey, adapters), nil
}

// Exchanges returns the list of exchanges
func Exchanges() map[string]ExchangeContainer {
	return exchanges
}
