package plugins

import (
	"fmt"
	"log"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
)

// exchangeAdapters holds one implementation per capability of a single exchange
type exchangeAdapters struct {
	public        api.PublicAPI
	makeWalletFn  func() api.WalletAPI
	makeTradingFn func(market model.Market) api.TradingAPI
}

// Exchange binds the capability adapters of one exchange and one credential set.
// Credentials are validated the first time an authenticated capability is asked for
type Exchange struct {
	name     string
	apiKey   *api.ExchangeAPIKey
	adapters exchangeAdapters

	// memoized
	credentialsChecked bool
	credentialsErr     error
	wallet             api.WalletAPI
	trading            map[string]api.TradingAPI
	markets            []model.Market
}

// makeExchange is a factory method
func makeExchange(name string, apiKey *api.ExchangeAPIKey, adapters exchangeAdapters) *Exchange {
	return &Exchange{
		name:     name,
		apiKey:   apiKey,
		adapters: adapters,
		trading:  map[string]api.TradingAPI{},
	}
}

// Name returns the registry name of the exchange
func (x *Exchange) Name() string {
	return x.name
}

// Public returns the market data adapter, it does not need credentials
func (x *Exchange) Public() api.PublicAPI {
	return x.adapters.public
}

// Markets lists the markets published by the exchange, fetched once per instance
func (x *Exchange) Markets() ([]model.Market, error) {
	if x.markets != nil {
		return x.markets, nil
	}

	markets, e := x.adapters.public.Markets()
	if e != nil {
		return nil, fmt.Errorf("could not list markets of %s: %s", x.name, e)
	}
	x.markets = markets
	return markets, nil
}

// ResolveMarket finds the published market for a currency pair in either order
func (x *Exchange) ResolveMarket(a string, b string) (*model.Market, error) {
	markets, e := x.Markets()
	if e != nil {
		return nil, e
	}

	want := model.MakeMarket(a, b)
	for _, m := range markets {
		if m.Equals(*want) {
			return &m, nil
		}
	}

	reversed := want.Reverse()
	for _, m := range markets {
		if m.Equals(*reversed) {
			log.Printf("resolved %s/%s to the reversed market %s on %s\n", a, b, m, x.name)
			return &m, nil
		}
	}
	return nil, api.MakeErrIncompatibleMarket(x.name, a, b)
}

func (x *Exchange) checkCredentials() error {
	if !x.credentialsChecked {
		x.credentialsChecked = true
		if !x.apiKey.IsComplete() {
			x.credentialsErr = api.MakeErrCredentialsMissing(x.name)
		}
	}
	return x.credentialsErr
}

// Wallet returns the funds management adapter
func (x *Exchange) Wallet() (api.WalletAPI, error) {
	if e := x.checkCredentials(); e != nil {
		return nil, e
	}
	if x.wallet == nil {
		x.wallet = x.adapters.makeWalletFn()
	}
	return x.wallet, nil
}

// Trading returns the order management adapter for the market
func (x *Exchange) Trading(market model.Market) (api.TradingAPI, error) {
	if e := x.checkCredentials(); e != nil {
		return nil, e
	}
	if t, ok := x.trading[market.Code()]; ok {
		return t, nil
	}

	t := x.adapters.makeTradingFn(market)
	x.trading[market.Code()] = t
	return t, nil
}
