package plugins

import (
	"fmt"
	"log"
	"reflect"
	"sort"
	"strings"

	"github.com/Beldur/kraken-go-api-client"
	"github.com/pkg/errors"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
	"github.com/lightyeario/tradingbots/support/networking"
	"github.com/lightyeario/tradingbots/support/utils"
)

const krakenName = "kraken"

// krakenQuerier is the part of the kraken client that the adapters use, every call goes through the generic Query
type krakenQuerier interface {
	Query(method string, data map[string]string) (interface{}, error)
}

// ensure that the kraken client satisfies krakenQuerier
var _ krakenQuerier = &krakenapi.KrakenApi{}

// krakenAssetConverter maps the asset codes used in balances, funding and AssetPairs
var krakenAssetConverter = model.MustMakeCurrencyConverter(map[string]string{
	"XXBT": "BTC",
	"XETH": "ETH",
	"XXLM": "XLM",
	"XLTC": "LTC",
	"XXRP": "XRP",
	"XXDG": "DOGE",
	"ZUSD": "USD",
	"ZEUR": "EUR",
	"ZCAD": "CAD",
	"ZGBP": "GBP",
	"ZJPY": "JPY",
})

// krakenAltnameConverter maps the altnames kraken uses inside pair symbols, e.g. XBTUSD
var krakenAltnameConverter = model.MustMakeCurrencyConverter(map[string]string{
	"XBT": "BTC",
	"XDG": "DOGE",
})

func init() {
	for _, c := range []*model.CurrencyConverter{krakenAssetConverter, krakenAltnameConverter} {
		if e := c.Validate(); e != nil {
			panic(e)
		}
	}
}

// kraken reports these as "EGeneral:..." style messages inside the client error
var krakenTransientMarkers = []string{
	"EAPI:Rate limit",
	"EOrder:Rate limit",
	"EService:",
	"EGeneral:Temporary",
	"EAPI:Invalid nonce",
}

var krakenCredentialMarkers = []string{
	"EAPI:Invalid key",
	"EAPI:Invalid signature",
	"EGeneral:Permission denied",
}

// the client numbers its failures: #6 is an undecodable body, #7 an API level error, anything else comes
// from the transport (the #4 and #5 content type failures are what a proxy error page produces)
const (
	krakenRequestFailedPrefix = "Could not execute request"
	krakenDecodeErrorCode     = "#6"
	krakenAPIErrorCode        = "#7"
)

// krakenBase holds what all three kraken capabilities share
type krakenBase struct {
	api krakenQuerier
}

func makeKrakenBase(apiKey *api.ExchangeAPIKey) *krakenBase {
	key, secret := "", ""
	if apiKey != nil {
		key, secret = apiKey.Key, apiKey.Secret
	}
	return &krakenBase{api: krakenapi.New(key, secret)}
}

// Name impl.
func (k *krakenBase) Name() string {
	return krakenName
}

// CommonCurrency impl.
func (k *krakenBase) CommonCurrency(exchangeCode string) string {
	if krakenAssetConverter.IsMapped(exchangeCode) {
		return krakenAssetConverter.CommonCode(exchangeCode)
	}
	return krakenAltnameConverter.CommonCode(exchangeCode)
}

// ExchangeCurrency impl.
func (k *krakenBase) ExchangeCurrency(commonCode string) string {
	return krakenAssetConverter.ExchangeCode(commonCode)
}

// MarketID impl.
func (k *krakenBase) MarketID(market model.Market) (string, error) {
	if market.Base == "" || market.Quote == "" {
		return "", fmt.Errorf("invalid market: %s", market)
	}
	return krakenAltnameConverter.ExchangeCode(market.Base) + krakenAltnameConverter.ExchangeCode(market.Quote), nil
}

func (k *krakenBase) query(method string, params map[string]string) (interface{}, error) {
	resp, e := k.api.Query(method, params)
	if e != nil {
		return nil, classifyKrakenError(method, e)
	}
	return resp, nil
}

func (k *krakenBase) queryMap(method string, params map[string]string) (map[string]interface{}, error) {
	resp, e := k.query(method, params)
	if e != nil {
		return nil, e
	}

	m, ok := resp.(map[string]interface{})
	if !ok {
		return nil, api.MakeErrParsef(method, "could not parse response type: %s", reflect.TypeOf(resp))
	}
	return m, nil
}

func (k *krakenBase) queryList(method string, params map[string]string) ([]interface{}, error) {
	resp, e := k.query(method, params)
	if e != nil {
		return nil, e
	}

	list, ok := resp.([]interface{})
	if !ok {
		return nil, api.MakeErrParsef(method, "could not parse response type: %s", reflect.TypeOf(resp))
	}
	return list, nil
}

func classifyKrakenError(method string, e error) error {
	msg := e.Error()
	for _, marker := range krakenCredentialMarkers {
		if strings.Contains(msg, marker) {
			return errors.Wrapf(api.MakeErrCredentialsMissing(krakenName), "kraken rejected the credentials on %s (%s)", method, msg)
		}
	}
	for _, marker := range krakenTransientMarkers {
		if strings.Contains(msg, marker) {
			return api.MakeErrTransientNetwork(method, e)
		}
	}
	if strings.HasPrefix(msg, krakenRequestFailedPrefix) {
		if strings.Contains(msg, krakenDecodeErrorCode) {
			return api.MakeErrParse(method, msg)
		}
		if !strings.Contains(msg, krakenAPIErrorCode) {
			return api.MakeErrTransientNetwork(method, e)
		}
	}
	return errors.Wrapf(e, "error calling kraken %s", method)
}

// krakenAssetPair is one entry of AssetPairs, the key is the name used in order responses
type krakenAssetPair struct {
	key     string
	altname string
	market  model.Market
}

// assetPairs fetches the tradable pairs, skipping the dark pool (".d") pairs
func (k *krakenBase) assetPairs() ([]krakenAssetPair, error) {
	m, e := k.queryMap("AssetPairs", nil)
	if e != nil {
		return nil, e
	}

	pairs := []krakenAssetPair{}
	for _, key := range utils.SortedKeys(m) {
		if strings.HasSuffix(key, ".d") {
			continue
		}

		info, ok := m[key].(map[string]interface{})
		if !ok {
			return nil, api.MakeErrParsef("AssetPairs", "could not parse pair %s of type %s", key, reflect.TypeOf(m[key]))
		}
		base, e := networking.ParseString(info, "base", "AssetPairs")
		if e != nil {
			return nil, e
		}
		quote, e := networking.ParseString(info, "quote", "AssetPairs")
		if e != nil {
			return nil, e
		}
		altname, e := networking.ParseString(info, "altname", "AssetPairs")
		if e != nil {
			return nil, e
		}

		pairs = append(pairs, krakenAssetPair{
			key:     key,
			altname: altname,
			market:  *model.MakeMarket(k.CommonCurrency(base), k.CommonCurrency(quote)),
		})
	}
	return pairs, nil
}

// findKrakenPair matches either the pair key (XXBTZUSD) or the altname (XBTUSD)
func findKrakenPair(pairs []krakenAssetPair, symbol string) (*krakenAssetPair, error) {
	for i := range pairs {
		if pairs[i].key == symbol || pairs[i].altname == symbol {
			return &pairs[i], nil
		}
	}
	return nil, api.MakeErrParsef("AssetPairs", "unknown kraken pair '%s'", symbol)
}

// fetchOpenOrders returns the open orders over all markets
func (k *krakenBase) fetchOpenOrders(pairs []krakenAssetPair) ([]model.Order, error) {
	m, e := k.queryMap("OpenOrders", nil)
	if e != nil {
		return nil, e
	}
	open, e := networking.ParseMap(m, "open", "OpenOrders")
	if e != nil {
		return nil, e
	}
	return parseKrakenOrderMap(open, pairs, "OpenOrders")
}

func parseKrakenOrderMap(m map[string]interface{}, pairs []krakenAssetPair, method string) ([]model.Order, error) {
	orders := []model.Order{}
	for _, id := range utils.SortedKeys(m) {
		o, e := parseKrakenOrder(id, m[id], pairs, method)
		if e != nil {
			return nil, e
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

// sortOrdersNewestFirst uses the creation time, orders without one go last
func sortOrdersNewestFirst(orders []model.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt == nil {
			return false
		}
		if orders[j].CreatedAt == nil {
			return true
		}
		return orders[i].CreatedAt.AsInt64() > orders[j].CreatedAt.AsInt64()
	})
}

func truncateOrders(orders []model.Order, limit int) []model.Order {
	if limit > 0 && len(orders) > limit {
		return orders[:limit]
	}
	return orders
}

func logKraken(format string, args ...interface{}) {
	log.Printf("kraken: "+format, args...)
}
