package plugins

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/url"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
)

const binanceName = "binance"

// binanceAssetConverter maps the legacy symbols still reported for a few assets
var binanceAssetConverter = model.MustMakeCurrencyConverter(map[string]string{
	"BCC": "BCH",
})

// binance error codes, see https://binance-docs.github.io/apidocs/spot/en/#error-codes
const (
	binanceCodeTooManyRequests  = -1003
	binanceCodeInvalidTimestamp = -1021
	binanceCodeRejectedMbxKey   = -2014
	binanceCodeInvalidKey       = -2015
)

// binanceBase holds what all three binance capabilities share
type binanceBase struct {
	client *binance.Client
}

// makeBinanceBase is a factory method, baseURL overrides the production endpoint when set
func makeBinanceBase(apiKey *api.ExchangeAPIKey, baseURL string) *binanceBase {
	key, secret := "", ""
	if apiKey != nil {
		key, secret = apiKey.Key, apiKey.Secret
	}
	client := binance.NewClient(key, secret)
	if baseURL != "" {
		client.BaseURL = baseURL
	}
	return &binanceBase{client: client}
}

// Name impl.
func (b *binanceBase) Name() string {
	return binanceName
}

// CommonCurrency impl.
func (b *binanceBase) CommonCurrency(exchangeCode string) string {
	return binanceAssetConverter.CommonCode(exchangeCode)
}

// ExchangeCurrency impl.
func (b *binanceBase) ExchangeCurrency(commonCode string) string {
	return binanceAssetConverter.ExchangeCode(commonCode)
}

// MarketID impl.
func (b *binanceBase) MarketID(market model.Market) (string, error) {
	if market.Base == "" || market.Quote == "" {
		return "", fmt.Errorf("invalid market: %s", market)
	}
	return b.ExchangeCurrency(market.Base) + b.ExchangeCurrency(market.Quote), nil
}

func classifyBinanceError(operation string, e error) error {
	var apiErr *common.APIError
	if errors.As(e, &apiErr) {
		switch apiErr.Code {
		case binanceCodeTooManyRequests, binanceCodeInvalidTimestamp:
			return api.MakeErrTransientNetwork(operation, e)
		case binanceCodeRejectedMbxKey, binanceCodeInvalidKey:
			return errors.Wrapf(api.MakeErrCredentialsMissing(binanceName), "binance rejected the credentials on %s (%s)", operation, apiErr.Message)
		}
		return errors.Wrapf(e, "error calling binance %s", operation)
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(e, &urlErr) || errors.As(e, &netErr) {
		return api.MakeErrTransientNetwork(operation, e)
	}
	return errors.Wrapf(e, "error calling binance %s", operation)
}

// binanceSymbol is the part of exchangeInfo we need about one symbol
type binanceSymbol struct {
	market    model.Market
	status    string
	minAmount *decimal.Decimal
}

func (b *binanceBase) symbols() (map[string]binanceSymbol, error) {
	info, e := b.client.NewExchangeInfoService().Do(context.Background())
	if e != nil {
		return nil, classifyBinanceError("exchangeInfo", e)
	}

	symbols := map[string]binanceSymbol{}
	for _, s := range info.Symbols {
		symbols[s.Symbol] = binanceSymbol{
			market:    *model.MakeMarket(b.CommonCurrency(s.BaseAsset), b.CommonCurrency(s.QuoteAsset)),
			status:    s.Status,
			minAmount: binanceLotSizeMin(s.Filters),
		}
	}
	return symbols, nil
}

// binanceLotSizeMin reads minQty out of the LOT_SIZE filter
func binanceLotSizeMin(filters []map[string]interface{}) *decimal.Decimal {
	for _, f := range filters {
		if f["filterType"] != "LOT_SIZE" {
			continue
		}
		minQty, ok := f["minQty"].(string)
		if !ok {
			return nil
		}
		d, e := decimal.NewFromString(minQty)
		if e != nil || !d.IsPositive() {
			return nil
		}
		return &d
	}
	return nil
}

// binanceDecimal parses the numeric strings binance uses everywhere
func binanceDecimal(value string, field string, operation string) (decimal.Decimal, error) {
	d, e := decimal.NewFromString(value)
	if e != nil {
		return decimal.Zero, api.MakeErrParsef(operation, "could not parse field '%s' as a number: %s", field, value)
	}
	return d, nil
}

// binancePositiveMoney treats zero as unknown, binance reports "0.00000000" for fields that do not apply
func binancePositiveMoney(value string, currency string, field string, operation string) (*model.Money, error) {
	if value == "" {
		return nil, nil
	}
	d, e := binanceDecimal(value, field, operation)
	if e != nil {
		return nil, e
	}
	if !d.IsPositive() {
		return nil, nil
	}
	return model.MakeMoney(d, currency), nil
}

func logBinance(format string, args ...interface{}) {
	log.Printf("binance: "+format, args...)
}
