package plugins

import (
	"fmt"
	"io/ioutil"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/lightyeario/tradingbots/model"
	"github.com/lightyeario/tradingbots/support/utils"
)

// priceMultipliersConfig places orders relative to a reference price, e.g. 0.99 buys 1% below it
type priceMultipliersConfig struct {
	BuyMultiplier  string `yaml:"buy_multiplier"`
	SellMultiplier string `yaml:"sell_multiplier"`
}

func (c priceMultipliersConfig) parse() (buy decimal.Decimal, sell decimal.Decimal, e error) {
	buy, e = parsePositiveDecimal("prices.buy_multiplier", c.BuyMultiplier)
	if e != nil {
		return
	}
	sell, e = parsePositiveDecimal("prices.sell_multiplier", c.SellMultiplier)
	return
}

// maxAmountsConfig caps how much of each balance is put on the book
type maxAmountsConfig struct {
	MaxBase  string `yaml:"max_base"`
	MaxQuote string `yaml:"max_quote"`
}

func (c maxAmountsConfig) parse(market model.Market) (*model.Money, *model.Money, error) {
	maxBase, e := parsePositiveDecimal("amounts.max_base", c.MaxBase)
	if e != nil {
		return nil, nil, e
	}
	maxQuote, e := parsePositiveDecimal("amounts.max_quote", c.MaxQuote)
	if e != nil {
		return nil, nil, e
	}
	return model.MakeMoney(maxBase, market.Base), model.MakeMoney(maxQuote, market.Quote), nil
}

// referenceConfig names a market on another exchange whose public data is followed
type referenceConfig struct {
	Exchange string `yaml:"exchange"`
	Market   string `yaml:"market"`
}

func parsePositiveDecimal(field string, value string) (decimal.Decimal, error) {
	d, e := decimal.NewFromString(value)
	if e != nil {
		return decimal.Zero, fmt.Errorf("config field %s: invalid number '%s'", field, value)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("config field %s needs to be positive, was %s", field, value)
	}
	return d, nil
}

// readStrategyConfig decodes the YAML file at path into cfg and logs it
func readStrategyConfig(path string, cfg fmt.Stringer) error {
	bytes, e := ioutil.ReadFile(path)
	if e != nil {
		return fmt.Errorf("could not read strategy config file '%s': %s", path, e)
	}
	if e := yaml.Unmarshal(bytes, cfg); e != nil {
		return fmt.Errorf("could not parse strategy config file '%s': %s", path, e)
	}
	utils.LogConfig(cfg)
	return nil
}
