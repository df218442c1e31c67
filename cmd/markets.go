package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lightyeario/tradingbots/model"
	"github.com/lightyeario/tradingbots/plugins"
	"github.com/lightyeario/tradingbots/support/logger"
)

var marketsCmd = &cobra.Command{
	Use:     "markets",
	Short:   "Lists the markets published by an exchange",
	Example: "  tradingbots markets --exchange kraken",
}

// publicExchangeFlag is shared by the commands that only read public market data
func publicExchangeFlag(c *cobra.Command) *string {
	exchange := c.Flags().StringP("exchange", "e", "", "(required) exchange to query, see the exchanges command")
	if e := c.MarkFlagRequired("exchange"); e != nil {
		panic(e)
	}
	return exchange
}

func makePublicExchange(name string) *plugins.Exchange {
	x, e := plugins.MakeExchange(name, nil, plugins.ExchangeOptions{})
	if e != nil {
		logger.Fatal(logger.MakeBasicLogger(), e)
	}
	return x
}

func parseMarketFlag(s string) model.Market {
	market, e := model.MarketFromString(s)
	if e != nil {
		logger.Fatal(logger.MakeBasicLogger(), fmt.Errorf("invalid market '%s', expected BASE/QUOTE: %s", s, e))
	}
	return *market
}

func init() {
	exchange := publicExchangeFlag(marketsCmd)

	marketsCmd.Run = func(ccmd *cobra.Command, args []string) {
		markets, e := makePublicExchange(*exchange).Markets()
		if e != nil {
			logger.Fatal(logger.MakeBasicLogger(), e)
		}

		names := []string{}
		for _, m := range markets {
			names = append(names, m.String())
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
		fmt.Printf("  %d markets\n", len(names))
	}
}
