package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lightyeario/tradingbots/model"
	"github.com/lightyeario/tradingbots/support/logger"
)

var tickerCmd = &cobra.Command{
	Use:     "ticker",
	Short:   "Prints the ticker of a market",
	Example: "  tradingbots ticker --exchange binance --market BTC/USDT",
}

func init() {
	exchange := publicExchangeFlag(tickerCmd)
	market := tickerCmd.Flags().StringP("market", "m", "", "(required) market as BASE/QUOTE")
	if e := tickerCmd.MarkFlagRequired("market"); e != nil {
		panic(e)
	}

	tickerCmd.Run = func(ccmd *cobra.Command, args []string) {
		x := makePublicExchange(*exchange)
		m := parseMarketFlag(*market)
		resolved, e := x.ResolveMarket(m.Base, m.Quote)
		if e != nil {
			logger.Fatal(logger.MakeBasicLogger(), e)
		}
		t, e := x.Public().Ticker(*resolved)
		if e != nil {
			logger.Fatal(logger.MakeBasicLogger(), e)
		}

		fmt.Printf("  market: %s\n", t.Market)
		for _, f := range []struct {
			name  string
			value *model.Money
		}{
			{"bid", t.Bid},
			{"ask", t.Ask},
			{"mid", t.Mid},
			{"last", t.Last},
			{"open", t.Open},
			{"high", t.High},
			{"low", t.Low},
			{"vwap", t.VWAP},
		} {
			if f.value != nil {
				fmt.Printf("  %-6s%s\n", f.name+":", f.value)
			}
		}
		if t.Timestamp != nil {
			fmt.Printf("  at: %s\n", t.Timestamp.AsTime())
		}
	}
}
