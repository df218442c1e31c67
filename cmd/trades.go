package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lightyeario/tradingbots/model"
	"github.com/lightyeario/tradingbots/plugins"
	"github.com/lightyeario/tradingbots/support/logger"
	"github.com/lightyeario/tradingbots/support/store"
)

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "Fetches the trade history of a market, resuming from a local store",
	Example: `  tradingbots trades --exchange kraken --market BTC/USD --hours 6
  tradingbots trades --exchange kraken --market BTC/USD --hours 6 --store ./data/trades`,
}

func init() {
	exchange := publicExchangeFlag(tradesCmd)
	market := tradesCmd.Flags().StringP("market", "m", "", "(required) market as BASE/QUOTE")
	hours := tradesCmd.Flags().Uint("hours", 1, "how many hours of history to fetch")
	storePath := tradesCmd.Flags().String("store", "", "pebble store path to keep the history between runs, in memory when empty")
	quiet := tradesCmd.Flags().BoolP("quiet", "q", false, "only print the summary")
	if e := tradesCmd.MarkFlagRequired("market"); e != nil {
		panic(e)
	}

	tradesCmd.Run = func(ccmd *cobra.Command, args []string) {
		l := logger.MakeBasicLogger()
		m := parseMarketFlag(*market)

		storeConfig := store.Config{Type: store.TypeMemory}
		if *storePath != "" {
			storeConfig = store.Config{Type: store.TypePebble, Path: *storePath}
		}
		s, e := store.MakeStore(storeConfig)
		if e != nil {
			logger.Fatal(l, e)
		}
		defer s.Close()

		fetcher := plugins.MakeTradeHistoryFetcher(s, makePublicExchange(*exchange).Public(), l)
		since := model.Now().Add(-time.Duration(*hours) * time.Hour)
		trades, e := fetcher.TradesSince(m, *since)
		if e != nil {
			_ = s.Close()
			logger.Fatal(l, e)
		}

		if !*quiet {
			for _, t := range trades {
				fmt.Printf("  %s  %-4s %s @ %s  (%s)\n", t.Timestamp.AsTime().Format(time.RFC3339), t.Side, t.Amount, t.Price, t.ID)
			}
		}
		fmt.Printf("  %d trades of %s since %s\n", len(trades), m, since.AsTime().Format(time.RFC3339))
	}
}
