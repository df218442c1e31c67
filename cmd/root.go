package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// build flags
var version string
var buildDate string
var gitHash string

const rootShort = "tradingbots runs trading strategies on centralized cryptocurrency exchanges."
const rootLong = `tradingbots runs trading strategies on centralized cryptocurrency exchanges (Kraken, Binance).

Every exchange is reached through the same capability interfaces: public market data, wallet and trading.`
const rootExamples = tradeExamples + "\n  tradingbots trade --help"

// RootCmd is the main command for this repo
var RootCmd = &cobra.Command{
	Use:     "tradingbots",
	Short:   rootShort,
	Long:    rootLong,
	Example: rootExamples,
	Run: func(ccmd *cobra.Command, args []string) {
		e := ccmd.Help()
		if e != nil {
			log.Fatal(e)
		}

		fmt.Println("version:", version)
		fmt.Println("build date:", buildDate)
		fmt.Println("git hash:", gitHash)
	},
}

func init() {
	RootCmd.AddCommand(tradeCmd)
	RootCmd.AddCommand(strategiesCmd)
	RootCmd.AddCommand(exchangesCmd)
	RootCmd.AddCommand(marketsCmd)
	RootCmd.AddCommand(tickerCmd)
	RootCmd.AddCommand(tradesCmd)
	RootCmd.AddCommand(versionCmd)
}
