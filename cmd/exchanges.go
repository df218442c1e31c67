package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lightyeario/tradingbots/plugins"
)

var exchangesCmd = &cobra.Command{
	Use:   "exchanges",
	Short: "Lists the available exchange integrations",
}

func init() {
	exchangesCmd.Run = func(ccmd *cobra.Command, args []string) {
		fmt.Printf("  Exchange\tTrading\t\tDescription\n")
		fmt.Printf("  --------------------------------------------------------------------------------\n")
		exchanges := plugins.Exchanges()
		for _, name := range sortedExchangeKeys(exchanges) {
			fmt.Printf("  %-14s%v\t\t%s\n", name, exchanges[name].TradeEnabled, exchanges[name].Description)
		}
	}
}

func sortedExchangeKeys(m map[string]plugins.ExchangeContainer) []string {
	keys := make([]string, len(m))
	for k, v := range m {
		if int(v.SortOrder) >= len(keys) || len(keys[v.SortOrder]) > 0 {
			panic(fmt.Errorf("invalid sort order specified for exchanges, SortOrder that was repeated or out of range: %d", v.SortOrder))
		}
		keys[v.SortOrder] = k
	}
	return keys
}
