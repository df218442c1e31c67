package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lightyeario/tradingbots/plugins"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "Lists the available strategies",
}

func init() {
	strategiesCmd.Run = func(ccmd *cobra.Command, args []string) {
		fmt.Printf("  Strategy\tComplexity\tNeeds Config\tDescription\n")
		fmt.Printf("  --------------------------------------------------------------------------------\n")
		strategies := plugins.Strategies()
		for _, name := range sortedStrategyKeys(strategies) {
			s := strategies[name]
			fmt.Printf("  %-16s%-16s%-16v%s\n", name, s.Complexity, s.NeedsConfig, s.Description)
		}
	}
}

func sortedStrategyKeys(m map[string]plugins.StrategyContainer) []string {
	keys := make([]string, len(m))
	for k, v := range m {
		if int(v.SortOrder) >= len(keys) || len(keys[v.SortOrder]) > 0 {
			panic(fmt.Errorf("invalid sort order specified for strategies, SortOrder that was repeated or out of range: %d", v.SortOrder))
		}
		keys[v.SortOrder] = k
	}
	return keys
}
