package cmd

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/lightyeario/tradingbots/plugins"
	"github.com/lightyeario/tradingbots/support/logger"
	"github.com/lightyeario/tradingbots/support/monitoring"
	"github.com/lightyeario/tradingbots/support/store"
	"github.com/lightyeario/tradingbots/support/utils"
	"github.com/lightyeario/tradingbots/trader"
)

const tradeExamples = `  tradingbots trade --botConf ./path/trader.cfg --strategy relative_orders --stratConf ./path/relative_orders.yaml
  tradingbots trade --botConf ./path/trader.cfg --strategy any_to_any --stratConf ./path/any_to_any.yaml --env ./.env --iter 1`

var tradeCmd = &cobra.Command{
	Use:     "trade",
	Short:   "Trades on a centralized exchange using the specified strategy",
	Example: tradeExamples,
}

func requiredFlag(flag string) {
	e := tradeCmd.MarkFlagRequired(flag)
	if e != nil {
		panic(e)
	}
}

func logPanic(l logger.Logger) {
	if r := recover(); r != nil {
		logger.Fatal(l, fmt.Errorf("PANIC!! recovered to log it\npanic: %v\n\n%s", r, string(debug.Stack())))
	}
}

type inputs struct {
	botConfigPath   *string
	strategy        *string
	stratConfigPath *string
	envPath         *string
	fixedIterations *uint64
}

func init() {
	options := inputs{}
	// short flags
	options.botConfigPath = tradeCmd.Flags().StringP("botConf", "c", "", "(required) trading bot's basic config file path")
	options.strategy = tradeCmd.Flags().StringP("strategy", "s", "", "(required) type of strategy to run")
	options.stratConfigPath = tradeCmd.Flags().StringP("stratConf", "f", "", "strategy config file path")
	// long-only flags
	options.envPath = tradeCmd.Flags().String("env", ".env", "optional file with the exchange credentials, variables already in the environment take precedence")
	options.fixedIterations = tradeCmd.Flags().Uint64("iter", 0, "only run the bot for the first N iterations (defaults value 0 runs unboundedly)")

	requiredFlag("botConf")
	requiredFlag("strategy")
	tradeCmd.Flags().SortFlags = false

	tradeCmd.Run = func(ccmd *cobra.Command, args []string) {
		runTradeCmd(options)
	}
}

func runTradeCmd(options inputs) {
	botConfig, e := trader.ReadBotConfig(*options.botConfigPath)
	if e != nil {
		logger.Fatal(logger.MakeBasicLogger(), e)
	}

	l, closeLog, e := logger.MakeZapLogger(botConfig.LogLevel, botConfig.LogFile)
	if e != nil {
		logger.Fatal(logger.MakeBasicLogger(), e)
	}
	defer closeLog()
	defer logPanic(l)

	l.Infof("starting tradingbots %s (git hash %s)", version, gitHash)
	utils.LogConfig(botConfig)

	if e := botConfig.LoadCredentials(*options.envPath); e != nil {
		logger.Fatal(l, e)
	}
	if !botConfig.APIKey().IsComplete() && !botConfig.DryRun {
		l.Warn("exchange credentials are incomplete, the bot can only read public data")
	}

	var fixedIterations *uint64
	if *options.fixedIterations == 0 {
		l.Info("will run unbounded iterations")
	} else {
		fixedIterations = options.fixedIterations
		l.Infof("will run only %d update iterations", *fixedIterations)
	}

	s, e := store.MakeStore(botConfig.Store)
	if e != nil {
		logger.Fatal(l, e)
	}
	defer func() {
		if e := s.Close(); e != nil {
			l.Errorf("could not close store: %s", e)
		}
	}()

	exchange, e := plugins.MakeExchange(botConfig.Exchange, botConfig.APIKey(), plugins.ExchangeOptions{
		BaseURL:      botConfig.BaseURL,
		WithdrawKeys: botConfig.WithdrawKeys,
	})
	if e != nil {
		logger.Fatal(l, e)
	}

	strategy, e := plugins.MakeStrategy(
		exchange,
		s,
		*options.strategy,
		*options.stratConfigPath,
		botConfig.DryRun,
		botConfig.OxrAppID(),
		l,
	)
	if e != nil {
		logger.Fatal(l, e)
	}

	alert, e := monitoring.MakeAlert(botConfig.AlertType, botConfig.AlertAPIKey)
	if e != nil {
		l.Errorf("unable to set up monitoring for alert type '%s', continuing without alerts: %s", botConfig.AlertType, e)
		alert, _ = monitoring.MakeAlert("", "")
	}

	timeController, e := plugins.MakeIntervalTimeController(time.Duration(botConfig.TickIntervalSeconds)*time.Second, l)
	if e != nil {
		logger.Fatal(l, e)
	}

	bot := trader.MakeBot(
		fmt.Sprintf("%s@%s", *options.strategy, botConfig.Exchange),
		strategy,
		timeController,
		alert,
		fixedIterations,
		l,
	)
	if e := bot.Start(); e != nil {
		// deferred closers do not run after logger.Fatal
		_ = s.Close()
		logger.Fatal(l, e)
	}
}
