package trader

import (
	"time"

	"github.com/pkg/errors"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/support/logger"
)

const cycleSeparator = "----------------------------------------------------------------------------------------------------"

// Bot runs a strategy on the schedule of a time controller
type Bot struct {
	name            string
	strategy        api.Strategy // the instance of this bot is bound to this strategy
	timeController  api.TimeController
	alert           api.Alert
	fixedIterations *uint64
	l               logger.Logger

	sleepFn func(time.Duration)
	nowFn   func() time.Time
}

// MakeBot is the factory method for the Bot struct, a nil fixedIterations runs until the strategy fails
func MakeBot(
	name string,
	strategy api.Strategy,
	timeController api.TimeController,
	alert api.Alert,
	fixedIterations *uint64,
	l logger.Logger,
) *Bot {
	return &Bot{
		name:            name,
		strategy:        strategy,
		timeController:  timeController,
		alert:           alert,
		fixedIterations: fixedIterations,
		l:               l,
		sleepFn:         time.Sleep,
		nowFn:           time.Now,
	}
}

// Start sets up the strategy and runs its cycles, it only returns once the requested iterations
// are done or the strategy failed with an error that is not transient
func (b *Bot) Start() error {
	b.l.Info(cycleSeparator)
	if e := b.strategy.Setup(); e != nil {
		b.triggerAlert("setup failed", e)
		return errors.Wrapf(e, "could not set up bot '%s'", b.name)
	}

	var lastUpdateTime time.Time
	var remaining uint64
	if b.fixedIterations != nil {
		remaining = *b.fixedIterations
	}
	for {
		currentUpdateTime := b.nowFn()
		if lastUpdateTime.IsZero() || b.timeController.ShouldUpdate(lastUpdateTime, currentUpdateTime) {
			if e := b.update(); e != nil {
				return e
			}
			lastUpdateTime = currentUpdateTime
			b.l.Info(cycleSeparator)

			if b.fixedIterations != nil {
				remaining--
				if remaining == 0 {
					b.l.Infof("finished the requested %d iterations, stopping bot update loop", *b.fixedIterations)
					return nil
				}
			}
		}

		sleepTime := b.timeController.SleepTime(lastUpdateTime)
		b.l.Infof("sleeping for %s...", sleepTime)
		b.sleepFn(sleepTime)
	}
}

// update runs one cycle; transient exchange failures are left for the next cycle to retry
func (b *Bot) update() error {
	e := b.strategy.Algorithm()
	if e == nil {
		return nil
	}
	if api.IsTransient(e) {
		b.l.Warnf("transient error in cycle, retrying on the next one: %s", e)
		return nil
	}

	b.l.Errorf("strategy failed, aborting: %s", e)
	if abortErr := b.strategy.Abort(); abortErr != nil {
		b.l.Errorf("abort failed too: %s", abortErr)
	}
	b.triggerAlert("strategy failed", e)
	return errors.Wrapf(e, "bot '%s' stopped", b.name)
}

func (b *Bot) triggerAlert(what string, cause error) {
	description := "bot '" + b.name + "' " + what
	details := map[string]string{"error": cause.Error()}
	if e := b.alert.Trigger(description, details); e != nil {
		b.l.Errorf("could not trigger alert: %s", e)
	}
}
