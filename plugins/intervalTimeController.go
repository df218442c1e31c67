package plugins

import (
	"fmt"
	"time"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/support/logger"
)

// IntervalTimeController runs the bot on a fixed interval measured from the start of the previous cycle
type IntervalTimeController struct {
	tickInterval time.Duration
	nowFn        func() time.Time
	l            logger.Logger
}

// ensure this implements api.TimeController
var _ api.TimeController = &IntervalTimeController{}

// MakeIntervalTimeController is a factory method
func MakeIntervalTimeController(tickInterval time.Duration, l logger.Logger) (*IntervalTimeController, error) {
	if tickInterval <= 0 {
		return nil, fmt.Errorf("tick interval needs to be positive, was %s", tickInterval)
	}
	return &IntervalTimeController{
		tickInterval: tickInterval,
		nowFn:        time.Now,
		l:            l,
	}, nil
}

// TickInterval is the configured interval
func (t *IntervalTimeController) TickInterval() time.Duration {
	return t.tickInterval
}

// ShouldUpdate impl
func (t *IntervalTimeController) ShouldUpdate(lastUpdateTime time.Time, currentUpdateTime time.Time) bool {
	elapsed := currentUpdateTime.Sub(lastUpdateTime)
	shouldUpdate := elapsed >= t.tickInterval
	if !shouldUpdate {
		t.l.Infof("skipping cycle, only %s of the %s tick interval elapsed", elapsed, t.tickInterval)
	}
	return shouldUpdate
}

// SleepTime impl, a cycle that ran longer than the interval is followed right away by the next one
func (t *IntervalTimeController) SleepTime(lastUpdateTime time.Time) time.Duration {
	remaining := t.tickInterval - t.nowFn().Sub(lastUpdateTime)
	if remaining < 0 {
		t.l.Warnf("cycle overran the %s tick interval by %s", t.tickInterval, -remaining)
		return 0
	}
	return remaining
}
