package api

import "time"

// TimeController decides when the bot runs its next cycle
type TimeController interface {
	// ShouldUpdate is only asked after the first cycle, so lastUpdateTime is never the zero value
	ShouldUpdate(lastUpdateTime time.Time, currentUpdateTime time.Time) bool

	// SleepTime is how long the bot waits before asking ShouldUpdate again
	SleepTime(lastUpdateTime time.Time) time.Duration
}
