package plugins

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightyeario/tradingbots/support/logger"
)

var testLastUpdate = time.Date(2020, 3, 14, 15, 0, 0, 0, time.UTC)

func TestShouldUpdate(t *testing.T) {
	testCases := []struct {
		millisSinceLastUpdate int64
		want                  bool
	}{
		{millisSinceLastUpdate: 0, want: false},
		{millisSinceLastUpdate: 4999, want: false},
		{millisSinceLastUpdate: 5000, want: true},
		{millisSinceLastUpdate: 5001, want: true},
		{millisSinceLastUpdate: 50000, want: true},
	}

	tc, e := MakeIntervalTimeController(5*time.Second, logger.MakeBasicLogger())
	require.NoError(t, e)
	for _, kase := range testCases {
		t.Run(fmt.Sprintf("%dms", kase.millisSinceLastUpdate), func(t *testing.T) {
			current := testLastUpdate.Add(time.Duration(kase.millisSinceLastUpdate) * time.Millisecond)
			assert.Equal(t, kase.want, tc.ShouldUpdate(testLastUpdate, current))
		})
	}
}

func TestSleepTime(t *testing.T) {
	testCases := []struct {
		millisSinceLastUpdate int64
		want                  time.Duration
	}{
		{millisSinceLastUpdate: 0, want: 5000 * time.Millisecond},
		{millisSinceLastUpdate: 1, want: 4999 * time.Millisecond},
		{millisSinceLastUpdate: 4999, want: 1 * time.Millisecond},
		{millisSinceLastUpdate: 5000, want: 0},
		{millisSinceLastUpdate: 5001, want: 0},
		{millisSinceLastUpdate: 15001, want: 0},
	}

	for _, kase := range testCases {
		t.Run(fmt.Sprintf("%dms", kase.millisSinceLastUpdate), func(t *testing.T) {
			tc, e := MakeIntervalTimeController(5*time.Second, logger.MakeBasicLogger())
			require.NoError(t, e)
			tc.nowFn = func() time.Time {
				return testLastUpdate.Add(time.Duration(kase.millisSinceLastUpdate) * time.Millisecond)
			}
			assert.Equal(t, kase.want, tc.SleepTime(testLastUpdate))
		})
	}
}

func TestIntervalTimeControllerInvalid(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		_, e := MakeIntervalTimeController(interval, logger.MakeBasicLogger())
		assert.Error(t, e)
	}
}
