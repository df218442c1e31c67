package model

import (
	"fmt"
	"math"
	"time"
)

// Timestamp is millis since epoch
type Timestamp int64

// MakeTimestamp creates a new Timestamp
func MakeTimestamp(ts int64) *Timestamp {
	timestamp := Timestamp(ts)
	return &timestamp
}

// MakeTimestampFromTime converts from a time.Time
func MakeTimestampFromTime(t time.Time) *Timestamp {
	return MakeTimestamp(t.UnixNano() / int64(time.Millisecond))
}

// MakeTimestampFromSeconds converts from fractional unix seconds, as reported by most REST APIs
func MakeTimestampFromSeconds(seconds float64) *Timestamp {
	return MakeTimestamp(int64(math.Round(seconds * 1000)))
}

// Now returns the current time
func Now() *Timestamp {
	return MakeTimestampFromTime(time.Now())
}

// AsInt64 is a convenience method
func (t Timestamp) AsInt64() int64 {
	return int64(t)
}

// AsSeconds returns unix seconds, truncating millis
func (t Timestamp) AsSeconds() int64 {
	return int64(t) / 1000
}

// AsNanos returns unix nanoseconds
func (t Timestamp) AsNanos() int64 {
	return int64(t) * int64(time.Millisecond)
}

// AsTime converts to a time.Time in UTC
func (t Timestamp) AsTime() time.Time {
	return time.Unix(0, t.AsNanos()).UTC()
}

// Add returns the timestamp shifted by the duration
func (t Timestamp) Add(d time.Duration) *Timestamp {
	return MakeTimestamp(int64(t) + int64(d/time.Millisecond))
}

// String is the stringer function
func (t Timestamp) String() string {
	return fmt.Sprintf("%d", int64(t))
}
