// Package duration renders spans of time as "2 weeks, 1 day, 3 minutes".
package duration

import (
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

var ErrTagInvalidDuration = goerr.NewTag("invalid_duration")

const (
	minute int64 = 60
	hour         = 60 * minute
	day          = 24 * hour
	week         = 7 * day
)

// Breakdown splits a number of seconds into calendar-free units, largest
// first. Every field is non-negative.
type Breakdown struct {
	Weeks   int64
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

func Decompose(totalSeconds int64) (Breakdown, error) {
	if totalSeconds < 0 {
		return Breakdown{}, goerr.New("negative duration", goerr.T(ErrTagInvalidDuration), goerr.V("seconds", totalSeconds))
	}
	return Breakdown{
		Weeks:   totalSeconds / week,
		Days:    totalSeconds % week / day,
		Hours:   totalSeconds % day / hour,
		Minutes: totalSeconds % hour / minute,
		Seconds: totalSeconds % minute,
	}, nil
}

func (b Breakdown) Total() int64 {
	return b.Weeks*week + b.Days*day + b.Hours*hour + b.Minutes*minute + b.Seconds
}

// String joins the non-zero units with ", ". A zero breakdown renders as "".
func (b Breakdown) String() string {
	parts := make([]string, 0, 5)
	parts = appendUnit(parts, b.Weeks, "week")
	parts = appendUnit(parts, b.Days, "day")
	parts = appendUnit(parts, b.Hours, "hour")
	parts = appendUnit(parts, b.Minutes, "minute")
	parts = appendUnit(parts, b.Seconds, "second")
	return strings.Join(parts, ", ")
}

func appendUnit(parts []string, n int64, unit string) []string {
	switch n {
	case 0:
		return parts
	case 1:
		return append(parts, "1 "+unit)
	default:
		return append(parts, fmt.Sprintf("%d %ss", n, unit))
	}
}

func Format(totalSeconds int64) (string, error) {
	b, err := Decompose(totalSeconds)
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// FormatDuration formats d truncated to whole seconds.
func FormatDuration(d time.Duration) (string, error) {
	return Format(int64(d / time.Second))
}
