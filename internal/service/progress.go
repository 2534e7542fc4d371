package service

import (
	"time"

	"quarters/internal/duration"
	"quarters/internal/quarter"
)

// Progress is everything a view needs to show the current quarter.
type Progress struct {
	Timezone      string
	Timestamp     time.Time
	TimestampText string
	Name          string
	Quarter       int
	Year          int
	Start         time.Time
	End           time.Time
	Percentage    float64
	Elapsed       time.Duration
	Remaining     time.Duration
	ElapsedText   string
	RemainingText string
}

func BuildProgress(current quarter.Current) (Progress, error) {
	elapsed := current.SinceStart()
	remaining := current.UntilEnd()
	elapsedText, err := duration.FormatDuration(elapsed)
	if err != nil {
		return Progress{}, err
	}
	remainingText, err := duration.FormatDuration(remaining)
	if err != nil {
		return Progress{}, err
	}
	local := current.Reference.In(current.Quarter.Location())
	return Progress{
		Timezone:      current.Quarter.Location().String(),
		Timestamp:     local,
		TimestampText: local.Format(time.RFC1123Z),
		Name:          current.Name(),
		Quarter:       current.Quarter.Number,
		Year:          current.Quarter.Year,
		Start:         current.Quarter.Start,
		End:           current.Quarter.End,
		Percentage:    current.Percentage(),
		Elapsed:       elapsed,
		Remaining:     remaining,
		ElapsedText:   elapsedText,
		RemainingText: remainingText,
	}, nil
}
