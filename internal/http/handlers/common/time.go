package common

import (
	"fmt"
	"time"
)

func FormatAbsoluteTime(value time.Time, zone *time.Location) string {
	if value.IsZero() {
		return ""
	}
	if zone != nil {
		value = value.In(zone)
	}
	return value.Format("2006-01-02 15:04:05 MST")
}

// FormatPercent renders a progress percentage with two decimals. Values are
// shown as computed, without clamping.
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
