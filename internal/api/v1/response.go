package v1

import (
	"time"

	"quarters/internal/quarter"
	"quarters/internal/service"
)

type ProgressResponse struct {
	Timezone         string    `json:"timezone"`
	Timestamp        time.Time `json:"timestamp"`
	TimestampText    string    `json:"timestamp_text"`
	Name             string    `json:"name"`
	Quarter          int       `json:"quarter"`
	Year             int       `json:"year"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	Percentage       float64   `json:"percentage"`
	ElapsedSeconds   int64     `json:"elapsed_seconds"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	Elapsed          string    `json:"elapsed"`
	Remaining        string    `json:"remaining"`
}

type quarterInfo struct {
	Quarter         int       `json:"quarter"`
	Year            int       `json:"year"`
	Name            string    `json:"name"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	EndExclusive    time.Time `json:"end_exclusive"`
	DurationSeconds int64     `json:"duration_seconds"`
}

type quartersResponse struct {
	Timezone string        `json:"timezone"`
	Year     int           `json:"year"`
	Items    []quarterInfo `json:"items"`
}

type timezonesResponse struct {
	Default string   `json:"default"`
	Items   []string `json:"items"`
}

func NewProgressResponse(progress service.Progress) ProgressResponse {
	return ProgressResponse{
		Timezone:         progress.Timezone,
		Timestamp:        progress.Timestamp,
		TimestampText:    progress.TimestampText,
		Name:             progress.Name,
		Quarter:          progress.Quarter,
		Year:             progress.Year,
		Start:            progress.Start,
		End:              progress.End,
		Percentage:       progress.Percentage,
		ElapsedSeconds:   int64(progress.Elapsed / time.Second),
		RemainingSeconds: int64(progress.Remaining / time.Second),
		Elapsed:          progress.ElapsedText,
		Remaining:        progress.RemainingText,
	}
}

func mapQuarters(zone string, year int, quarters [4]quarter.Quarter) quartersResponse {
	items := make([]quarterInfo, 0, len(quarters))
	for _, q := range quarters {
		items = append(items, quarterInfo{
			Quarter:         q.Number,
			Year:            q.Year,
			Name:            q.String(),
			Start:           q.Start,
			End:             q.End,
			EndExclusive:    q.EndExclusive(),
			DurationSeconds: int64(q.Duration() / time.Second),
		})
	}
	return quartersResponse{Timezone: zone, Year: year, Items: items}
}
