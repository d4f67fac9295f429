package model

import "time"

// DailyRow is one normalized funnel observation: a single (date, step,
// variant) cell of the report table. Rows are immutable once created and
// aggregated by concatenation only.
type DailyRow struct {
	Date         time.Time `json:"date"`
	ExperimentID string    `json:"experiment_id"`
	FunnelStage  string    `json:"funnel_stage"`
	Culture      string    `json:"culture"`
	Device       string    `json:"device"`
	Variant      string    `json:"variant"`
	EventCount   int64     `json:"event_count"`
}

// CumulativeRow is one normalized cumulative funnel observation. StartDate
// and EndDate always carry the queried range, never dates derived from the
// response body.
type CumulativeRow struct {
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	ExperimentID string    `json:"experiment_id"`
	Culture      string    `json:"culture"`
	Device       string    `json:"device"`
	Variant      string    `json:"variant"`
	FunnelStage  string    `json:"funnel_stage"`
	EventCount   int64     `json:"event_count"`
}
