package models

// PeriodStat is one bucket of an aggregation: a day, a Sunday-keyed week, or
// a YYYY-MM month. Date is the bucket key and sorts lexicographically in
// chronological order.
type PeriodStat struct {
	Date   string           `json:"date"`
	Count  int              `json:"count"`
	Events []SanitizedEvent `json:"events"`
}

// GridCell is one day cell of the heatmap grid. Cells outside the target
// year are kept for visual padding with CurrentYear=false.
type GridCell struct {
	Date        string           `json:"date"` // RFC 3339 midnight of the cell's day
	DateKey     string           `json:"dateKey"`
	Events      []SanitizedEvent `json:"events"`
	EventCount  int              `json:"eventCount"`
	CurrentYear bool             `json:"isCurrentYear"`
}

// GridWeek is exactly seven cells, Sunday through Saturday.
type GridWeek [7]GridCell

// MonthGroup buckets a month's events for the history view, with a per-day
// sub-grouping.
type MonthGroup struct {
	Events []SanitizedEvent            `json:"events"`
	Days   map[string][]SanitizedEvent `json:"days"`
}

// GroupedEvents maps a display month key ("January 2024") to its bucket.
type GroupedEvents map[string]MonthGroup

// Achievements is the fixed set of threshold flags derived from DailyEvents.
type Achievements struct {
	Welcome  bool `json:"welcome"`
	Beginner bool `json:"beginner"`
	OnFire   bool `json:"onFire"`
	King     bool `json:"king"`
}
