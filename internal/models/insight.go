package models

// DayTotal summarizes one active day for insight computation. Clock strings
// are UTC hh:mm so the same data renders identically in every timezone.
type DayTotal struct {
	DateKey        string  `json:"dateKey"`
	MeetingCount   int     `json:"meetingCount"`
	TotalHours     float64 `json:"totalHours"`
	EarliestStart  string  `json:"earliestStart"`
	LatestEnd      string  `json:"latestEnd"`
	MorningCount   int     `json:"morningCount"`
	AfternoonCount int     `json:"afternoonCount"`
	WorkdayHours   float64 `json:"workdayHours"`
}

// WeekdayDistribution counts meetings per weekday, 0=Sunday..6=Saturday.
type WeekdayDistribution struct {
	Counts   [7]int `json:"counts"`
	Heaviest int    `json:"heaviest"`
	Lightest int    `json:"lightest"`
}

// MonthTotal is one month's meeting volume.
type MonthTotal struct {
	Month        string  `json:"month"` // YYYY-MM
	MeetingCount int     `json:"meetingCount"`
	TotalHours   float64 `json:"totalHours"`
}

// Trend classification values for MonthlyTrend.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// MonthlyTrend is the per-month series plus its classification over the most
// recent six populated months.
type MonthlyTrend struct {
	Months []MonthTotal `json:"months"`
	Trend  string       `json:"trend"`
}

// GapStats describes spacing between same-day meetings.
type GapStats struct {
	AverageGapMinutes float64 `json:"averageGapMinutes"`
	BackToBackDays    int     `json:"backToBackDays"`
	SpreadOutDays     int     `json:"spreadOutDays"`
}

// BoundaryStats counts workday-boundary patterns across active days, each
// with its share of total active days.
type BoundaryStats struct {
	EarlyStartDays       int     `json:"earlyStartDays"`    // first meeting before 08:00
	LateEndDays          int     `json:"lateEndDays"`       // last meeting ends after 18:00
	LongDays             int     `json:"longDays"`          // workday span >= 10h
	BusinessHoursDays    int     `json:"businessHoursDays"` // entirely within 09:00-17:00
	EarlyStartPercent    float64 `json:"earlyStartPercent"`
	LateEndPercent       float64 `json:"lateEndPercent"`
	LongDayPercent       float64 `json:"longDayPercent"`
	BusinessHoursPercent float64 `json:"businessHoursPercent"`
}

// TypeStats is the keyword-heuristic meeting classification, with shares of
// the total confirmed-event count.
type TypeStats struct {
	Recurring        int     `json:"recurring"`
	OneOff           int     `json:"oneOff"`
	External         int     `json:"external"`
	Internal         int     `json:"internal"`
	RecurringPercent float64 `json:"recurringPercent"`
	ExternalPercent  float64 `json:"externalPercent"`
}

// HeavyStreak is a run of consecutive heavy days in sorted-day order.
type HeavyStreak struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Length int    `json:"length"`
}

// InsightData is everything the insight synthesizer derives, including the
// final prompt string handed to the text-generation API.
type InsightData struct {
	TotalEvents  int                 `json:"totalEvents"`
	ActiveDays   int                 `json:"activeDays"`
	DayTotals    []DayTotal          `json:"dayTotals"`
	Weekdays     WeekdayDistribution `json:"weekdays"`
	Monthly      MonthlyTrend        `json:"monthly"`
	Gaps         GapStats            `json:"gaps"`
	Boundaries   BoundaryStats       `json:"boundaries"`
	Types        TypeStats           `json:"types"`
	HeavyStreaks []HeavyStreak       `json:"heavyStreaks"`
	LongestHeavy HeavyStreak         `json:"longestHeavyStreak"`
	BusyWeekend  bool                `json:"busyWeekend"`
	Prompt       string              `json:"prompt"`
}
