// Package insight derives the productivity statistics behind the AI analysis
// and renders them into the prompt sent to the text-generation API. Every
// computation here is a pure fold over the sanitized event data; the LLM call
// itself lives elsewhere.
package insight

import (
	"sort"
	"time"

	"github.com/busyhub/busyhub/internal/models"
	"github.com/busyhub/busyhub/internal/timeutil"
)

// Heavy-day predicate thresholds.
const (
	heavyMeetings     = 5
	heavyHours        = 6.0
	heavyWorkdayHours = 12.0
)

// Workday boundary clock thresholds, in UTC minutes since midnight.
const (
	earlyStartMinute    = 8 * 60
	lateEndMinute       = 18 * 60
	businessStartMinute = 9 * 60
	businessEndMinute   = 17 * 60
	longDayHours        = 10.0
)

// backToBackGapMinutes is the largest gap still counted as back-to-back.
const backToBackGapMinutes = 15.0

// Synthesize computes the full insight record from the confirmed working set
// and its daily buckets. It returns nil when there are no confirmed events:
// "nothing to show" is distinct from zero-valued statistics.
func Synthesize(confirmed []models.SanitizedEvent, daily models.DailyEvents, kw Keywords) *models.InsightData {
	if len(confirmed) == 0 {
		return nil
	}

	totals := dayTotals(daily)
	data := &models.InsightData{
		TotalEvents: len(confirmed),
		ActiveDays:  len(totals),
		DayTotals:   totals,
		Weekdays:    weekdayDistribution(totals),
		Monthly:     monthlyTrend(totals),
		Gaps:        meetingGaps(daily),
		Boundaries:  boundaryPatterns(totals),
		Types:       classifyTypes(confirmed, kw),
		BusyWeekend: busyWeekend(daily),
	}
	data.HeavyStreaks, data.LongestHeavy = heavyStreaks(totals)
	data.Prompt = buildPrompt(data)
	return data
}

// dayTotals folds each daily bucket into one DayTotal, sorted by date key.
// An event whose end time is missing or unparsable contributes zero duration
// and its start stands in as its end.
func dayTotals(daily models.DailyEvents) []models.DayTotal {
	keys := make([]string, 0, len(daily))
	for key := range daily {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	totals := make([]models.DayTotal, 0, len(keys))
	for _, key := range keys {
		events := daily[key]
		total := models.DayTotal{DateKey: key, MeetingCount: len(events)}

		var earliest, latest time.Time
		var hours float64
		for _, ev := range events {
			start, ok := timeutil.ParseDate(ev.Start.DateTime)
			if !ok {
				continue
			}
			end, ok := timeutil.ParseDate(ev.End.DateTime)
			if !ok || end.Before(start) {
				end = start
			}
			hours += end.Sub(start).Hours()

			if earliest.IsZero() || start.Before(earliest) {
				earliest = start
			}
			if latest.IsZero() || end.After(latest) {
				latest = end
			}
			if start.UTC().Hour() < 12 {
				total.MorningCount++
			} else {
				total.AfternoonCount++
			}
		}

		total.TotalHours = timeutil.Round1(hours)
		if !earliest.IsZero() {
			total.EarliestStart = timeutil.ClockUTC(earliest)
			total.LatestEnd = timeutil.ClockUTC(latest)
			total.WorkdayHours = timeutil.Round1(latest.Sub(earliest).Hours())
		}
		totals = append(totals, total)
	}
	return totals
}

func weekdayDistribution(totals []models.DayTotal) models.WeekdayDistribution {
	var dist models.WeekdayDistribution
	for _, day := range totals {
		date, ok := timeutil.ParseDate(day.DateKey)
		if !ok {
			continue
		}
		dist.Counts[int(date.Weekday())] += day.MeetingCount
	}
	for wd, count := range dist.Counts {
		if count > dist.Counts[dist.Heaviest] {
			dist.Heaviest = wd
		}
		if count < dist.Counts[dist.Lightest] {
			dist.Lightest = wd
		}
	}
	return dist
}

// monthlyTrend sums day totals per month and classifies the direction of the
// most recent six populated months: first vs last, with a 15% band around
// stable. Fewer than three populated months in the window stays stable.
func monthlyTrend(totals []models.DayTotal) models.MonthlyTrend {
	sums := map[string]*models.MonthTotal{}
	for _, day := range totals {
		if len(day.DateKey) < 7 {
			continue
		}
		month := day.DateKey[:7]
		entry, ok := sums[month]
		if !ok {
			entry = &models.MonthTotal{Month: month}
			sums[month] = entry
		}
		entry.MeetingCount += day.MeetingCount
		entry.TotalHours = timeutil.Round1(entry.TotalHours + day.TotalHours)
	}

	months := make([]models.MonthTotal, 0, len(sums))
	for _, entry := range sums {
		months = append(months, *entry)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

	trend := models.MonthlyTrend{Months: months, Trend: models.TrendStable}
	recent := months
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}
	if len(recent) >= 3 {
		first := float64(recent[0].MeetingCount)
		last := float64(recent[len(recent)-1].MeetingCount)
		switch {
		case first == 0 && last > 0:
			trend.Trend = models.TrendIncreasing
		case first == 0:
			// stays stable
		case (last-first)/first > 0.15:
			trend.Trend = models.TrendIncreasing
		case (last-first)/first < -0.15:
			trend.Trend = models.TrendDecreasing
		}
	}
	return trend
}

// meetingGaps measures spacing between same-day meetings. A day is
// back-to-back when most of its gaps are 15 minutes or less.
func meetingGaps(daily models.DailyEvents) models.GapStats {
	var stats models.GapStats
	var gapSum float64
	var gapCount int

	for _, events := range daily {
		if len(events) < 2 {
			continue
		}

		type span struct{ start, end time.Time }
		spans := make([]span, 0, len(events))
		for _, ev := range events {
			start, ok := timeutil.ParseDate(ev.Start.DateTime)
			if !ok {
				continue
			}
			end, ok := timeutil.ParseDate(ev.End.DateTime)
			if !ok || end.Before(start) {
				end = start
			}
			spans = append(spans, span{start, end})
		}
		if len(spans) < 2 {
			continue
		}
		sort.Slice(spans, func(i, j int) bool { return spans[i].start.Before(spans[j].start) })

		tight, loose := 0, 0
		for i := 1; i < len(spans); i++ {
			gap := spans[i].start.Sub(spans[i-1].end).Minutes()
			if gap < 0 {
				gap = 0
			}
			gapSum += gap
			gapCount++
			if gap <= backToBackGapMinutes {
				tight++
			} else {
				loose++
			}
		}
		if tight > loose {
			stats.BackToBackDays++
		} else {
			stats.SpreadOutDays++
		}
	}

	if gapCount > 0 {
		stats.AverageGapMinutes = timeutil.Round1(gapSum / float64(gapCount))
	}
	return stats
}

func boundaryPatterns(totals []models.DayTotal) models.BoundaryStats {
	var stats models.BoundaryStats
	active := 0
	for _, day := range totals {
		if day.EarliestStart == "" {
			continue
		}
		active++
		start := clockMinutes(day.EarliestStart)
		end := clockMinutes(day.LatestEnd)
		if start < earlyStartMinute {
			stats.EarlyStartDays++
		}
		if end > lateEndMinute {
			stats.LateEndDays++
		}
		if day.WorkdayHours >= longDayHours {
			stats.LongDays++
		}
		if start >= businessStartMinute && end <= businessEndMinute {
			stats.BusinessHoursDays++
		}
	}
	if active > 0 {
		pct := func(n int) float64 {
			return timeutil.Round1(float64(n) / float64(active) * 100)
		}
		stats.EarlyStartPercent = pct(stats.EarlyStartDays)
		stats.LateEndPercent = pct(stats.LateEndDays)
		stats.LongDayPercent = pct(stats.LongDays)
		stats.BusinessHoursPercent = pct(stats.BusinessHoursDays)
	}
	return stats
}

// clockMinutes converts an "hh:mm" clock string to minutes since midnight.
// Malformed input yields 0.
func clockMinutes(clock string) int {
	if len(clock) != 5 || clock[2] != ':' {
		return 0
	}
	h := int(clock[0]-'0')*10 + int(clock[1]-'0')
	m := int(clock[3]-'0')*10 + int(clock[4]-'0')
	return h*60 + m
}

// heavyStreaks finds runs of consecutive heavy days in sorted-day order.
// Only runs of two or more are reported; the longest is returned separately.
func heavyStreaks(totals []models.DayTotal) ([]models.HeavyStreak, models.HeavyStreak) {
	var streaks []models.HeavyStreak
	var longest, current models.HeavyStreak

	flush := func() {
		if current.Length >= 2 {
			streaks = append(streaks, current)
		}
		if current.Length > longest.Length {
			longest = current
		}
		current = models.HeavyStreak{}
	}

	for _, day := range totals {
		heavy := day.MeetingCount >= heavyMeetings ||
			day.TotalHours >= heavyHours ||
			day.WorkdayHours >= heavyWorkdayHours
		if !heavy {
			flush()
			continue
		}
		if current.Length == 0 {
			current.Start = day.DateKey
		}
		current.End = day.DateKey
		current.Length++
	}
	flush()

	return streaks, longest
}

// busyWeekend reports whether weekend volume crosses the threshold that makes
// weekend activity worth mentioning in the analysis.
func busyWeekend(daily models.DailyEvents) bool {
	weekend := 0
	for key, events := range daily {
		date, ok := timeutil.ParseDate(key)
		if !ok {
			continue
		}
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend += len(events)
		}
	}
	return weekend > 1
}
