// Package aggregate buckets confirmed events into daily, weekly, and monthly
// statistics for the dashboard charts.
package aggregate

import (
	"sort"

	"github.com/busyhub/busyhub/internal/models"
	"github.com/busyhub/busyhub/internal/timeutil"
)

// Stats holds the three granularities side by side, each sorted ascending by
// its date key.
type Stats struct {
	Daily   []models.PeriodStat `json:"dailyStats"`
	Weekly  []models.PeriodStat `json:"weeklyStats"`
	Monthly []models.PeriodStat `json:"monthlyStats"`
}

// Run aggregates confirmed events into the three granularities. Events whose
// start time does not parse are excluded from all three; that is a policy
// choice, not an error. Each event's date is parsed exactly once.
func Run(events []models.SanitizedEvent) Stats {
	daily := map[string][]models.SanitizedEvent{}
	weekly := map[string][]models.SanitizedEvent{}
	monthly := map[string][]models.SanitizedEvent{}

	for _, ev := range events {
		start, ok := timeutil.ParseDate(ev.Start.DateTime)
		if !ok {
			continue
		}
		dayKey := timeutil.DateKey(start)
		weekKey := timeutil.WeekKey(start)
		monthKey := timeutil.MonthKey(start)
		daily[dayKey] = append(daily[dayKey], ev)
		weekly[weekKey] = append(weekly[weekKey], ev)
		monthly[monthKey] = append(monthly[monthKey], ev)
	}

	return Stats{
		Daily:   materialize(daily),
		Weekly:  materialize(weekly),
		Monthly: materialize(monthly),
	}
}

// materialize turns a key->events map into a key-sorted stat slice. The keys
// are fixed-width zero-padded, so string order is date order.
func materialize(buckets map[string][]models.SanitizedEvent) []models.PeriodStat {
	stats := make([]models.PeriodStat, 0, len(buckets))
	for key, events := range buckets {
		stats = append(stats, models.PeriodStat{
			Date:   key,
			Count:  len(events),
			Events: events,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats
}
