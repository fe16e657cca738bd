// Package achievements derives the dashboard's four badge flags from the
// daily event buckets.
package achievements

import (
	"sort"

	"github.com/busyhub/busyhub/internal/models"
)

// Thresholds for the badge rules.
const (
	beginnerBusyDays = 50  // days with >=2 events
	onFireStreakLen  = 10  // consecutive sorted days with >=3 events
	onFireBusyDays   = 100 // days with >=2 events
	kingBusyDays     = 200 // days with >=2 events
	kingHeavyDays    = 50  // days with >=3 events
)

// Evaluate recomputes every flag from scratch. Welcome is granted as soon as
// any bucketed day exists.
func Evaluate(daily models.DailyEvents) models.Achievements {
	busyDays := 0  // >=2 events
	heavyDays := 0 // >=3 events
	for _, events := range daily {
		if len(events) >= 2 {
			busyDays++
		}
		if len(events) >= 3 {
			heavyDays++
		}
	}

	return models.Achievements{
		Welcome:  len(daily) > 0,
		Beginner: busyDays >= beginnerBusyDays,
		OnFire:   longestStreak(daily, 3) >= onFireStreakLen && busyDays >= onFireBusyDays,
		King:     busyDays >= kingBusyDays && heavyDays >= kingHeavyDays,
	}
}

// longestStreak returns the longest run of adjacent entries in the sorted
// date-key list whose event count is at least minEvents. Adjacency is by
// sort position, not by calendar distance, so sparse data still streaks.
func longestStreak(daily models.DailyEvents, minEvents int) int {
	keys := make([]string, 0, len(daily))
	for key := range daily {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	longest, current := 0, 0
	for _, key := range keys {
		if len(daily[key]) >= minEvents {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}
