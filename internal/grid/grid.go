// Package grid expands daily event buckets into the weeks-by-weekdays matrix
// behind the heatmap. Weeks run Sunday through Saturday; days from adjacent
// years are kept as padding so every row renders full width.
package grid

import (
	"reflect"
	"sync"
	"time"

	"github.com/busyhub/busyhub/internal/models"
	"github.com/busyhub/busyhub/internal/timeutil"
)

// maxWeeks caps the build loop. No Gregorian year spans more than 53
// Sunday-start weeks.
const maxWeeks = 53

// Build produces the year grid for daily: an ordered slice of weeks starting
// at the Sunday on or before January 1 and ending with the last week that
// still touches the target year.
func Build(daily models.DailyEvents, year int) []models.GridWeek {
	firstOfYear := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	cursor := timeutil.StartOfWeek(firstOfYear)

	var weeks []models.GridWeek
	for len(weeks) < maxWeeks {
		if len(weeks) > 0 && !touchesYear(weeks[len(weeks)-1], year) {
			break
		}
		var week models.GridWeek
		for i := range week {
			key := timeutil.DateKey(cursor)
			events := daily[key]
			if events == nil {
				events = []models.SanitizedEvent{}
			}
			week[i] = models.GridCell{
				Date:        cursor.Format(time.RFC3339),
				DateKey:     key,
				Events:      events,
				EventCount:  len(events),
				CurrentYear: cursor.Year() == year,
			}
			cursor = cursor.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
	}
	return weeks
}

func touchesYear(week models.GridWeek, year int) bool {
	for _, cell := range week {
		if cell.CurrentYear {
			return true
		}
	}
	return false
}

// Builder memoizes Build per (daily map identity, year). Rebuilding from the
// same inputs is idempotent, so the memo is purely an optimization.
type Builder struct {
	mu    sync.Mutex
	daily uintptr
	year  int
	weeks []models.GridWeek
}

// Get returns the grid for (daily, year), reusing the previous result when
// called with the same map and year again.
func (b *Builder) Get(daily models.DailyEvents, year int) []models.GridWeek {
	id := reflect.ValueOf(daily).Pointer()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.weeks != nil && b.daily == id && b.year == year {
		return b.weeks
	}
	b.daily = id
	b.year = year
	b.weeks = Build(daily, year)
	return b.weeks
}
