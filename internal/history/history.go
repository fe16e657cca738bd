// Package history filters events relative to now and groups them into the
// month-to-day nesting the history view renders.
package history

import (
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/busyhub/busyhub/internal/models"
	"github.com/busyhub/busyhub/internal/timeutil"
)

// Filter selects which events survive relative to now.
type Filter string

const (
	FilterPast     Filter = "past"
	FilterUpcoming Filter = "upcoming"
	FilterAll      Filter = "all"
)

// Valid reports whether f is one of the three supported filters.
func (f Filter) Valid() bool {
	return f == FilterPast || f == FilterUpcoming || f == FilterAll
}

// Result is the grouped history view: month buckets plus the month keys in
// display order.
type Result struct {
	Monthly models.GroupedEvents `json:"monthlyEvents"`
	Months  []string             `json:"sortedMonths"`
}

// Group filters events by filter relative to now and buckets the survivors
// by display month, then by day within each month. Past months sort most
// recent first; upcoming and all sort soonest first. Events with unparsable
// start times are dropped.
func Group(events []models.SanitizedEvent, filter Filter, now time.Time) Result {
	res := Result{Monthly: models.GroupedEvents{}}

	type monthOrder struct {
		key  string
		sort time.Time
	}
	var order []monthOrder

	for _, ev := range events {
		start, ok := timeutil.ParseDate(ev.Start.DateTime)
		if !ok {
			continue
		}
		switch filter {
		case FilterPast:
			if !start.Before(now) {
				continue
			}
		case FilterUpcoming:
			if start.Before(now) {
				continue
			}
		}

		monthKey := timeutil.DisplayMonth(start)
		group, seen := res.Monthly[monthKey]
		if !seen {
			group = models.MonthGroup{Days: map[string][]models.SanitizedEvent{}}
			order = append(order, monthOrder{
				key:  monthKey,
				sort: time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC),
			})
		}
		group.Events = append(group.Events, ev)
		dayKey := timeutil.DateKey(start)
		group.Days[dayKey] = append(group.Days[dayKey], ev)
		res.Monthly[monthKey] = group
	}

	sort.Slice(order, func(i, j int) bool {
		if filter == FilterPast {
			return order[i].sort.After(order[j].sort)
		}
		return order[i].sort.Before(order[j].sort)
	})
	res.Months = make([]string, len(order))
	for i, m := range order {
		res.Months[i] = m.key
	}
	return res
}

// Grouper memoizes Group per (events slice identity, filter). The grouping
// is relative to now, so the memo also keys on the calendar day it was
// computed for.
type Grouper struct {
	mu     sync.Mutex
	events uintptr
	filter Filter
	day    string
	result Result
}

// Get returns the grouped history for (events, filter), reusing the previous
// result when the same slice, filter, and day recur.
func (g *Grouper) Get(events []models.SanitizedEvent, filter Filter, now time.Time) Result {
	id := uintptr(0)
	if len(events) > 0 {
		id = reflect.ValueOf(events).Pointer()
	}
	day := timeutil.DateKey(now)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.result.Monthly != nil && g.events == id && g.filter == filter && g.day == day {
		return g.result
	}
	g.events = id
	g.filter = filter
	g.day = day
	g.result = Group(events, filter, now)
	return g.result
}
