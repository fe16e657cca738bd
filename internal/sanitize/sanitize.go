// Package sanitize normalizes raw calendar events into the stable shape the
// rest of the analytics pipeline works on.
package sanitize

import (
	"github.com/busyhub/busyhub/internal/models"
	"github.com/busyhub/busyhub/internal/timeutil"
)

// Result carries every projection of one sanitation pass.
type Result struct {
	Sanitized []models.SanitizedEvent `json:"sanitized"`
	Confirmed []models.SanitizedEvent `json:"confirmedEvents"`
	Daily     models.DailyEvents      `json:"dailyEvents"`
	Total     int                     `json:"totalEvents"`
}

// Run projects raw events into sanitized form, extracts the confirmed+valid
// working set, and groups it by local date key. A nil input is treated as
// empty; Run never fails on malformed data, it only excludes it.
func Run(raw []models.RawEvent) Result {
	res := Result{
		Sanitized: make([]models.SanitizedEvent, 0, len(raw)),
		Confirmed: make([]models.SanitizedEvent, 0, len(raw)),
		Daily:     models.DailyEvents{},
	}

	for _, ev := range raw {
		s := models.SanitizedEvent{
			ID:        ev.ID,
			Status:    ev.Status,
			Summary:   ev.Summary,
			Start:     ev.Start,
			End:       ev.End,
			Attendees: ev.Attendees,
			EventType: ev.EventType,
		}
		if s.Attendees == nil {
			s.Attendees = []models.Attendee{}
		}
		res.Sanitized = append(res.Sanitized, s)

		if s.Status != models.StatusConfirmed {
			continue
		}
		start, ok := timeutil.ParseDate(s.Start.DateTime)
		if !ok {
			continue
		}
		res.Confirmed = append(res.Confirmed, s)
		key := timeutil.DateKey(start)
		res.Daily[key] = append(res.Daily[key], s)
	}

	res.Total = len(res.Confirmed)
	return res
}
