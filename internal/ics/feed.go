// Package ics reads published ICS calendar feeds as an alternative event
// source. Feeds carry no confirmation status, so every expanded occurrence
// enters the pipeline as a confirmed event.
package ics

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/busyhub/busyhub/internal/models"
)

// maxOccurrencesPerEvent bounds RRULE expansion so a malformed feed cannot
// blow up memory.
const maxOccurrencesPerEvent = 5000

// parsedEvent is a normalized VEVENT before recurrence expansion.
type parsedEvent struct {
	uid      string
	summary  string
	location string
	start    time.Time
	end      time.Time
	rawRRule string
	exDates  []time.Time
}

// Feed parses and expands one ICS payload.
type Feed struct {
	logger *slog.Logger
}

func NewFeed(logger *slog.Logger) *Feed {
	return &Feed{logger: logger}
}

// EventsForYear parses body and expands every VEVENT into the raw events
// falling inside the target year. Unparsable VEVENTs are logged and skipped.
func (f *Feed) EventsForYear(sourceID string, body []byte, year int) ([]models.RawEvent, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("empty ICS body for source %s", sourceID)
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ICS for source %s: %w", sourceID, err)
	}

	rangeStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	var raw []models.RawEvent
	for _, comp := range cal.Events() {
		ev, err := parseVEvent(comp)
		if err != nil {
			f.logger.Warn("skipping unparsable VEVENT", "source", sourceID, "error", err)
			continue
		}
		raw = append(raw, expand(ev, sourceID, rangeStart, rangeEnd)...)
	}

	f.logger.Info("expanded ICS feed", "source", sourceID, "year", year, "count", len(raw))
	return raw, nil
}

func parseVEvent(ve *ical.VEvent) (parsedEvent, error) {
	var out parsedEvent

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, fmt.Errorf("missing UID")
	}
	out.uid = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.location = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("unusable DTSTART: %w", err)
	}
	out.start = start
	if end, err := ve.GetEndAt(); err == nil {
		out.end = end
	} else {
		out.end = start
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.rawRRule = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(strings.TrimSpace(part)); err == nil {
				out.exDates = append(out.exDates, t)
			}
		}
	}

	return out, nil
}

// expand materializes occurrences of ev inside [rangeStart, rangeEnd).
func expand(ev parsedEvent, sourceID string, rangeStart, rangeEnd time.Time) []models.RawEvent {
	if ev.rawRRule == "" {
		if ev.start.Before(rangeStart) || !ev.start.Before(rangeEnd) {
			return nil
		}
		return []models.RawEvent{toRawEvent(ev, sourceID, ev.start, ev.end)}
	}

	r, err := rrule.StrToRRule(ev.rawRRule)
	if err != nil {
		return nil
	}
	r.DTStart(ev.start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.exDates {
		set.ExDate(ex.In(ev.start.Location()))
	}

	times := set.Between(rangeStart.In(ev.start.Location()), rangeEnd.In(ev.start.Location()), true)
	if len(times) > maxOccurrencesPerEvent {
		times = times[:maxOccurrencesPerEvent]
	}

	dur := ev.end.Sub(ev.start)
	out := make([]models.RawEvent, 0, len(times))
	for _, start := range times {
		out = append(out, toRawEvent(ev, sourceID, start, start.Add(dur)))
	}
	return out
}

func toRawEvent(ev parsedEvent, sourceID string, start, end time.Time) models.RawEvent {
	return models.RawEvent{
		ID:       fmt.Sprintf("%s/%s/%s", sourceID, ev.uid, start.Format(time.RFC3339)),
		Status:   models.StatusConfirmed,
		Summary:  ev.summary,
		Location: ev.location,
		Start:    models.EventTime{DateTime: start.Format(time.RFC3339)},
		End:      models.EventTime{DateTime: end.Format(time.RFC3339)},
	}
}

// parseICSTime parses the basic ICS date/date-time forms used by EXDATE.
func parseICSTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, time.Local)
	}
	return time.ParseInLocation("20060102", v, time.Local)
}
