package ics

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

const testCalendar = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//busyhub//test//EN
BEGIN:VEVENT
UID:single@test
DTSTART:20240110T090000Z
DTEND:20240110T100000Z
SUMMARY:Planning
END:VEVENT
BEGIN:VEVENT
UID:old@test
DTSTART:20230510T090000Z
DTEND:20230510T100000Z
SUMMARY:Last year
END:VEVENT
BEGIN:VEVENT
UID:recurring@test
DTSTART:20240101T090000Z
DTEND:20240101T093000Z
RRULE:FREQ=DAILY;COUNT=3
SUMMARY:Standup
END:VEVENT
END:VCALENDAR
`

func testFeed() *Feed {
	return NewFeed(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func icsBody(s string) []byte {
	return []byte(strings.ReplaceAll(s, "\n", "\r\n"))
}

func TestEventsForYear(t *testing.T) {
	events, err := testFeed().EventsForYear("team", icsBody(testCalendar), 2024)
	if err != nil {
		t.Fatal(err)
	}

	// One single event in range + three daily occurrences; the 2023 event
	// stays out.
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4: %+v", len(events), events)
	}

	summaries := map[string]int{}
	for _, ev := range events {
		summaries[ev.Summary]++
		if ev.Status != "confirmed" {
			t.Errorf("event %s status = %q, want confirmed", ev.ID, ev.Status)
		}
		if ev.Start.DateTime == "" || ev.End.DateTime == "" {
			t.Errorf("event %s is missing times", ev.ID)
		}
	}
	if summaries["Planning"] != 1 || summaries["Standup"] != 3 {
		t.Errorf("summaries = %v", summaries)
	}
}

func TestEventsForYearDistinctIDs(t *testing.T) {
	events, err := testFeed().EventsForYear("team", icsBody(testCalendar), 2024)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, ev := range events {
		if seen[ev.ID] {
			t.Errorf("duplicate occurrence id %s", ev.ID)
		}
		seen[ev.ID] = true
	}
}

func TestEventsForYearEmptyBody(t *testing.T) {
	if _, err := testFeed().EventsForYear("team", nil, 2024); err == nil {
		t.Error("empty body should error")
	}
}

func TestEventsForYearGarbage(t *testing.T) {
	if _, err := testFeed().EventsForYear("team", []byte("not an ics file"), 2024); err == nil {
		t.Error("malformed body should error")
	}
}
