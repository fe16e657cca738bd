package history

import (
	"testing"
	"time"

	"github.com/busyhub/busyhub/internal/models"
)

func event(id, start string) models.SanitizedEvent {
	return models.SanitizedEvent{
		ID:     id,
		Status: models.StatusConfirmed,
		Start:  models.EventTime{DateTime: start},
	}
}

var now = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestGroupFilters(t *testing.T) {
	events := []models.SanitizedEvent{
		event("past1", "2024-01-10T09:00:00Z"),
		event("past2", "2024-03-05T09:00:00Z"),
		event("future1", "2024-09-20T09:00:00Z"),
		event("bad", ""),
	}

	tests := []struct {
		filter    Filter
		wantTotal int
	}{
		{FilterPast, 2},
		{FilterUpcoming, 1},
		{FilterAll, 3},
	}

	for _, tt := range tests {
		res := Group(events, tt.filter, now)
		total := 0
		for _, group := range res.Monthly {
			total += len(group.Events)
		}
		if total != tt.wantTotal {
			t.Errorf("filter %s: %d events, want %d", tt.filter, total, tt.wantTotal)
		}
	}
}

func TestGroupMonthOrdering(t *testing.T) {
	events := []models.SanitizedEvent{
		event("a", "2024-01-10T09:00:00Z"),
		event("b", "2024-03-05T09:00:00Z"),
		event("c", "2024-05-02T09:00:00Z"),
	}

	past := Group(events, FilterPast, now)
	wantPast := []string{"May 2024", "March 2024", "January 2024"}
	if len(past.Months) != 3 {
		t.Fatalf("past months = %v", past.Months)
	}
	for i, want := range wantPast {
		if past.Months[i] != want {
			t.Errorf("past months[%d] = %q, want %q", i, past.Months[i], want)
		}
	}

	all := Group(events, FilterAll, now)
	wantAll := []string{"January 2024", "March 2024", "May 2024"}
	for i, want := range wantAll {
		if all.Months[i] != want {
			t.Errorf("all months[%d] = %q, want %q", i, all.Months[i], want)
		}
	}
}

func TestGroupDayBuckets(t *testing.T) {
	events := []models.SanitizedEvent{
		event("a", "2024-01-10T09:00:00Z"),
		event("b", "2024-01-10T14:00:00Z"),
		event("c", "2024-01-11T09:00:00Z"),
	}

	res := Group(events, FilterAll, now)
	group, ok := res.Monthly["January 2024"]
	if !ok {
		t.Fatal("missing January 2024 bucket")
	}
	if len(group.Events) != 3 {
		t.Errorf("month events = %d, want 3", len(group.Events))
	}
	if len(group.Days["2024-01-10"]) != 2 || len(group.Days["2024-01-11"]) != 1 {
		t.Errorf("day buckets = %v", group.Days)
	}
}

func TestGroupBoundaryAtNow(t *testing.T) {
	events := []models.SanitizedEvent{event("exact", now.Format(time.RFC3339))}

	if res := Group(events, FilterUpcoming, now); len(res.Months) != 1 {
		t.Error("event at now should count as upcoming")
	}
	if res := Group(events, FilterPast, now); len(res.Months) != 0 {
		t.Error("event at now should not count as past")
	}
}

func TestGrouperMemoizes(t *testing.T) {
	events := []models.SanitizedEvent{event("a", "2024-01-10T09:00:00Z")}
	g := &Grouper{}

	first := g.Get(events, FilterAll, now)
	second := g.Get(events, FilterAll, now)
	if len(first.Months) != 1 || len(second.Months) != 1 {
		t.Fatalf("unexpected results: %v / %v", first.Months, second.Months)
	}

	// A different filter recomputes.
	third := g.Get(events, FilterPast, now)
	if len(third.Months) != 1 {
		t.Errorf("past filter result = %v", third.Months)
	}
}
