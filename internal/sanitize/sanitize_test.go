package sanitize

import (
	"testing"

	"github.com/busyhub/busyhub/internal/models"
)

func event(id, status, start string) models.RawEvent {
	return models.RawEvent{
		ID:     id,
		Status: status,
		Start:  models.EventTime{DateTime: start},
		End:    models.EventTime{DateTime: start},
	}
}

func TestRunEmptyInput(t *testing.T) {
	for _, input := range [][]models.RawEvent{nil, {}} {
		res := Run(input)
		if len(res.Sanitized) != 0 || len(res.Confirmed) != 0 || len(res.Daily) != 0 || res.Total != 0 {
			t.Errorf("Run(%v) = %+v, want all empty", input, res)
		}
	}
}

func TestRunFiltersToConfirmedWithValidDate(t *testing.T) {
	raw := []models.RawEvent{
		event("a", "confirmed", "2024-01-01T09:00:00Z"),
		event("b", "tentative", "2024-01-01T10:00:00Z"),
		event("c", "cancelled", "2024-01-01T11:00:00Z"),
		event("d", "confirmed", ""),            // empty date stays out of aggregates
		event("e", "confirmed", "   "),         // whitespace only
		event("f", "confirmed", "not-a-date"),  // unparsable
		event("g", "confirmed", "2024-01-02T09:00:00Z"),
	}

	res := Run(raw)

	if len(res.Sanitized) != len(raw) {
		t.Errorf("Sanitized length = %d, want %d", len(res.Sanitized), len(raw))
	}
	if len(res.Confirmed) != 2 {
		t.Fatalf("Confirmed length = %d, want 2", len(res.Confirmed))
	}
	if res.Total != len(res.Confirmed) {
		t.Errorf("Total = %d, want %d", res.Total, len(res.Confirmed))
	}
	if res.Confirmed[0].ID != "a" || res.Confirmed[1].ID != "g" {
		t.Errorf("Confirmed = %v, want [a g]", []string{res.Confirmed[0].ID, res.Confirmed[1].ID})
	}

	// d, e, f are sanitized but not confirmed
	ids := map[string]bool{}
	for _, ev := range res.Sanitized {
		ids[ev.ID] = true
	}
	for _, id := range []string{"d", "e", "f"} {
		if !ids[id] {
			t.Errorf("event %s missing from sanitized output", id)
		}
	}
}

func TestRunDailyPartition(t *testing.T) {
	raw := []models.RawEvent{
		event("a", "confirmed", "2024-01-01T09:00:00Z"),
		event("b", "confirmed", "2024-01-01T14:00:00Z"),
		event("c", "confirmed", "2024-01-02T09:00:00Z"),
	}

	res := Run(raw)

	if len(res.Daily) != 2 {
		t.Fatalf("Daily size = %d, want 2", len(res.Daily))
	}
	if got := len(res.Daily["2024-01-01"]); got != 2 {
		t.Errorf("Daily[2024-01-01] = %d events, want 2", got)
	}
	if got := len(res.Daily["2024-01-02"]); got != 1 {
		t.Errorf("Daily[2024-01-02] = %d events, want 1", got)
	}

	// Every confirmed event appears in exactly one bucket.
	bucketed := 0
	for _, events := range res.Daily {
		bucketed += len(events)
	}
	if bucketed != len(res.Confirmed) {
		t.Errorf("bucketed %d events, confirmed %d", bucketed, len(res.Confirmed))
	}
}

func TestRunDefaultsAttendees(t *testing.T) {
	res := Run([]models.RawEvent{event("a", "confirmed", "2024-01-01T09:00:00Z")})
	if res.Sanitized[0].Attendees == nil {
		t.Error("Attendees should default to an empty list, got nil")
	}
}

func TestRunIdempotent(t *testing.T) {
	raw := []models.RawEvent{
		event("a", "confirmed", "2024-01-01T09:00:00Z"),
		event("b", "tentative", "2024-01-03T09:00:00Z"),
	}
	first := Run(raw)
	second := Run(raw)
	if first.Total != second.Total || len(first.Daily) != len(second.Daily) {
		t.Errorf("repeated runs differ: %+v vs %+v", first, second)
	}
}
