package achievements

import (
	"fmt"
	"testing"

	"github.com/busyhub/busyhub/internal/models"
)

// days builds a DailyEvents map with count events on each of n consecutive
// dates starting at 2024-01-01 + offset days.
func days(daily models.DailyEvents, offset, n, count int) models.DailyEvents {
	if daily == nil {
		daily = models.DailyEvents{}
	}
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("2024-%02d-%02d", 1+(offset+i)/28, 1+(offset+i)%28)
		events := make([]models.SanitizedEvent, count)
		for j := range events {
			events[j] = models.SanitizedEvent{ID: fmt.Sprintf("%s-%d", key, j)}
		}
		daily[key] = events
	}
	return daily
}

func TestEvaluateEmpty(t *testing.T) {
	got := Evaluate(models.DailyEvents{})
	if got.Welcome || got.Beginner || got.OnFire || got.King {
		t.Errorf("empty input should grant nothing, got %+v", got)
	}
}

func TestEvaluateWelcome(t *testing.T) {
	got := Evaluate(days(nil, 0, 1, 1))
	if !got.Welcome {
		t.Error("any bucketed day should grant welcome")
	}
	if got.Beginner || got.OnFire || got.King {
		t.Errorf("one light day should grant only welcome, got %+v", got)
	}
}

func TestEvaluateBeginner(t *testing.T) {
	// Exactly 50 distinct days with 2 events each, nothing more.
	got := Evaluate(days(nil, 0, 50, 2))
	if !got.Beginner {
		t.Error("50 busy days should grant beginner")
	}
	if got.OnFire {
		t.Error("onFire needs 100 busy days and a 10-day streak of 3+")
	}

	// 49 days is one short.
	if got := Evaluate(days(nil, 0, 49, 2)); got.Beginner {
		t.Error("49 busy days should not grant beginner")
	}
}

func TestEvaluateOnFire(t *testing.T) {
	// 100 days with 3 events: busy-day count and streak both satisfied.
	got := Evaluate(days(nil, 0, 100, 3))
	if !got.OnFire {
		t.Errorf("100 heavy days should grant onFire, got %+v", got)
	}

	// 100 busy days but only 9 with 3+ events in a row: streak too short.
	daily := days(nil, 0, 100, 2)
	daily = days(daily, 100, 9, 3)
	if got := Evaluate(daily); got.OnFire {
		t.Error("9-day streak should not grant onFire")
	}
}

func TestEvaluateKing(t *testing.T) {
	// 200 days with 3 events each: 200 busy days, 200 heavy days.
	got := Evaluate(days(nil, 0, 200, 3))
	if !got.King {
		t.Errorf("200 heavy days should grant king, got %+v", got)
	}

	// 200 busy days but only 49 heavy ones.
	daily := days(nil, 0, 151, 2)
	daily = days(daily, 151, 49, 3)
	if got := Evaluate(daily); got.King {
		t.Error("49 heavy days should not grant king")
	}
}

func TestEvaluateMonotonic(t *testing.T) {
	daily := days(nil, 0, 50, 2)
	before := Evaluate(daily)

	// Adding more qualifying days never revokes a granted flag.
	daily = days(daily, 50, 60, 3)
	after := Evaluate(daily)

	if before.Welcome && !after.Welcome {
		t.Error("welcome flipped back")
	}
	if before.Beginner && !after.Beginner {
		t.Error("beginner flipped back")
	}
}

func TestLongestStreakAdjacency(t *testing.T) {
	// Sparse dates: adjacency is by sorted position, not calendar distance.
	daily := models.DailyEvents{
		"2024-01-01": make([]models.SanitizedEvent, 3),
		"2024-02-15": make([]models.SanitizedEvent, 3),
		"2024-05-09": make([]models.SanitizedEvent, 3),
		"2024-06-01": make([]models.SanitizedEvent, 1), // breaks the run
		"2024-07-02": make([]models.SanitizedEvent, 3),
	}
	if got := longestStreak(daily, 3); got != 3 {
		t.Errorf("longestStreak = %d, want 3", got)
	}
}
