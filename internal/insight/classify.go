package insight

import (
	"strings"

	"github.com/busyhub/busyhub/internal/models"
	"github.com/busyhub/busyhub/internal/timeutil"
)

// Keywords drives the meeting-type heuristics. The lists are deliberately
// plain data so deployments can tune them from config without code changes.
type Keywords struct {
	Recurring []string `yaml:"recurring"`
	External  []string `yaml:"external"`
}

// DefaultKeywords returns the stock classification tables.
func DefaultKeywords() Keywords {
	return Keywords{
		Recurring: []string{"weekly", "daily", "standup", "recurring", "1:1", "sync"},
		External:  []string{"external", "client", "customer", "vendor", "demo", "presentation"},
	}
}

// classifyTypes buckets every confirmed event as recurring vs one-off and
// external-facing vs internal by case-insensitive substring match on the
// summary. The two axes are independent.
func classifyTypes(events []models.SanitizedEvent, kw Keywords) models.TypeStats {
	var stats models.TypeStats
	for _, ev := range events {
		summary := strings.ToLower(ev.Summary)
		if matchesAny(summary, kw.Recurring) {
			stats.Recurring++
		} else {
			stats.OneOff++
		}
		if matchesAny(summary, kw.External) {
			stats.External++
		} else {
			stats.Internal++
		}
	}
	if total := len(events); total > 0 {
		stats.RecurringPercent = timeutil.Round1(float64(stats.Recurring) / float64(total) * 100)
		stats.ExternalPercent = timeutil.Round1(float64(stats.External) / float64(total) * 100)
	}
	return stats
}

func matchesAny(summary string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(summary, kw) {
			return true
		}
	}
	return false
}
