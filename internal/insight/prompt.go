package insight

import (
	"fmt"
	"strings"

	"github.com/busyhub/busyhub/internal/models"
)

var weekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

const promptHeader = `You are a productivity coach analyzing a user's calendar activity.
Write a short, friendly analysis (3-4 paragraphs) of their meeting habits based
on the statistics below. Be concrete: reference the numbers. Offer one or two
actionable suggestions. Do not invent data that is not listed.`

// buildPrompt serializes the computed statistics into the single
// self-contained instruction string sent to the text-generation API.
func buildPrompt(data *models.InsightData) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\n=== CALENDAR STATISTICS ===\n")

	fmt.Fprintf(&b, "Total confirmed meetings: %d across %d active days.\n",
		data.TotalEvents, data.ActiveDays)

	fmt.Fprintf(&b, "Busiest weekday: %s (%d meetings). Lightest weekday: %s (%d meetings).\n",
		weekdayNames[data.Weekdays.Heaviest], data.Weekdays.Counts[data.Weekdays.Heaviest],
		weekdayNames[data.Weekdays.Lightest], data.Weekdays.Counts[data.Weekdays.Lightest])

	fmt.Fprintf(&b, "Monthly meeting volume is %s over the recent months.\n", data.Monthly.Trend)
	if n := len(data.Monthly.Months); n > 0 {
		last := data.Monthly.Months[n-1]
		fmt.Fprintf(&b, "Most recent month (%s): %d meetings, %.1f hours.\n",
			last.Month, last.MeetingCount, last.TotalHours)
	}

	fmt.Fprintf(&b, "Meeting spacing: %d back-to-back days vs %d spread-out days; average gap %.1f minutes.\n",
		data.Gaps.BackToBackDays, data.Gaps.SpreadOutDays, data.Gaps.AverageGapMinutes)

	fmt.Fprintf(&b, "Workday boundaries: %.1f%% of days start before 08:00, %.1f%% end after 18:00, "+
		"%.1f%% span 10+ hours, %.1f%% stay within 09:00-17:00.\n",
		data.Boundaries.EarlyStartPercent, data.Boundaries.LateEndPercent,
		data.Boundaries.LongDayPercent, data.Boundaries.BusinessHoursPercent)

	fmt.Fprintf(&b, "Meeting mix: %.1f%% recurring, %.1f%% external-facing.\n",
		data.Types.RecurringPercent, data.Types.ExternalPercent)

	if data.LongestHeavy.Length >= 2 {
		fmt.Fprintf(&b, "Longest stretch of heavy days: %d days (%s to %s); %d heavy stretches total.\n",
			data.LongestHeavy.Length, data.LongestHeavy.Start, data.LongestHeavy.End,
			len(data.HeavyStreaks))
	}

	b.WriteString("\n=== INSTRUCTIONS ===\n")
	if data.BusyWeekend {
		b.WriteString("The user is noticeably active on weekends; comment on weekend workload and recovery time.\n")
	} else {
		b.WriteString("Weekend activity is negligible; do not mention weekends in the analysis.\n")
	}
	b.WriteString("Address the user directly as \"you\". Keep the tone encouraging.")

	return b.String()
}
