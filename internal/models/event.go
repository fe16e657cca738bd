package models

// EventTime mirrors the calendar provider's start/end shape. DateTime is an
// RFC 3339 string when present; all-day events may leave it empty.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Attendee is a participant on a calendar event.
type Attendee struct {
	Email          string `json:"email,omitempty"`
	DisplayName    string `json:"displayName,omitempty"`
	ResponseStatus string `json:"responseStatus,omitempty"`
}

// RawEvent is an event exactly as delivered by an event source (Google
// Calendar or an ICS feed). Read-only to the pipeline.
type RawEvent struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Organizer   string     `json:"organizer,omitempty"`
	Start       EventTime  `json:"start"`
	End         EventTime  `json:"end"`
	Attendees   []Attendee `json:"attendees,omitempty"`
	EventType   string     `json:"eventType,omitempty"`
}

// StatusConfirmed is the only status admitted into aggregation.
const StatusConfirmed = "confirmed"

// SanitizedEvent is the reduced, stable-shape projection of a RawEvent used
// by every pipeline stage. Attendees is never nil.
type SanitizedEvent struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	Summary   string     `json:"summary,omitempty"`
	Start     EventTime  `json:"start"`
	End       EventTime  `json:"end"`
	Attendees []Attendee `json:"attendees"`
	EventType string     `json:"eventType,omitempty"`
}

// DailyEvents maps a YYYY-MM-DD date key to the confirmed events on that day.
type DailyEvents map[string][]SanitizedEvent
