// Package google fetches calendar events from the Google Calendar API and
// handles the OAuth token lifecycle. Events come back in the raw provider
// shape; all interpretation happens in the analytics pipeline.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/busyhub/busyhub/internal/models"
)

// CalendarClient wraps an authenticated Google Calendar service.
type CalendarClient struct {
	service *calendar.Service
	logger  *slog.Logger
}

// NewClient creates a calendar client for one authenticated account. The
// account's token is read from token-<account>.json, written by the auth
// command.
func NewClient(ctx context.Context, logger *slog.Logger, clientID, clientSecret, accountName string) (*CalendarClient, error) {
	config := oauthConfig(clientID, clientSecret)

	tokenFile := fmt.Sprintf("token-%s.json", accountName)
	token, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("could not load token for account %s: %w. Please run the 'auth' command first", accountName, err)
	}

	client := config.Client(ctx, token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &CalendarClient{service: service, logger: logger}, nil
}

// EventsForYear fetches every event of the target year from the calendar,
// following pagination. Recurring events are expanded server-side.
func (c *CalendarClient) EventsForYear(ctx context.Context, calendarID string, year int) ([]models.RawEvent, error) {
	tmin := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	tmax := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	c.logger.Debug("fetching events", "calendarID", calendarID, "year", year)

	var raw []models.RawEvent
	pageToken := ""
	for {
		call := c.service.Events.List(calendarID).
			ShowDeleted(false).
			SingleEvents(true).
			TimeMin(tmin).
			TimeMax(tmax).
			OrderBy("startTime").
			MaxResults(2500).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve events: %w", err)
		}

		for _, item := range events.Items {
			raw = append(raw, toRawEvent(item))
		}
		pageToken = events.NextPageToken
		if pageToken == "" {
			break
		}
	}

	c.logger.Info("fetched events from Google Calendar", "count", len(raw), "calendarID", calendarID, "year", year)
	return raw, nil
}

// toRawEvent converts an API event into the pipeline's raw shape without
// interpreting it. Missing start/end blocks become empty EventTimes; the
// sanitizer decides what is usable.
func toRawEvent(item *calendar.Event) models.RawEvent {
	ev := models.RawEvent{
		ID:          item.Id,
		Status:      item.Status,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
		EventType:   item.EventType,
	}
	if item.Organizer != nil {
		ev.Organizer = item.Organizer.Email
	}
	if item.Start != nil {
		ev.Start = models.EventTime{DateTime: item.Start.DateTime, TimeZone: item.Start.TimeZone}
	}
	if item.End != nil {
		ev.End = models.EventTime{DateTime: item.End.DateTime, TimeZone: item.End.TimeZone}
	}
	for _, a := range item.Attendees {
		ev.Attendees = append(ev.Attendees, models.Attendee{
			Email:          a.Email,
			DisplayName:    a.DisplayName,
			ResponseStatus: a.ResponseStatus,
		})
	}
	return ev
}

// OAuthConfig returns the OAuth2 config used by both the auth flow and the
// calendar client.
func OAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return oauthConfig(clientID, clientSecret)
}

func oauthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{calendar.CalendarReadonlyScope},
		Endpoint:     google.Endpoint,
	}
}

// TokenFromWeb exchanges an authorization code for a token.
func TokenFromWeb(ctx context.Context, config *oauth2.Config, authCode string) (*oauth2.Token, error) {
	return config.Exchange(ctx, authCode)
}

// SaveToken writes a token to path.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// TokenAccounts lists account names that have a saved token file.
func TokenAccounts() ([]string, error) {
	files, err := os.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var accounts []string
	for _, file := range files {
		if strings.HasPrefix(file.Name(), "token-") && strings.HasSuffix(file.Name(), ".json") {
			accountName := strings.TrimSuffix(strings.TrimPrefix(file.Name(), "token-"), ".json")
			accounts = append(accounts, accountName)
		}
	}
	return accounts, nil
}
