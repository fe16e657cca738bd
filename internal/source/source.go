// Package source adapts the configured event providers to the single
// interface the server and digest consume, and merges multiple providers
// into one stream.
package source

import (
	"context"
	"log/slog"

	"github.com/busyhub/busyhub/internal/config"
	"github.com/busyhub/busyhub/internal/google"
	"github.com/busyhub/busyhub/internal/ics"
	"github.com/busyhub/busyhub/internal/models"
	"github.com/busyhub/busyhub/internal/server"
)

// FromGoogle adapts one authenticated Google Calendar client.
func FromGoogle(client *google.CalendarClient, calendarID string) server.EventSource {
	return googleSource{client: client, calendarID: calendarID}
}

type googleSource struct {
	client     *google.CalendarClient
	calendarID string
}

func (g googleSource) EventsForYear(ctx context.Context, year int) ([]models.RawEvent, error) {
	return g.client.EventsForYear(ctx, g.calendarID, year)
}

// FromICS adapts a set of ICS feed subscriptions. A feed that fails to fetch
// or parse is logged and skipped; the remaining feeds still contribute.
func FromICS(logger *slog.Logger, sources []config.ICSSource) server.EventSource {
	return icsSource{
		logger:  logger,
		fetcher: ics.NewFetcher(),
		feed:    ics.NewFeed(logger),
		sources: sources,
	}
}

type icsSource struct {
	logger  *slog.Logger
	fetcher *ics.Fetcher
	feed    *ics.Feed
	sources []config.ICSSource
}

func (s icsSource) EventsForYear(ctx context.Context, year int) ([]models.RawEvent, error) {
	var all []models.RawEvent
	for _, src := range s.sources {
		body, err := s.fetcher.Fetch(ctx, src.URL)
		if err != nil {
			s.logger.Error("failed to fetch ICS source", "id", src.ID, "error", err)
			continue
		}
		events, err := s.feed.EventsForYear(src.ID, body, year)
		if err != nil {
			s.logger.Error("failed to parse ICS source", "id", src.ID, "error", err)
			continue
		}
		all = append(all, events...)
	}
	return all, nil
}

// Combine merges several sources into one. Any source error fails the whole
// fetch so the caller never renders a silently partial year.
func Combine(sources ...server.EventSource) server.EventSource {
	if len(sources) == 1 {
		return sources[0]
	}
	return combined(sources)
}

type combined []server.EventSource

func (c combined) EventsForYear(ctx context.Context, year int) ([]models.RawEvent, error) {
	var all []models.RawEvent
	for _, src := range c {
		events, err := src.EventsForYear(ctx, year)
		if err != nil {
			return nil, err
		}
		all = append(all, events...)
	}
	return all, nil
}
