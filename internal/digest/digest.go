// Package digest runs the scheduled insight job: fetch the year's events,
// synthesize the insight prompt, generate the analysis, and deliver it.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/busyhub/busyhub/internal/ai"
	"github.com/busyhub/busyhub/internal/cache"
	"github.com/busyhub/busyhub/internal/insight"
	"github.com/busyhub/busyhub/internal/sanitize"
	"github.com/busyhub/busyhub/internal/server"
)

// Notifier is the delivery side of a digest; Telegram in production.
type Notifier interface {
	Send(text string) error
}

type Digest struct {
	logger    *slog.Logger
	source    server.EventSource
	aiClient  *ai.Client
	store     cache.Store
	notifier  Notifier
	keywords  insight.Keywords
	userEmail string
}

func New(logger *slog.Logger, source server.EventSource, aiClient *ai.Client, store cache.Store, notifier Notifier, kw insight.Keywords, userEmail string) *Digest {
	return &Digest{
		logger:    logger,
		source:    source,
		aiClient:  aiClient,
		store:     store,
		notifier:  notifier,
		keywords:  kw,
		userEmail: userEmail,
	}
}

// Start schedules the digest on spec (standard 5-field cron syntax) and
// blocks until ctx is cancelled.
func (d *Digest) Start(ctx context.Context, spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := d.RunOnce(ctx); err != nil {
			d.logger.Error("digest run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}

	d.logger.Info("digest scheduler started", "schedule", spec)
	c.Start()
	<-ctx.Done()

	stopCtx := c.Stop()
	<-stopCtx.Done()
	d.logger.Info("digest scheduler stopped")
	return nil
}

// RunOnce executes a single digest cycle for the current year.
func (d *Digest) RunOnce(ctx context.Context) error {
	year := time.Now().Year()
	raw, err := d.source.EventsForYear(ctx, year)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	result := sanitize.Run(raw)
	data := insight.Synthesize(result.Confirmed, result.Daily, d.keywords)
	if data == nil {
		d.logger.Info("no confirmed events, skipping digest", "year", year)
		return nil
	}

	key := cache.Key(d.userEmail, data.Prompt)
	analysis := ""
	if entry, err := d.store.Get(ctx, key); err != nil {
		d.logger.Error("cache read failed", "error", err)
	} else if entry != nil {
		analysis = entry.Analysis
	}

	if analysis == "" {
		var usage ai.Usage
		analysis, usage, err = d.aiClient.Analyze(ctx, data.Prompt)
		if err != nil {
			return fmt.Errorf("failed to generate analysis: %w", err)
		}
		if err := d.store.Set(ctx, key, cache.Entry{
			Analysis:         analysis,
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
			UserEmail:        d.userEmail,
		}); err != nil {
			d.logger.Error("cache write failed", "error", err)
		}
	}

	if err := d.notifier.Send(analysis); err != nil {
		return fmt.Errorf("failed to deliver digest: %w", err)
	}
	d.logger.Info("digest delivered", "year", year, "events", result.Total)
	return nil
}
