package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/busyhub/busyhub/internal/database"
)

// Postgres is the shared store for multi-process deployments. It keeps the
// same TTL and eviction contract as Memory.
type Postgres struct {
	db *database.DB
}

// NewPostgres returns a store backed by the insight_cache table.
func NewPostgres(db *database.DB) *Postgres {
	return &Postgres{db: db}
}

// Get returns the entry for key, or nil if missing or older than TTL.
func (p *Postgres) Get(ctx context.Context, key string) (*Entry, error) {
	entry := &Entry{}
	err := p.db.Pool.QueryRow(ctx,
		`SELECT analysis, prompt_tokens, completion_tokens, total_tokens, user_email, created_at
		 FROM insight_cache WHERE cache_key = $1 AND created_at > $2`,
		key, time.Now().Add(-TTL),
	).Scan(&entry.Analysis, &entry.PromptTokens, &entry.CompletionTokens,
		&entry.TotalTokens, &entry.UserEmail, &entry.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return entry, nil
}

// Set upserts the entry, purges expired rows, and trims the table oldest-
// first past MaxEntries.
func (p *Postgres) Set(ctx context.Context, key string, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := p.db.Pool.Exec(ctx,
		`INSERT INTO insight_cache (cache_key, analysis, prompt_tokens, completion_tokens, total_tokens, user_email, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (cache_key) DO UPDATE SET
		   analysis = EXCLUDED.analysis,
		   prompt_tokens = EXCLUDED.prompt_tokens,
		   completion_tokens = EXCLUDED.completion_tokens,
		   total_tokens = EXCLUDED.total_tokens,
		   user_email = EXCLUDED.user_email,
		   created_at = EXCLUDED.created_at`,
		key, entry.Analysis, entry.PromptTokens, entry.CompletionTokens,
		entry.TotalTokens, entry.UserEmail, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	if _, err := p.db.Pool.Exec(ctx,
		`DELETE FROM insight_cache WHERE created_at <= $1`, time.Now().Add(-TTL),
	); err != nil {
		return fmt.Errorf("failed to purge expired cache entries: %w", err)
	}

	_, err = p.db.Pool.Exec(ctx,
		`DELETE FROM insight_cache WHERE cache_key IN (
		   SELECT cache_key FROM insight_cache ORDER BY created_at DESC
		   OFFSET $1
		 )`, MaxEntries,
	)
	if err != nil {
		return fmt.Errorf("failed to trim cache: %w", err)
	}
	return nil
}

// Evict removes the entry for key if present.
func (p *Postgres) Evict(ctx context.Context, key string) error {
	if _, err := p.db.Pool.Exec(ctx,
		`DELETE FROM insight_cache WHERE cache_key = $1`, key,
	); err != nil {
		return fmt.Errorf("failed to evict cache entry: %w", err)
	}
	return nil
}
