// Package cache memoizes paid text-generation responses behind one
// injectable store so repeated analyses of identical data never hit the API
// twice. The key is derived from the prompt (and user, when known); entries
// age out after three days.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// TTL is how long an entry stays servable. Reads treat anything older as
// absent.
const TTL = 3 * 24 * time.Hour

// MaxEntries caps a store's size; writes evict oldest-first beyond it.
const MaxEntries = 1000

// Entry is one cached analysis with its token accounting.
type Entry struct {
	Analysis         string    `json:"analysis"`
	PromptTokens     int       `json:"promptTokens"`
	CompletionTokens int       `json:"completionTokens"`
	TotalTokens      int       `json:"totalTokens"`
	UserEmail        string    `json:"userEmail,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Store is the single cache abstraction the insight flow depends on.
// Implementations must honor the TTL on read and the MaxEntries bound on
// write.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry Entry) error
	Evict(ctx context.Context, key string) error
}

// Key derives the cache key for a prompt. When userEmail is non-empty it is
// folded into the hash so different users never share entries.
func Key(userEmail, prompt string) string {
	h := sha256.New()
	if userEmail != "" {
		h.Write([]byte(userEmail))
	}
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}
