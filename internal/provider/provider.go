package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"cardvault/internal/models"
	"cardvault/internal/repository"
)

// SetFilter narrows which sets a population run keeps. MaxAgeMonths <= 0
// disables the age cutoff. MinSetNumber only applies to providers whose sets
// are derived from card codes; it filters by exact numeric suffix instead of
// approximated dates.
type SetFilter struct {
	MaxAgeMonths int
	MinSetNumber int
}

// SetRef addresses one set for card population. Name must be resolved before
// calling providers that query upstream by set name rather than set code
// (Yu-Gi-Oh!); for everyone else it is optional.
type SetRef struct {
	SetID string
	Name  string
}

type SetsResult struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

type CardsResult struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Errors  []string `json:"errors"`
}

// Provider is one upstream catalog adapter. Each of the seven games has its
// own implementation; the orchestrator dispatches on game slug and never
// branches on provider internals.
type Provider interface {
	Game() models.GameSlug
	// Delay is the minimum pause between consecutive requests to this
	// provider's API.
	Delay() time.Duration
	PopulateSets(ctx context.Context, filter SetFilter) SetsResult
	PopulateCards(ctx context.Context, ref SetRef) CardsResult
}

// SetNameUnresolvedError reports a card population call against a provider
// that queries by set name, made without a resolvable name.
type SetNameUnresolvedError struct {
	Game      models.GameSlug
	SetID     string
	Attempted string
}

func (e *SetNameUnresolvedError) Error() string {
	return fmt.Sprintf("%s: cannot resolve set name for code %q (attempted name %q); populate sets first or supply the name",
		e.Game, e.SetID, e.Attempted)
}

// upsertSets writes mapped sets through the cache store one at a time,
// sleeping the provider delay between writes. A failed upsert is recorded and
// the loop continues; only the caller's catalog fetch is all-or-nothing.
func upsertSets(ctx context.Context, store repository.CacheRepository, log *zap.Logger,
	game models.GameSlug, delay time.Duration, sets []models.CachedSet, skipped int) SetsResult {

	result := SetsResult{Skipped: skipped}
	for i := range sets {
		set := &sets[i]
		if _, err := store.UpsertSet(ctx, set); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: set %s: %v", game, set.SetID, err))
			continue
		}
		result.Count++
		if i < len(sets)-1 {
			sleep(ctx, delay)
		}
	}
	result.Success = len(result.Errors) == 0
	if log != nil {
		log.Info("populated sets",
			zap.String("game", game.String()),
			zap.Int("count", result.Count),
			zap.Int("skipped", result.Skipped),
			zap.Int("errors", len(result.Errors)),
		)
	}
	return result
}

// upsertCardBatch submits all mapped cards for one set as a single batch.
func upsertCardBatch(ctx context.Context, store repository.CacheRepository, log *zap.Logger,
	game models.GameSlug, setID string, cards []models.CachedCard) CardsResult {

	result := CardsResult{}
	batch, err := store.BatchUpsertCards(ctx, cards)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: set %s: batch upsert: %v", game, setID, err))
		return result
	}
	result.Count = batch.Inserted + batch.Updated + batch.Skipped
	result.Success = true
	if log != nil {
		log.Info("populated cards",
			zap.String("game", game.String()),
			zap.String("set", setID),
			zap.Int("inserted", batch.Inserted),
			zap.Int("updated", batch.Updated),
			zap.Int("skipped", batch.Skipped),
		)
	}
	return result
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func fetchFailure(game models.GameSlug, what string, err error) string {
	return fmt.Sprintf("%s: fetching %s: %v", game, what, err)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// jsonStrings renders an ordered string list for a jsonb column; empty and
// all-blank lists become NULL rather than "[]".
func jsonStrings(values []string) datatypes.JSON {
	filtered := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	raw, err := json.Marshal(filtered)
	if err != nil {
		return nil
	}
	return raw
}
