package repository

import (
	"context"
	"time"

	"cardvault/internal/models"
)

// BatchUpsertResult tallies what a card batch upsert actually did. Skipped
// counts rows whose change-detected fields were identical to the cached row.
type BatchUpsertResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// CacheRepository is the key-indexed document store the ingestion pipeline
// writes to. Upserts are read-then-write with last-writer-wins semantics;
// population runs for one game are expected to be serialized by the caller,
// and repeated upserts are safe because every key is a natural identifier.
type CacheRepository interface {
	// Sets, keyed by (gameSlug, setID).
	GetSet(ctx context.Context, game models.GameSlug, setID string) (*models.CachedSet, error)
	ListSetsByGame(ctx context.Context, game models.GameSlug) ([]models.CachedSet, error)
	UpsertSet(ctx context.Context, set *models.CachedSet) (created bool, err error)
	UpdateSetPrintStatus(ctx context.Context, id uint64, status string, inPrint bool) error
	DeleteSetsByGame(ctx context.Context, game models.GameSlug) (int64, error)
	CountSetsByGame(ctx context.Context, game models.GameSlug) (int64, error)

	// Cards, keyed by cardID (globally unique).
	GetCardByID(ctx context.Context, cardID string) (*models.CachedCard, error)
	ListCardsBySet(ctx context.Context, game models.GameSlug, setID string) ([]models.CachedCard, error)
	BatchUpsertCards(ctx context.Context, cards []models.CachedCard) (BatchUpsertResult, error)
	DeleteCardsByGame(ctx context.Context, game models.GameSlug) (int64, error)
	CountCardsByGame(ctx context.Context, game models.GameSlug) (int64, error)

	// LastUpdatedByGame returns the most recent write time across both tables
	// for a game, or nil when the game has no cached rows.
	LastUpdatedByGame(ctx context.Context, game models.GameSlug) (*time.Time, error)
}
