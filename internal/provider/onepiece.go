package provider

import (
	"time"

	"go.uber.org/zap"

	"cardvault/internal/client/rest"
	"cardvault/internal/models"
	"cardvault/internal/repository"
)

// One Piece launched with OP01 in July 2022 and ships a main set roughly
// every three months.
var onePieceLaunch = time.Date(2022, time.July, 8, 0, 0, 0, 0, time.UTC)

// OnePieceProvider ingests the One Piece card game. The upstream API has no
// sets endpoint, so it runs on the card-derived catalog strategy.
type OnePieceProvider struct {
	derivedCatalog
}

func NewOnePiece(client *rest.Client, store repository.CacheRepository, log *zap.Logger, baseURL, apiKey string) *OnePieceProvider {
	return &OnePieceProvider{derivedCatalog{
		Client:       client,
		Store:        store,
		Logger:       log,
		GameID:       models.GameOnePiece,
		BaseURL:      baseURL,
		APIKey:       apiKey,
		SeriesName:   "One Piece Card Game",
		Launch:       onePieceLaunch,
		MonthsPerSet: 3,
	}}
}
