package provider

import (
	"time"

	"go.uber.org/zap"

	"cardvault/internal/client/rest"
	"cardvault/internal/models"
	"cardvault/internal/repository"
)

// Dragon Ball Super's card game launched mid-2017; main boosters land about
// every three months.
var dragonBallLaunch = time.Date(2017, time.July, 28, 0, 0, 0, 0, time.UTC)

// DragonBallProvider ingests the Dragon Ball card game via the card-derived
// catalog strategy; the upstream API has no sets endpoint and is by far the
// slowest of the seven, hence its 700ms delay entry.
type DragonBallProvider struct {
	derivedCatalog
}

func NewDragonBall(client *rest.Client, store repository.CacheRepository, log *zap.Logger, baseURL, apiKey string) *DragonBallProvider {
	return &DragonBallProvider{derivedCatalog{
		Client:       client,
		Store:        store,
		Logger:       log,
		GameID:       models.GameDragonBall,
		BaseURL:      baseURL,
		APIKey:       apiKey,
		SeriesName:   "Dragon Ball Super Card Game",
		Launch:       dragonBallLaunch,
		MonthsPerSet: 3,
	}}
}
