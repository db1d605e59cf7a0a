package provider

import (
	"time"

	"go.uber.org/zap"

	"cardvault/internal/client/rest"
	"cardvault/internal/models"
	"cardvault/internal/repository"
)

// Digimon's English relaunch started with BT1 in early 2020, on a roughly
// quarterly cadence.
var digimonLaunch = time.Date(2020, time.February, 14, 0, 0, 0, 0, time.UTC)

// DigimonProvider ingests the Digimon card game via the card-derived catalog
// strategy; the upstream API has no sets endpoint.
type DigimonProvider struct {
	derivedCatalog
}

func NewDigimon(client *rest.Client, store repository.CacheRepository, log *zap.Logger, baseURL, apiKey string) *DigimonProvider {
	return &DigimonProvider{derivedCatalog{
		Client:       client,
		Store:        store,
		Logger:       log,
		GameID:       models.GameDigimon,
		BaseURL:      baseURL,
		APIKey:       apiKey,
		SeriesName:   "Digimon Card Game",
		Launch:       digimonLaunch,
		MonthsPerSet: 3,
	}}
}
