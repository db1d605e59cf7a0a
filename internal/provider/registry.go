package provider

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"cardvault/internal/client/rest"
	"cardvault/internal/config"
	"cardvault/internal/models"
	"cardvault/internal/repository"
)

// Registry holds the seven provider adapters keyed by game slug. Dispatch is
// explicit enum lookup; adapters share no base type beyond the Provider
// interface.
type Registry struct {
	providers map[models.GameSlug]Provider
}

// NewRegistry builds every adapter from its provider config. API keys are
// read once here from the environment variable each config names.
func NewRegistry(cfg config.ProvidersConfig, store repository.CacheRepository, log *zap.Logger) *Registry {
	client := func(pc config.ProviderConfig) *rest.Client {
		return rest.New(&http.Client{Timeout: pc.Timeout})
	}
	apiKey := func(pc config.ProviderConfig) string {
		if strings.TrimSpace(pc.APIKeyEnv) == "" {
			return ""
		}
		return os.Getenv(pc.APIKeyEnv)
	}

	providers := map[models.GameSlug]Provider{
		models.GamePokemon: &PokemonProvider{
			Client:  client(cfg.Pokemon),
			Store:   store,
			Logger:  log,
			BaseURL: cfg.Pokemon.BaseURL,
			APIKey:  apiKey(cfg.Pokemon),
		},
		models.GameYuGiOh: &YuGiOhProvider{
			Client:  client(cfg.YuGiOh),
			Store:   store,
			Logger:  log,
			BaseURL: cfg.YuGiOh.BaseURL,
		},
		models.GameMTG: &MTGProvider{
			Client:  client(cfg.MTG),
			Store:   store,
			Logger:  log,
			BaseURL: cfg.MTG.BaseURL,
		},
		models.GameLorcana: &LorcanaProvider{
			Client:  client(cfg.Lorcana),
			Store:   store,
			Logger:  log,
			BaseURL: cfg.Lorcana.BaseURL,
		},
		models.GameOnePiece:   NewOnePiece(client(cfg.OnePiece), store, log, cfg.OnePiece.BaseURL, apiKey(cfg.OnePiece)),
		models.GameDigimon:    NewDigimon(client(cfg.Digimon), store, log, cfg.Digimon.BaseURL, apiKey(cfg.Digimon)),
		models.GameDragonBall: NewDragonBall(client(cfg.DragonBall), store, log, cfg.DragonBall.BaseURL, apiKey(cfg.DragonBall)),
	}
	return &Registry{providers: providers}
}

// NewRegistryWith builds a registry from explicit providers; used by tests
// and anywhere a subset of games is enough.
func NewRegistryWith(providers ...Provider) *Registry {
	m := make(map[models.GameSlug]Provider, len(providers))
	for _, p := range providers {
		m[p.Game()] = p
	}
	return &Registry{providers: m}
}

func (r *Registry) ForGame(game models.GameSlug) (Provider, error) {
	if r == nil {
		return nil, fmt.Errorf("provider registry is nil")
	}
	p, ok := r.providers[game]
	if !ok {
		return nil, fmt.Errorf("no provider registered for game %q", game)
	}
	return p, nil
}

func (r *Registry) Games() []models.GameSlug {
	if r == nil {
		return nil
	}
	var games []models.GameSlug
	for _, g := range models.AllGames() {
		if _, ok := r.providers[g]; ok {
			games = append(games, g)
		}
	}
	return games
}
