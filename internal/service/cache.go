package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cardvault/internal/models"
	"cardvault/internal/repository"
)

// CacheService covers the cache administration surface: explicit clears and
// population status.
type CacheService struct {
	Store  repository.CacheRepository
	Logger *zap.Logger
}

type ClearResult struct {
	SetsDeleted  int64 `json:"setsDeleted"`
	CardsDeleted int64 `json:"cardsDeleted"`
}

type GameStatus struct {
	Game        models.GameSlug `json:"game"`
	SetCount    int64           `json:"setCount"`
	CardCount   int64           `json:"cardCount"`
	LastUpdated *time.Time      `json:"lastUpdated"`
}

// ClearGameCache is the only path that deletes cached rows. Both flags false
// clears nothing.
func (s *CacheService) ClearGameCache(ctx context.Context, game models.GameSlug, clearSets, clearCards bool) (ClearResult, error) {
	var result ClearResult
	if clearCards {
		n, err := s.Store.DeleteCardsByGame(ctx, game)
		if err != nil {
			return result, err
		}
		result.CardsDeleted = n
	}
	if clearSets {
		n, err := s.Store.DeleteSetsByGame(ctx, game)
		if err != nil {
			return result, err
		}
		result.SetsDeleted = n
	}
	if s.Logger != nil {
		s.Logger.Info("cleared game cache",
			zap.String("game", game.String()),
			zap.Int64("sets_deleted", result.SetsDeleted),
			zap.Int64("cards_deleted", result.CardsDeleted),
		)
	}
	return result, nil
}

// Status reports per-game cache counts. With a nil game it covers every
// supported game, cached or not.
func (s *CacheService) Status(ctx context.Context, game *models.GameSlug) ([]GameStatus, error) {
	games := models.AllGames()
	if game != nil {
		games = []models.GameSlug{*game}
	}
	statuses := make([]GameStatus, 0, len(games))
	for _, g := range games {
		setCount, err := s.Store.CountSetsByGame(ctx, g)
		if err != nil {
			return nil, err
		}
		cardCount, err := s.Store.CountCardsByGame(ctx, g)
		if err != nil {
			return nil, err
		}
		lastUpdated, err := s.Store.LastUpdatedByGame(ctx, g)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, GameStatus{
			Game:        g,
			SetCount:    setCount,
			CardCount:   cardCount,
			LastUpdated: lastUpdated,
		})
	}
	return statuses, nil
}
