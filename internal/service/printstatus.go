package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cardvault/internal/models"
	"cardvault/internal/normalize"
	"cardvault/internal/repository"
)

// PrintStatusService periodically recomputes print status for cached sets
// from age thresholds. It is deliberately decoupled from ingestion and only
// touches sets with no explicit status, so manual admin overrides survive
// every refresh.
type PrintStatusService struct {
	Store            repository.CacheRepository
	Logger           *zap.Logger
	OutOfPrintMonths int
	VintageMonths    int
}

type PrintStatusResult struct {
	Game     models.GameSlug `json:"game"`
	Examined int             `json:"examined"`
	Updated  int             `json:"updated"`
}

func (s *PrintStatusService) Refresh(ctx context.Context, game models.GameSlug) (PrintStatusResult, error) {
	result := PrintStatusResult{Game: game}
	sets, err := s.Store.ListSetsByGame(ctx, game)
	if err != nil {
		return result, err
	}

	now := time.Now().UTC()
	for _, set := range sets {
		result.Examined++
		if set.PrintStatus != nil {
			continue
		}
		status := normalize.StatusForReleaseDate(set.ReleaseDate, now, s.OutOfPrintMonths, s.VintageMonths)
		if err := s.Store.UpdateSetPrintStatus(ctx, set.ID, status, normalize.InPrint(status)); err != nil {
			return result, err
		}
		result.Updated++
	}

	if s.Logger != nil {
		s.Logger.Info("print status refreshed",
			zap.String("game", game.String()),
			zap.Int("examined", result.Examined),
			zap.Int("updated", result.Updated),
		)
	}
	return result, nil
}
