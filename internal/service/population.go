package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cardvault/internal/models"
	"cardvault/internal/provider"
	"cardvault/internal/repository"
)

// PopulationService drives the two-phase (sets-then-cards) ingestion
// workflow. It holds no run state: a crash mid-run leaves the cache
// partially populated, and a rerun converges because every step is an
// idempotent upsert.
type PopulationService struct {
	Registry *provider.Registry
	Store    repository.CacheRepository
	Logger   *zap.Logger
}

// GameResult is the outcome of a full-game population run. Success is false
// when any per-set or per-card error occurred even if the run made
// substantial progress; callers judge retries by the counts, not the flag.
type GameResult struct {
	Success        bool     `json:"success"`
	SetsProcessed  int      `json:"setsProcessed"`
	SetsSkipped    int      `json:"setsSkipped"`
	CardsProcessed int      `json:"cardsProcessed"`
	Errors         []string `json:"errors"`
}

func (s *PopulationService) PopulateSets(ctx context.Context, game models.GameSlug, maxAgeMonths int) (provider.SetsResult, error) {
	p, err := s.Registry.ForGame(game)
	if err != nil {
		return provider.SetsResult{}, err
	}
	return p.PopulateSets(ctx, provider.SetFilter{MaxAgeMonths: maxAgeMonths}), nil
}

// PopulateSetCards populates one set's cards. The set name is resolved from
// the cache first so providers that query upstream by name (Yu-Gi-Oh!) get a
// usable reference; when the set was never cached the ref goes out with an
// empty name and such providers fail with a resolution error naming both
// identifiers.
func (s *PopulationService) PopulateSetCards(ctx context.Context, game models.GameSlug, setID string) (provider.CardsResult, error) {
	p, err := s.Registry.ForGame(game)
	if err != nil {
		return provider.CardsResult{}, err
	}
	ref := provider.SetRef{SetID: setID}
	if cached, err := s.Store.GetSet(ctx, game, setID); err == nil && cached != nil {
		ref.Name = cached.Name
	}
	return p.PopulateCards(ctx, ref), nil
}

// PopulateGame runs the full two-phase workflow: populate sets, re-read the
// game's cached sets newest-first (capped by maxSets), then populate cards
// set by set, sleeping double the provider delay between sets. Errors
// accumulate; only a set phase that failed outright with nothing populated
// aborts the run, because there is nothing to build cards for.
func (s *PopulationService) PopulateGame(ctx context.Context, game models.GameSlug, maxSets, maxAgeMonths int) (GameResult, error) {
	p, err := s.Registry.ForGame(game)
	if err != nil {
		return GameResult{}, err
	}

	result := GameResult{}
	setsResult := p.PopulateSets(ctx, provider.SetFilter{MaxAgeMonths: maxAgeMonths})
	result.SetsSkipped = setsResult.Skipped
	result.Errors = append(result.Errors, setsResult.Errors...)
	if !setsResult.Success && setsResult.Count == 0 {
		if s.Logger != nil {
			s.Logger.Warn("set population failed, aborting game run",
				zap.String("game", game.String()),
				zap.Strings("errors", setsResult.Errors),
			)
		}
		return result, nil
	}

	sets, err := s.Store.ListSetsByGame(ctx, game)
	if err != nil {
		result.Errors = append(result.Errors, game.String()+": reading cached sets: "+err.Error())
		return result, nil
	}
	if maxSets > 0 && len(sets) > maxSets {
		sets = sets[:maxSets]
	}

	perSetDelay := 2 * p.Delay()
	for i, set := range sets {
		cardsResult := p.PopulateCards(ctx, provider.SetRef{SetID: set.SetID, Name: set.Name})
		result.CardsProcessed += cardsResult.Count
		result.Errors = append(result.Errors, cardsResult.Errors...)
		result.SetsProcessed++
		if i < len(sets)-1 {
			sleepCtx(ctx, perSetDelay)
		}
	}

	result.Success = len(result.Errors) == 0
	if s.Logger != nil {
		s.Logger.Info("game population finished",
			zap.String("game", game.String()),
			zap.Bool("success", result.Success),
			zap.Int("sets_processed", result.SetsProcessed),
			zap.Int("sets_skipped", result.SetsSkipped),
			zap.Int("cards_processed", result.CardsProcessed),
			zap.Int("errors", len(result.Errors)),
		)
	}
	return result, nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
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
