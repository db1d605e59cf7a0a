package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"cardvault/internal/models"
	"cardvault/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- Sets -------------------------------------------------------------------

func (s *Store) GetSet(ctx context.Context, game models.GameSlug, setID string) (*models.CachedSet, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	setID = strings.TrimSpace(setID)
	if setID == "" {
		return nil, nil
	}
	var item models.CachedSet
	err := s.db.WithContext(ctx).
		Where("game_slug = ? AND set_id = ?", game, setID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSetsByGame(ctx context.Context, game models.GameSlug) ([]models.CachedSet, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.CachedSet
	if err := s.db.WithContext(ctx).
		Where("game_slug = ?", game).
		Order("release_date desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertSet looks the row up by its natural key and either inserts it or
// overwrites the mutable catalog fields in place. An existing print status is
// preserved: that subsystem is layered on top of ingestion and must not be
// clobbered by a population run.
func (s *Store) UpsertSet(ctx context.Context, set *models.CachedSet) (bool, error) {
	if s == nil || s.db == nil || set == nil {
		return false, nil
	}
	existing, err := s.GetSet(ctx, set.GameSlug, set.SetID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		if err := s.db.WithContext(ctx).Create(set).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	updates := map[string]any{
		"name":                   set.Name,
		"series":                 set.Series,
		"release_date":           set.ReleaseDate,
		"release_date_estimated": set.ReleaseDateEstimated,
		"total_cards":            set.TotalCards,
		"logo_url":               set.LogoURL,
		"symbol_url":             set.SymbolURL,
		"raw_json":               set.RawJSON,
	}
	if set.PrintStatus != nil {
		updates["print_status"] = set.PrintStatus
		updates["is_in_print"] = set.IsInPrint
	}
	if err := s.db.WithContext(ctx).
		Model(&models.CachedSet{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		return false, err
	}
	set.ID = existing.ID
	return false, nil
}

func (s *Store) UpdateSetPrintStatus(ctx context.Context, id uint64, status string, inPrint bool) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.CachedSet{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"print_status": status,
			"is_in_print":  inPrint,
		}).Error
}

func (s *Store) DeleteSetsByGame(ctx context.Context, game models.GameSlug) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("game_slug = ?", game).
		Delete(&models.CachedSet{})
	return res.RowsAffected, res.Error
}

func (s *Store) CountSetsByGame(ctx context.Context, game models.GameSlug) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.CachedSet{}).
		Where("game_slug = ?", game).
		Count(&count).Error
	return count, err
}

// --- Cards ------------------------------------------------------------------

func (s *Store) GetCardByID(ctx context.Context, cardID string) (*models.CachedCard, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return nil, nil
	}
	var item models.CachedCard
	err := s.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListCardsBySet(ctx context.Context, game models.GameSlug, setID string) ([]models.CachedCard, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.CachedCard
	if err := s.db.WithContext(ctx).
		Where("game_slug = ? AND set_id = ?", game, setID).
		Order("card_id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// BatchUpsertCards applies the lookup-then-insert-or-update pattern per card
// and skips the write entirely when the change-detected fields (name, market
// price, small image) match the cached row, so re-runs don't churn storage.
func (s *Store) BatchUpsertCards(ctx context.Context, cards []models.CachedCard) (repository.BatchUpsertResult, error) {
	var result repository.BatchUpsertResult
	if s == nil || s.db == nil {
		return result, nil
	}
	for i := range cards {
		card := &cards[i]
		if strings.TrimSpace(card.CardID) == "" {
			continue
		}
		existing, err := s.GetCardByID(ctx, card.CardID)
		if err != nil {
			return result, err
		}
		if existing == nil {
			if err := s.db.WithContext(ctx).Create(card).Error; err != nil {
				return result, err
			}
			result.Inserted++
			continue
		}
		if cardUnchanged(existing, card) {
			result.Skipped++
			continue
		}
		if err := s.db.WithContext(ctx).
			Model(&models.CachedCard{}).
			Where("id = ?", existing.ID).
			Updates(map[string]any{
				"game_slug":      card.GameSlug,
				"set_id":         card.SetID,
				"name":           card.Name,
				"number":         card.Number,
				"supertype":      card.Supertype,
				"subtypes":       card.Subtypes,
				"types":          card.Types,
				"rarity":         card.Rarity,
				"image_small":    card.ImageSmall,
				"image_large":    card.ImageLarge,
				"tcg_player_url": card.TCGPlayerURL,
				"price_market":   card.PriceMarket,
				"raw_json":       card.RawJSON,
			}).Error; err != nil {
			return result, err
		}
		result.Updated++
	}
	return result, nil
}

func cardUnchanged(existing, incoming *models.CachedCard) bool {
	if existing.Name != incoming.Name {
		return false
	}
	if !strPtrEqual(existing.ImageSmall, incoming.ImageSmall) {
		return false
	}
	switch {
	case existing.PriceMarket == nil && incoming.PriceMarket == nil:
		return true
	case existing.PriceMarket == nil || incoming.PriceMarket == nil:
		return false
	default:
		return existing.PriceMarket.Equal(*incoming.PriceMarket)
	}
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *Store) DeleteCardsByGame(ctx context.Context, game models.GameSlug) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("game_slug = ?", game).
		Delete(&models.CachedCard{})
	return res.RowsAffected, res.Error
}

func (s *Store) CountCardsByGame(ctx context.Context, game models.GameSlug) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.CachedCard{}).
		Where("game_slug = ?", game).
		Count(&count).Error
	return count, err
}

func (s *Store) LastUpdatedByGame(ctx context.Context, game models.GameSlug) (*time.Time, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var latest *time.Time
	for _, model := range []any{&models.CachedSet{}, &models.CachedCard{}} {
		var ts *time.Time
		if err := s.db.WithContext(ctx).
			Model(model).
			Where("game_slug = ?", game).
			Select("max(updated_at)").
			Scan(&ts).Error; err != nil {
			return nil, err
		}
		if ts != nil && (latest == nil || ts.After(*latest)) {
			latest = ts
		}
	}
	return latest, nil
}
