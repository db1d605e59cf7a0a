package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cardvault/internal/models"
	"cardvault/internal/repository"
)

// fakeStore is an in-memory CacheRepository mirroring the gorm store's upsert
// and change-detection semantics. lastBatch keeps the most recent card batch
// tally so tests can assert skip behavior across reruns.
type fakeStore struct {
	mu    sync.Mutex
	sets  map[string]*models.CachedSet
	cards map[string]*models.CachedCard

	lastBatch repository.BatchUpsertResult
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sets:  map[string]*models.CachedSet{},
		cards: map[string]*models.CachedCard{},
	}
}

func (f *fakeStore) key(game models.GameSlug, setID string) string {
	return string(game) + "|" + setID
}

func (f *fakeStore) GetSet(_ context.Context, game models.GameSlug, setID string) (*models.CachedSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sets[f.key(game, setID)]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeStore) ListSetsByGame(_ context.Context, game models.GameSlug) ([]models.CachedSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []models.CachedSet
	for _, s := range f.sets {
		if s.GameSlug == game {
			items = append(items, *s)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ReleaseDate != items[j].ReleaseDate {
			return items[i].ReleaseDate > items[j].ReleaseDate
		}
		return items[i].SetID > items[j].SetID
	})
	return items, nil
}

func (f *fakeStore) UpsertSet(_ context.Context, set *models.CachedSet) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := f.key(set.GameSlug, set.SetID)
	existing, ok := f.sets[key]
	if !ok {
		copied := *set
		copied.ID = uint64(len(f.sets) + 1)
		copied.UpdatedAt = time.Now()
		f.sets[key] = &copied
		set.ID = copied.ID
		return true, nil
	}
	copied := *set
	copied.ID = existing.ID
	if copied.PrintStatus == nil {
		copied.PrintStatus = existing.PrintStatus
		copied.IsInPrint = existing.IsInPrint
	}
	copied.UpdatedAt = time.Now()
	f.sets[key] = &copied
	set.ID = existing.ID
	return false, nil
}

func (f *fakeStore) UpdateSetPrintStatus(_ context.Context, id uint64, status string, inPrint bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sets {
		if s.ID == id {
			s.PrintStatus = &status
			s.IsInPrint = inPrint
			return nil
		}
	}
	return nil
}

func (f *fakeStore) DeleteSetsByGame(_ context.Context, game models.GameSlug) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for key, s := range f.sets {
		if s.GameSlug == game {
			delete(f.sets, key)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountSetsByGame(_ context.Context, game models.GameSlug) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.sets {
		if s.GameSlug == game {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) GetCardByID(_ context.Context, cardID string) (*models.CachedCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.cards[cardID]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeStore) ListCardsBySet(_ context.Context, game models.GameSlug, setID string) ([]models.CachedCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []models.CachedCard
	for _, c := range f.cards {
		if c.GameSlug == game && c.SetID == setID {
			items = append(items, *c)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CardID < items[j].CardID })
	return items, nil
}

func (f *fakeStore) BatchUpsertCards(_ context.Context, cards []models.CachedCard) (repository.BatchUpsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result repository.BatchUpsertResult
	for i := range cards {
		card := cards[i]
		if strings.TrimSpace(card.CardID) == "" {
			continue
		}
		existing, ok := f.cards[card.CardID]
		if !ok {
			card.ID = uint64(len(f.cards) + 1)
			card.UpdatedAt = time.Now()
			copied := card
			f.cards[card.CardID] = &copied
			result.Inserted++
			continue
		}
		if fakeCardUnchanged(existing, &card) {
			result.Skipped++
			continue
		}
		card.ID = existing.ID
		card.UpdatedAt = time.Now()
		copied := card
		f.cards[card.CardID] = &copied
		result.Updated++
	}
	f.lastBatch = result
	return result, nil
}

func fakeCardUnchanged(existing, incoming *models.CachedCard) bool {
	if existing.Name != incoming.Name {
		return false
	}
	a, b := existing.ImageSmall, incoming.ImageSmall
	if (a == nil) != (b == nil) || (a != nil && *a != *b) {
		return false
	}
	p, q := existing.PriceMarket, incoming.PriceMarket
	if (p == nil) != (q == nil) {
		return false
	}
	return p == nil || p.Equal(*q)
}

func (f *fakeStore) DeleteCardsByGame(_ context.Context, game models.GameSlug) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for key, c := range f.cards {
		if c.GameSlug == game {
			delete(f.cards, key)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountCardsByGame(_ context.Context, game models.GameSlug) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.cards {
		if c.GameSlug == game {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) LastUpdatedByGame(_ context.Context, game models.GameSlug) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *time.Time
	for _, s := range f.sets {
		if s.GameSlug == game && (latest == nil || s.UpdatedAt.After(*latest)) {
			t := s.UpdatedAt
			latest = &t
		}
	}
	for _, c := range f.cards {
		if c.GameSlug == game && (latest == nil || c.UpdatedAt.After(*latest)) {
			t := c.UpdatedAt
			latest = &t
		}
	}
	return latest, nil
}

var _ repository.CacheRepository = (*fakeStore)(nil)
