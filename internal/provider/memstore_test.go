package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cardvault/internal/models"
	"cardvault/internal/repository"
)

// memStore is an in-memory CacheRepository with the same upsert and
// change-detection semantics as the gorm store, plus failure injection for
// partial-failure tests.
type memStore struct {
	mu    sync.Mutex
	sets  map[string]*models.CachedSet
	cards map[string]*models.CachedCard

	failSetID   string // UpsertSet fails for this set ID
	failCardsAt int    // BatchUpsertCards fails on the Nth card (1-based) when > 0
}

func newMemStore() *memStore {
	return &memStore{
		sets:  map[string]*models.CachedSet{},
		cards: map[string]*models.CachedCard{},
	}
}

func setKey(game models.GameSlug, setID string) string {
	return string(game) + "|" + setID
}

func (m *memStore) GetSet(_ context.Context, game models.GameSlug, setID string) (*models.CachedSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sets[setKey(game, setID)]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (m *memStore) ListSetsByGame(_ context.Context, game models.GameSlug) ([]models.CachedSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []models.CachedSet
	for _, s := range m.sets {
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

func (m *memStore) UpsertSet(_ context.Context, set *models.CachedSet) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSetID != "" && set.SetID == m.failSetID {
		return false, fmt.Errorf("injected failure for set %s", set.SetID)
	}
	key := setKey(set.GameSlug, set.SetID)
	existing, ok := m.sets[key]
	if !ok {
		copied := *set
		copied.ID = uint64(len(m.sets) + 1)
		copied.UpdatedAt = time.Now()
		m.sets[key] = &copied
		set.ID = copied.ID
		return true, nil
	}
	id := existing.ID
	status, inPrint := existing.PrintStatus, existing.IsInPrint
	copied := *set
	copied.ID = id
	if copied.PrintStatus == nil {
		copied.PrintStatus = status
		copied.IsInPrint = inPrint
	}
	copied.UpdatedAt = time.Now()
	m.sets[key] = &copied
	set.ID = id
	return false, nil
}

func (m *memStore) UpdateSetPrintStatus(_ context.Context, id uint64, status string, inPrint bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sets {
		if s.ID == id {
			s.PrintStatus = &status
			s.IsInPrint = inPrint
			return nil
		}
	}
	return nil
}

func (m *memStore) DeleteSetsByGame(_ context.Context, game models.GameSlug) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for key, s := range m.sets {
		if s.GameSlug == game {
			delete(m.sets, key)
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountSetsByGame(_ context.Context, game models.GameSlug) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.sets {
		if s.GameSlug == game {
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetCardByID(_ context.Context, cardID string) (*models.CachedCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.cards[cardID]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (m *memStore) ListCardsBySet(_ context.Context, game models.GameSlug, setID string) ([]models.CachedCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []models.CachedCard
	for _, c := range m.cards {
		if c.GameSlug == game && c.SetID == setID {
			items = append(items, *c)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CardID < items[j].CardID })
	return items, nil
}

func (m *memStore) BatchUpsertCards(_ context.Context, cards []models.CachedCard) (repository.BatchUpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result repository.BatchUpsertResult
	for i := range cards {
		if m.failCardsAt > 0 && i+1 == m.failCardsAt {
			return result, fmt.Errorf("injected failure at card %d", i+1)
		}
		card := cards[i]
		if strings.TrimSpace(card.CardID) == "" {
			continue
		}
		existing, ok := m.cards[card.CardID]
		if !ok {
			card.ID = uint64(len(m.cards) + 1)
			card.UpdatedAt = time.Now()
			copied := card
			m.cards[card.CardID] = &copied
			result.Inserted++
			continue
		}
		if memCardUnchanged(existing, &card) {
			result.Skipped++
			continue
		}
		card.ID = existing.ID
		card.UpdatedAt = time.Now()
		copied := card
		m.cards[card.CardID] = &copied
		result.Updated++
	}
	return result, nil
}

func memCardUnchanged(existing, incoming *models.CachedCard) bool {
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

func (m *memStore) DeleteCardsByGame(_ context.Context, game models.GameSlug) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for key, c := range m.cards {
		if c.GameSlug == game {
			delete(m.cards, key)
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountCardsByGame(_ context.Context, game models.GameSlug) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.cards {
		if c.GameSlug == game {
			n++
		}
	}
	return n, nil
}

func (m *memStore) LastUpdatedByGame(_ context.Context, game models.GameSlug) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *time.Time
	for _, s := range m.sets {
		if s.GameSlug == game && (latest == nil || s.UpdatedAt.After(*latest)) {
			t := s.UpdatedAt
			latest = &t
		}
	}
	for _, c := range m.cards {
		if c.GameSlug == game && (latest == nil || c.UpdatedAt.After(*latest)) {
			t := c.UpdatedAt
			latest = &t
		}
	}
	return latest, nil
}

var _ repository.CacheRepository = (*memStore)(nil)
