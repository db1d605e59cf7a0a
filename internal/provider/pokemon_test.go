package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cardvault/internal/client/rest"
	"cardvault/internal/models"
)

func pokemonForTest(t *testing.T, handler http.Handler) (*PokemonProvider, *memStore, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := newMemStore()
	p := &PokemonProvider{
		Client:  rest.New(srv.Client()),
		Store:   store,
		BaseURL: srv.URL,
		APIKey:  "test-key",
	}
	return p, store, srv
}

func TestPokemonPopulateSets(t *testing.T) {
	var gotKey string
	p, store, _ := pokemonForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sets" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		gotKey = r.Header.Get("X-Api-Key")
		fmt.Fprint(w, `{"data":[
			{"id":"sv8","name":"Surging Sparks","series":"Scarlet & Violet","total":252,
			 "releaseDate":"2024/11/08","images":{"logo":"https://img/sv8-logo.png","symbol":"https://img/sv8-sym.png"}},
			{"id":"base1","name":"Base","series":"Base","total":102,"releaseDate":"1999-01-09","images":{}}
		]}`)
	}))

	result := p.PopulateSets(context.Background(), SetFilter{})
	if !result.Success || result.Count != 2 || result.Skipped != 0 {
		t.Fatalf("result = %+v, want success with 2 sets", result)
	}
	if gotKey != "test-key" {
		t.Fatalf("X-Api-Key = %q, want test-key", gotKey)
	}

	set, err := store.GetSet(context.Background(), models.GamePokemon, "sv8")
	if err != nil || set == nil {
		t.Fatalf("GetSet(sv8) = %v, %v", set, err)
	}
	if set.ReleaseDate != "2024-11-08" {
		t.Fatalf("release date = %q, want slash date normalized to 2024-11-08", set.ReleaseDate)
	}
	if set.ReleaseDateEstimated {
		t.Fatalf("native release date must not be flagged estimated")
	}
	if set.TotalCards != 252 || set.LogoURL == nil || *set.LogoURL != "https://img/sv8-logo.png" {
		t.Fatalf("set fields off: %+v", set)
	}
}

func TestPokemonPopulateSetsAgeFilter(t *testing.T) {
	now := time.Now().UTC()
	recent := now.AddDate(0, -2, 0).Format("2006-01-02")
	old := now.AddDate(0, -24, 0).Format("2006-01-02")
	p, store, _ := pokemonForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data":[
			{"id":"new1","name":"New","releaseDate":%q,"total":10,"images":{}},
			{"id":"old1","name":"Old","releaseDate":%q,"total":10,"images":{}}
		]}`, recent, old)
	}))

	result := p.PopulateSets(context.Background(), SetFilter{MaxAgeMonths: 12})
	if !result.Success || result.Count != 1 || result.Skipped != 1 {
		t.Fatalf("result = %+v, want 1 kept / 1 skipped", result)
	}
	if set, _ := store.GetSet(context.Background(), models.GamePokemon, "old1"); set != nil {
		t.Fatalf("old set must not be cached")
	}
}

func TestPokemonPopulateCardsPaging(t *testing.T) {
	// 251 cards forces a second page at the fixed page size of 250.
	const total = 251
	pageFor := func(page int) []pokemonCard {
		start := (page - 1) * pokemonPageSize
		end := start + pokemonPageSize
		if end > total {
			end = total
		}
		var out []pokemonCard
		for i := start; i < end; i++ {
			out = append(out, pokemonCard{
				ID:     fmt.Sprintf("sv8-%d", i+1),
				Name:   fmt.Sprintf("Card %d", i+1),
				Number: fmt.Sprintf("%d", i+1),
			})
		}
		return out
	}

	var pagesServed int
	p, store, _ := pokemonForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if q := r.URL.Query().Get("q"); q != "set.id:sv8" {
			t.Fatalf("query = %q", q)
		}
		page := 1
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		pagesServed++
		json.NewEncoder(w).Encode(map[string]any{
			"data":       pageFor(page),
			"page":       page,
			"pageSize":   pokemonPageSize,
			"totalCount": total,
		})
	}))

	result := p.PopulateCards(context.Background(), SetRef{SetID: "sv8"})
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	if result.Count != total {
		t.Fatalf("Count = %d, want %d", result.Count, total)
	}
	if pagesServed != 2 {
		t.Fatalf("pages served = %d, want 2", pagesServed)
	}
	n, _ := store.CountCardsByGame(context.Background(), models.GamePokemon)
	if n != total {
		t.Fatalf("cached cards = %d, want %d", n, total)
	}
}

func TestPokemonMarketPrice(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		name   string
		prices map[string]pokemonPriceTier
		want   string // empty means nil
	}{
		{"normal preferred", map[string]pokemonPriceTier{
			"normal": {Market: f(1.25)}, "holofoil": {Market: f(9.99)},
		}, "1.25"},
		{"holofoil fallback", map[string]pokemonPriceTier{
			"holofoil": {Market: f(9.99)}, "reverseHolofoil": {Market: f(3.5)},
		}, "9.99"},
		{"other tiers ignored", map[string]pokemonPriceTier{
			"reverseHolofoil": {Market: f(3.5)},
		}, ""},
		{"no prices", nil, ""},
		{"tier without market", map[string]pokemonPriceTier{"normal": {}}, ""},
	}
	for _, tt := range tests {
		got := pokemonMarketPrice(tt.prices)
		if tt.want == "" {
			if got != nil {
				t.Fatalf("%s: got %v, want nil", tt.name, got)
			}
			continue
		}
		if got == nil || got.String() != tt.want {
			t.Fatalf("%s: got %v, want %s", tt.name, got, tt.want)
		}
	}
}
