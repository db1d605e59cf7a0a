package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cardvault/internal/client/rest"
	"cardvault/internal/models"
	"cardvault/internal/normalize"
	"cardvault/internal/repository"
)

const pokemonPageSize = 250

// PokemonProvider ingests from the Pokémon TCG API. It has a dedicated sets
// endpoint with native release dates, query-scoped card search, and an
// optional API key that lifts the anonymous rate limit.
type PokemonProvider struct {
	Client  *rest.Client
	Store   repository.CacheRepository
	Logger  *zap.Logger
	BaseURL string
	APIKey  string
}

type pokemonSet struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Series      string `json:"series"`
	Total       int    `json:"total"`
	ReleaseDate string `json:"releaseDate"`
	Images      struct {
		Symbol string `json:"symbol"`
		Logo   string `json:"logo"`
	} `json:"images"`
}

type pokemonCard struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Number    string   `json:"number"`
	Supertype string   `json:"supertype"`
	Subtypes  []string `json:"subtypes"`
	Types     []string `json:"types"`
	Rarity    string   `json:"rarity"`
	Images    struct {
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"images"`
	TCGPlayer struct {
		URL    string                      `json:"url"`
		Prices map[string]pokemonPriceTier `json:"prices"`
	} `json:"tcgplayer"`
}

type pokemonPriceTier struct {
	Market *float64 `json:"market"`
}

func (p *PokemonProvider) Game() models.GameSlug { return models.GamePokemon }

func (p *PokemonProvider) Delay() time.Duration { return DelayFor(models.GamePokemon) }

func (p *PokemonProvider) headers() http.Header {
	h := http.Header{}
	if p.APIKey != "" {
		h.Set("X-Api-Key", p.APIKey)
	}
	return h
}

func (p *PokemonProvider) PopulateSets(ctx context.Context, filter SetFilter) SetsResult {
	var parsed struct {
		Data []pokemonSet `json:"data"`
	}
	if err := p.Client.GetJSON(ctx, p.BaseURL+"/sets", p.headers(), &parsed); err != nil {
		return SetsResult{Errors: []string{fetchFailure(p.Game(), "set catalog", err)}}
	}

	cutoff := time.Time{}
	if filter.MaxAgeMonths > 0 {
		cutoff = normalize.CutoffDate(time.Now().UTC(), filter.MaxAgeMonths)
	}

	var sets []models.CachedSet
	skipped := 0
	for _, src := range parsed.Data {
		// The API reports dates with slashes; store them dash-normalized.
		release := src.ReleaseDate
		if t, ok := normalize.ParseReleaseDate(release); ok {
			release = t.Format("2006-01-02")
		}
		if !cutoff.IsZero() && !normalize.SetPassesAge(release, cutoff) {
			skipped++
			continue
		}
		raw, _ := json.Marshal(src)
		sets = append(sets, models.CachedSet{
			GameSlug:    models.GamePokemon,
			SetID:       src.ID,
			Name:        src.Name,
			Series:      src.Series,
			ReleaseDate: release,
			TotalCards:  src.Total,
			LogoURL:     strPtr(src.Images.Logo),
			SymbolURL:   strPtr(src.Images.Symbol),
			RawJSON:     raw,
		})
	}
	return upsertSets(ctx, p.Store, p.Logger, p.Game(), p.Delay(), sets, skipped)
}

func (p *PokemonProvider) PopulateCards(ctx context.Context, ref SetRef) CardsResult {
	var cards []models.CachedCard
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("q", fmt.Sprintf("set.id:%s", ref.SetID))
		query.Set("page", fmt.Sprintf("%d", page))
		query.Set("pageSize", fmt.Sprintf("%d", pokemonPageSize))

		var parsed struct {
			Data       []pokemonCard `json:"data"`
			Page       int           `json:"page"`
			PageSize   int           `json:"pageSize"`
			TotalCount int           `json:"totalCount"`
		}
		if err := p.Client.GetJSON(ctx, p.BaseURL+"/cards?"+query.Encode(), p.headers(), &parsed); err != nil {
			return CardsResult{Errors: []string{fetchFailure(p.Game(), fmt.Sprintf("cards for set %s", ref.SetID), err)}}
		}

		for _, src := range parsed.Data {
			raw, _ := json.Marshal(src)
			cards = append(cards, models.CachedCard{
				CardID:       src.ID,
				GameSlug:     models.GamePokemon,
				SetID:        ref.SetID,
				Name:         src.Name,
				Number:       src.Number,
				Supertype:    src.Supertype,
				Subtypes:     jsonStrings(src.Subtypes),
				Types:        jsonStrings(src.Types),
				Rarity:       strPtr(src.Rarity),
				ImageSmall:   strPtr(src.Images.Small),
				ImageLarge:   strPtr(src.Images.Large),
				TCGPlayerURL: strPtr(src.TCGPlayer.URL),
				PriceMarket:  pokemonMarketPrice(src.TCGPlayer.Prices),
				RawJSON:      raw,
			})
		}
		if len(parsed.Data) == 0 || page*pokemonPageSize >= parsed.TotalCount {
			break
		}
		sleep(ctx, p.Delay())
	}
	return upsertCardBatch(ctx, p.Store, p.Logger, p.Game(), ref.SetID, cards)
}

// pokemonMarketPrice picks the representative market price: the normal print
// first, holofoil as fallback. Other tiers (reverse holo, 1st edition) are
// variants outside this cache's scope.
func pokemonMarketPrice(prices map[string]pokemonPriceTier) *decimal.Decimal {
	for _, tier := range []string{"normal", "holofoil"} {
		if entry, ok := prices[tier]; ok && entry.Market != nil {
			d := decimal.NewFromFloat(*entry.Market)
			return &d
		}
	}
	return nil
}
