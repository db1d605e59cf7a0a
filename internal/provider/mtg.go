package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cardvault/internal/client/rest"
	"cardvault/internal/models"
	"cardvault/internal/normalize"
	"cardvault/internal/repository"
)

// MTGProvider ingests from Scryfall. Sets come from a single catalog call;
// cards page through the search endpoint's has_more/next_page cursor.
type MTGProvider struct {
	Client  *rest.Client
	Store   repository.CacheRepository
	Logger  *zap.Logger
	BaseURL string
}

type scryfallSet struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	SetType    string `json:"set_type"`
	ReleasedAt string `json:"released_at"`
	CardCount  int    `json:"card_count"`
	IconSVGURI string `json:"icon_svg_uri"`
}

type scryfallCard struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	CollectorNumber string   `json:"collector_number"`
	TypeLine        string   `json:"type_line"`
	Colors          []string `json:"colors"`
	Rarity          string   `json:"rarity"`
	ImageURIs       struct {
		Small  string `json:"small"`
		Normal string `json:"normal"`
	} `json:"image_uris"`
	Prices struct {
		USD string `json:"usd"`
	} `json:"prices"`
	PurchaseURIs struct {
		TCGPlayer string `json:"tcgplayer"`
	} `json:"purchase_uris"`
}

func (p *MTGProvider) Game() models.GameSlug { return models.GameMTG }

func (p *MTGProvider) Delay() time.Duration { return DelayFor(models.GameMTG) }

func (p *MTGProvider) PopulateSets(ctx context.Context, filter SetFilter) SetsResult {
	var parsed struct {
		Data []scryfallSet `json:"data"`
	}
	if err := p.Client.GetJSON(ctx, p.BaseURL+"/sets", nil, &parsed); err != nil {
		return SetsResult{Errors: []string{fetchFailure(p.Game(), "set catalog", err)}}
	}

	cutoff := time.Time{}
	if filter.MaxAgeMonths > 0 {
		cutoff = normalize.CutoffDate(time.Now().UTC(), filter.MaxAgeMonths)
	}

	var sets []models.CachedSet
	skipped := 0
	for _, src := range parsed.Data {
		if !cutoff.IsZero() && !normalize.SetPassesAge(src.ReleasedAt, cutoff) {
			skipped++
			continue
		}
		raw, _ := json.Marshal(src)
		sets = append(sets, models.CachedSet{
			GameSlug:    models.GameMTG,
			SetID:       src.Code,
			Name:        src.Name,
			Series:      src.SetType,
			ReleaseDate: src.ReleasedAt,
			TotalCards:  src.CardCount,
			SymbolURL:   strPtr(src.IconSVGURI),
			RawJSON:     raw,
		})
	}
	return upsertSets(ctx, p.Store, p.Logger, p.Game(), p.Delay(), sets, skipped)
}

func (p *MTGProvider) PopulateCards(ctx context.Context, ref SetRef) CardsResult {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("e:%s", ref.SetID))
	query.Set("unique", "prints")
	query.Set("order", "set")
	next := p.BaseURL + "/cards/search?" + query.Encode()

	var cards []models.CachedCard
	for next != "" {
		var parsed struct {
			Data     []scryfallCard `json:"data"`
			HasMore  bool           `json:"has_more"`
			NextPage string         `json:"next_page"`
		}
		if err := p.Client.GetJSON(ctx, next, nil, &parsed); err != nil {
			return CardsResult{Errors: []string{fetchFailure(p.Game(), fmt.Sprintf("cards for set %s", ref.SetID), err)}}
		}

		for _, src := range parsed.Data {
			raw, _ := json.Marshal(src)
			cards = append(cards, models.CachedCard{
				CardID:       fmt.Sprintf("%s-%s", ref.SetID, src.CollectorNumber),
				GameSlug:     models.GameMTG,
				SetID:        ref.SetID,
				Name:         src.Name,
				Number:       src.CollectorNumber,
				Supertype:    src.TypeLine,
				Types:        jsonStrings(src.Colors),
				Rarity:       strPtr(src.Rarity),
				ImageSmall:   strPtr(src.ImageURIs.Small),
				ImageLarge:   strPtr(src.ImageURIs.Normal),
				TCGPlayerURL: strPtr(src.PurchaseURIs.TCGPlayer),
				PriceMarket:  parseUSD(src.Prices.USD),
				RawJSON:      raw,
			})
		}
		if !parsed.HasMore || parsed.NextPage == "" {
			break
		}
		next = parsed.NextPage
		sleep(ctx, p.Delay())
	}
	return upsertCardBatch(ctx, p.Store, p.Logger, p.Game(), ref.SetID, cards)
}

// parseUSD parses Scryfall's flat dollar string ("1.24"); absent or
// malformed prices map to no price rather than an error.
func parseUSD(raw string) *decimal.Decimal {
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}
