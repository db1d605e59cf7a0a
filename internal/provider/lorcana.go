package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"cardvault/internal/client/rest"
	"cardvault/internal/models"
	"cardvault/internal/normalize"
	"cardvault/internal/repository"
)

// LorcanaProvider ingests from the Lorcast API. Sets and per-set card lists
// are both single-shot endpoints with native release dates.
type LorcanaProvider struct {
	Client  *rest.Client
	Store   repository.CacheRepository
	Logger  *zap.Logger
	BaseURL string
}

type lorcanaSet struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	ReleasedAt string `json:"released_at"`
}

type lorcanaCard struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Version         string   `json:"version"`
	CollectorNumber string   `json:"collector_number"`
	Rarity          string   `json:"rarity"`
	Ink             string   `json:"ink"`
	Type            []string `json:"type"`
	Classifications []string `json:"classifications"`
	ImageURIs       struct {
		Digital struct {
			Small  string `json:"small"`
			Normal string `json:"normal"`
		} `json:"digital"`
	} `json:"image_uris"`
}

func (p *LorcanaProvider) Game() models.GameSlug { return models.GameLorcana }

func (p *LorcanaProvider) Delay() time.Duration { return DelayFor(models.GameLorcana) }

func (p *LorcanaProvider) PopulateSets(ctx context.Context, filter SetFilter) SetsResult {
	var parsed struct {
		Results []lorcanaSet `json:"results"`
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
	for _, src := range parsed.Results {
		if !cutoff.IsZero() && !normalize.SetPassesAge(src.ReleasedAt, cutoff) {
			skipped++
			continue
		}
		raw, _ := json.Marshal(src)
		sets = append(sets, models.CachedSet{
			GameSlug:    models.GameLorcana,
			SetID:       src.Code,
			Name:        src.Name,
			ReleaseDate: src.ReleasedAt,
			// Lorcast's set catalog carries no card count; the tally stays 0
			// until someone needs it.
			TotalCards: 0,
			RawJSON:    raw,
		})
	}
	return upsertSets(ctx, p.Store, p.Logger, p.Game(), p.Delay(), sets, skipped)
}

func (p *LorcanaProvider) PopulateCards(ctx context.Context, ref SetRef) CardsResult {
	endpoint := fmt.Sprintf("%s/sets/%s/cards", p.BaseURL, url.PathEscape(ref.SetID))
	var parsed []lorcanaCard
	if err := p.Client.GetJSON(ctx, endpoint, nil, &parsed); err != nil {
		return CardsResult{Errors: []string{fetchFailure(p.Game(), fmt.Sprintf("cards for set %s", ref.SetID), err)}}
	}

	var cards []models.CachedCard
	for _, src := range parsed {
		name := src.Name
		if src.Version != "" {
			name = src.Name + " - " + src.Version
		}
		supertype := ""
		if len(src.Type) > 0 {
			supertype = src.Type[0]
		}
		raw, _ := json.Marshal(src)
		cards = append(cards, models.CachedCard{
			CardID:     fmt.Sprintf("lorcana-%s-%s", ref.SetID, src.CollectorNumber),
			GameSlug:   models.GameLorcana,
			SetID:      ref.SetID,
			Name:       name,
			Number:     src.CollectorNumber,
			Supertype:  supertype,
			Subtypes:   jsonStrings(src.Classifications),
			Types:      jsonStrings([]string{src.Ink}),
			Rarity:     strPtr(src.Rarity),
			ImageSmall: strPtr(src.ImageURIs.Digital.Small),
			ImageLarge: strPtr(src.ImageURIs.Digital.Normal),
			RawJSON:    raw,
		})
	}
	return upsertCardBatch(ctx, p.Store, p.Logger, p.Game(), ref.SetID, cards)
}
