package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"cardvault/internal/client/rest"
	"cardvault/internal/models"
	"cardvault/internal/normalize"
	"cardvault/internal/repository"
)

// YuGiOhProvider ingests from the YGOPRODeck API. Its card search endpoint
// filters by human-readable set NAME, not the set code used as cache key, so
// PopulateCards needs a resolved SetRef.Name; it fails loudly when none can
// be resolved.
type YuGiOhProvider struct {
	Client  *rest.Client
	Store   repository.CacheRepository
	Logger  *zap.Logger
	BaseURL string
}

type yugiohSet struct {
	SetName    string `json:"set_name"`
	SetCode    string `json:"set_code"`
	NumOfCards int    `json:"num_of_cards"`
	TCGDate    string `json:"tcg_date"`
	SetImage   string `json:"set_image"`
}

type yugiohCard struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Race      string `json:"race"`
	Attribute string `json:"attribute"`
	CardSets  []struct {
		SetName   string `json:"set_name"`
		SetCode   string `json:"set_code"`
		SetRarity string `json:"set_rarity"`
	} `json:"card_sets"`
	CardImages []struct {
		ImageURL      string `json:"image_url"`
		ImageURLSmall string `json:"image_url_small"`
	} `json:"card_images"`
}

func (p *YuGiOhProvider) Game() models.GameSlug { return models.GameYuGiOh }

func (p *YuGiOhProvider) Delay() time.Duration { return DelayFor(models.GameYuGiOh) }

func (p *YuGiOhProvider) PopulateSets(ctx context.Context, filter SetFilter) SetsResult {
	// cardsets.php returns the entire catalog in one shot, no pagination.
	var parsed []yugiohSet
	if err := p.Client.GetJSON(ctx, p.BaseURL+"/cardsets.php", nil, &parsed); err != nil {
		return SetsResult{Errors: []string{fetchFailure(p.Game(), "set catalog", err)}}
	}

	cutoff := time.Time{}
	if filter.MaxAgeMonths > 0 {
		cutoff = normalize.CutoffDate(time.Now().UTC(), filter.MaxAgeMonths)
	}

	var sets []models.CachedSet
	skipped := 0
	for _, src := range parsed {
		if strings.TrimSpace(src.SetCode) == "" {
			continue
		}
		if !cutoff.IsZero() && !normalize.SetPassesAge(src.TCGDate, cutoff) {
			skipped++
			continue
		}
		raw, _ := json.Marshal(src)
		sets = append(sets, models.CachedSet{
			GameSlug:    models.GameYuGiOh,
			SetID:       src.SetCode,
			Name:        src.SetName,
			ReleaseDate: src.TCGDate,
			TotalCards:  src.NumOfCards,
			LogoURL:     strPtr(src.SetImage),
			RawJSON:     raw,
		})
	}
	return upsertSets(ctx, p.Store, p.Logger, p.Game(), p.Delay(), sets, skipped)
}

func (p *YuGiOhProvider) PopulateCards(ctx context.Context, ref SetRef) CardsResult {
	setName := strings.TrimSpace(ref.Name)
	if setName == "" {
		err := &SetNameUnresolvedError{Game: p.Game(), SetID: ref.SetID, Attempted: ref.Name}
		return CardsResult{Errors: []string{err.Error()}}
	}

	query := url.Values{}
	query.Set("cardset", setName)
	var parsed struct {
		Data []yugiohCard `json:"data"`
	}
	if err := p.Client.GetJSON(ctx, p.BaseURL+"/cardinfo.php?"+query.Encode(), nil, &parsed); err != nil {
		return CardsResult{Errors: []string{fetchFailure(p.Game(),
			fmt.Sprintf("cards for set %s (name %q)", ref.SetID, setName), err)}}
	}

	var cards []models.CachedCard
	for _, src := range parsed.Data {
		number, rarity := yugiohSetEntry(src, setName)
		var imgSmall, imgLarge *string
		if len(src.CardImages) > 0 {
			imgSmall = strPtr(src.CardImages[0].ImageURLSmall)
			imgLarge = strPtr(src.CardImages[0].ImageURL)
		}
		raw, _ := json.Marshal(src)
		cards = append(cards, models.CachedCard{
			CardID:     fmt.Sprintf("%d-%s", src.ID, ref.SetID),
			GameSlug:   models.GameYuGiOh,
			SetID:      ref.SetID,
			Name:       src.Name,
			Number:     number,
			Supertype:  src.Type,
			Subtypes:   jsonStrings([]string{src.Race}),
			Types:      jsonStrings([]string{src.Attribute}),
			Rarity:     rarity,
			ImageSmall: imgSmall,
			ImageLarge: imgLarge,
			RawJSON:    raw,
		})
	}
	return upsertCardBatch(ctx, p.Store, p.Logger, p.Game(), ref.SetID, cards)
}

// yugiohSetEntry finds the card_sets entry for the set being populated; a
// card can appear in many sets and each entry carries its own print code and
// rarity. The print code ("LOB-EN001") doubles as the in-set number.
func yugiohSetEntry(card yugiohCard, setName string) (number string, rarity *string) {
	for _, entry := range card.CardSets {
		if strings.EqualFold(entry.SetName, setName) {
			return entry.SetCode, strPtr(entry.SetRarity)
		}
	}
	return "", nil
}
