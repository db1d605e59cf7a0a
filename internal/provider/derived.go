package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"cardvault/internal/client/rest"
	"cardvault/internal/models"
	"cardvault/internal/normalize"
	"cardvault/internal/repository"
)

// setCodeRe matches the set-code prefix of a card code: "OP05-001" -> "OP05",
// "BT7-032" -> "BT7", "P-001" -> "P". The same scheme covers all three
// card-derived catalogs.
var setCodeRe = regexp.MustCompile(`^([A-Z]+[0-9]*)-`)

// derivedCatalog is the ingestion strategy for providers with no sets
// endpoint. Sets only exist as an emergent grouping over the full card
// listing: every page of cards is fetched, set codes are extracted from card
// codes, and totals are tallies of what the fetch produced — only as accurate
// as that fetch. Release dates are computed from the line's launch date plus
// a per-set interval and flagged as estimated.
type derivedCatalog struct {
	Client  *rest.Client
	Store   repository.CacheRepository
	Logger  *zap.Logger
	GameID  models.GameSlug
	BaseURL string
	APIKey  string

	SeriesName   string
	Launch       time.Time
	MonthsPerSet int
}

type derivedCard struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Rarity    string `json:"rarity"`
	Type      string `json:"type"`
	Color     string `json:"color"`
	Attribute string `json:"attribute"`
	Images    struct {
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"images"`
	Set struct {
		Name string `json:"name"`
	} `json:"set"`
}

type derivedPage struct {
	Data       []derivedCard `json:"data"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

func (d *derivedCatalog) Game() models.GameSlug { return d.GameID }

func (d *derivedCatalog) Delay() time.Duration { return DelayFor(d.GameID) }

func (d *derivedCatalog) headers() http.Header {
	h := http.Header{}
	if d.APIKey != "" {
		h.Set("x-api-key", d.APIKey)
	}
	return h
}

// fetchAllCards pages through the full card listing, honoring the provider
// delay between pages. Any page failure fails the whole fetch: a partial
// listing would silently produce wrong derived tallies.
func (d *derivedCatalog) fetchAllCards(ctx context.Context) ([]derivedCard, error) {
	var all []derivedCard
	for page := 1; ; page++ {
		var parsed derivedPage
		endpoint := fmt.Sprintf("%s/cards?page=%d", d.BaseURL, page)
		if err := d.Client.GetJSON(ctx, endpoint, d.headers(), &parsed); err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		all = append(all, parsed.Data...)
		if parsed.TotalPages <= 0 || page >= parsed.TotalPages || len(parsed.Data) == 0 {
			break
		}
		sleep(ctx, d.Delay())
	}
	return all, nil
}

func (d *derivedCatalog) PopulateSets(ctx context.Context, filter SetFilter) SetsResult {
	cards, err := d.fetchAllCards(ctx)
	if err != nil {
		return SetsResult{Errors: []string{fetchFailure(d.GameID, "card listing", err)}}
	}

	type tally struct {
		count int
		name  string
	}
	tallies := map[string]*tally{}
	for _, card := range cards {
		code := setCodeFromCard(card.Code)
		if code == "" {
			continue
		}
		t := tallies[code]
		if t == nil {
			t = &tally{}
			tallies[code] = t
		}
		t.count++
		if t.name == "" && strings.TrimSpace(card.Set.Name) != "" {
			t.name = strings.TrimSpace(card.Set.Name)
		}
	}

	codes := make([]string, 0, len(tallies))
	for code := range tallies {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	cutoff := time.Time{}
	if filter.MaxAgeMonths > 0 {
		cutoff = normalize.CutoffDate(time.Now().UTC(), filter.MaxAgeMonths)
	}

	var sets []models.CachedSet
	skipped := 0
	for _, code := range codes {
		t := tallies[code]
		number := normalize.SetNumber(code)
		if filter.MinSetNumber > 0 && number < filter.MinSetNumber {
			skipped++
			continue
		}
		release := normalize.ApproximateReleaseDate(d.Launch, number, d.MonthsPerSet)
		if !cutoff.IsZero() && !normalize.SetPassesAge(release, cutoff) {
			skipped++
			continue
		}
		name := t.name
		if name == "" {
			name = code
		}
		raw, _ := json.Marshal(map[string]any{
			"code":       code,
			"name":       name,
			"card_count": t.count,
			"set_number": number,
			"derived":    true,
		})
		sets = append(sets, models.CachedSet{
			GameSlug:             d.GameID,
			SetID:                code,
			Name:                 name,
			Series:               d.SeriesName,
			ReleaseDate:          release,
			ReleaseDateEstimated: true,
			TotalCards:           t.count,
			RawJSON:              raw,
		})
	}
	return upsertSets(ctx, d.Store, d.Logger, d.GameID, d.Delay(), sets, skipped)
}

func (d *derivedCatalog) PopulateCards(ctx context.Context, ref SetRef) CardsResult {
	// No per-set query upstream either: fetch everything and filter locally
	// by set-code prefix.
	all, err := d.fetchAllCards(ctx)
	if err != nil {
		return CardsResult{Errors: []string{fetchFailure(d.GameID, fmt.Sprintf("cards for set %s", ref.SetID), err)}}
	}

	var cards []models.CachedCard
	for _, src := range all {
		if setCodeFromCard(src.Code) != ref.SetID {
			continue
		}
		raw, _ := json.Marshal(src)
		cards = append(cards, models.CachedCard{
			CardID:     fmt.Sprintf("%s-%s", d.GameID, src.Code),
			GameSlug:   d.GameID,
			SetID:      ref.SetID,
			Name:       src.Name,
			Number:     cardNumberFromCode(src.Code),
			Supertype:  src.Type,
			Subtypes:   jsonStrings([]string{src.Attribute}),
			Types:      jsonStrings([]string{src.Color}),
			Rarity:     strPtr(src.Rarity),
			ImageSmall: strPtr(src.Images.Small),
			ImageLarge: strPtr(src.Images.Large),
			RawJSON:    raw,
		})
	}
	return upsertCardBatch(ctx, d.Store, d.Logger, d.GameID, ref.SetID, cards)
}

func setCodeFromCard(cardCode string) string {
	m := setCodeRe.FindStringSubmatch(strings.TrimSpace(cardCode))
	if m == nil {
		return ""
	}
	return m[1]
}

// cardNumberFromCode keeps the part after the set prefix ("OP05-001" ->
// "001"); codes without a prefix are kept whole, which is how promo numbers
// like "P-001" end up as full codes.
func cardNumberFromCode(cardCode string) string {
	code := strings.TrimSpace(cardCode)
	if i := strings.Index(code, "-"); i >= 0 && i < len(code)-1 {
		return code[i+1:]
	}
	return code
}
