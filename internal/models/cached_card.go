package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CachedCard is one printed card identity within a set. CardID is a
// provider-specific composite string unique within its game; the schemes
// differ per provider (native ID, "{id}-{setCode}", "{setCode}-{number}",
// synthetic "provider-{code}" prefixes) but all encode enough context to
// avoid cross-set collisions.
type CachedCard struct {
	ID       uint64   `gorm:"primaryKey;autoIncrement" json:"-"`
	CardID   string   `gorm:"type:varchar(100);uniqueIndex;not null" json:"cardId"`
	GameSlug GameSlug `gorm:"type:varchar(20);index:idx_card_game_set;not null" json:"gameSlug"`
	// SetID is a soft reference to CachedSet.SetID within the same game; the
	// store does not enforce it. Cards may reference a set row that was
	// filtered out or not yet populated.
	SetID string `gorm:"type:varchar(50);index:idx_card_game_set;not null" json:"setId"`

	Name      string `gorm:"type:text;not null" json:"name"`
	Number    string `gorm:"type:varchar(30)" json:"number"`
	Supertype string `gorm:"type:varchar(50)" json:"supertype"`
	// Subtypes and Types are ordered string lists; their semantics differ per
	// game (energy/attribute/color/ink).
	Subtypes datatypes.JSON `gorm:"type:jsonb" json:"subtypes,omitempty"`
	Types    datatypes.JSON `gorm:"type:jsonb" json:"types,omitempty"`

	Rarity       *string          `gorm:"type:varchar(50)" json:"rarity,omitempty"`
	ImageSmall   *string          `gorm:"type:varchar(500)" json:"imageSmall,omitempty"`
	ImageLarge   *string          `gorm:"type:varchar(500)" json:"imageLarge,omitempty"`
	TCGPlayerURL *string          `gorm:"type:varchar(500)" json:"tcgPlayerUrl,omitempty"`
	PriceMarket  *decimal.Decimal `gorm:"type:numeric(20,4)" json:"priceMarket,omitempty"`

	RawJSON datatypes.JSON `gorm:"type:jsonb" json:"-"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"lastUpdated"`
}

func (CachedCard) TableName() string {
	return "cached_cards"
}
