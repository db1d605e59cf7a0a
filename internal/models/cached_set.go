package models

import (
	"time"

	"gorm.io/datatypes"
)

// CachedSet is one physical product release for one game. The natural key is
// (game_slug, set_id); the surrogate ID exists only for row addressing.
type CachedSet struct {
	ID       uint64   `gorm:"primaryKey;autoIncrement" json:"-"`
	GameSlug GameSlug `gorm:"type:varchar(20);uniqueIndex:idx_game_set;not null" json:"gameSlug"`
	SetID    string   `gorm:"type:varchar(50);uniqueIndex:idx_game_set;not null" json:"setId"`

	Name        string `gorm:"type:text;not null" json:"name"`
	Series      string `gorm:"type:text" json:"series"`
	ReleaseDate string `gorm:"type:varchar(20)" json:"releaseDate"`
	// ReleaseDateEstimated marks dates computed from a launch-date constant
	// rather than supplied by the provider. Estimated dates feed age filtering
	// but must not be displayed as fact.
	ReleaseDateEstimated bool    `gorm:"not null;default:false" json:"releaseDateEstimated"`
	TotalCards           int     `gorm:"not null;default:0" json:"totalCards"`
	LogoURL              *string `gorm:"type:varchar(500)" json:"logoUrl,omitempty"`
	SymbolURL            *string `gorm:"type:varchar(500)" json:"symbolUrl,omitempty"`

	// PrintStatus is nil until the print-status maintenance pass (or an admin)
	// sets it. A non-nil value is never overwritten by the maintenance pass.
	PrintStatus *string `gorm:"type:varchar(20)" json:"printStatus,omitempty"`
	IsInPrint   bool    `gorm:"not null;default:true" json:"isInPrint"`

	RawJSON datatypes.JSON `gorm:"type:jsonb" json:"-"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"lastUpdated"`
}

func (CachedSet) TableName() string {
	return "cached_sets"
}
