package provider

import (
	"time"

	"cardvault/internal/models"
)

// delayTable is the static per-provider minimum inter-request delay. Values
// reflect each API's published or observed limits; this is throttling, not
// congestion control, and nothing mutates the table after process start.
// The orchestrator doubles the delay when moving between sets in a full-game
// run to stay conservative against multi-endpoint bursts.
var delayTable = map[models.GameSlug]time.Duration{
	models.GamePokemon:    50 * time.Millisecond,
	models.GameYuGiOh:     50 * time.Millisecond,
	models.GameMTG:        100 * time.Millisecond,
	models.GameLorcana:    100 * time.Millisecond,
	models.GameOnePiece:   250 * time.Millisecond,
	models.GameDigimon:    250 * time.Millisecond,
	models.GameDragonBall: 700 * time.Millisecond,
}

// DelayFor returns the minimum pause before the next request to a provider.
func DelayFor(game models.GameSlug) time.Duration {
	if d, ok := delayTable[game]; ok {
		return d
	}
	return 100 * time.Millisecond
}
