package models

import (
	"fmt"
	"strings"
)

// GameSlug identifies one supported trading card game. Each slug maps to
// exactly one upstream catalog provider.
type GameSlug string

const (
	GamePokemon    GameSlug = "pokemon"
	GameYuGiOh     GameSlug = "yugioh"
	GameMTG        GameSlug = "mtg"
	GameOnePiece   GameSlug = "onepiece"
	GameLorcana    GameSlug = "lorcana"
	GameDigimon    GameSlug = "digimon"
	GameDragonBall GameSlug = "dragonball"
)

func AllGames() []GameSlug {
	return []GameSlug{
		GamePokemon,
		GameYuGiOh,
		GameMTG,
		GameOnePiece,
		GameLorcana,
		GameDigimon,
		GameDragonBall,
	}
}

func ParseGameSlug(raw string) (GameSlug, error) {
	slug := GameSlug(strings.ToLower(strings.TrimSpace(raw)))
	for _, g := range AllGames() {
		if slug == g {
			return g, nil
		}
	}
	return "", fmt.Errorf("unsupported game slug: %q", raw)
}

func (g GameSlug) String() string {
	return string(g)
}

// Print status values for a cached set.
const (
	PrintStatusCurrent    = "current"
	PrintStatusLimited    = "limited"
	PrintStatusOutOfPrint = "out_of_print"
	PrintStatusVintage    = "vintage"
)
