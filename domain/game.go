package domain

import (
	"time"

	"github.com/google/uuid"
)

// GameKind is one of the supported game scaffolds
type GameKind string

const (
	GameKind2D          GameKind = "2d"
	GameKind3D          GameKind = "3d"
	GameKindMultiplayer GameKind = "multiplayer"
	GameKindCard        GameKind = "card"
	GameKindBoard       GameKind = "board"
	GameKindRPG         GameKind = "rpg"
	GameKindStrategy    GameKind = "strategy"
)

// GameType describes a supported game kind
type GameType struct {
	Type        GameKind `json:"type"`
	Engine      string   `json:"engine"`
	Description string   `json:"description"`
}

// GameRequest carries the fields accepted by the game generators.
// Each kind reads only the fields that apply to it.
type GameRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genre       string   `json:"genre"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Scene       string   `json:"scene"`
	MaxPlayers  int      `json:"maxPlayers"`
	DeckSize    int      `json:"deckSize"`
	BoardSize   int      `json:"boardSize"`
	Classes     []string `json:"classes"`
	Factions    []string `json:"factions"`
}

// Game is a generated game scaffold
type Game struct {
	ID        uuid.UUID         `json:"id"`
	Kind      GameKind          `json:"type"`
	Title     string            `json:"title"`
	Engine    string            `json:"engine"`
	Config    map[string]any    `json:"config"`
	Files     map[string]string `json:"files"`
	CreatedAt time.Time         `json:"timestamp"`
}
