// Package games generates typed browser game scaffolds.
package games

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/ultrabuild/ultrabuild/domain"
)

// kindSpec holds the fixed data of one game kind
type kindSpec struct {
	engine      string
	description string
	template    string
	packages    map[string]string
}

var kinds = map[domain.GameKind]kindSpec{
	domain.GameKind2D: {
		engine:      "Phaser",
		description: "2D arcade or platformer game rendered on a canvas",
		template:    "phaser",
		packages:    map[string]string{"phaser": "^3.80.1"},
	},
	domain.GameKind3D: {
		engine:      "Three.js",
		description: "3D scene with camera, lighting and a render loop",
		template:    "three",
		packages:    map[string]string{"three": "^0.167.0"},
	},
	domain.GameKindMultiplayer: {
		engine:      "Socket.IO",
		description: "Real-time multiplayer room with a Node.js game server",
		template:    "multiplayer",
		packages:    map[string]string{"socket.io": "^4.7.5", "socket.io-client": "^4.7.5", "express": "^4.19.2"},
	},
	domain.GameKindCard: {
		engine:      "PixiJS",
		description: "Card game with a shuffled deck and hands",
		template:    "card",
		packages:    map[string]string{"pixi.js": "^8.2.5"},
	},
	domain.GameKindBoard: {
		engine:      "PixiJS",
		description: "Turn-based board game on a square grid",
		template:    "board",
		packages:    map[string]string{"pixi.js": "^8.2.5"},
	},
	domain.GameKindRPG: {
		engine:      "Phaser",
		description: "Role-playing game with character classes and stats",
		template:    "rpg",
		packages:    map[string]string{"phaser": "^3.80.1"},
	},
	domain.GameKindStrategy: {
		engine:      "Phaser",
		description: "Strategy game with competing factions and resources",
		template:    "strategy",
		packages:    map[string]string{"phaser": "^3.80.1"},
	},
}

var kindOrder = []domain.GameKind{
	domain.GameKind2D,
	domain.GameKind3D,
	domain.GameKindMultiplayer,
	domain.GameKindCard,
	domain.GameKindBoard,
	domain.GameKindRPG,
	domain.GameKindStrategy,
}

var (
	defaultClasses  = []string{"warrior", "mage", "rogue"}
	defaultFactions = []string{"north", "south"}
)

// Generator builds game scaffolds
type Generator struct {
	now func() time.Time
}

func New() *Generator {
	return &Generator{now: time.Now}
}

// Types lists the supported kinds in display order
func (g *Generator) Types() []domain.GameType {
	out := make([]domain.GameType, 0, len(kindOrder))
	for _, k := range kindOrder {
		spec := kinds[k]
		out = append(out, domain.GameType{Type: k, Engine: spec.engine, Description: spec.description})
	}
	return out
}

// Generate builds a scaffold of kind from req, filling kind-specific defaults
func (g *Generator) Generate(kind domain.GameKind, req domain.GameRequest) (*domain.Game, error) {
	kind = domain.GameKind(strings.ToLower(strings.TrimSpace(string(kind))))
	spec, ok := kinds[kind]
	if !ok {
		return nil, &domain.ValidationError{Field: "game type", Message: fmt.Sprintf("unsupported game type %q", kind)}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = fmt.Sprintf("Untitled %s Game", strings.ToUpper(string(kind)))
	}

	config := configFor(kind, req)
	files, err := render(spec, title, req.Description, config)
	if err != nil {
		slog.Error("Service operation failed",
			"layer", "games",
			"operation", "render",
			"kind", kind,
			"error", err)
		return nil, fmt.Errorf("failed to generate %s game: %w", kind, err)
	}

	game := &domain.Game{
		ID:        uuid.New(),
		Kind:      kind,
		Title:     title,
		Engine:    spec.engine,
		Config:    config,
		Files:     files,
		CreatedAt: g.now(),
	}

	slog.Info("Game generated", "game_id", game.ID, "kind", kind, "title", title, "files", len(files))
	return game, nil
}

func configFor(kind domain.GameKind, req domain.GameRequest) map[string]any {
	width := orDefault(req.Width, 800)
	height := orDefault(req.Height, 600)

	switch kind {
	case domain.GameKind2D:
		return map[string]any{"width": width, "height": height, "genre": orDefaultString(req.Genre, "platformer"), "gravity": 300}
	case domain.GameKind3D:
		return map[string]any{"width": width, "height": height, "scene": orDefaultString(req.Scene, "forest"), "fov": 75}
	case domain.GameKindMultiplayer:
		return map[string]any{"maxPlayers": orDefault(req.MaxPlayers, 4), "tickRate": 20, "port": 3000}
	case domain.GameKindCard:
		return map[string]any{"deckSize": orDefault(req.DeckSize, 52), "handSize": 5, "maxPlayers": orDefault(req.MaxPlayers, 2)}
	case domain.GameKindBoard:
		return map[string]any{"boardSize": orDefault(req.BoardSize, 8), "maxPlayers": orDefault(req.MaxPlayers, 2)}
	case domain.GameKindRPG:
		return map[string]any{"width": width, "height": height, "classes": orDefaultList(req.Classes, defaultClasses), "startingLevel": 1}
	case domain.GameKindStrategy:
		return map[string]any{"width": width, "height": height, "factions": orDefaultList(req.Factions, defaultFactions), "startingGold": 100}
	default:
		return map[string]any{}
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orDefaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func orDefaultList(v, def []string) []string {
	if len(v) == 0 {
		return append([]string(nil), def...)
	}
	return append([]string(nil), v...)
}

type templateData struct {
	Title       string
	Slug        string
	Description string
	Engine      string
	Config      map[string]any
	ConfigJSON  string
}

func render(spec kindSpec, title, description string, config map[string]any) (map[string]string, error) {
	configJSON, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}

	name := slug.Make(title)
	if name == "" {
		name = "game"
	}

	data := templateData{
		Title:       title,
		Slug:        name,
		Description: description,
		Engine:      spec.engine,
		Config:      config,
		ConfigJSON:  string(configJSON),
	}

	files := map[string]string{}
	for file, tmpl := range map[string]string{
		"index.html":  "html",
		"src/main.ts": spec.template,
	} {
		var buf bytes.Buffer
		if err := gameTemplates.ExecuteTemplate(&buf, tmpl, data); err != nil {
			return nil, fmt.Errorf("render %s: %w", file, err)
		}
		files[file] = buf.String()
	}

	if spec.template == "multiplayer" {
		var buf bytes.Buffer
		if err := gameTemplates.ExecuteTemplate(&buf, "server", data); err != nil {
			return nil, fmt.Errorf("render server.ts: %w", err)
		}
		files["server.ts"] = buf.String()
	}

	manifest, err := json.MarshalIndent(map[string]any{
		"name":    name,
		"version": "0.1.0",
		"private": true,
		"type":    "module",
		"scripts": map[string]string{
			"dev":   "vite",
			"build": "tsc && vite build",
			"start": "vite preview --port 3000",
		},
		"dependencies":    spec.packages,
		"devDependencies": map[string]string{"typescript": "^5.5.4", "vite": "^5.3.5"},
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	files["package.json"] = string(manifest) + "\n"
	files["src/config.json"] = data.ConfigJSON + "\n"

	return files, nil
}
