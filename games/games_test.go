package games

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ultrabuild/ultrabuild/domain"
)

func TestTypes(t *testing.T) {
	types := New().Types()

	require.Len(t, types, 7)
	assert.Equal(t, domain.GameKind2D, types[0].Type)
	for _, gt := range types {
		assert.NotEmpty(t, gt.Engine, gt.Type)
		assert.NotEmpty(t, gt.Description, gt.Type)
	}
}

func TestGenerate_AllKinds(t *testing.T) {
	g := New()
	for _, gt := range g.Types() {
		t.Run(string(gt.Type), func(t *testing.T) {
			game, err := g.Generate(gt.Type, domain.GameRequest{Title: "Space Quest"})
			require.NoError(t, err)

			assert.Equal(t, gt.Type, game.Kind)
			assert.Equal(t, gt.Engine, game.Engine)
			assert.Equal(t, "Space Quest", game.Title)
			assert.Contains(t, game.Files, "index.html")
			assert.Contains(t, game.Files, "src/main.ts")
			assert.Contains(t, game.Files, "package.json")

			var manifest map[string]any
			require.NoError(t, json.Unmarshal([]byte(game.Files["package.json"]), &manifest))
			assert.Equal(t, "space-quest", manifest["name"])
		})
	}
}

func TestGenerate_Defaults(t *testing.T) {
	tests := []struct {
		name string
		kind domain.GameKind
		req  domain.GameRequest
		key  string
		want any
	}{
		{name: "2d width", kind: domain.GameKind2D, key: "width", want: 800},
		{name: "2d custom height", kind: domain.GameKind2D, req: domain.GameRequest{Height: 480}, key: "height", want: 480},
		{name: "multiplayer players", kind: domain.GameKindMultiplayer, key: "maxPlayers", want: 4},
		{name: "card deck", kind: domain.GameKindCard, key: "deckSize", want: 52},
		{name: "board size", kind: domain.GameKindBoard, req: domain.GameRequest{BoardSize: 19}, key: "boardSize", want: 19},
		{name: "rpg classes", kind: domain.GameKindRPG, key: "classes", want: []string{"warrior", "mage", "rogue"}},
		{name: "strategy factions", kind: domain.GameKindStrategy, req: domain.GameRequest{Factions: []string{"red", "blue", "green"}}, key: "factions", want: []string{"red", "blue", "green"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game, err := New().Generate(tt.kind, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, game.Config[tt.key])
		})
	}
}

func TestGenerate_TemplatesUseRequestData(t *testing.T) {
	g := New()

	rpg, err := g.Generate(domain.GameKindRPG, domain.GameRequest{Classes: []string{"paladin"}})
	require.NoError(t, err)
	assert.Contains(t, rpg.Files["src/main.ts"], "'paladin'")
	assert.Equal(t, "Untitled RPG Game", rpg.Title)

	mp, err := g.Generate(domain.GameKindMultiplayer, domain.GameRequest{})
	require.NoError(t, err)
	assert.Contains(t, mp.Files, "server.ts")
}

func TestGenerate_UnknownKind(t *testing.T) {
	_, err := New().Generate("puzzle", domain.GameRequest{})

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "unsupported game type")
}

func TestGenerate_KindIsCaseInsensitive(t *testing.T) {
	game, err := New().Generate(" 3D ", domain.GameRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.GameKind3D, game.Kind)
}
