package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ultrabuild/ultrabuild/domain"
)

// GameTypes lists the supported game kinds
func (h *Handlers) GameTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Games.Types())
}

// GenerateGame builds a game scaffold of the kind named in the path
func (h *Handlers) GenerateGame(w http.ResponseWriter, r *http.Request) {
	var req domain.GameRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	game, err := h.deps.Games.Generate(domain.GameKind(chi.URLParam(r, "kind")), req)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": domain.FormatErrorForUser(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"game":    game,
	})
}
