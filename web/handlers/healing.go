package handlers

import (
	"net/http"
)

type codeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// Scan reports findings without rewriting
func (h *Handlers) Scan(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"findings": h.deps.Healer.Scan(req.Code, req.Language),
	})
}

// Heal scans and rewrites code
func (h *Handlers) Heal(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	result := h.deps.Healer.Heal(r.Context(), req.Code, req.Language)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"id":           result.ID,
		"healed":       result.Healed,
		"errorsFound":  len(result.Findings),
		"findings":     result.Findings,
		"fixesApplied": result.FixesApplied,
		"remaining":    result.Remaining,
		"confidence":   result.Confidence,
	})
}

// HealHistory lists past heal runs
func (h *Handlers) HealHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"history": h.deps.Healer.History(),
	})
}
