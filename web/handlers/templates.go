package handlers

import (
	"net/http"

	"github.com/ultrabuild/ultrabuild/domain"
)

// ListTemplates returns the marketplace listing and total revenue
func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"templates": h.deps.Ledger.List(),
		"revenue":   h.deps.Ledger.Revenue(),
	})
}

// PublishTemplate adds or replaces a template
func (h *Handlers) PublishTemplate(w http.ResponseWriter, r *http.Request) {
	var t domain.Template
	if !decodeJSON(w, r, &t, false) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"template": h.deps.Ledger.Publish(t),
	})
}

type purchaseRequest struct {
	BuyerID string `json:"buyerId"`
}

// PurchaseTemplate records a sale
func (h *Handlers) PurchaseTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r, "id")
	if err != nil {
		writeLookupError(w, err)
		return
	}

	var req purchaseRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	ok := h.deps.Ledger.Purchase(id, req.BuyerID)
	response := map[string]any{
		"success": ok,
		"revenue": h.deps.Ledger.Revenue(),
	}
	if !ok {
		response["message"] = "template " + id.String() + " not found"
	}
	writeJSON(w, http.StatusOK, response)
}
