package handlers

import (
	"bytes"
	"net/http"

	"github.com/ultrabuild/ultrabuild/domain"
	"github.com/yuin/goldmark"
)

var capabilities = []string{
	"project-generation",
	"deployment",
	"code-healing",
	"template-marketplace",
	"game-generation",
}

// Health reports liveness
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": now,
		"uptime":    now.Sub(h.started).Seconds(),
	})
}

// Status reports service capabilities and counters
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":      "ULTRABUILD",
		"status":       "operational",
		"version":      h.deps.Version,
		"capabilities": capabilities,
		"integrations": h.deps.Integrations,
		"stats": map[string]any{
			"projectsGenerated":  h.deps.Generator.Count(),
			"deployments":        h.deps.Deployer.Count(),
			"healingRuns":        len(h.deps.Healer.History()),
			"templates":          h.deps.Ledger.Count(),
			"marketplaceRevenue": h.deps.Ledger.Revenue(),
		},
	})
}

type generateRequest struct {
	Name        string             `json:"name"`
	ProjectName string             `json:"projectName"`
	Description string             `json:"description"`
	Type        domain.ProjectType `json:"type"`
	Features    []string           `json:"features"`
	Constraints domain.Constraints `json:"constraints"`
}

// Generate creates a project from requirements
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	name := req.Name
	if name == "" {
		name = req.ProjectName
	}

	project, err := h.deps.Generator.Generate(r.Context(), domain.Requirement{
		Name:        name,
		Description: req.Description,
		Type:        req.Type,
		Features:    req.Features,
		Constraints: req.Constraints,
	})
	if err != nil {
		LogOperationError("generate_project", err, "project_name", name)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": domain.FormatErrorForUser(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"projectId": project.ID,
		"project":   project,
	})
}

// ListProjects returns every stored project
func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"projects": h.deps.Generator.List(),
	})
}

// GetProject returns one project
func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.lookupProject(r)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"project": project,
	})
}

// ProjectReadme renders the generated README as HTML
func (h *Handlers) ProjectReadme(w http.ResponseWriter, r *http.Request) {
	project, err := h.lookupProject(r)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(project.Files["README.md"]), &buf); err != nil {
		LogOperationError("render_readme", err, "project_id", project.ID)
		writeError(w, http.StatusInternalServerError, "failed to render README")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handlers) lookupProject(r *http.Request) (*domain.GeneratedProject, error) {
	id, err := ParseID(r, "id")
	if err != nil {
		return nil, err
	}
	return h.deps.Generator.Get(id)
}
