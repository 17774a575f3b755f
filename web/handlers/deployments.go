package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/ultrabuild/ultrabuild/domain"
	"github.com/ultrabuild/ultrabuild/ws"
)

type deployRequest struct {
	ProjectID string `json:"projectId"`
	Target    string `json:"target"`
}

// Deploy ships a generated project to a target
func (h *Handlers) Deploy(w http.ResponseWriter, r *http.Request) {
	var req deployRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	target, err := domain.ParseDeploymentTarget(strings.ToLower(strings.TrimSpace(req.Target)))
	if err != nil {
		writeDeployFailure(w, err)
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		writeDeployFailure(w, &domain.ValidationError{Field: "projectId", Message: "must be a UUID"})
		return
	}
	project, err := h.deps.Generator.Get(projectID)
	if err != nil {
		writeDeployFailure(w, err)
		return
	}

	result := h.deps.Deployer.Deploy(r.Context(), domain.DeploymentConfig{
		ProjectName: project.Name,
		Target:      target,
		Files:       project.Files,
	})

	message := fmt.Sprintf("Deployed %s to %s", project.Name, target)
	if !result.Success {
		message = fmt.Sprintf("Deployment of %s to %s failed", project.Name, target)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      result.Success,
		"deploymentId": result.ID,
		"url":          result.URL,
		"message":      message,
		"logs":         result.Logs,
	})
}

func writeDeployFailure(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": false,
		"message": domain.FormatErrorForUser(err),
		"logs":    err.Error(),
	})
}

// ListDeployments returns every stored deployment record
func (h *Handlers) ListDeployments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"deployments": h.deps.Deployer.List(),
	})
}

// GetDeployment returns one deployment record
func (h *Handlers) GetDeployment(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r, "id")
	if err != nil {
		writeLookupError(w, err)
		return
	}
	result, err := h.deps.Deployer.Get(id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"deployment": result,
	})
}

// DeploymentEvents upgrades to a websocket and streams dispatcher events.
// The optional deploymentId query parameter narrows the stream to one deployment.
func (h *Handlers) DeploymentEvents(w http.ResponseWriter, r *http.Request) {
	if h.deps.Hub == nil {
		writeError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	topic := r.URL.Query().Get("deploymentId")
	if topic != "" {
		if _, err := uuid.Parse(topic); err != nil {
			writeError(w, http.StatusBadRequest, "invalid deploymentId format")
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		LogOperationError("websocket_upgrade", err)
		return
	}

	client := ws.NewClient(conn, slog.Default())
	h.deps.Hub.Register(topic, client)
	go func() {
		defer func() {
			h.deps.Hub.Unregister(topic, client)
			client.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
