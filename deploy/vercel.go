package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/ultrabuild/ultrabuild/domain"
)

const DefaultVercelAPIURL = "https://api.vercel.com"

// VercelTarget creates deployments through the Vercel REST API with inline files
type VercelTarget struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewVercelTarget creates a Vercel target. An empty token is accepted; deploys then
// fail with a not configured error.
func NewVercelTarget(baseURL, token string, client *http.Client) *VercelTarget {
	if baseURL == "" {
		baseURL = DefaultVercelAPIURL
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &VercelTarget{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
	}
}

func (v *VercelTarget) Name() domain.DeploymentTarget {
	return domain.DeploymentTargetVercel
}

type vercelFile struct {
	File string `json:"file"`
	Data string `json:"data"`
}

type vercelDeploymentRequest struct {
	Name            string            `json:"name"`
	Files           []vercelFile      `json:"files"`
	Target          string            `json:"target"`
	ProjectSettings map[string]any    `json:"projectSettings"`
	Meta            map[string]string `json:"meta,omitempty"`
}

type vercelDeploymentResponse struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	ReadyState string `json:"readyState"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (v *VercelTarget) Deploy(ctx context.Context, req Request) (Outcome, error) {
	if v.token == "" {
		return Outcome{}, domain.NotConfigured("VERCEL_TOKEN")
	}

	payload := vercelDeploymentRequest{
		Name:            req.Slug,
		Files:           vercelFiles(req.Files),
		Target:          "production",
		ProjectSettings: map[string]any{"framework": nil},
		Meta:            map[string]string{"ultrabuildDeploymentId": req.ID.String()},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Outcome{}, fmt.Errorf("encode vercel request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/v13/deployments", bytes.NewReader(body))
	if err != nil {
		return Outcome{}, fmt.Errorf("create vercel request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+v.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(httpReq)
	if err != nil {
		return Outcome{}, &domain.ExternalCallError{Service: "vercel", Operation: "create deployment", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Outcome{}, &domain.ExternalCallError{Service: "vercel", Operation: "read response", Err: err}
	}

	var decoded vercelDeploymentResponse
	_ = json.Unmarshal(raw, &decoded)

	if resp.StatusCode >= http.StatusMultipleChoices {
		msg := strings.TrimSpace(string(raw))
		if decoded.Error != nil && decoded.Error.Message != "" {
			msg = decoded.Error.Message
		}
		return Outcome{
			Success: false,
			Logs:    fmt.Sprintf("vercel responded with status %d: %s", resp.StatusCode, msg),
		}, nil
	}

	if decoded.ID == "" {
		return Outcome{}, &domain.ExternalCallError{
			Service:   "vercel",
			Operation: "create deployment",
			Err:       fmt.Errorf("response without deployment id"),
		}
	}

	url := decoded.URL
	if url != "" && !strings.HasPrefix(url, "http") {
		url = "https://" + url
	}

	return Outcome{
		Success:    true,
		URL:        url,
		ExternalID: decoded.ID,
		Logs:       fmt.Sprintf("Vercel deployment %s created with %d files (state: %s)", decoded.ID, len(payload.Files), decoded.ReadyState),
	}, nil
}

func vercelFiles(files map[string]string) []vercelFile {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]vercelFile, 0, len(names))
	for _, name := range names {
		out = append(out, vercelFile{File: name, Data: files[name]})
	}
	return out
}
