// Package research implements the Manus research API client used to refine complexity estimates.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ultrabuild/ultrabuild/domain"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 30 * time.Second
	maxErrorBodySize = 4096
	researchPath     = "/v1/research"
)

// ErrUnauthorized indicates the API rejected the configured key.
var ErrUnauthorized = errors.New("manus unauthorized")

// ErrInvalidResponse indicates the API answered with a malformed payload.
var ErrInvalidResponse = errors.New("manus invalid response")

// Client talks to the Manus research API
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

type researchRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Features    []string `json:"features"`
	TechStack   []string `json:"techStack,omitempty"`
}

// NewClient creates a research client. It returns an error wrapping
// domain.ErrNotConfigured when the URL or key is missing.
func NewClient(baseURL, apiKey string, timeout time.Duration, client *http.Client) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, domain.NotConfigured("MANUS_API_URL")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, domain.NotConfigured("MANUS_API_KEY")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	} else if client.Timeout == 0 {
		client.Timeout = timeout
	}
	return &Client{
		baseURL: trimmed,
		apiKey:  strings.TrimSpace(apiKey),
		client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}, nil
}

// Research asks the API for a complexity class and recommendations for req
func (c *Client) Research(ctx context.Context, req domain.Requirement) (*domain.ResearchInsight, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.ExternalCallError{Service: "manus", Operation: "research", Err: err}
	}

	body, err := json.Marshal(researchRequest{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type.String(),
		Features:    req.Features,
		TechStack:   req.Constraints.TechStack,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal research request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+researchPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build research request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &domain.ExternalCallError{Service: "manus", Operation: "research", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &domain.ExternalCallError{Service: "manus", Operation: "research", Err: errorForStatus(resp)}
	}

	var insight domain.ResearchInsight
	if err := json.NewDecoder(resp.Body).Decode(&insight); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if _, err := domain.ParseComplexity(insight.Complexity); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &insight, nil
}

func errorForStatus(resp *http.Response) error {
	buf, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	summary := strings.TrimSpace(string(buf))
	if summary == "" {
		summary = resp.Status
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, summary)
	default:
		return fmt.Errorf("research request failed: %s", summary)
	}
}
