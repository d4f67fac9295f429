package amplitude

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"experiment-funnel-service/internal/config"
	"experiment-funnel-service/internal/model"
)

// ExperimentClient lists experiments from the management API.
type ExperimentClient interface {
	ListExperiments(ctx context.Context) ([]model.Experiment, error)
}

type experimentClient struct {
	baseURL       string
	managementKey string
	client        *http.Client
}

// NewExperimentClient builds an ExperimentClient from configuration.
func NewExperimentClient(cfg *config.Config) ExperimentClient {
	return &experimentClient{
		baseURL:       cfg.ExperimentBaseURL,
		managementKey: cfg.ManagementKey,
		client:        &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

func (c *experimentClient) ListExperiments(ctx context.Context) ([]model.Experiment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/1/experiments?limit=1000", nil)
	if err != nil {
		return nil, fmt.Errorf("build experiments request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.managementKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("experiments request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read experiments response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: "management API request failed",
			Details: truncate(string(body), 500),
		}
	}

	var decoded struct {
		Experiments []model.Experiment `json:"experiments"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("undecodable experiments response: %v", err),
			Details: truncate(string(body), 500),
		}
	}
	if decoded.Experiments == nil {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: "response missing experiments key",
			Details: truncate(string(body), 500),
		}
	}
	return decoded.Experiments, nil
}
