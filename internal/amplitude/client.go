// Package amplitude holds the HTTP clients for the external funnel and
// experiment-management APIs. They are plain collaborators: no retries, no
// caching; failures surface with the request payload attached for diagnosis.
package amplitude

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"experiment-funnel-service/internal/config"
	"experiment-funnel-service/internal/model"
	"experiment-funnel-service/internal/query"
)

// FunnelRequest is one fully-resolved funnel query for a single variant.
type FunnelRequest struct {
	Steps            []query.StepQuery
	ExperimentID     string
	Variant          string
	Start            time.Time
	End              time.Time
	ConversionWindow int
}

// APIError is a funnel or management API failure. Payload carries the
// marshalled request parameters that produced it.
type APIError struct {
	Status  int
	Message string
	Details string
	Payload string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("amplitude API error (status %d): %s", e.Status, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// FunnelClient fetches funnel data for one variant at a time.
type FunnelClient interface {
	FetchFunnel(ctx context.Context, req FunnelRequest) (*FunnelResponse, error)
}

type funnelClient struct {
	baseURL   string
	apiKey    string
	secretKey string
	client    *http.Client
}

// NewFunnelClient builds a FunnelClient from configuration.
func NewFunnelClient(cfg *config.Config) FunnelClient {
	return &funnelClient{
		baseURL:   cfg.FunnelBaseURL,
		apiKey:    cfg.APIKey,
		secretKey: cfg.SecretKey,
		client:    &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// stepPayload is the wire shape of one funnel step in the `e` parameter.
type stepPayload struct {
	EventType string            `json:"event_type"`
	Filters   []model.Predicate `json:"filters"`
	GroupBy   []string          `json:"group_by"`
}

// segmentPayload is the variant-membership selector in the `s` parameter.
type segmentPayload struct {
	GroupType string   `json:"group_type"`
	Prop      string   `json:"prop"`
	PropType  string   `json:"prop_type"`
	Op        string   `json:"op"`
	Type      string   `json:"type"`
	Values    []string `json:"values"`
}

func (c *funnelClient) FetchFunnel(ctx context.Context, req FunnelRequest) (*FunnelResponse, error) {
	params, err := encodeParams(req)
	if err != nil {
		return nil, err
	}
	payload := params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/2/funnels?"+payload, nil)
	if err != nil {
		return nil, fmt.Errorf("build funnel request: %w", err)
	}
	httpReq.SetBasicAuth(c.apiKey, c.secretKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("funnel request failed (payload: %s): %w", payload, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read funnel response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Payload: payload}
		var decoded FunnelResponse
		if json.Unmarshal(body, &decoded) == nil && decoded.ErrorMessage != "" {
			apiErr.Message = decoded.ErrorMessage
			apiErr.Details = decoded.ErrorDetails
		} else {
			apiErr.Message = truncate(string(body), 500)
		}
		return nil, apiErr
	}

	var decoded FunnelResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("undecodable response body: %v", err),
			Details: truncate(string(body), 500),
			Payload: payload,
		}
	}

	if decoded.ErrorMessage != "" {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: decoded.ErrorMessage,
			Details: decoded.ErrorDetails,
			Payload: payload,
		}
	}
	return &decoded, nil
}

func encodeParams(req FunnelRequest) (url.Values, error) {
	params := url.Values{}
	for _, step := range req.Steps {
		filters := step.Filters
		if filters == nil {
			filters = []model.Predicate{}
		}
		encoded, err := json.Marshal(stepPayload{
			EventType: step.Event,
			Filters:   filters,
			GroupBy:   []string{},
		})
		if err != nil {
			return nil, fmt.Errorf("encode step %q: %w", step.Event, err)
		}
		params.Add("e", string(encoded))
	}

	segment, err := json.Marshal(segmentPayload{
		GroupType: "User",
		Prop:      fmt.Sprintf("gp:[Experiment] %s", req.ExperimentID),
		PropType:  "user",
		Op:        "is",
		Type:      "property",
		Values:    []string{req.Variant},
	})
	if err != nil {
		return nil, fmt.Errorf("encode segment: %w", err)
	}
	params.Add("s", string(segment))

	params.Set("start", FormatDate(req.Start, false))
	params.Set("end", FormatDate(req.End, true))
	params.Set("cs", strconv.Itoa(req.ConversionWindow))
	return params, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
