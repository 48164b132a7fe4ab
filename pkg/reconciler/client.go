package reconciler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Scenario is the subset of the scenario record the canvas needs.
type Scenario struct {
	ID          uint64          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Difficulty  string          `json:"difficulty"`
	Functional  json.RawMessage `json:"functional_requirements"`
	NonFunc     json.RawMessage `json:"non_functional_requirements"`
	Capacity    json.RawMessage `json:"capacity_estimations"`
}

// Design mirrors the server's design representation.
type Design struct {
	ID              uint64          `json:"id"`
	UserID          uint64          `json:"user_id"`
	ScenarioID      uint64          `json:"scenario_id"`
	DiagramData     json.RawMessage `json:"diagram_data"`
	TextExplanation string          `json:"text_explanation"`
	Status          string          `json:"status"`
	SubmittedAt     *time.Time      `json:"submitted_at"`
}

// APIError carries the server's status code and error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client talks to the design API with a bearer access token.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewClient builds a Client with a 10 second default timeout.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &apiErr)
		return resp.StatusCode, &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// GetScenario fetches a scenario by id.
func (c *Client) GetScenario(ctx context.Context, id uint64) (*Scenario, error) {
	var s Scenario
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/scenarios/%d", id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetDraft fetches the caller's cloud draft for a scenario. A nil
// design with nil error means the server has no draft.
func (c *Client) GetDraft(ctx context.Context, scenarioID uint64) (*Design, error) {
	var wrapper struct {
		Design *Design `json:"design"`
	}
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/designs/scenario/%d/draft", scenarioID), nil, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Design, nil
}

type draftPayload struct {
	ScenarioID      uint64 `json:"scenario_id,omitempty"`
	DiagramData     string `json:"diagram_data"`
	TextExplanation string `json:"text_explanation"`
}

// CreateDesign upserts the caller's draft for a scenario. The returned
// bool reports whether the server created a fresh row (201) rather
// than overwriting an existing draft (200).
func (c *Client) CreateDesign(ctx context.Context, scenarioID uint64, diagramData, textExplanation string) (*Design, bool, error) {
	var d Design
	code, err := c.do(ctx, http.MethodPost, "/v1/designs", draftPayload{
		ScenarioID:      scenarioID,
		DiagramData:     diagramData,
		TextExplanation: textExplanation,
	}, &d)
	if err != nil {
		return nil, false, err
	}
	return &d, code == http.StatusCreated, nil
}

// UpdateDesign overwrites a known draft by id.
func (c *Client) UpdateDesign(ctx context.Context, designID uint64, diagramData, textExplanation string) (*Design, error) {
	var d Design
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/designs/%d", designID), draftPayload{
		DiagramData:     diagramData,
		TextExplanation: textExplanation,
	}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// SubmitDesign submits a draft for grading.
func (c *Client) SubmitDesign(ctx context.Context, designID uint64) (*Design, error) {
	var d Design
	if _, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/designs/%d/submit", designID), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
