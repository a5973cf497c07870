package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/fitlog/internal/models"
	"github.com/meltforce/fitlog/internal/suggest"
)

// HTTPClient implements DataSource by calling the FitLog REST API with a
// bearer token. Used for stdio MCP mode where the binary runs locally but
// data lives on a remote server. The token decides the user; the userID
// arguments are ignored.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) List(ctx context.Context, _ int64, limit int) ([]models.Workout, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, "/api/workouts", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Workouts []models.Workout `json:"workouts"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	if resp.Workouts == nil {
		resp.Workouts = []models.Workout{}
	}
	return resp.Workouts, nil
}

func (c *HTTPClient) LatestSuggestion(ctx context.Context, _ int64) (suggest.Suggestion, error) {
	body, err := c.get(ctx, "/api/workouts/suggestion", nil)
	if err != nil {
		return suggest.Suggestion{}, err
	}

	var resp struct {
		Suggestion suggest.Suggestion `json:"suggestion"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return suggest.Suggestion{}, fmt.Errorf("httpclient: decode suggestion: %w", err)
	}
	return resp.Suggestion, nil
}
