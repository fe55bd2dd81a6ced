// Package fetch retrieves alarms from the Einsatz-Monitor cloud API.
//
// Two delivery paths exist: a polling HTTP client hitting /api/ha/poll and
// a websocket listener receiving alarms as they happen. Both produce
// model.Incident values; neither stores anything - the coordinator decides
// what to do with fetched alarms.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/freakms/ha-firecalltracking/internal/classify"
	"github.com/freakms/ha-firecalltracking/internal/model"
)

// userAgent identifies us to the upstream API.
const userAgent = "einsatzmonitor/1.0 (https://github.com/freakms/ha-firecalltracking)"

// Client polls the upstream alarm API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a Client for the given server. Trailing slashes on the
// base URL are tolerated.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

// Poll fetches the current alarm list, most recent first (upstream contract).
// Respects context cancellation.
func (c *Client) Poll(ctx context.Context) ([]model.Incident, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	endpoint := c.baseURL + "/api/ha/poll?" + url.Values{"token": {c.token}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to poll alarms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var alarms []model.Incident
	if err := json.NewDecoder(resp.Body).Decode(&alarms); err != nil {
		return nil, fmt.Errorf("failed to decode alarm list: %w", err)
	}

	return TagTypes(alarms), nil
}

// TagTypes fills in the type tag for alarms the upstream delivered untyped,
// deriving it from the dispatch keyword.
func TagTypes(alarms []model.Incident) []model.Incident {
	for i := range alarms {
		if alarms[i].Type == "" {
			alarms[i].Type = classify.DeriveType(alarms[i].Keyword)
		}
	}
	return alarms
}
