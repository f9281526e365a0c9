// Package journal is the client side of the trading journal: a Trade API
// consumer plus the client-local concerns the UI needs — CSV interchange,
// view state transitions, and chart data derivation.
package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mfreitas/tradejournal/internal/domain/dto"
	"github.com/mfreitas/tradejournal/internal/domain/models"
)

// User-facing failure categories. Operations keep working on stale local
// state after any of these; the message tells the user which action failed,
// the wrapped cause says why.
const (
	errFetch  = "failed to load trades"
	errSave   = "failed to save trade"
	errDelete = "failed to delete trade"
	errImport = "failed to import trades"
)

// Client talks to the Trade API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client for the given server base URL
// (e.g., "http://localhost:8080"). A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// ListTrades fetches the journal sorted by the given field and direction.
// Empty values fall back to the server default (date, newest first).
func (c *Client) ListTrades(ctx context.Context, sortBy, order string) ([]models.Trade, error) {
	q := url.Values{}
	if sortBy != "" {
		q.Set("sortBy", sortBy)
	}
	if order != "" {
		q.Set("order", order)
	}
	endpoint := c.baseURL + "/api/trades"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var trades []models.Trade
	if err := c.do(ctx, http.MethodGet, endpoint, nil, http.StatusOK, &trades); err != nil {
		return nil, fmt.Errorf("%s: %w", errFetch, err)
	}
	return trades, nil
}

// CreateTrade stores a new entry and returns it with id and timestamps set.
func (c *Client) CreateTrade(ctx context.Context, req dto.TradeRequest) (*models.Trade, error) {
	var created models.Trade
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/api/trades", req, http.StatusCreated, &created); err != nil {
		return nil, fmt.Errorf("%s: %w", errSave, err)
	}
	return &created, nil
}

// UpdateTrade replaces the fields of an existing entry.
func (c *Client) UpdateTrade(ctx context.Context, id string, req dto.TradeRequest) (*models.Trade, error) {
	var updated models.Trade
	endpoint := c.baseURL + "/api/trades/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, endpoint, req, http.StatusOK, &updated); err != nil {
		return nil, fmt.Errorf("%s: %w", errSave, err)
	}
	return &updated, nil
}

// DeleteTrade removes an entry.
func (c *Client) DeleteTrade(ctx context.Context, id string) error {
	endpoint := c.baseURL + "/api/trades/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodDelete, endpoint, nil, http.StatusOK, nil); err != nil {
		return fmt.Errorf("%s: %w", errDelete, err)
	}
	return nil
}

// do issues one JSON request and decodes the response into out (when non-nil).
// Any status other than wantStatus is an error carrying the server's message.
func (c *Client) do(ctx context.Context, method, endpoint string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, serverMessage(resp.Body))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// serverMessage pulls the message field out of an error body, falling back to
// raw text.
func serverMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	var e dto.ErrorResponse
	if err := json.Unmarshal(b, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(b))
}
