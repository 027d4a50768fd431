// Package client talks to the fight-events REST API the way the dashboard and
// public site do: every response is wrapped in a {success, data, message} envelope.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/fight-events/models"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8080"

const dateLayout = "2006-01-02"

// APIError is returned for non-2xx responses and for envelopes with success=false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// get performs a GET and returns the unwrapped data with the envelope message.
func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, string, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response of %s: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, "", &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		}
		return nil, "", fmt.Errorf("malformed response from %s: %w", path, err)
	}
	if resp.StatusCode >= 300 || !env.Success {
		return nil, "", &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	return env.Data, env.Message, nil
}

// EventPage is one page of the events list.
type EventPage struct {
	Items      []models.Event    `json:"items"`
	Pagination models.Pagination `json:"pagination"`
}

func (c *Client) ListEvents(ctx context.Context, page, limit int) (*EventPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	data, _, err := c.get(ctx, "/events", query)
	if err != nil {
		return nil, err
	}
	var out EventPage
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return &out, nil
}

// GetEvent returns an event with its brackets and bouts embedded.
func (c *Client) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	data, _, err := c.get(ctx, "/events/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}
	var event models.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to decode event %d: %w", id, err)
	}
	return &event, nil
}

// GetDashboard fetches analytics for [start, end]; zero bounds are omitted.
func (c *Client) GetDashboard(ctx context.Context, start, end time.Time) (*Dashboard, error) {
	query := url.Values{}
	if !start.IsZero() {
		query.Set("startDate", start.Format(dateLayout))
	}
	if !end.IsZero() {
		query.Set("endDate", end.Format(dateLayout))
	}
	data, _, err := c.get(ctx, "/dashboard", query)
	if err != nil {
		return nil, err
	}
	return NormalizeDashboard(data)
}
