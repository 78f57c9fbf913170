// Package supabase is a minimal PostgREST client for the managed-backend
// tables (notifications, notification_preferences, audit_logs,
// activity_log). It is a second, independent path to the same logical
// store as the SQL pool; the two are never mixed inside one transaction.
package supabase

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config holds the connection settings for the managed backend.
type Config struct {
	URL        string
	ServiceKey string
	Timeout    time.Duration
}

// Client issues table-scoped CRUD calls with the service-role key.
type Client struct {
	http    *resty.Client
	restURL string
}

// New creates a new Supabase client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("project URL is required")
	}
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("service key is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", cfg.ServiceKey).
		SetHeader("Authorization", "Bearer "+cfg.ServiceKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:    httpClient,
		restURL: strings.TrimRight(cfg.URL, "/") + "/rest/v1",
	}, nil
}

// From starts a query builder for a table.
func (c *Client) From(table string) *Query {
	return &Query{
		client:  c,
		table:   table,
		method:  "GET",
		columns: "*",
		headers: make(map[string]string),
	}
}

// Error is a PostgREST error response.
type Error struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("supabase: %s (code=%s, status=%d)", e.Message, e.Code, e.StatusCode)
}

// IsNotFound reports whether the error is a missing-row error from a
// Single() query.
func (e *Error) IsNotFound() bool {
	return e.StatusCode == 404 || e.Code == "PGRST116"
}

func parseError(body []byte, statusCode int) error {
	errResp := &Error{StatusCode: statusCode}
	if err := json.Unmarshal(body, errResp); err != nil || errResp.Message == "" {
		errResp.Message = strings.TrimSpace(string(body))
		if errResp.Message == "" {
			errResp.Message = "request failed"
		}
	}
	return errResp
}
