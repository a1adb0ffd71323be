// Package client is a small HTTP client for the user API, used by the
// userctl terminal tool and suitable for embedding in other Go programs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// User mirrors the API's user representation.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Pagination describes the page window returned by List.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// ListResult is the List response payload.
type ListResult struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// Health is the health endpoint payload.
type Health struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// APIError carries the server's error body together with the HTTP status.
type APIError struct {
	Status  int
	Message string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s (%s)", e.Message, strings.Join(e.Details, "; "))
	}
	return e.Message
}

// Client talks to one user API server.
type Client struct {
	base string
	hc   *http.Client
}

// New builds a client for the given base URL, e.g. "http://127.0.0.1:8080".
func New(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// Health checks the server's health endpoint.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.call(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List fetches one page of users. Zero values fall back to server defaults.
func (c *Client) List(ctx context.Context, page, limit int) (*ListResult, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	path := "/api/users"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out ListResult
	if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a single user by id.
func (c *Client) Get(ctx context.Context, id string) (*User, error) {
	var out User
	if err := c.call(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create registers a new user.
func (c *Client) Create(ctx context.Context, name, email string) (*User, error) {
	in := map[string]string{"name": name, "email": email}
	var out User
	if err := c.call(ctx, http.MethodPost, "/api/users", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update changes a user's name and/or email. Empty strings leave the
// field untouched.
func (c *Client) Update(ctx context.Context, id, name, email string) (*User, error) {
	in := map[string]string{}
	if name != "" {
		in["name"] = name
	}
	if email != "" {
		in["email"] = email
	}
	var out User
	if err := c.call(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a user.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, nil)
}

// Search finds users whose name or email contains the query.
func (c *Client) Search(ctx context.Context, query string) ([]User, error) {
	var out []User
	if err := c.call(ctx, http.MethodGet, "/api/users/search/"+url.PathEscape(query), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		ae := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		_ = json.Unmarshal(raw, ae)
		return ae
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
