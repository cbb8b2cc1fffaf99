// Package portalstate holds the portal-side view state for the application
// directory: the loaded catalog plus the caller's favorites and ordered
// personal list, with optimistic mutations that apply locally first and roll
// back to the pre-mutation snapshot if the server rejects the change.
package portalstate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Application mirrors the catalog entry shape served by the directory API.
type Application struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	URL         string       `json:"url"`
	ImageURL    string       `json:"image_url"`
	AuthType    string       `json:"auth_type"`
	Departments []Department `json:"departments"`
}

// Department mirrors the department tag shape served by the directory API.
type Department struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// API is the server surface the portal state depends on. The HTTP Client
// implements it against the directory backend; tests substitute stubs.
type API interface {
	FetchApplications(ctx context.Context) ([]Application, error)
	FetchDepartments(ctx context.Context) ([]Department, error)
	FetchFavorites(ctx context.Context) ([]string, error)
	FetchMyApplications(ctx context.Context) ([]Application, error)

	AddFavorite(ctx context.Context, applicationID string) error
	RemoveFavorite(ctx context.Context, applicationID string) error
	AddMyApplication(ctx context.Context, applicationID string) error
	RemoveMyApplication(ctx context.Context, applicationID string) error
	ReorderMyApplications(ctx context.Context, orderedIDs []string) error
}

// Notifier receives the outcome notices the portal surfaces as toasts.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NopNotifier discards all notices.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// Client talks to the directory backend over HTTP. Session cookies are
// carried by the supplied http.Client's jar.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates an API client rooted at baseURL, e.g. "http://localhost:8080".
// If httpClient is nil, http.DefaultClient is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// envelope matches the server's standard response wrapper.
type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      string          `json:"error,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
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

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if env.Status != "success" {
		msg := env.Error
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, msg)
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

func (c *Client) FetchApplications(ctx context.Context) ([]Application, error) {
	var apps []Application
	if err := c.do(ctx, http.MethodGet, "/api/applications", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *Client) FetchDepartments(ctx context.Context) ([]Department, error) {
	var depts []Department
	if err := c.do(ctx, http.MethodGet, "/api/departments", nil, &depts); err != nil {
		return nil, err
	}
	return depts, nil
}

func (c *Client) FetchFavorites(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.do(ctx, http.MethodGet, "/api/favorites", nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) FetchMyApplications(ctx context.Context) ([]Application, error) {
	var apps []Application
	if err := c.do(ctx, http.MethodGet, "/api/my-applications", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

type applicationIDPayload struct {
	ApplicationID string `json:"applicationId"`
}

func (c *Client) AddFavorite(ctx context.Context, applicationID string) error {
	return c.do(ctx, http.MethodPost, "/api/favorites", applicationIDPayload{ApplicationID: applicationID}, nil)
}

func (c *Client) RemoveFavorite(ctx context.Context, applicationID string) error {
	return c.do(ctx, http.MethodDelete, "/api/favorites?applicationId="+url.QueryEscape(applicationID), nil, nil)
}

func (c *Client) AddMyApplication(ctx context.Context, applicationID string) error {
	return c.do(ctx, http.MethodPost, "/api/my-applications", applicationIDPayload{ApplicationID: applicationID}, nil)
}

func (c *Client) RemoveMyApplication(ctx context.Context, applicationID string) error {
	return c.do(ctx, http.MethodDelete, "/api/my-applications?applicationId="+url.QueryEscape(applicationID), nil, nil)
}

func (c *Client) ReorderMyApplications(ctx context.Context, orderedIDs []string) error {
	payload := struct {
		OrderedApplicationIDs []string `json:"orderedApplicationIds"`
	}{OrderedApplicationIDs: orderedIDs}
	return c.do(ctx, http.MethodPut, "/api/my-applications/reorder", payload, nil)
}
