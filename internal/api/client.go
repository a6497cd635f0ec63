// Package api is a small client for the Todoist REST API v1, covering the
// projects, sections and tasks endpoints the tree view needs.
package api

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

	"github.com/google/uuid"
)

const (
	// BaseURL is the Todoist API v1 base URL.
	BaseURL = "https://api.todoist.com/api/v1"

	// DefaultTimeout bounds a single HTTP exchange.
	DefaultTimeout = 30 * time.Second

	userAgent = "todoist-tree"

	// maxErrorBody caps how much of an error response ends up in APIError.
	maxErrorBody = 512
)

// Client talks to the Todoist API with a personal token.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// NewClient returns a Client for the public API.
func NewClient(token string) *Client {
	return &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		baseURL: BaseURL,
		token:   token,
	}
}

// SetBaseURL points the client at a different API root.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.http = hc
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do sends one request and decodes a JSON reply into out when both are
// present. Status codes of 400 and above become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := strings.TrimSpace(string(payload))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// newRequest builds an authenticated request. Writes carry a fresh
// X-Request-Id so the server can drop duplicates.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-Request-Id", uuid.NewString())
	}
	return req, nil
}

// getAll follows next_cursor until the listing is exhausted.
func getAll[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	all := make([]T, 0)
	if query == nil {
		query = url.Values{}
	}

	for {
		var page PaginatedResponse[T]
		if err := c.get(ctx, path, query, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Results...)

		if page.NextCursor == nil || *page.NextCursor == "" {
			return all, nil
		}
		query.Set("cursor", *page.NextCursor)
	}
}

// filterQuery turns a TaskFilter into list query parameters.
func filterQuery(filter TaskFilter) url.Values {
	query := url.Values{}
	for k, v := range map[string]string{
		"project_id": filter.ProjectID,
		"section_id": filter.SectionID,
		"parent_id":  filter.ParentID,
		"label":      filter.Label,
	} {
		if v != "" {
			query.Set(k, v)
		}
	}
	return query
}
