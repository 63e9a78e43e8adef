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

	"github.com/terra-clan/agent-registry/internal/catalog"
	"github.com/terra-clan/agent-registry/internal/export"
	"github.com/terra-clan/agent-registry/internal/models"
)

// ErrNotFound is returned when the requested tool, category or interface
// does not exist
var ErrNotFound = errors.New("not found")

// Client is a Go SDK for the agent-registry query API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new agent-registry client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// QueryResult is one page of filtered tools with facet counts over the result
type QueryResult struct {
	Tools         []models.Tool   `json:"tools"`
	Total         int             `json:"total"`
	CatalogTotal  int             `json:"catalogTotal"`
	ActiveFilters int             `json:"activeFilters"`
	Facets        catalog.Facets  `json:"facets"`
	Sort          catalog.SortKey `json:"sort"`
	Version       string          `json:"version"`
}

// Listing is the result of a by-category or by-interface request
type Listing struct {
	Tools []models.Tool `json:"tools"`
	Total int           `json:"total"`
}

// APIError is an error reported by the server
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s - %s", e.Code, e.Message)
}

// Is makes 404 responses match ErrNotFound
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Query filters and sorts the catalog
func (c *Client) Query(ctx context.Context, f catalog.Filter, sort catalog.SortKey) (*QueryResult, error) {
	var result QueryResult
	if err := c.get(ctx, "/api/v1/tools?"+queryValues(f, sort).Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTool retrieves one tool by slug
func (c *Client) GetTool(ctx context.Context, slug string) (*models.Tool, error) {
	var tool models.Tool
	if err := c.get(ctx, "/api/v1/tools/"+url.PathEscape(slug), &tool); err != nil {
		return nil, err
	}
	return &tool, nil
}

// Meta retrieves the catalog summary
func (c *Client) Meta(ctx context.Context) (*export.MetaDocument, error) {
	var meta export.MetaDocument
	if err := c.get(ctx, "/api/v1/meta", &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Categories retrieves every category with its entry count
func (c *Client) Categories(ctx context.Context) ([]models.CategoryInfo, error) {
	var result struct {
		Categories []models.CategoryInfo `json:"categories"`
		Total      int                   `json:"total"`
	}
	if err := c.get(ctx, "/api/v1/categories", &result); err != nil {
		return nil, err
	}
	return result.Categories, nil
}

// ByCategory lists one category by descending score
func (c *Client) ByCategory(ctx context.Context, category models.Category) (*Listing, error) {
	var result Listing
	if err := c.get(ctx, "/api/v1/by-category/"+url.PathEscape(string(category)), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ByInterface lists the tools exposing one interface by descending score
func (c *Client) ByInterface(ctx context.Context, iface models.Interface) (*Listing, error) {
	var result Listing
	if err := c.get(ctx, "/api/v1/by-interface/"+url.PathEscape(string(iface)), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/health")
	return err
}

func queryValues(f catalog.Filter, sort catalog.SortKey) url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("q", f.Search)
	}
	for _, v := range f.Categories {
		q.Add("category", string(v))
	}
	for _, v := range f.Interfaces {
		q.Add("interface", string(v))
	}
	for _, v := range f.SignupMethods {
		q.Add("signup", string(v))
	}
	if f.MinScore > 0 {
		q.Set("minScore", strconv.Itoa(f.MinScore))
	}
	if f.HasFree != nil {
		q.Set("hasFree", strconv.FormatBool(*f.HasFree))
	}
	if f.MCPOnly {
		q.Set("mcpOnly", "true")
	}
	if sort != "" {
		q.Set("sort", string(sort))
	}
	return q
}

// get performs a GET request and unwraps the response envelope into out
func (c *Client) get(ctx context.Context, path string, out any) error {
	resp, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}

	var result struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Code: "http_error", Message: strings.TrimSpace(string(respBody))}
		var result struct {
			Error *struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBody, &result) == nil && result.Error != nil {
			apiErr.Code = result.Error.Code
			apiErr.Message = result.Error.Message
		}
		return nil, apiErr
	}

	return respBody, nil
}
