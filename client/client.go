// Package client talks to the remote person API. Every method issues exactly one
// request; nothing is retried or cached.
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

	"go.uber.org/zap"

	"github.com/camden-git/personsweb/models"
)

const resourcePath = "/persons/"

// Client is an HTTP client for the person resource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP timeout. Zero keeps the transport default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns every person.
func (c *Client) List(ctx context.Context) ([]models.Person, error) {
	var people []models.Person
	if err := c.call(ctx, "list persons", http.MethodGet, resourcePath, nil, &people); err != nil {
		return nil, err
	}
	if people == nil {
		people = []models.Person{}
	}
	return people, nil
}

// Search returns the people whose names match q.
func (c *Client) Search(ctx context.Context, q string) ([]models.Person, error) {
	path := resourcePath + "search/?q=" + url.QueryEscape(q)
	var people []models.Person
	if err := c.call(ctx, "search persons", http.MethodGet, path, nil, &people); err != nil {
		return nil, err
	}
	if people == nil {
		people = []models.Person{}
	}
	return people, nil
}

// Get fetches one person. A successful response with a null body yields (nil, nil).
func (c *Client) Get(ctx context.Context, id models.PersonID) (*models.Person, error) {
	var person *models.Person
	if err := c.call(ctx, "get person", http.MethodGet, personPath(id), nil, &person); err != nil {
		return nil, err
	}
	return person, nil
}

// Create sends a new person and returns the stored record.
func (c *Client) Create(ctx context.Context, payload models.PersonPayload) (*models.Person, error) {
	var person models.Person
	if err := c.call(ctx, "create person", http.MethodPost, resourcePath, payload, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// Replace overwrites every field of the person with payload.
func (c *Client) Replace(ctx context.Context, id models.PersonID, payload models.PersonPayload) (*models.Person, error) {
	var person models.Person
	if err := c.call(ctx, "replace person", http.MethodPut, personPath(id), payload, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// Delete removes the person.
func (c *Client) Delete(ctx context.Context, id models.PersonID) error {
	return c.call(ctx, "delete person", http.MethodDelete, personPath(id), nil, nil)
}

func personPath(id models.PersonID) string {
	return resourcePath + url.PathEscape(string(id)) + "/"
}

// call performs one request and decodes a 2xx body into out when out is non-nil.
func (c *Client) call(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return &APIError{Kind: KindTransport, Op: op, Err: fmt.Errorf("failed to encode request body: %w", err)}
		}
		reader = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Kind: KindTransport, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("person api request failed",
			zap.String("op", op), zap.String("method", method), zap.String("path", path), zap.Error(err))
		return &APIError{Kind: KindTransport, Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("person api request",
		zap.String("op", op), zap.String("method", method), zap.String("path", path),
		zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.parseError(op, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return &APIError{Kind: KindTransport, Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func (c *Client) parseError(op string, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: KindTransport, Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read error body: %w", err)}
	}

	apiErr := &APIError{Kind: KindUnexpected, Op: op, StatusCode: resp.StatusCode}
	if fe, ok := decodeFieldErrors(data); ok {
		apiErr.FieldErrors = fe
	} else {
		apiErr.Body = strings.TrimSpace(string(data))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		apiErr.Kind = KindNotFound
	case len(apiErr.FieldErrors) > 0 && (resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity):
		apiErr.Kind = KindValidation
	}
	return apiErr
}
