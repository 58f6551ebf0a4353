package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL matches the dev server
	DefaultBaseURL = "http://localhost:5000/api"
	DefaultTimeout = 10 * time.Second

	productPath = "/product"
)

// Fallback messages used when the server gives no error message
const (
	msgFetchAll = "Failed to fetch products"
	msgFetchOne = "Failed to fetch product"
	msgCreate   = "Failed to create product"
	msgUpdate   = "Failed to update product"
	msgDelete   = "Failed to delete product"
)

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the server
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ClientConfig configures a Client
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client // overrides Timeout when set
}

// Client talks to the product endpoints. Each method is exactly one HTTP
// request; nothing is retried or cached.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Client
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// List fetches every product
func (c *Client) List(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, productPath, nil, &products, msgFetchAll); err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// Get fetches one product
func (c *Client) Get(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodGet, productURL(id), nil, &p, msgFetchOne); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create adds a product and returns it as stored
func (c *Client) Create(ctx context.Context, in NewProduct) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodPost, productPath, in, &p, msgCreate); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the fields of product p.ID
func (c *Client) Update(ctx context.Context, p Product) (*Product, error) {
	body := NewProduct{Name: p.Name, Price: p.Price, Image: p.Image}
	var out Product
	if err := c.do(ctx, http.MethodPut, productURL(p.ID), body, &out, msgUpdate); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a product and returns its id
func (c *Client) Delete(ctx context.Context, id int64) (int64, error) {
	if err := c.do(ctx, http.MethodDelete, productURL(id), nil, nil, msgDelete); err != nil {
		return 0, err
	}
	return id, nil
}

func productURL(id int64) string {
	return fmt.Sprintf("%s/%d", productPath, id)
}

// envelope is the server's response shape
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, fallback string) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", fallback, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%s: %w", fallback, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fallback
		if decodeErr == nil {
			switch {
			case env.Error != nil && env.Error.Message != "":
				msg = env.Error.Message
			case env.Message != "":
				msg = env.Message
			}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%s: empty response", fallback)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
