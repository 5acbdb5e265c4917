package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the marketplace API.
type Client interface {
	// FetchOrders returns orders created since the given time.
	FetchOrders(ctx context.Context, since time.Time) ([]Order, error)

	// PublishListing creates a listing from the draft and returns the
	// marketplace's record of it.
	PublishListing(ctx context.Context, draft ListingDraft) (*Listing, error)
}

type client struct {
	httpClient *http.Client
	baseURL    string
	tokens     *TokenManager
}

// NewClient constructs a marketplace Client. The base URL should not carry a
// trailing slash.
func NewClient(httpClient *http.Client, baseURL string, tokens *TokenManager) Client {
	return &client{
		httpClient: httpClient,
		baseURL:    baseURL,
		tokens:     tokens,
	}
}

func (c *client) FetchOrders(ctx context.Context, since time.Time) ([]Order, error) {
	endpoint := fmt.Sprintf("%s/v1/orders?since=%s",
		c.baseURL, url.QueryEscape(since.UTC().Format(time.RFC3339)))

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}

	var payload struct {
		Orders []Order `json:"orders"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return payload.Orders, nil
}

func (c *client) PublishListing(ctx context.Context, draft ListingDraft) (*Listing, error) {
	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("encode listing draft: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/v1/listings", payload)
	if err != nil {
		return nil, fmt.Errorf("publish listing %q: %w", draft.SKU, err)
	}

	listing := &Listing{}
	if err := json.Unmarshal(body, listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return listing, nil
}

// do performs an authenticated request. On an auth error it invalidates the
// cached token and retries once with a fresh one.
func (c *client) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	body, err := c.doOnce(ctx, method, endpoint, payload)
	if err == nil {
		return body, nil
	}

	apiErr, ok := err.(*APIError)
	if !ok || !apiErr.IsAuthError() {
		return nil, err
	}

	c.tokens.Invalidate()
	return c.doOnce(ctx, method, endpoint, payload)
}

func (c *client) doOnce(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, body)
	}
	return nil, apiErr
}
