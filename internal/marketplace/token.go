package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// tokenSafety is how long before the reported expiry we stop trusting a
// token, so requests in flight never ride an expiring one.
const tokenSafety = 5 * time.Minute

// TokenManager exchanges client credentials for an access token and caches
// it until shortly before expiry. Safe for concurrent use.
type TokenManager struct {
	httpClient *http.Client
	tokenURL   string
	clientID   string
	secret     string

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenManager constructs a TokenManager. The first Token call performs
// the initial exchange.
func NewTokenManager(httpClient *http.Client, tokenURL, clientID, secret string) *TokenManager {
	return &TokenManager{
		httpClient: httpClient,
		tokenURL:   tokenURL,
		clientID:   clientID,
		secret:     secret,
	}
}

// Token returns a valid access token, refreshing it first when the cached
// one is missing or close to expiry.
func (tm *TokenManager) Token(ctx context.Context) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.token != "" && time.Until(tm.expiresAt) > tokenSafety {
		return tm.token, nil
	}
	if err := tm.refreshLocked(ctx); err != nil {
		return "", err
	}
	return tm.token, nil
}

// Invalidate drops the cached token so the next Token call refreshes. Called
// after the API rejects a token before its reported expiry.
func (tm *TokenManager) Invalidate() {
	tm.mu.Lock()
	tm.token = ""
	tm.mu.Unlock()
}

func (tm *TokenManager) refreshLocked(ctx context.Context) error {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {tm.clientID},
		"client_secret": {tm.secret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tm.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token exchange failed (status %d): %s", resp.StatusCode, body)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("token exchange returned no access token")
	}

	tm.token = tok.AccessToken
	tm.expiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return nil
}
