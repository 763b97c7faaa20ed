package aps

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

	"github.com/greenchainz/carbon-analysis/internal/core/domain"
)

const (
	DefaultTokenURL = "https://developer.api.autodesk.com/authentication/v2/token"
	DefaultScope    = "data:read"

	// Tokens are refreshed this long before their reported expiry so a
	// token never goes stale mid-pipeline.
	expiryBuffer = 5 * time.Minute
)

// TokenProvider acquires two-legged client-credential tokens and caches them
// until shortly before expiry. Safe for concurrent use.
type TokenProvider struct {
	tokenURL     string
	clientID     string
	clientSecret string
	scope        string
	httpClient   *http.Client
	now          func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func NewTokenProvider(tokenURL, clientID, clientSecret, scope string) *TokenProvider {
	if strings.TrimSpace(tokenURL) == "" {
		tokenURL = DefaultTokenURL
	}
	if strings.TrimSpace(scope) == "" {
		scope = DefaultScope
	}
	return &TokenProvider{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		scope:        scope,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		now:          time.Now,
	}
}

// ValidAccessToken returns a cached token when one is still comfortably
// valid, otherwise fetches a fresh one. The credentials are service-wide, so
// ownerID only matters for audit context, not for the grant.
func (p *TokenProvider) ValidAccessToken(ctx context.Context, _ string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accessToken != "" && p.now().Before(p.expiresAt.Add(-expiryBuffer)) {
		return p.accessToken, nil
	}

	token, expiresIn, err := p.fetchToken(ctx)
	if err != nil {
		return "", err
	}
	p.accessToken = token
	p.expiresAt = p.now().Add(time.Duration(expiresIn) * time.Second)
	return p.accessToken, nil
}

func (p *TokenProvider) fetchToken(ctx context.Context) (string, int, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", p.scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.clientID, p.clientSecret)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", 0, domain.WrapError(domain.ErrUnauthorized, "acquire token",
			fmt.Errorf("status %s", resp.Status))
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", 0, fmt.Errorf("token status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", 0, fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", 0, fmt.Errorf("empty access token in response")
	}
	return payload.AccessToken, payload.ExpiresIn, nil
}
