package aps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/greenchainz/carbon-analysis/internal/core/domain"
)

func TestValidAccessTokenCachesUntilExpiryBuffer(t *testing.T) {
	fetches := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			t.Fatalf("unexpected grant_type: %s", r.PostForm.Get("grant_type"))
		}
		if user, _, ok := r.BasicAuth(); !ok || user != "client-id" {
			t.Fatalf("expected basic auth with client id")
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":3600}`))
	}))
	defer server.Close()

	provider := NewTokenProvider(server.URL, "client-id", "client-secret", "")
	current := time.Date(2026, 5, 30, 10, 0, 0, 0, time.UTC)
	provider.now = func() time.Time { return current }

	token, err := provider.ValidAccessToken(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("ValidAccessToken() error = %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("unexpected token: %s", token)
	}

	// Well inside the lifetime: cache hit.
	current = current.Add(30 * time.Minute)
	if _, err := provider.ValidAccessToken(context.Background(), "owner-1"); err != nil {
		t.Fatalf("cached ValidAccessToken() error = %v", err)
	}
	if fetches != 1 {
		t.Fatalf("expected cached token, got %d fetches", fetches)
	}

	// Inside the 5-minute buffer before expiry: refresh.
	current = current.Add(26 * time.Minute)
	if _, err := provider.ValidAccessToken(context.Background(), "owner-1"); err != nil {
		t.Fatalf("refresh ValidAccessToken() error = %v", err)
	}
	if fetches != 2 {
		t.Fatalf("expected refresh inside expiry buffer, got %d fetches", fetches)
	}
}

func TestValidAccessTokenMapsUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid client", http.StatusUnauthorized)
	}))
	defer server.Close()

	provider := NewTokenProvider(server.URL, "bad", "creds", "")
	_, err := provider.ValidAccessToken(context.Background(), "owner-1")
	if !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
