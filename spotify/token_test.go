package spotify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func newTestTokenManager(t *testing.T, handler http.HandlerFunc) (*TokenManager, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	manager := NewTokenManager("test-id", "test-secret")
	manager.tokenURL = server.URL
	return manager, server
}

func tokenResponse(token string, expiresIn int) string {
	return fmt.Sprintf(`{"access_token":%q,"expires_in":%d}`, token, expiresIn)
}

func TestTokenCacheHit(t *testing.T) {
	var mu sync.Mutex
	exchanges := 0
	manager, _ := newTestTokenManager(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		exchanges++
		mu.Unlock()
		fmt.Fprint(w, tokenResponse("tok-1", 3600))
	})

	first, err := manager.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	second, err := manager.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	if first != "tok-1" || second != "tok-1" {
		t.Errorf("Token() = %q, %q; want tok-1 both times", first, second)
	}
	if exchanges != 1 {
		t.Errorf("exchanges = %d; want 1", exchanges)
	}
}

func TestTokenExpiryTriggersRefresh(t *testing.T) {
	exchanges := 0
	manager, _ := newTestTokenManager(t, func(w http.ResponseWriter, r *http.Request) {
		exchanges++
		fmt.Fprint(w, tokenResponse(fmt.Sprintf("tok-%d", exchanges), 3600))
	})

	now := time.Unix(1700000000, 0)
	manager.now = func() time.Time { return now }

	first, err := manager.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	// Past expires_in minus the 30s safety margin
	now = now.Add(3571 * time.Second)

	second, err := manager.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	if first != "tok-1" || second != "tok-2" {
		t.Errorf("tokens = %q, %q; want tok-1 then tok-2", first, second)
	}
	if exchanges != 2 {
		t.Errorf("exchanges = %d; want 2", exchanges)
	}
}

func TestTokenExpiryMargin(t *testing.T) {
	exchanges := 0
	manager, _ := newTestTokenManager(t, func(w http.ResponseWriter, r *http.Request) {
		exchanges++
		fmt.Fprint(w, tokenResponse("tok", 3600))
	})

	now := time.Unix(1700000000, 0)
	manager.now = func() time.Time { return now }

	if _, err := manager.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	// Just inside the margin-adjusted window: still a cache hit.
	now = now.Add(3569 * time.Second)
	if _, err := manager.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if exchanges != 1 {
		t.Errorf("exchanges = %d; want 1 inside validity window", exchanges)
	}
}

func TestTokenMissingCredentials(t *testing.T) {
	called := false
	manager, _ := newTestTokenManager(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	manager.clientID = ""

	_, err := manager.Token(context.Background())
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("Token() error = %v; want ErrMissingCredentials", err)
	}
	if called {
		t.Error("token endpoint should not be called without credentials")
	}
}

func TestTokenUpstreamError(t *testing.T) {
	manager, _ := newTestTokenManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "upstream down")
	})

	_, err := manager.Token(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Token() error = %T (%v); want *AuthError", err, err)
	}
	if authErr.Status != http.StatusServiceUnavailable {
		t.Errorf("AuthError.Status = %d; want 503", authErr.Status)
	}
	if authErr.Body != "upstream down" {
		t.Errorf("AuthError.Body = %q; want upstream body", authErr.Body)
	}
}

func TestTokenExchangeRequest(t *testing.T) {
	var gotAuth, gotContentType, gotBody string
	manager, _ := newTestTokenManager(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		fmt.Fprint(w, tokenResponse("tok", 3600))
	})

	if _, err := manager.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("test-id:test-secret"))
	if gotAuth != wantAuth {
		t.Errorf("Authorization = %q; want %q", gotAuth, wantAuth)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotBody != "grant_type=client_credentials" {
		t.Errorf("body = %q; want grant_type=client_credentials", gotBody)
	}
}

func TestTokenConcurrentRefreshSingleFlight(t *testing.T) {
	var mu sync.Mutex
	exchanges := 0
	manager, _ := newTestTokenManager(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		exchanges++
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		fmt.Fprint(w, tokenResponse("tok", 3600))
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.Token(context.Background()); err != nil {
				t.Errorf("Token() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if exchanges != 1 {
		t.Errorf("exchanges = %d; want 1 shared refresh", exchanges)
	}
}
