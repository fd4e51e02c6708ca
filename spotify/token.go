package spotify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const TokenURL = "https://accounts.spotify.com/api/token"

// tokenExpiryMargin is subtracted from expires_in so a token handed out just
// before expiry is still accepted upstream despite clock skew and requests
// already in flight.
const tokenExpiryMargin = 30 * time.Second

// TokenManager owns the client-credentials bearer token for the catalog API.
// It caches the credential in memory and renews it before expiry; concurrent
// cache misses share a single refresh via singleflight.
type TokenManager struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client
	now          func() time.Time
	group        singleflight.Group

	mutex       sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func NewTokenManager(clientID, clientSecret string) *TokenManager {
	return &TokenManager{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     TokenURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

// Token returns a bearer token valid for at least the expiry margin. A cached
// credential inside its validity window is returned without a network call.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	if m.clientID == "" || m.clientSecret == "" {
		return "", ErrMissingCredentials
	}

	if token, ok := m.cached(); ok {
		return token, nil
	}

	token, err, _ := m.group.Do("token", func() (interface{}, error) {
		// A concurrent caller may have refreshed while we waited on the group.
		if token, ok := m.cached(); ok {
			return token, nil
		}
		return m.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (m *TokenManager) cached() (string, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.accessToken != "" && m.now().Before(m.expiresAt) {
		return m.accessToken, true
	}
	return "", false
}

func (m *TokenManager) refresh(ctx context.Context) (string, error) {
	logger := log.WithFields(log.Fields{"module": "spotify", "function": "refresh"})

	span := sentry.StartSpan(ctx, "spotify.token")
	span.Description = "Exchange client credentials for bearer token"
	defer span.Finish()

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		return "", err
	}
	req.SetBasicAuth(m.clientID, m.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		logger.Errorf("token exchange failed: %v", err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		authErr := &AuthError{Status: resp.StatusCode, Body: string(body)}
		logger.Errorf("token endpoint returned %d", resp.StatusCode)
		sentry.CaptureException(authErr)
		span.Status = sentry.SpanStatusUnauthenticated
		return "", authErr
	}

	var data apiToken
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		span.Status = sentry.SpanStatusInternalError
		return "", err
	}

	m.mutex.Lock()
	m.accessToken = data.AccessToken
	m.expiresAt = m.now().Add(time.Duration(data.ExpiresIn)*time.Second - tokenExpiryMargin)
	m.mutex.Unlock()

	logger.Tracef("refreshed bearer token, valid for %ds", data.ExpiresIn)
	span.Status = sentry.SpanStatusOK
	return data.AccessToken, nil
}
