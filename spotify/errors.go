package spotify

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials means SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET were
// not supplied. This is a deployment problem, not a retryable condition.
var ErrMissingCredentials = errors.New("missing Spotify client credentials (SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET)")

// AuthError is a non-success response from the token endpoint.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("token request failed: %d %s", e.Status, e.Body)
}

// FetchError is a non-success response from the catalog API.
type FetchError struct {
	Status int
	Body   string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Spotify API failed: %d %s", e.Status, e.Body)
}
