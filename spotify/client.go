package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const APIBaseURL = "https://api.spotify.com/v1"

const (
	DefaultLimit = 15
	MaxLimit     = 50

	playlistMetaFields  = "id,name,images,external_urls.spotify"
	playlistItemsFields = "items(track(id,name,preview_url,duration_ms,explicit,external_urls.spotify,artists(id,name),album(id,name,images,external_urls.spotify))),total"
)

// Client fetches the portfolio playlist from the Spotify Web API and reshapes
// it for the player. It serves a single fixed playlist in a fixed market.
type Client struct {
	tokens     *TokenManager
	baseURL    string
	playlistID string
	market     string
	httpClient *http.Client
}

func NewClient(tokens *TokenManager, playlistID, market string) *Client {
	return &Client{
		tokens:     tokens,
		baseURL:    APIBaseURL,
		playlistID: playlistID,
		market:     market,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetPlaylist returns one normalized page of the playlist. limit is clamped
// to [1, 50] (default 15) and offset to >= 0; playlist metadata and the item
// page are fetched concurrently and both must succeed.
func (c *Client) GetPlaylist(ctx context.Context, limit, offset int) (*PlaylistPage, error) {
	limit = clampLimit(limit)
	offset = clampOffset(offset)

	logger := log.WithFields(log.Fields{"module": "spotify", "playlist_id": c.playlistID})
	logger.Tracef("fetching playlist page: limit=%d offset=%d", limit, offset)

	span := sentry.StartSpan(ctx, "spotify.get_playlist")
	span.Description = "Get playlist page from Spotify API"
	span.SetTag("playlist_id", c.playlistID)
	defer span.Finish()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		span.Status = sentry.SpanStatusUnauthenticated
		return nil, err
	}

	var meta apiPlaylistMeta
	var page apiPlaylistItems

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.get(gctx, token, c.metaURL(), &meta)
	})
	g.Go(func() error {
		return c.get(gctx, token, c.itemsURL(limit, offset), &page)
	})
	if err := g.Wait(); err != nil {
		logger.Errorf("playlist fetch failed: %v", err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}

	tracks := normalizeItems(page.Items)
	for i := range tracks {
		applyOverride(&tracks[i])
	}

	logger.Debugf("fetched %d tracks from playlist '%s' (total: %d)", len(tracks), meta.Name, page.Total)
	span.Status = sentry.SpanStatusOK
	span.SetData("tracks_count", len(tracks))
	span.SetData("total_tracks", page.Total)

	return &PlaylistPage{
		Playlist: PlaylistMeta{
			ID:          meta.ID,
			Name:        meta.Name,
			Images:      imagesOrEmpty(meta.Images),
			ExternalURL: meta.ExternalURLs.Spotify,
		},
		Market:     c.market,
		Total:      page.Total,
		Tracks:     tracks,
		Offset:     offset,
		Limit:      limit,
		HasMore:    offset+limit < page.Total,
		NextOffset: offset + limit,
	}, nil
}

// GetTrack fetches a single track by ID, normalized the same way as playlist
// entries. Used for the featured-track endpoint.
func (c *Client) GetTrack(ctx context.Context, id string) (*Track, error) {
	span := sentry.StartSpan(ctx, "spotify.get_track")
	span.Description = "Get track from Spotify API"
	span.SetTag("track_id", id)
	defer span.Finish()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		span.Status = sentry.SpanStatusUnauthenticated
		return nil, err
	}

	u := fmt.Sprintf("%s/tracks/%s?market=%s", c.baseURL, url.PathEscape(id), url.QueryEscape(c.market))
	var raw apiTrack
	if err := c.get(ctx, token, u, &raw); err != nil {
		log.WithFields(log.Fields{"module": "spotify", "track_id": id}).Errorf("track fetch failed: %v", err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}

	track := normalizeTrack(&raw)
	applyOverride(&track)
	span.Status = sentry.SpanStatusOK
	return &track, nil
}

func (c *Client) metaURL() string {
	q := url.Values{}
	q.Set("market", c.market)
	q.Set("fields", playlistMetaFields)
	return fmt.Sprintf("%s/playlists/%s?%s", c.baseURL, c.playlistID, q.Encode())
}

func (c *Client) itemsURL(limit, offset int) string {
	q := url.Values{}
	q.Set("market", c.market)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("additional_types", "track")
	q.Set("fields", playlistItemsFields)
	return fmt.Sprintf("%s/playlists/%s/tracks?%s", c.baseURL, c.playlistID, q.Encode())
}

// get performs an authenticated catalog GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, token, u string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &FetchError{Status: resp.StatusCode, Body: string(body)}
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
