// Package handlers binds the catalog proxy and preview resolver to the HTTP
// surface consumed by the portfolio frontend.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"showreel/previews"
	"showreel/spotify"
)

type Catalog interface {
	GetPlaylist(ctx context.Context, limit, offset int) (*spotify.PlaylistPage, error)
	GetTrack(ctx context.Context, id string) (*spotify.Track, error)
}

type Resolver interface {
	Resolve(ctx context.Context, batch []previews.TrackQuery) map[string]*string
}

type Manager struct {
	catalog      Catalog
	resolver     Resolver
	defaultLimit int
	batchLimit   int
}

func NewManager(catalog Catalog, resolver Resolver, defaultLimit, batchLimit int) *Manager {
	if defaultLimit <= 0 {
		defaultLimit = spotify.DefaultLimit
	}
	if batchLimit <= 0 {
		batchLimit = 8
	}
	return &Manager{
		catalog:      catalog,
		resolver:     resolver,
		defaultLimit: defaultLimit,
		batchLimit:   batchLimit,
	}
}

// GetPlaylist serves GET /catalog/playlist?limit=&offset=. Non-numeric input
// falls back to defaults; range clamping happens in the catalog client.
func (m *Manager) GetPlaylist(c *gin.Context) {
	limit := intQuery(c, "limit", m.defaultLimit)
	offset := intQuery(c, "offset", 0)

	page, err := m.catalog.GetPlaylist(c.Request.Context(), limit, offset)
	if err != nil {
		m.fail(c, "playlist fetch failed", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetTrack serves GET /catalog/track/:id for the featured track.
func (m *Manager) GetTrack(c *gin.Context) {
	track, err := m.catalog.GetTrack(c.Request.Context(), c.Param("id"))
	if err != nil {
		m.fail(c, "track fetch failed", err)
		return
	}
	c.JSON(http.StatusOK, track)
}

// ResolvePreviews serves POST /catalog/previews. The batch is truncated to
// the configured cap; larger pending sets need multiple calls.
func (m *Manager) ResolvePreviews(c *gin.Context) {
	var body struct {
		Tracks []previews.TrackQuery `json:"tracks"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if len(body.Tracks) == 0 {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	batch := body.Tracks
	if len(batch) > m.batchLimit {
		batch = batch[:m.batchLimit]
	}

	c.JSON(http.StatusOK, m.resolver.Resolve(c.Request.Context(), batch))
}

func (m *Manager) fail(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	var authErr *spotify.AuthError
	var fetchErr *spotify.FetchError
	if errors.As(err, &authErr) || errors.As(err, &fetchErr) {
		status = http.StatusBadGateway
	}

	log.WithFields(log.Fields{"module": "handlers"}).Errorf("%s: %v", msg, err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
