package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	appConfig "showreel/config"
	"showreel/database"
	"showreel/handlers"
	"showreel/previews"
	"showreel/sentry"
	"showreel/spotify"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warnf("Error loading .env file: %v", err)
	}
	setupLogger()
	appConfig.NewConfig()
	sentry.Init()

	if err := run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func setupLogger() {
	log.SetFormatter(&nested.Formatter{
		TimestampFormat: time.RFC3339,
		FieldsOrder:     []string{"module", "function"},
	})
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
}

// unavailableFinder stands in when the preview finder cannot be built.
// Lookups degrade to cached "no preview" outcomes, so the rest of the site
// keeps working.
type unavailableFinder struct{}

func (unavailableFinder) FindPreview(ctx context.Context, name, artist string) (string, error) {
	return "", errors.New("preview lookup unavailable")
}

func run(ctx context.Context) error {
	cfg := appConfig.Config

	tokens := spotify.NewTokenManager(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
	catalog := spotify.NewClient(tokens, cfg.Spotify.PlaylistID, cfg.Spotify.Market)

	var store *database.Store
	if dbPath := os.Getenv("PREVIEW_DB"); dbPath != "" {
		var err error
		store, err = database.New(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	var finder previews.Finder = unavailableFinder{}
	if cfg.Spotify.HasCredentials() {
		spotifyFinder, err := previews.NewSpotifyFinder(ctx, cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
		if err != nil {
			log.Warnf("preview finder unavailable: %v", err)
		} else {
			finder = spotifyFinder
		}
	} else {
		log.Warn("Spotify credentials not configured; preview lookups disabled")
	}

	resolver := previews.NewResolver(finder, previews.NewCache(cfg.Previews.CacheSize), store, cfg.Previews.Concurrency)
	resolver.WarmFromStore()

	manager := handlers.NewManager(catalog, resolver, cfg.Spotify.PageLimit, cfg.Previews.BatchLimit)

	router := gin.Default()
	router.Use(sentry.GetSentryGin())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/catalog/playlist", manager.GetPlaylist)
	router.GET("/catalog/track/:id", manager.GetTrack)
	router.POST("/catalog/previews", manager.ResolvePreviews)

	port := cfg.Options.Port
	if port == "" {
		port = "8080"
	}
	log.Infof("Starting server on :%s", port)
	return http.ListenAndServe(":"+port, router)
}
