package config

import (
	"os"
	"strconv"
)

type ConfigStruct struct {
	Spotify  SpotifyConfig
	Previews PreviewsConfig
	Options  Options
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	PlaylistID   string
	Market       string
	PageLimit    int
}

type PreviewsConfig struct {
	BatchLimit  int
	Concurrency int
	CacheSize   int
}

type Options struct {
	Port string
}

func (s *SpotifyConfig) HasCredentials() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

var Config *ConfigStruct

func NewConfig() {
	config := &ConfigStruct{
		Spotify: SpotifyConfig{
			ClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
			ClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
			PlaylistID:   getPlaylistID(),
			Market:       getMarket(),
			PageLimit:    getPageLimit(),
		},
		Previews: PreviewsConfig{
			BatchLimit:  getPreviewBatchLimit(),
			Concurrency: getPreviewConcurrency(),
			CacheSize:   getPreviewCacheSize(),
		},
		Options: Options{
			Port: os.Getenv("PORT"),
		},
	}

	Config = config
}

func getPlaylistID() string {
	id := os.Getenv("SPOTIFY_PLAYLIST_ID")
	if id == "" {
		return "6ae6o6YL70bK2smWHo8TNr"
	}
	return id
}

func getMarket() string {
	market := os.Getenv("SPOTIFY_MARKET")
	if market == "" {
		return "US"
	}
	return market
}

func getPageLimit() int {
	limitStr := os.Getenv("SPOTIFY_PAGE_LIMIT")
	if limitStr == "" {
		return 15
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return 15
	}
	if limit > 50 {
		return 50 // Spotify caps playlist item pages at 50
	}
	return limit
}

func getPreviewBatchLimit() int {
	limitStr := os.Getenv("PREVIEW_BATCH_LIMIT")
	if limitStr == "" {
		return 8
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return 8
	}
	if limit > 20 {
		return 20 // keep clients from posting the whole playlist at once
	}
	return limit
}

func getPreviewConcurrency() int {
	concStr := os.Getenv("PREVIEW_CONCURRENCY")
	if concStr == "" {
		return 4
	}
	conc, err := strconv.Atoi(concStr)
	if err != nil || conc <= 0 {
		return 4
	}
	if conc > 8 {
		return 8
	}
	return conc
}

func getPreviewCacheSize() int {
	sizeStr := os.Getenv("PREVIEW_CACHE_SIZE")
	if sizeStr == "" {
		return 512
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size <= 0 {
		return 512
	}
	if size > 10000 {
		return 10000
	}
	return size
}
