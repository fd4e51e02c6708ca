package config

import "testing"

func TestGetPageLimit(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"empty", "", 15},
		{"invalid", "foo", 15},
		{"zero", "0", 15},
		{"negative", "-10", 15},
		{"min", "1", 1},
		{"mid", "25", 25},
		{"max", "50", 50},
		{"over", "51", 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SPOTIFY_PAGE_LIMIT", tt.env)
			if got := getPageLimit(); got != tt.want {
				t.Errorf("getPageLimit() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestGetPreviewBatchLimit(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"empty", "", 8},
		{"invalid", "abc", 8},
		{"zero", "0", 8},
		{"negative", "-1", 8},
		{"valid", "5", 5},
		{"over", "100", 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PREVIEW_BATCH_LIMIT", tt.env)
			if got := getPreviewBatchLimit(); got != tt.want {
				t.Errorf("getPreviewBatchLimit() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestGetPreviewConcurrency(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"empty", "", 4},
		{"invalid", "x", 4},
		{"zero", "0", 4},
		{"valid", "2", 2},
		{"over", "32", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PREVIEW_CONCURRENCY", tt.env)
			if got := getPreviewConcurrency(); got != tt.want {
				t.Errorf("getPreviewConcurrency() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestGetPreviewCacheSize(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"empty", "", 512},
		{"invalid", "big", 512},
		{"zero", "0", 512},
		{"valid", "128", 128},
		{"over", "99999", 10000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PREVIEW_CACHE_SIZE", tt.env)
			if got := getPreviewCacheSize(); got != tt.want {
				t.Errorf("getPreviewCacheSize() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestGetPlaylistID(t *testing.T) {
	t.Setenv("SPOTIFY_PLAYLIST_ID", "")
	if got := getPlaylistID(); got != "6ae6o6YL70bK2smWHo8TNr" {
		t.Errorf("getPlaylistID() default = %q", got)
	}
	t.Setenv("SPOTIFY_PLAYLIST_ID", "custom123")
	if got := getPlaylistID(); got != "custom123" {
		t.Errorf("getPlaylistID() = %q; want custom123", got)
	}
}

func TestHasCredentials(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		secret string
		want   bool
	}{
		{"both", "id", "secret", true},
		{"missing id", "", "secret", false},
		{"missing secret", "id", "", false},
		{"neither", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SpotifyConfig{ClientID: tt.id, ClientSecret: tt.secret}
			if got := s.HasCredentials(); got != tt.want {
				t.Errorf("HasCredentials() = %v; want %v", got, tt.want)
			}
		})
	}
}
