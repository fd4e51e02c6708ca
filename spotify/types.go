package spotify

// Image is an artwork rendition as served by the Spotify API.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Album struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Images      []Image `json:"images"`
	ExternalURL string  `json:"external_url"`
}

// Track is the client-facing projection of a playlist entry. PreviewURL is
// nil when Spotify returned no playable clip; the previews service fills the
// gap later. PreviewSource records where a non-upstream preview came from.
type Track struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	PreviewURL    *string  `json:"preview_url"`
	PreviewURLs   []string `json:"preview_urls"`
	DurationMs    int      `json:"duration_ms"`
	Explicit      bool     `json:"explicit"`
	ExternalURL   string   `json:"external_url"`
	Artists       []Artist `json:"artists"`
	Album         Album    `json:"album"`
	PreviewSource string   `json:"preview_source,omitempty"`
}

type PlaylistMeta struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Images      []Image `json:"images"`
	ExternalURL string  `json:"external_url"`
}

// PlaylistPage is one page of the portfolio playlist plus the pagination
// bookkeeping the player needs to fetch the next page itself.
type PlaylistPage struct {
	Playlist   PlaylistMeta `json:"playlist"`
	Market     string       `json:"market"`
	Total      int          `json:"total"`
	Tracks     []Track      `json:"tracks"`
	Offset     int          `json:"offset"`
	Limit      int          `json:"limit"`
	HasMore    bool         `json:"hasMore"`
	NextOffset int          `json:"nextOffset"`
}

// Wire types for the slices of the Spotify Web API we actually request via
// the fields parameter.

type apiExternalURLs struct {
	Spotify string `json:"spotify"`
}

type apiArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type apiAlbum struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Images       []Image         `json:"images"`
	ExternalURLs apiExternalURLs `json:"external_urls"`
}

type apiTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	PreviewURL   *string         `json:"preview_url"`
	DurationMs   int             `json:"duration_ms"`
	Explicit     bool            `json:"explicit"`
	ExternalURLs apiExternalURLs `json:"external_urls"`
	Artists      []apiArtist     `json:"artists"`
	Album        *apiAlbum       `json:"album"`
}

type apiPlaylistItem struct {
	Track *apiTrack `json:"track"`
}

type apiPlaylistItems struct {
	Items []apiPlaylistItem `json:"items"`
	Total int               `json:"total"`
}

type apiPlaylistMeta struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Images       []Image         `json:"images"`
	ExternalURLs apiExternalURLs `json:"external_urls"`
}

type apiToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}
