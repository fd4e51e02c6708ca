package previews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
	spotifyclient "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

const embedBaseURL = "https://open.spotify.com/embed/track/"

// Finder resolves a candidate preview URL for a title/artist pair. An empty
// string with a nil error means the lookup succeeded but found no preview.
type Finder interface {
	FindPreview(ctx context.Context, name, artist string) (string, error)
}

// SpotifyFinder searches the catalog for the closest track match, then pulls
// the preview clip URL out of that track's embed page. Tracks often carry no
// preview_url through the regular API even when the embed player has one.
type SpotifyFinder struct {
	client     *spotifyclient.Client
	httpClient *http.Client
	embedURL   string
}

func NewSpotifyFinder(ctx context.Context, clientID, clientSecret string) (*SpotifyFinder, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return nil, err
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return &SpotifyFinder{
		client: spotifyclient.New(httpClient),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		embedURL: embedBaseURL,
	}, nil
}

func (f *SpotifyFinder) FindPreview(ctx context.Context, name, artist string) (string, error) {
	query := name
	if artist != "" {
		query = name + " " + artist
	}

	logger := log.WithFields(log.Fields{"module": "previews", "query": query})
	logger.Tracef("searching catalog for preview candidate")

	results, err := f.client.Search(ctx, query, spotifyclient.SearchTypeTrack, spotifyclient.Limit(1))
	if err != nil {
		return "", err
	}
	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		logger.Tracef("no catalog match")
		return "", nil
	}

	trackID := string(results.Tracks.Tracks[0].ID)
	previewURL, err := f.scrapeEmbed(ctx, trackID)
	if err != nil {
		return "", err
	}

	logger.Debugf("resolved preview for track %s", trackID)
	return previewURL, nil
}

// scrapeEmbed fetches the public embed page for a track and extracts the
// audio preview link from its __NEXT_DATA__ payload.
func (f *SpotifyFinder) scrapeEmbed(ctx context.Context, trackID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.embedURL+trackID, nil)
	if err != nil {
		return "", err
	}

	// Set realistic User-Agent to avoid blocks
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	return extractPreviewFromEmbed(doc)
}

func extractPreviewFromEmbed(doc *goquery.Document) (string, error) {
	script := doc.Find("script#__NEXT_DATA__").First()
	if script.Length() == 0 {
		return "", errors.New("no __NEXT_DATA__ payload in embed page")
	}

	var payload struct {
		Props struct {
			PageProps struct {
				State struct {
					Data struct {
						Entity struct {
							AudioPreview struct {
								URL string `json:"url"`
							} `json:"audioPreview"`
						} `json:"entity"`
					} `json:"data"`
				} `json:"state"`
			} `json:"pageProps"`
		} `json:"props"`
	}
	if err := json.Unmarshal([]byte(script.Text()), &payload); err != nil {
		return "", fmt.Errorf("failed to parse embed payload: %w", err)
	}

	return payload.Props.PageProps.State.Data.Entity.AudioPreview.URL, nil
}
