package spotify

// normalizeItems maps a raw playlist item page into client-facing tracks.
// Entries with no underlying track (removed or local files) are dropped;
// absent nested collections become empty rather than null.
func normalizeItems(items []apiPlaylistItem) []Track {
	tracks := make([]Track, 0, len(items))
	for _, item := range items {
		if item.Track == nil {
			continue
		}
		tracks = append(tracks, normalizeTrack(item.Track))
	}
	return tracks
}

func normalizeTrack(t *apiTrack) Track {
	artists := make([]Artist, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, Artist{ID: a.ID, Name: a.Name})
	}

	var album Album
	if t.Album != nil {
		album = Album{
			ID:          t.Album.ID,
			Name:        t.Album.Name,
			Images:      imagesOrEmpty(t.Album.Images),
			ExternalURL: t.Album.ExternalURLs.Spotify,
		}
	} else {
		album.Images = []Image{}
	}

	previewURLs := []string{}
	if t.PreviewURL != nil && *t.PreviewURL != "" {
		previewURLs = append(previewURLs, *t.PreviewURL)
	}

	return Track{
		ID:          t.ID,
		Name:        t.Name,
		PreviewURL:  t.PreviewURL,
		PreviewURLs: previewURLs,
		DurationMs:  t.DurationMs,
		Explicit:    t.Explicit,
		ExternalURL: t.ExternalURLs.Spotify,
		Artists:     artists,
		Album:       album,
	}
}

func imagesOrEmpty(images []Image) []Image {
	if images == nil {
		return []Image{}
	}
	return images
}
