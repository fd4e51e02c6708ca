package previews

import (
	"context"
	"sync/atomic"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"showreel/database"
)

// TrackQuery identifies one track the player still needs a preview for.
type TrackQuery struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

// Resolver answers preview batches with bounded concurrency. Lookup failures
// degrade to "no preview found" for that entry instead of failing the batch,
// and every outcome (including a miss) is memoized so the player's polling
// loop never repeats a lookup.
type Resolver struct {
	finder      Finder
	cache       *Cache
	store       *database.Store
	concurrency int
}

func NewResolver(finder Finder, cache *Cache, store *database.Store, concurrency int) *Resolver {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Resolver{
		finder:      finder,
		cache:       cache,
		store:       store,
		concurrency: concurrency,
	}
}

// WarmFromStore preloads persisted lookup outcomes into the memo cache.
func (r *Resolver) WarmFromStore() {
	if r.store == nil {
		return
	}
	entries, err := r.store.LoadPreviews()
	if err != nil {
		log.Warnf("could not warm preview cache: %v", err)
		return
	}
	for key, url := range entries {
		r.cache.Set(key, url)
	}
	log.Infof("warmed preview cache with %d persisted entries", len(entries))
}

// Resolve maps every input id to a preview URL or nil. Workers pull the next
// unprocessed index from a shared cursor, so slow lookups do not strand a
// fixed partition; results land positionally regardless of completion order.
func (r *Resolver) Resolve(ctx context.Context, batch []TrackQuery) map[string]*string {
	span := sentry.StartSpan(ctx, "previews.resolve")
	span.Description = "Resolve preview batch"
	span.SetData("batch_size", len(batch))
	defer span.Finish()

	results := make([]*string, len(batch))

	var cursor atomic.Int64
	workers := min(r.concurrency, len(batch))

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				idx := int(cursor.Add(1)) - 1
				if idx >= len(batch) {
					return nil
				}
				results[idx] = r.resolveOne(ctx, batch[idx])
			}
		})
	}
	// Workers never return errors; lookups degrade per-item.
	_ = g.Wait()

	out := make(map[string]*string, len(batch))
	for i, q := range batch {
		out[q.ID] = results[i]
	}

	span.Status = sentry.SpanStatusOK
	return out
}

func (r *Resolver) resolveOne(ctx context.Context, q TrackQuery) *string {
	key := CacheKey(q.Name, q.Artist)
	if cached, ok := r.cache.Get(key); ok {
		return cached
	}

	var outcome *string
	url, err := r.finder.FindPreview(ctx, q.Name, q.Artist)
	if err != nil {
		log.WithFields(log.Fields{"module": "previews", "track_id": q.ID}).
			Warnf("preview lookup failed, caching miss: %v", err)
		sentry.CaptureException(err)
	} else if url != "" {
		outcome = &url
	}

	r.cache.Set(key, outcome)
	if r.store != nil {
		if err := r.store.SavePreview(key, outcome); err != nil {
			log.Warnf("could not persist preview outcome for %q: %v", key, err)
		}
	}
	return outcome
}
