package previews

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes lookup outcomes keyed by normalized title+artist. A nil
// value is a negative entry: the lookup ran and found nothing, so repeated
// misses do not re-trigger network calls. Bounded so a long-running process
// cannot grow it without limit.
type Cache struct {
	lru *lru.Cache[string, *string]
}

func NewCache(size int) *Cache {
	if size <= 0 {
		size = 512
	}
	cache, _ := lru.New[string, *string](size)
	return &Cache{lru: cache}
}

func (c *Cache) Get(key string) (*string, bool) {
	return c.lru.Get(key)
}

func (c *Cache) Set(key string, url *string) {
	c.lru.Add(key, url)
}

func (c *Cache) Len() int {
	return c.lru.Len()
}

// CacheKey normalizes a title/artist pair into the memo key.
func CacheKey(name, artist string) string {
	return strings.ToLower(name + "::" + artist)
}
