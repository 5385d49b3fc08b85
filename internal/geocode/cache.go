// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

type cacheKey struct {
	Provider string
	City     string
	Country  string
}

type cacheEntry struct {
	Place  Place
	Found  bool
	Expiry time.Time
}

// CachedGeocoder memoizes the search results of another Geocoder. Found places are kept for ttlHit,
// unknown places (ErrNotFound) for ttlMiss. Any other error is not cached.
type CachedGeocoder struct {
	coder   Geocoder
	ttlHit  time.Duration
	ttlMiss time.Duration

	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry
}

func NewCachedGeocoder(coder Geocoder, ttlHit, ttlMiss time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		coder:   coder,
		ttlHit:  ttlHit,
		ttlMiss: ttlMiss,
		cache:   make(map[cacheKey]cacheEntry),
	}
}

func (c *CachedGeocoder) Name() string {
	return "geocoder cache using " + c.coder.Name()
}

func (c *CachedGeocoder) Search(ctx context.Context, city, country string) (Place, error) {
	key := newKey(c.coder.Name(), city, country)

	c.mu.RLock()
	entry, ok := c.cache[key]
	if ok && time.Now().Before(entry.Expiry) {
		c.mu.RUnlock()
		if !entry.Found {
			return Place{}, ErrNotFound
		}
		place := entry.Place
		place.CacheHit = true
		return place, nil
	}
	c.mu.RUnlock()

	place, err := c.coder.Search(ctx, city, country)
	found := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return place, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ttl := c.ttlHit
	if !found {
		ttl = c.ttlMiss
	}
	c.cache[key] = cacheEntry{
		Place:  place,
		Found:  found,
		Expiry: time.Now().Add(ttl),
	}

	return place, err
}

func newKey(provider, city, country string) cacheKey {
	return cacheKey{
		Provider: provider,
		City:     strings.ToLower(strings.Join(strings.Fields(city), " ")),
		Country:  strings.ToLower(strings.TrimSpace(country)),
	}
}

// Purge removes all expired entries from the cache and returns how many were removed.
func (c *CachedGeocoder) Purge() int {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.cache {
		if now.After(entry.Expiry) {
			delete(c.cache, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached entries, including expired ones not purged yet.
func (c *CachedGeocoder) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
