package downloader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Cache is a Downloader that keeps each fetched body for TTL,
// serving polls within that window without touching the network.
// With a backing file set it also survives process restarts, so
// repeated short-lived CLI invocations share one window too.
type Cache struct {
	TTL time.Duration

	// Clock used for expiry. Tests override.
	Now func() time.Time

	path    string
	mutex   sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	Body      []byte    `json:"body"` // base64 on disk, via encoding/json
	FetchedAt time.Time `json:"fetched_at"`
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		TTL:     ttl,
		Now:     time.Now,
		entries: map[string]cacheEntry{},
	}
}

// NewFileCache returns a Cache persisted as JSON at path, preloaded
// with whatever entries a previous run left behind.
func NewFileCache(path string, ttl time.Duration) (*Cache, error) {
	c := NewCache(ttl)
	c.path = path

	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	if err := json.Unmarshal(buf, &c.entries); err != nil {
		return nil, fmt.Errorf("unmarshalling cache: %w", err)
	}

	return c, nil
}

func (c *Cache) Get(ctx context.Context, url string, options Options) ([]byte, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if entry, ok := c.entries[url]; ok {
		if c.Now().Sub(entry.FetchedAt) < c.TTL {
			return entry.Body, nil
		}
	}

	body, err := fetch(ctx, url, options)
	if err != nil {
		return nil, err
	}

	c.entries[url] = cacheEntry{Body: body, FetchedAt: c.Now()}

	if c.path != "" {
		if err := c.save(); err != nil {
			return nil, err
		}
	}

	return body, nil
}

func (c *Cache) save() error {
	buf, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("marshalling cache: %w", err)
	}

	if err := os.WriteFile(c.path, buf, 0o644); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}

	return nil
}
