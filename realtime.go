package nextbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nextbus.dev/nextbus/downloader"
	"nextbus.dev/nextbus/model"
	"nextbus.dev/nextbus/parse"
)

// FetchError signals a failed retrieval or decode of an external
// feed. Queries against already loaded data never produce it.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("fetching feed: %s", e.Err.Error())
	}
	return fmt.Sprintf("fetching %s: %s", e.URL, e.Err.Error())
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FeedSource produces raw GTFS-Realtime payloads. A single source
// may span several feeds, e.g. separate trip update and vehicle
// position endpoints merged into one snapshot.
type FeedSource interface {
	Fetch(ctx context.Context) ([][]byte, error)
}

// HTTPSource fetches each URL through a Downloader. Hand it a
// downloader.Cache to keep rapid polls off the network.
type HTTPSource struct {
	URLs       []string
	Downloader downloader.Downloader
	Timeout    time.Duration
	MaxSize    int
}

func (h *HTTPSource) Fetch(ctx context.Context) ([][]byte, error) {
	payloads := make([][]byte, 0, len(h.URLs))
	for _, url := range h.URLs {
		body, err := h.Downloader.Get(ctx, url, downloader.Options{
			Timeout: h.Timeout,
			MaxSize: h.MaxSize,
		})
		if err != nil {
			return nil, &FetchError{URL: url, Err: err}
		}
		payloads = append(payloads, body)
	}
	return payloads, nil
}

// RealtimeCache holds the most recent successfully decoded realtime
// snapshot. Refresh replaces the snapshot wholesale; a failed
// refresh leaves the previous snapshot in place, so readers always
// see the last good data.
type RealtimeCache struct {
	mutex sync.RWMutex
	feed  *parse.Feed
}

func NewRealtimeCache() *RealtimeCache {
	return &RealtimeCache{
		feed: parse.NewFeed(),
	}
}

// Fetches and decodes all payloads from the source, then swaps them
// in as the current snapshot. On any error the cache is untouched.
func (c *RealtimeCache) Refresh(ctx context.Context, source FeedSource) error {
	payloads, err := source.Fetch(ctx)
	if err != nil {
		return err
	}

	feed := parse.NewFeed()
	for _, payload := range payloads {
		if err := feed.Parse(payload); err != nil {
			return &FetchError{Err: err}
		}
	}

	c.mutex.Lock()
	c.feed = feed
	c.mutex.Unlock()

	return nil
}

// Timestamp of the current snapshot, 0 before the first refresh.
func (c *RealtimeCache) Timestamp() uint64 {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.feed.Timestamp
}

// Stop time updates for a trip, nil when the snapshot has none.
// Callers must not modify the returned slice.
func (c *RealtimeCache) TripUpdates(tripID string) []model.StopTimeUpdate {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.feed.TripUpdates[tripID]
}

// Vehicle positions for a trip, nil when the snapshot has none.
// Callers must not modify the returned slice.
func (c *RealtimeCache) VehiclePositions(tripID string) []model.VehiclePosition {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.feed.VehiclePositions[tripID]
}
