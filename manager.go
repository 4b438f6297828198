package nextbus

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nextbus.dev/nextbus/downloader"
	"nextbus.dev/nextbus/parse"
	"nextbus.dev/nextbus/storage"
)

const (
	DefaultStaticTimeout   = 120 * time.Second
	DefaultStaticMaxSize   = 512 << 20
	DefaultRealtimeTimeout = 30 * time.Second
	DefaultRealtimeTTL     = 1 * time.Minute
	DefaultRealtimeMaxSize = 16 << 20
)

// The GTFS files a static archive can contribute. Anything else in
// the zip is ignored.
var staticFiles = map[string]bool{
	"agency.txt":         true,
	"calendar_dates.txt": true,
	"frequencies.txt":    true,
	"routes.txt":         true,
	"shapes.txt":         true,
	"stops.txt":          true,
	"stop_times.txt":     true,
	"trips.txt":          true,
}

// Manager ties the downloader, the parser and the store together:
// it fetches static archives into a source directory, loads them,
// and builds realtime sources that poll through a shared cache.
type Manager struct {
	Store      storage.Store
	Downloader downloader.Downloader

	StaticTimeout   time.Duration
	StaticMaxSize   int
	RealtimeTimeout time.Duration
	RealtimeTTL     time.Duration
	RealtimeMaxSize int
}

func NewManager(store storage.Store) *Manager {
	return &Manager{
		Store:           store,
		Downloader:      downloader.Direct{},
		StaticTimeout:   DefaultStaticTimeout,
		StaticMaxSize:   DefaultStaticMaxSize,
		RealtimeTimeout: DefaultRealtimeTimeout,
		RealtimeTTL:     DefaultRealtimeTTL,
		RealtimeMaxSize: DefaultRealtimeMaxSize,
	}
}

// RefreshStatic downloads a static GTFS archive, unpacks its
// timetable files into dir and loads them into the store. The store
// is reset as part of the load, so a failed download leaves the
// previous timetable intact.
func (m *Manager) RefreshStatic(ctx context.Context, url, dir string) error {
	body, err := m.Downloader.Get(ctx, url, downloader.Options{
		Timeout: m.StaticTimeout,
		MaxSize: m.StaticMaxSize,
	})
	if err != nil {
		return &FetchError{URL: url, Err: err}
	}

	if err := extractArchive(body, dir); err != nil {
		return &FetchError{URL: url, Err: err}
	}

	return parse.LoadStatic(m.Store, dir)
}

// RealtimeSource returns a FeedSource polling the given URLs behind
// a TTL cache, so callers can refresh as often as they like without
// hammering the feeds.
func (m *Manager) RealtimeSource(urls ...string) FeedSource {
	return &HTTPSource{
		URLs:       urls,
		Downloader: downloader.NewCache(m.RealtimeTTL),
		Timeout:    m.RealtimeTimeout,
		MaxSize:    m.RealtimeMaxSize,
	}
}

func extractArchive(body []byte, dir string) error {
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	for _, zf := range zr.File {
		// Some agencies nest everything in a top level folder.
		name := filepath.Base(zf.Name)
		if !staticFiles[name] {
			continue
		}

		in, err := zf.Open()
		if err != nil {
			return fmt.Errorf("opening %s in archive: %w", zf.Name, err)
		}

		out, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			in.Close()
			return fmt.Errorf("creating %s: %w", name, err)
		}

		_, err = out.ReadFrom(in)
		in.Close()
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	return nil
}
