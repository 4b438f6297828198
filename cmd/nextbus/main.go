package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"nextbus.dev/nextbus"
	"nextbus.dev/nextbus/downloader"
	"nextbus.dev/nextbus/model"
	"nextbus.dev/nextbus/storage"
)

var rootCmd = &cobra.Command{
	Use:          "nextbus",
	Short:        "Transit schedule tool",
	Long:         "Loads GTFS timetables and answers arrival queries, with optional realtime corrections",
	SilenceUsage: true,
}

var (
	dbPath              string
	postgresConn        string
	staticURL           string
	tripUpdatesURL      string
	vehiclePositionsURL string
)

func init() {
	// A .env next to the binary seeds the defaults. Flags win.
	godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "", envOr("NEXTBUS_DB", "nextbus.db"), "SQLite database path")
	rootCmd.PersistentFlags().StringVarP(&postgresConn, "postgres", "", os.Getenv("NEXTBUS_POSTGRES"), "Postgres connection string (overrides --db)")
	rootCmd.PersistentFlags().StringVarP(&staticURL, "static-url", "", os.Getenv("NEXTBUS_STATIC_URL"), "GTFS Static archive URL")
	rootCmd.PersistentFlags().StringVarP(&tripUpdatesURL, "trip-updates-url", "", os.Getenv("NEXTBUS_TRIP_UPDATES_URL"), "GTFS Realtime trip updates URL")
	rootCmd.PersistentFlags().StringVarP(&vehiclePositionsURL, "vehicle-positions-url", "", os.Getenv("NEXTBUS_VEHICLE_POSITIONS_URL"), "GTFS Realtime vehicle positions URL")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openStore() (storage.Store, error) {
	if postgresConn != "" {
		return storage.NewPostgresStore(postgresConn)
	}
	return storage.NewSQLiteStore(dbPath)
}

func openSchedule() (*nextbus.Schedule, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	return nextbus.NewSchedule(store), nil
}

// Realtime cache backed by the configured feed URLs, or nil when
// none are set. A filesystem download cache keeps repeated CLI
// invocations within the TTL from hammering the feeds.
func loadRealtime(cmd *cobra.Command) (*nextbus.RealtimeCache, error) {
	urls := []string{}
	if tripUpdatesURL != "" {
		urls = append(urls, tripUpdatesURL)
	}
	if vehiclePositionsURL != "" {
		urls = append(urls, vehiclePositionsURL)
	}
	if len(urls) == 0 {
		return nil, nil
	}

	fc, err := downloader.NewFileCache("./nextbus-rt-cache.json", nextbus.DefaultRealtimeTTL)
	if err != nil {
		return nil, fmt.Errorf("creating realtime cache: %w", err)
	}

	source := &nextbus.HTTPSource{
		URLs:       urls,
		Downloader: fc,
		Timeout:    nextbus.DefaultRealtimeTimeout,
		MaxSize:    nextbus.DefaultRealtimeMaxSize,
	}

	cache := nextbus.NewRealtimeCache()
	if err := cache.Refresh(cmd.Context(), source); err != nil {
		return nil, err
	}

	return cache, nil
}

func formatArrival(a model.ReconciledArrival) string {
	if a.Corrected != "" {
		return fmt.Sprintf("%s (due %s)", a.Scheduled, a.Corrected)
	}
	return a.Scheduled
}
