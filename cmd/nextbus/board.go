package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board <lon> <lat>",
	Short: "Shows a departure board for stops near a location",
	Args:  cobra.ExactArgs(2),
	RunE:  board,
}

var (
	boardRadius   float64
	boardStops    int
	boardArrivals int
)

func init() {
	boardCmd.Flags().Float64VarP(&boardRadius, "radius", "r", 0.5, "Search radius in km")
	boardCmd.Flags().IntVarP(&boardStops, "stops", "s", 5, "Max stops to show")
	boardCmd.Flags().IntVarP(&boardArrivals, "limit", "l", 3, "Max arrivals per stop")
	rootCmd.AddCommand(boardCmd)
}

func board(cmd *cobra.Command, args []string) error {
	lon, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid lon: %w", err)
	}
	lat, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid lat: %w", err)
	}

	schedule, err := openSchedule()
	if err != nil {
		return err
	}
	defer schedule.Store.Close()

	cache, err := loadRealtime(cmd)
	if err != nil {
		return err
	}

	b, err := schedule.Board(cache, lon, lat, boardRadius, boardStops, boardArrivals)
	if err != nil {
		return err
	}

	for _, bs := range b.Stops {
		fmt.Printf("%s (%.3f km)\n", bs.Stop.Name, bs.DistanceKm)
		for _, rec := range bs.Arrivals {
			fmt.Printf("  %s %s %s\n", formatArrival(rec), rec.RouteID, rec.Headsign)
		}
	}

	return nil
}
