package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var stopsCmd = &cobra.Command{
	Use:   "stops <lon> <lat> [radius_km] [limit]",
	Short: "Lists stops near a geographical location",
	Args:  cobra.RangeArgs(2, 4),
	RunE:  stops,
}

func init() {
	rootCmd.AddCommand(stopsCmd)
}

func stops(cmd *cobra.Command, args []string) error {
	lon, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid lon: %w", err)
	}
	lat, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid lat: %w", err)
	}

	radius := 0.5
	if len(args) >= 3 {
		radius, err = strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid radius: %w", err)
		}
	}

	limit := -1
	if len(args) == 4 {
		limit, err = strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid limit: %w", err)
		}
	}

	schedule, err := openSchedule()
	if err != nil {
		return err
	}
	defer schedule.Store.Close()

	nearby, err := schedule.NearbyStops(lon, lat, radius, limit)
	if err != nil {
		return err
	}

	for _, sd := range nearby {
		fmt.Printf("%s: %s (%.3f km)\n", sd.Stop.ID, sd.Stop.Name, sd.DistanceKm)
	}

	return nil
}
