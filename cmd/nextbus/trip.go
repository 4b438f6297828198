package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var tripCmd = &cobra.Command{
	Use:   "trip <route_id> <direction>",
	Short: "Shows the stop sequence of a route's next trip",
	Args:  cobra.ExactArgs(2),
	RunE:  trip,
}

var (
	tripAfter  string
	tripDate   string
	tripOffset int
)

func init() {
	tripCmd.Flags().StringVarP(&tripAfter, "time", "t", "", "Time of day (HH:MM:SS), defaults to now")
	tripCmd.Flags().StringVarP(&tripDate, "date", "d", "", "Service date (YYYYMMDD), defaults to today")
	tripCmd.Flags().IntVarP(&tripOffset, "offset", "o", 0, "Skip this many upcoming trips")
	rootCmd.AddCommand(tripCmd)
}

func trip(cmd *cobra.Command, args []string) error {
	direction, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid direction: %w", err)
	}

	schedule, err := openSchedule()
	if err != nil {
		return err
	}
	defer schedule.Store.Close()

	stops, err := schedule.NextTripStops(args[0], direction, tripAfter, tripDate, tripOffset)
	if err != nil {
		return err
	}

	for _, ts := range stops {
		fmt.Printf("%3d %s %s (%s)\n", ts.Sequence, ts.Time, ts.StopName, ts.StopID)
	}

	return nil
}
