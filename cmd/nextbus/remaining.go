package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var remainingCmd = &cobra.Command{
	Use:   "remaining <route_id> <stop_id>",
	Short: "Shows the stops left on a route's next bus through a stop",
	Args:  cobra.ExactArgs(2),
	RunE:  remaining,
}

var (
	remainingAfter string
	remainingDate  string
)

func init() {
	remainingCmd.Flags().StringVarP(&remainingAfter, "time", "t", "", "Time of day (HH:MM:SS), defaults to now")
	remainingCmd.Flags().StringVarP(&remainingDate, "date", "d", "", "Service date (YYYYMMDD), defaults to today")
	rootCmd.AddCommand(remainingCmd)
}

func remaining(cmd *cobra.Command, args []string) error {
	schedule, err := openSchedule()
	if err != nil {
		return err
	}
	defer schedule.Store.Close()

	stops, err := schedule.RemainingStops(args[0], args[1], remainingAfter, remainingDate)
	if err != nil {
		return err
	}

	for _, ts := range stops {
		fmt.Printf("%3d %s %s (%s)\n", ts.Sequence, ts.Time, ts.StopName, ts.StopID)
	}

	return nil
}
