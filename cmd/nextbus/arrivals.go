package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nextbus.dev/nextbus"
)

var arrivalsCmd = &cobra.Command{
	Use:   "arrivals <stop_id>",
	Short: "Lists upcoming arrivals at a stop",
	Args:  cobra.ExactArgs(1),
	RunE:  arrivals,
}

var (
	arrivalsAfter string
	arrivalsDate  string
	arrivalsLimit int
)

func init() {
	arrivalsCmd.Flags().StringVarP(&arrivalsAfter, "time", "t", "", "Time of day (HH:MM:SS), defaults to now")
	arrivalsCmd.Flags().StringVarP(&arrivalsDate, "date", "d", "", "Service date (YYYYMMDD), defaults to today")
	arrivalsCmd.Flags().IntVarP(&arrivalsLimit, "limit", "l", 5, "Max arrivals to list (-1 for all)")
	rootCmd.AddCommand(arrivalsCmd)
}

func arrivals(cmd *cobra.Command, args []string) error {
	schedule, err := openSchedule()
	if err != nil {
		return err
	}
	defer schedule.Store.Close()

	incoming, err := schedule.IncomingBuses(args[0], arrivalsAfter, arrivalsDate, arrivalsLimit)
	if err != nil {
		return err
	}

	cache, err := loadRealtime(cmd)
	if err != nil {
		return err
	}

	loc, err := schedule.Location()
	if err != nil {
		return err
	}

	if cache == nil {
		for _, a := range incoming {
			fmt.Printf("%s %s %s (%s)\n", a.Time, a.RouteID, a.Headsign, a.TripID)
		}
		return nil
	}

	for _, rec := range nextbus.ReconcileAll(incoming, cache, loc) {
		fmt.Printf("%s %s %s (%s)\n", formatArrival(rec), rec.RouteID, rec.Headsign, rec.TripID)
	}

	return nil
}
