package parse

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"nextbus.dev/nextbus/model"
	"nextbus.dev/nextbus/storage"
)

type TripCSV struct {
	ID          string `csv:"trip_id"`
	ServiceID   string `csv:"service_id"`
	RouteID     string `csv:"route_id"`
	Headsign    string `csv:"trip_headsign"`
	DirectionID int    `csv:"direction_id"`
	ShapeID     string `csv:"shape_id"`
}

func ParseTrips(store storage.Store, data io.Reader) error {
	tripCsv := []*TripCSV{}
	if err := gocsv.Unmarshal(data, &tripCsv); err != nil {
		return fmt.Errorf("unmarshaling trips csv: %w", err)
	}

	seen := map[string]bool{}
	for i, t := range tripCsv {
		if t.ID == "" {
			return fmt.Errorf("missing trip_id (row %d)", i+1)
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true

		err := store.WriteTrip(&model.Trip{
			ID:          t.ID,
			ServiceID:   t.ServiceID,
			RouteID:     t.RouteID,
			Headsign:    t.Headsign,
			DirectionID: t.DirectionID,
			ShapeID:     t.ShapeID,
		})
		if err != nil {
			return fmt.Errorf("writing trip: %w", err)
		}
	}

	return nil
}
