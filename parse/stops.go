package parse

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"nextbus.dev/nextbus/model"
	"nextbus.dev/nextbus/storage"
)

type StopCSV struct {
	ID                 string  `csv:"stop_id"`
	Code               string  `csv:"stop_code"`
	Name               string  `csv:"stop_name"`
	Lat                float64 `csv:"stop_lat"`
	Lon                float64 `csv:"stop_lon"`
	LocationType       int     `csv:"location_type"`
	ParentStation      string  `csv:"parent_station"`
	WheelchairBoarding int     `csv:"wheelchair_boarding"`
}

func ParseStops(store storage.Store, data io.Reader) error {
	stopCsv := []*StopCSV{}
	if err := gocsv.Unmarshal(data, &stopCsv); err != nil {
		return fmt.Errorf("unmarshaling stops csv: %w", err)
	}

	seen := map[string]bool{}
	for i, s := range stopCsv {
		if s.ID == "" {
			return fmt.Errorf("missing stop_id (row %d)", i+1)
		}
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true

		err := store.WriteStop(&model.Stop{
			ID:                 s.ID,
			Code:               s.Code,
			Name:               s.Name,
			Lat:                s.Lat,
			Lon:                s.Lon,
			LocationType:       s.LocationType,
			ParentStation:      s.ParentStation,
			WheelchairBoarding: s.WheelchairBoarding,
		})
		if err != nil {
			return fmt.Errorf("writing stop: %w", err)
		}
	}

	return nil
}
