package parse

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"nextbus.dev/nextbus/model"
	"nextbus.dev/nextbus/storage"
)

type RouteCSV struct {
	ID        string `csv:"route_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
	Type      int    `csv:"route_type"`
	Color     string `csv:"route_color"`
	TextColor string `csv:"route_text_color"`
}

func ParseRoutes(store storage.Store, data io.Reader) error {
	routeCsv := []*RouteCSV{}
	if err := gocsv.Unmarshal(data, &routeCsv); err != nil {
		return fmt.Errorf("unmarshaling routes csv: %w", err)
	}

	seen := map[string]bool{}
	for i, r := range routeCsv {
		if r.ID == "" {
			return fmt.Errorf("missing route_id (row %d)", i+1)
		}
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true

		err := store.WriteRoute(&model.Route{
			ID:        r.ID,
			ShortName: r.ShortName,
			LongName:  r.LongName,
			Type:      model.RouteType(r.Type),
			Color:     r.Color,
			TextColor: r.TextColor,
		})
		if err != nil {
			return fmt.Errorf("writing route: %w", err)
		}
	}

	return nil
}
