package parse

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"

	"nextbus.dev/nextbus/storage"
)

// A LoadError reports a static source file that could not be
// imported: the file is missing, or a row lacks a required column.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %s", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Imports a static GTFS directory into the store.
//
// The store's schema is dropped and recreated first, so a load
// always replaces whatever was there. The seven source files are
// then imported in turn with a fixed column projection each. A
// failure partway through leaves the earlier tables populated; the
// load is not atomic across tables.
func LoadStatic(store storage.Store, dir string) error {
	if err := store.Reset(); err != nil {
		return fmt.Errorf("resetting store: %w", err)
	}

	// LazyCSVReader required (at least) to survive sloppy use of
	// quotes. The BOM reader strips unicode BOMs if present.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})

	for _, f := range []struct {
		name  string
		parse func(storage.Store, io.Reader) error
	}{
		{"agency.txt", ParseAgency},
		{"shapes.txt", ParseShapes},
		{"calendar_dates.txt", ParseCalendarDates},
		{"routes.txt", ParseRoutes},
		{"stops.txt", ParseStops},
		{"trips.txt", ParseTrips},
		{"stop_times.txt", ParseStopTimes},
	} {
		file, err := os.Open(filepath.Join(dir, f.name))
		if err != nil {
			return &LoadError{File: f.name, Err: err}
		}

		err = f.parse(store, file)
		file.Close()
		if err != nil {
			return &LoadError{File: f.name, Err: err}
		}
	}

	return nil
}
