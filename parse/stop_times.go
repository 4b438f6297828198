package parse

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"nextbus.dev/nextbus/model"
	"nextbus.dev/nextbus/storage"
)

type StopTimeCSV struct {
	TripID            string `csv:"trip_id"`
	StopID            string `csv:"stop_id"`
	StopSequence      string `csv:"stop_sequence"`
	ArrivalTime       string `csv:"arrival_time"`
	DepartureTime     string `csv:"departure_time"`
	Headsign          string `csv:"stop_headsign"`
	PickupType        string `csv:"pickup_type"`
	DropOffType       string `csv:"drop_off_type"`
	ShapeDistTraveled string `csv:"shape_dist_traveled"`
	Timepoint         string `csv:"timepoint"`
}

// Normalizes a time of day to zero-padded HH:MM:SS so that string
// comparison orders times correctly. Hours past 24 are legal: trips
// crossing midnight keep counting on the service day they started.
func normalizeTime(s string) (string, error) {
	split := strings.Split(s, ":")
	if len(split) != 3 {
		return "", fmt.Errorf("found %d parts in '%s'", len(split), s)
	}

	hms := [3]int{}
	for i, str := range split {
		j, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return "", fmt.Errorf("non-integer in '%s' pos %d", s, i)
		}
		hms[i] = j
	}

	if hms[0] < 0 || hms[0] > 99 {
		return "", fmt.Errorf("invalid hour in '%s'", s)
	}

	if hms[1] < 0 || hms[1] > 59 {
		return "", fmt.Errorf("invalid minute in '%s'", s)
	}

	if hms[2] < 0 || hms[2] > 59 {
		return "", fmt.Errorf("invalid second in '%s'", s)
	}

	return fmt.Sprintf("%02d:%02d:%02d", hms[0], hms[1], hms[2]), nil
}

func ParseStopTimes(store storage.Store, data io.Reader) error {
	if err := store.BeginStopTimes(); err != nil {
		return fmt.Errorf("beginning stop_times: %w", err)
	}

	i := -1
	err := gocsv.UnmarshalToCallbackWithError(data, func(st *StopTimeCSV) error {
		i++
		if st.TripID == "" {
			return fmt.Errorf("missing trip_id (row %d)", i+1)
		}
		if st.StopID == "" {
			return fmt.Errorf("missing stop_id (row %d)", i+1)
		}
		if _, err := strconv.Atoi(st.StopSequence); err != nil {
			return fmt.Errorf("non-integer stop_sequence '%s' (row %d)", st.StopSequence, i+1)
		}

		arrivalTime, err := normalizeTime(st.ArrivalTime)
		if err != nil {
			return errors.Wrapf(err, "parsing arrival_time (row %d)", i+1)
		}

		departureTime, err := normalizeTime(st.DepartureTime)
		if err != nil {
			return errors.Wrapf(err, "parsing departure_time (row %d)", i+1)
		}

		err = store.WriteStopTime(&model.StopTime{
			TripID:            st.TripID,
			StopID:            st.StopID,
			StopSequence:      st.StopSequence,
			Arrival:           arrivalTime,
			Departure:         departureTime,
			Headsign:          st.Headsign,
			PickupType:        st.PickupType,
			DropOffType:       st.DropOffType,
			ShapeDistTraveled: st.ShapeDistTraveled,
			Timepoint:         st.Timepoint,
		})
		if err != nil {
			return errors.Wrapf(err, "writing stop_time (row %d)", i+1)
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "unmarshaling stop_times csv")
	}

	if err := store.EndStopTimes(); err != nil {
		return fmt.Errorf("ending stop_times: %w", err)
	}

	return nil
}
