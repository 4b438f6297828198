package nextbus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextbus.dev/nextbus"
	"nextbus.dev/nextbus/testutil"
)

// A single trip T1 on route R1, service S1, running A -> B -> C on
// the morning of January 1st 2024.
func buildSingleTrip(t *testing.T) *nextbus.Schedule {
	return testutil.BuildSchedule(t, "sqlite", map[string][]string{
		"agency.txt": {
			"agency_id,agency_name,agency_url,agency_timezone",
			"a1,Agency,http://example.com,UTC",
		},
		"calendar_dates.txt": {
			"service_id,date,exception_type",
			"S1,20240101,1",
		},
		"routes.txt": {
			"route_id,route_long_name,route_type",
			"R1,First Avenue,3",
		},
		"stops.txt": {
			"stop_id,stop_name,stop_lat,stop_lon",
			"A,Stop A,40.700,-74.000",
			"B,Stop B,40.710,-74.010",
			"C,Stop C,40.720,-74.020",
		},
		"trips.txt": {
			"trip_id,service_id,route_id,trip_headsign,direction_id",
			"T1,S1,R1,Downtown,0",
		},
		"stop_times.txt": {
			"trip_id,stop_id,stop_sequence,arrival_time,departure_time",
			"T1,A,1,08:00:00,08:00:00",
			"T1,B,2,08:10:00,08:10:00",
			"T1,C,3,08:20:00,08:20:00",
		},
	})
}

func TestScheduleIncomingBuses(t *testing.T) {
	schedule := buildSingleTrip(t)
	defer schedule.Store.Close()

	arrivals, err := schedule.IncomingBuses("A", "07:00:00", "20240101", 5)
	require.NoError(t, err)
	require.Len(t, arrivals, 1)
	assert.Equal(t, "08:00:00", arrivals[0].Time)
	assert.Equal(t, "R1", arrivals[0].RouteID)
	assert.Equal(t, "T1", arrivals[0].TripID)
	assert.Equal(t, "Downtown", arrivals[0].Headsign)

	// Wrong day: no service, no arrivals, no error.
	arrivals, err = schedule.IncomingBuses("A", "07:00:00", "20240102", 5)
	require.NoError(t, err)
	assert.Empty(t, arrivals)

	// Too late in the day.
	arrivals, err = schedule.IncomingBuses("A", "08:00:00", "20240101", 5)
	require.NoError(t, err)
	assert.Empty(t, arrivals)
}

func TestScheduleIncomingBusesDefaultsToNow(t *testing.T) {
	schedule := buildSingleTrip(t)
	defer schedule.Store.Close()

	schedule.Now = func() time.Time {
		return time.Date(2024, 1, 1, 7, 30, 0, 0, time.UTC)
	}

	arrivals, err := schedule.IncomingBuses("B", "", "", 5)
	require.NoError(t, err)
	require.Len(t, arrivals, 1)
	assert.Equal(t, "08:10:00", arrivals[0].Time)

	schedule.Now = func() time.Time {
		return time.Date(2024, 1, 2, 7, 30, 0, 0, time.UTC)
	}

	arrivals, err = schedule.IncomingBuses("B", "", "", 5)
	require.NoError(t, err)
	assert.Empty(t, arrivals)
}

func TestScheduleNextTripStops(t *testing.T) {
	schedule := buildSingleTrip(t)
	defer schedule.Store.Close()

	stops, err := schedule.NextTripStops("R1", 0, "07:00:00", "20240101", 0)
	require.NoError(t, err)
	require.Len(t, stops, 3)
	assert.Equal(t, "A", stops[0].StopID)
	assert.Equal(t, "B", stops[1].StopID)
	assert.Equal(t, "C", stops[2].StopID)

	// No second trip to page to.
	stops, err = schedule.NextTripStops("R1", 0, "07:00:00", "20240101", 1)
	require.NoError(t, err)
	assert.Empty(t, stops)

	// Wrong direction.
	stops, err = schedule.NextTripStops("R1", 1, "07:00:00", "20240101", 0)
	require.NoError(t, err)
	assert.Empty(t, stops)
}

func TestScheduleRemainingStops(t *testing.T) {
	schedule := buildSingleTrip(t)
	defer schedule.Store.Close()

	// From stop B onward: B itself, then C.
	stops, err := schedule.RemainingStops("R1", "B", "07:00:00", "20240101")
	require.NoError(t, err)
	require.Len(t, stops, 2)
	assert.Equal(t, "B", stops[0].StopID)
	assert.Equal(t, "Stop B", stops[0].StopName)
	assert.Equal(t, "08:10:00", stops[0].Time)
	assert.Equal(t, "C", stops[1].StopID)

	// The bus has already passed B.
	stops, err = schedule.RemainingStops("R1", "B", "08:15:00", "20240101")
	require.NoError(t, err)
	assert.Empty(t, stops)

	// Unknown stop.
	stops, err = schedule.RemainingStops("R1", "Z", "07:00:00", "20240101")
	require.NoError(t, err)
	assert.Empty(t, stops)
}

func TestScheduleNearbyStops(t *testing.T) {
	schedule := buildSingleTrip(t)
	defer schedule.Store.Close()

	// From right on top of stop A. B is roughly 1.4 km away, C
	// about twice that.
	nearby, err := schedule.NearbyStops(-74.000, 40.700, 2.0, 0)
	require.NoError(t, err)
	require.Len(t, nearby, 2)
	assert.Equal(t, "A", nearby[0].Stop.ID)
	assert.InDelta(t, 0.0, nearby[0].DistanceKm, 0.0001)
	assert.Equal(t, "B", nearby[1].Stop.ID)
	assert.Less(t, nearby[0].DistanceKm, nearby[1].DistanceKm)

	// Limit trims from the far end.
	nearby, err = schedule.NearbyStops(-74.000, 40.700, 2.0, 1)
	require.NoError(t, err)
	require.Len(t, nearby, 1)
	assert.Equal(t, "A", nearby[0].Stop.ID)

	// Wide radius catches everything.
	nearby, err = schedule.NearbyStops(-74.000, 40.700, 100.0, 0)
	require.NoError(t, err)
	assert.Len(t, nearby, 3)

	// Nothing in the middle of the ocean.
	nearby, err = schedule.NearbyStops(-30.0, 40.0, 10.0, 0)
	require.NoError(t, err)
	assert.Empty(t, nearby)
}

func TestScheduleLocation(t *testing.T) {
	schedule := buildSingleTrip(t)
	defer schedule.Store.Close()

	loc, err := schedule.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
