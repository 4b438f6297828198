package storage

import (
	"nextbus.dev/nextbus/model"
)

// A Store is the durable relational home of one agency's timetable.
//
// Reset drops and recreates the full schema, so a reload always
// starts from a clean slate. The write side is used by the parse
// package during a bulk import; the query side backs the schedule
// engine. A load is not atomic across tables: a failed import leaves
// the new schema partially populated.
type Store interface {
	// Drops all tables if they exist and recreates them empty.
	Reset() error

	WriteAgency(a *model.Agency) error
	WriteRoute(r *model.Route) error
	WriteStop(s *model.Stop) error
	WriteTrip(t *model.Trip) error
	WriteCalendarDate(cd *model.CalendarDate) error

	// Shapes and stop_times are by far the largest inputs. The
	// Begin/End pairs bracket all writes of a kind, allowing
	// implementations to batch them in a transaction.
	BeginShapes() error
	WriteShapePoint(p *model.ShapePoint) error
	EndShapes() error
	BeginStopTimes() error
	WriteStopTime(st *model.StopTime) error
	EndStopTimes() error

	// Service IDs active on the given date (YYYYMMDD): those with
	// an "added" exception row for that exact date, minus any
	// with a "removed" row. An empty result is a valid day with
	// no service.
	ActiveServices(date string) ([]string, error)

	// All stops, for the geospatial locator's full scan.
	Stops() ([]*model.Stop, error)

	// Scheduled arrivals matching the filter, ordered by arrival
	// time ascending.
	Arrivals(filter ArrivalFilter) ([]*model.Arrival, error)

	// ID of the next trip of a route/direction active on date
	// whose earliest stop time is after the given time of day.
	// Offset skips that many earlier-qualifying trips. Returns ""
	// when no trip qualifies.
	NextTrip(routeID string, directionID int, date, after string, offset int) (string, error)

	// The soonest trip of a route active on date that serves
	// stopID after the given time of day, along with the stop's
	// sequence number within that same trip. Returns ("", 0) when
	// no trip qualifies.
	NextTripServing(routeID, stopID, date, after string) (string, int, error)

	// Stops of a trip with sequence >= fromSeq, ordered by
	// numeric sequence ascending. Pass 0 for the whole trip.
	TripStops(tripID string, fromSeq int) ([]*model.TripStop, error)

	// Timezone of the (first) agency in the store.
	AgencyTimezone() (string, error)

	Close() error
}

// Filter for Arrivals().
type ArrivalFilter struct {
	// Arrivals at this stop only.
	StopID string

	// Service date, as YYYYMMDD.
	Date string

	// Only arrivals strictly after this time of day, as
	// zero-padded HH:MM:SS.
	After string

	// Max number of results. <= 0 means no limit.
	Limit int
}
