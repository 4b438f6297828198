package model

import (
	"time"
)

// Holds all external facing types and constants.

type RouteType int

const (
	RouteTypeTram       RouteType = 0
	RouteTypeSubway               = 1
	RouteTypeRail                 = 2
	RouteTypeBus                  = 3
	RouteTypeFerry                = 4
	RouteTypeCable                = 5
	RouteTypeAerial               = 6
	RouteTypeFunicular            = 7
	RouteTypeTrolleybus           = 11
	RouteTypeMonorail             = 12
)

// Exception types from calendar_dates.txt. A service runs on a date
// iff an "added" row exists for that exact date. There is no weekly
// recurrence calendar: calendar.txt is never consulted.
const (
	ServiceAdded   = 1
	ServiceRemoved = 2
)

type Agency struct {
	ID       string
	Name     string
	URL      string
	Timezone string
	Phone    string
	Lang     string
}

type Route struct {
	ID        string
	ShortName string
	LongName  string
	Type      RouteType
	Color     string
	TextColor string
}

type Stop struct {
	ID                 string
	Code               string
	Name               string
	Lat                float64
	Lon                float64
	LocationType       int
	ParentStation      string
	WheelchairBoarding int
}

// A single point of a shape polyline. A shape is the ordered set of
// points sharing a ShapeID; ShapeID is not unique per row.
type ShapePoint struct {
	ShapeID  string
	Lat      float64
	Lon      float64
	Sequence string
}

type CalendarDate struct {
	ServiceID     string
	Date          string
	ExceptionType int
}

type Trip struct {
	ID          string
	ServiceID   string
	RouteID     string
	Headsign    string
	DirectionID int
	ShapeID     string
}

// StopSequence is carried as text, exactly as it appears in the
// source file. Queries must order by its integer value, never
// lexicographically.
type StopTime struct {
	TripID            string
	StopID            string
	StopSequence      string
	Arrival           string
	Departure         string
	Headsign          string
	PickupType        string
	DropOffType       string
	ShapeDistTraveled string
	Timepoint         string
}

// A scheduled arrival at a stop, as returned by the query engine.
type Arrival struct {
	StopID   string
	TripID   string
	RouteID  string
	Headsign string
	Time     string // zero-padded HH:MM:SS, may exceed 24:00:00
}

// One stop along a selected trip.
type TripStop struct {
	StopID   string
	Sequence int
	StopName string
	Time     string
}

// A stop paired with its great-circle distance from a query point.
type StopDistance struct {
	Stop       Stop
	DistanceKm float64
}

// A per-stop entry of a realtime trip update. Time is the predicted
// arrival as an absolute timestamp; Delay is the feed's signed delay.
type StopTimeUpdate struct {
	StopID string
	Time   time.Time
	Delay  time.Duration
}

// A vehicle serving a trip. Feeds may carry several records for one
// trip_id, so callers always receive these as a slice.
type VehiclePosition struct {
	TripID    string
	VehicleID string
	Lat       float64
	Lon       float64
	Bearing   float64
	StopID    string
	Timestamp time.Time
}

// A scheduled arrival annotated with an optional realtime
// correction. Corrected is "HH:MM" in the agency's timezone, and is
// blank when the schedule already holds: no matching update, delay
// not positive, or a prediction equal to the scheduled time.
type ReconciledArrival struct {
	Arrival
	Scheduled string // HH:MM
	Corrected string // HH:MM, blank when no correction applies
}

func (r ReconciledArrival) OnSchedule() bool {
	return r.Corrected == ""
}
