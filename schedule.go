package nextbus

import (
	"fmt"
	"sort"
	"time"

	"nextbus.dev/nextbus/model"
	"nextbus.dev/nextbus/storage"
)

// Schedule answers queries against a loaded static timetable. It
// owns no data of its own: every query goes to the Store, so results
// always reflect the latest completed load.
//
// All three timetable queries take an explicit (date, time of day)
// pair; passing "" for either falls back to the current moment as
// reported by Now, which tests override.
type Schedule struct {
	Store storage.Store

	// Clock used when a caller omits date or time of day.
	Now func() time.Time

	location *time.Location
}

func NewSchedule(store storage.Store) *Schedule {
	return &Schedule{
		Store: store,
		Now:   time.Now,
	}
}

// The agency's timezone, as declared in the static data. Falls back
// to UTC when the store has no agency row. Cached after first use.
func (s *Schedule) Location() (*time.Location, error) {
	if s.location != nil {
		return s.location, nil
	}

	tz, err := s.Store.AgencyTimezone()
	if err != nil {
		return nil, fmt.Errorf("getting agency timezone: %w", err)
	}
	if tz == "" {
		s.location = time.UTC
		return s.location, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}
	s.location = loc

	return loc, nil
}

func (s *Schedule) defaults(after, date string) (string, string) {
	now := s.Now()
	if after == "" {
		after = now.Format("15:04:05")
	}
	if date == "" {
		date = now.Format("20060102")
	}
	return after, date
}

// Returns stops within radiusKm of (lon, lat), ordered by
// great-circle distance ascending. Limit <= 0 returns all matches.
//
// This is a full scan over the stop table. Agencies top out at a few
// thousand stops, which keeps the scan well under a millisecond; a
// spatial index would buy nothing at this scale.
func (s *Schedule) NearbyStops(lon, lat, radiusKm float64, limit int) ([]model.StopDistance, error) {
	stops, err := s.Store.Stops()
	if err != nil {
		return nil, fmt.Errorf("getting stops: %w", err)
	}

	nearby := []model.StopDistance{}
	for _, stop := range stops {
		d := storage.HaversineDistance(lat, lon, stop.Lat, stop.Lon)
		if d <= radiusKm {
			nearby = append(nearby, model.StopDistance{Stop: *stop, DistanceKm: d})
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	if limit > 0 && len(nearby) > limit {
		nearby = nearby[:limit]
	}

	return nearby, nil
}

// Returns the next arrivals at a stop, strictly after the given time
// of day, for services active on date. Ordered by arrival time
// ascending, capped at limit (<= 0 for no cap). A stop with no
// matching stop_times yields an empty result, not an error.
func (s *Schedule) IncomingBuses(stopID, after, date string, limit int) ([]model.Arrival, error) {
	after, date = s.defaults(after, date)

	arrivals, err := s.Store.Arrivals(storage.ArrivalFilter{
		StopID: stopID,
		Date:   date,
		After:  after,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("getting arrivals: %w", err)
	}

	result := make([]model.Arrival, 0, len(arrivals))
	for _, a := range arrivals {
		result = append(result, *a)
	}

	return result, nil
}

// Returns the full stop sequence of the next trip of a route and
// direction whose earliest stop time is after the given time of day.
// Offset pages past that trip: 1 gives the one after, and so on. All
// rows belong to a single trip, ordered by numeric stop sequence.
func (s *Schedule) NextTripStops(routeID string, directionID int, after, date string, offset int) ([]model.TripStop, error) {
	after, date = s.defaults(after, date)

	tripID, err := s.Store.NextTrip(routeID, directionID, date, after, offset)
	if err != nil {
		return nil, fmt.Errorf("finding next trip: %w", err)
	}
	if tripID == "" {
		return []model.TripStop{}, nil
	}

	return s.tripStops(tripID, 0)
}

// Returns the downstream stops of the soonest trip of a route that
// serves stopID after the given time of day: the matched stop itself
// and everything after it, ordered by numeric stop sequence. The
// cutoff sequence comes from the selected trip's own stop_times row,
// since sequence numbers only mean anything within one trip.
func (s *Schedule) RemainingStops(routeID, stopID, after, date string) ([]model.TripStop, error) {
	after, date = s.defaults(after, date)

	tripID, seq, err := s.Store.NextTripServing(routeID, stopID, date, after)
	if err != nil {
		return nil, fmt.Errorf("finding next trip serving stop: %w", err)
	}
	if tripID == "" {
		return []model.TripStop{}, nil
	}

	return s.tripStops(tripID, seq)
}

func (s *Schedule) tripStops(tripID string, fromSeq int) ([]model.TripStop, error) {
	stops, err := s.Store.TripStops(tripID, fromSeq)
	if err != nil {
		return nil, fmt.Errorf("getting trip stops: %w", err)
	}

	result := make([]model.TripStop, 0, len(stops))
	for _, ts := range stops {
		result = append(result, *ts)
	}

	return result, nil
}
