package nextbus

import (
	"fmt"

	"nextbus.dev/nextbus/model"
)

// DepartureBoard is the rider-facing view around a point: each
// nearby stop with its next few arrivals, realtime-corrected where
// the feed has something to say.
type DepartureBoard struct {
	Stops []BoardStop
}

type BoardStop struct {
	Stop       model.Stop
	DistanceKm float64
	Arrivals   []model.ReconciledArrival
}

// Board combines the stop locator, the arrival query and the
// realtime cache into a single departure board. Stops are ordered by
// distance, arrivals by time. The cache may be nil, in which case
// the board is purely schedule-driven.
func (s *Schedule) Board(cache *RealtimeCache, lon, lat, radiusKm float64, stopLimit, arrivalLimit int) (*DepartureBoard, error) {
	loc, err := s.Location()
	if err != nil {
		return nil, err
	}

	nearby, err := s.NearbyStops(lon, lat, radiusKm, stopLimit)
	if err != nil {
		return nil, err
	}

	board := &DepartureBoard{Stops: make([]BoardStop, 0, len(nearby))}
	for _, sd := range nearby {
		arrivals, err := s.IncomingBuses(sd.Stop.ID, "", "", arrivalLimit)
		if err != nil {
			return nil, fmt.Errorf("arrivals at %s: %w", sd.Stop.ID, err)
		}

		var reconciled []model.ReconciledArrival
		if cache != nil {
			reconciled = ReconcileAll(arrivals, cache, loc)
		} else {
			reconciled = make([]model.ReconciledArrival, 0, len(arrivals))
			for _, a := range arrivals {
				reconciled = append(reconciled, model.ReconciledArrival{
					Arrival:   a,
					Scheduled: shortTime(a.Time),
				})
			}
		}

		board.Stops = append(board.Stops, BoardStop{
			Stop:       sd.Stop,
			DistanceKm: sd.DistanceKm,
			Arrivals:   reconciled,
		})
	}

	return board, nil
}
