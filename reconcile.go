package nextbus

import (
	"strings"
	"time"

	"nextbus.dev/nextbus/model"
)

// Reconcile annotates a scheduled arrival with the realtime
// correction for its stop, if any. The first update matching the
// arrival's stop decides; a correction is only reported when the
// vehicle is running late (positive delay) and the predicted time
// differs from the schedule once both are rendered as wall clock
// HH:MM in the agency's timezone.
func Reconcile(arrival model.Arrival, updates []model.StopTimeUpdate, loc *time.Location) model.ReconciledArrival {
	rec := model.ReconciledArrival{
		Arrival:   arrival,
		Scheduled: shortTime(arrival.Time),
	}

	for _, u := range updates {
		if u.StopID != arrival.StopID {
			continue
		}
		if u.Delay > 0 && !u.Time.IsZero() {
			corrected := u.Time.In(loc).Format("15:04")
			if corrected != rec.Scheduled {
				rec.Corrected = corrected
			}
		}
		break
	}

	return rec
}

// ReconcileAll applies Reconcile to each arrival, looking up that
// arrival's trip in the cache. Arrivals for trips absent from the
// snapshot pass through with the schedule alone.
func ReconcileAll(arrivals []model.Arrival, cache *RealtimeCache, loc *time.Location) []model.ReconciledArrival {
	result := make([]model.ReconciledArrival, 0, len(arrivals))
	for _, a := range arrivals {
		result = append(result, Reconcile(a, cache.TripUpdates(a.TripID), loc))
	}
	return result
}

// HH:MM:SS to HH:MM. Static times keep their seconds in the store,
// but riders get minute granularity.
func shortTime(hhmmss string) string {
	if i := strings.LastIndex(hhmmss, ":"); i > strings.Index(hhmmss, ":") {
		return hhmmss[:i]
	}
	return hhmmss
}
