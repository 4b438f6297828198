package parse

import (
	"fmt"
	"time"

	gtfsproto "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	proto "google.golang.org/protobuf/proto"

	"nextbus.dev/nextbus/model"
)

// Key data from a decoded GTFS Realtime feed, indexed by trip_id. A
// feed message may carry trip updates, vehicle positions, or both.
type Feed struct {
	Timestamp uint64

	// Per-stop updates of each trip, in feed order.
	TripUpdates map[string][]model.StopTimeUpdate

	// Vehicles serving each trip. Feeds sometimes duplicate a
	// trip across several vehicle entities, hence the slice.
	VehiclePositions map[string][]model.VehiclePosition
}

func NewFeed() *Feed {
	return &Feed{
		TripUpdates:      map[string][]model.StopTimeUpdate{},
		VehiclePositions: map[string][]model.VehiclePosition{},
	}
}

// Decodes a serialized FeedMessage into feed, merging with whatever
// is already there. Pass each fetched feed (trip updates, vehicle
// positions) through in turn.
func (feed *Feed) Parse(data []byte) error {
	f := &gtfsproto.FeedMessage{}
	if err := proto.Unmarshal(data, f); err != nil {
		return fmt.Errorf("unmarshaling protobuf: %w", err)
	}

	header := f.GetHeader()

	version := header.GetGtfsRealtimeVersion()
	if version != "2.0" && version != "1.0" {
		return fmt.Errorf("version %s not supported", version)
	}

	if header.GetIncrementality() != gtfsproto.FeedHeader_FULL_DATASET {
		return fmt.Errorf("feed incrementality %s not supported", header.GetIncrementality())
	}

	feed.Timestamp = header.GetTimestamp()

	for _, entity := range f.GetEntity() {
		if entity.TripUpdate != nil {
			if err := feed.addTripUpdate(entity.TripUpdate); err != nil {
				return fmt.Errorf("processing trip update: %w", err)
			}
		}
		if entity.Vehicle != nil {
			feed.addVehicle(entity.Vehicle)
		}
	}

	return nil
}

func (feed *Feed) addTripUpdate(tu *gtfsproto.TripUpdate) error {
	trip := tu.GetTrip()
	if trip == nil {
		return fmt.Errorf("trip_update missing trip")
	}

	// Blank trip IDs are allowed by the wire format when the trip
	// is identified by route/direction/start instead. Not
	// supported here.
	tripID := trip.GetTripId()
	if tripID == "" {
		return nil
	}

	for _, stup := range tu.GetStopTimeUpdate() {
		arrival := stup.GetArrival()
		update := model.StopTimeUpdate{
			StopID: stup.GetStopId(),
			Delay:  time.Duration(arrival.GetDelay()) * time.Second,
		}
		if unix := int64(arrival.GetTime()); unix != 0 {
			update.Time = time.Unix(unix, 0).UTC()
		}
		feed.TripUpdates[tripID] = append(feed.TripUpdates[tripID], update)
	}

	return nil
}

func (feed *Feed) addVehicle(vp *gtfsproto.VehiclePosition) {
	tripID := vp.GetTrip().GetTripId()
	if tripID == "" {
		return
	}

	pos := model.VehiclePosition{
		TripID:    tripID,
		VehicleID: vp.GetVehicle().GetId(),
		Lat:       float64(vp.GetPosition().GetLatitude()),
		Lon:       float64(vp.GetPosition().GetLongitude()),
		Bearing:   float64(vp.GetPosition().GetBearing()),
		StopID:    vp.GetStopId(),
	}
	if ts := int64(vp.GetTimestamp()); ts != 0 {
		pos.Timestamp = time.Unix(ts, 0).UTC()
	}

	feed.VehiclePositions[tripID] = append(feed.VehiclePositions[tripID], pos)
}
