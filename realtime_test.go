package nextbus_test

import (
	"context"
	"errors"
	"testing"
	"time"

	gtfsproto "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	proto "google.golang.org/protobuf/proto"

	"nextbus.dev/nextbus"
)

// byteSource serves fixed payloads, or an error.
type byteSource struct {
	payloads [][]byte
	err      error
}

func (b *byteSource) Fetch(ctx context.Context) ([][]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.payloads, nil
}

func tripUpdateFeed(t *testing.T, timestamp uint64, tripID, stopID string, delaySec int32) []byte {
	data, err := proto.Marshal(&gtfsproto.FeedMessage{
		Header: &gtfsproto.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(timestamp),
		},
		Entity: []*gtfsproto.FeedEntity{
			{
				Id: proto.String("e1"),
				TripUpdate: &gtfsproto.TripUpdate{
					Trip: &gtfsproto.TripDescriptor{TripId: proto.String(tripID)},
					StopTimeUpdate: []*gtfsproto.TripUpdate_StopTimeUpdate{
						{
							StopId: proto.String(stopID),
							Arrival: &gtfsproto.TripUpdate_StopTimeEvent{
								Delay: proto.Int32(delaySec),
							},
						},
					},
				},
			},
		},
	})
	require.NoError(t, err)
	return data
}

func TestRealtimeCacheRefresh(t *testing.T) {
	cache := nextbus.NewRealtimeCache()

	// Empty before the first refresh.
	assert.Equal(t, uint64(0), cache.Timestamp())
	assert.Nil(t, cache.TripUpdates("T1"))

	err := cache.Refresh(context.Background(), &byteSource{
		payloads: [][]byte{tripUpdateFeed(t, 1000, "T1", "A", 300)},
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1000), cache.Timestamp())
	updates := cache.TripUpdates("T1")
	require.Len(t, updates, 1)
	assert.Equal(t, "A", updates[0].StopID)
	assert.Equal(t, 300*time.Second, updates[0].Delay)

	// A new snapshot replaces the old one wholesale.
	err = cache.Refresh(context.Background(), &byteSource{
		payloads: [][]byte{tripUpdateFeed(t, 2000, "T2", "B", 60)},
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(2000), cache.Timestamp())
	assert.Nil(t, cache.TripUpdates("T1"))
	assert.Len(t, cache.TripUpdates("T2"), 1)
}

func TestRealtimeCacheKeepsSnapshotOnFailure(t *testing.T) {
	cache := nextbus.NewRealtimeCache()

	require.NoError(t, cache.Refresh(context.Background(), &byteSource{
		payloads: [][]byte{tripUpdateFeed(t, 1000, "T1", "A", 300)},
	}))

	// Fetch failure.
	err := cache.Refresh(context.Background(), &byteSource{
		err: errors.New("connection refused"),
	})
	require.Error(t, err)
	assert.Equal(t, uint64(1000), cache.Timestamp())
	assert.Len(t, cache.TripUpdates("T1"), 1)

	// Decode failure.
	err = cache.Refresh(context.Background(), &byteSource{
		payloads: [][]byte{[]byte("garbage")},
	})
	require.Error(t, err)

	var fe *nextbus.FetchError
	assert.ErrorAs(t, err, &fe)
	assert.Equal(t, uint64(1000), cache.Timestamp())
	assert.Len(t, cache.TripUpdates("T1"), 1)
}

func TestRealtimeCacheMergesPayloads(t *testing.T) {
	cache := nextbus.NewRealtimeCache()

	vehicles, err := proto.Marshal(&gtfsproto.FeedMessage{
		Header: &gtfsproto.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
		},
		Entity: []*gtfsproto.FeedEntity{
			{
				Id: proto.String("v1"),
				Vehicle: &gtfsproto.VehiclePosition{
					Trip:    &gtfsproto.TripDescriptor{TripId: proto.String("T1")},
					Vehicle: &gtfsproto.VehicleDescriptor{Id: proto.String("bus-42")},
				},
			},
		},
	})
	require.NoError(t, err)

	// Trip updates and vehicle positions fetched separately, one
	// snapshot.
	require.NoError(t, cache.Refresh(context.Background(), &byteSource{
		payloads: [][]byte{
			tripUpdateFeed(t, 1000, "T1", "A", 300),
			vehicles,
		},
	}))

	assert.Len(t, cache.TripUpdates("T1"), 1)
	positions := cache.VehiclePositions("T1")
	require.Len(t, positions, 1)
	assert.Equal(t, "bus-42", positions[0].VehicleID)
	assert.Nil(t, cache.VehiclePositions("T2"))
}
