package parse

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextbus.dev/nextbus/model"
)

func TestParseTrips(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		trips   []model.Trip
		err     bool
	}{
		{
			"basic",
			`
trip_id,service_id,route_id,trip_headsign,direction_id,shape_id
t1,s1,r1,Downtown,0,sh1
t2,s1,r1,Uptown,1,sh2`,
			[]model.Trip{
				{ID: "t1", ServiceID: "s1", RouteID: "r1", Headsign: "Downtown", DirectionID: 0, ShapeID: "sh1"},
				{ID: "t2", ServiceID: "s1", RouteID: "r1", Headsign: "Uptown", DirectionID: 1, ShapeID: "sh2"},
			},
			false,
		},

		{
			"duplicate trip_id keeps first",
			`
trip_id,service_id,route_id
t1,s1,r1
t1,s2,r2`,
			[]model.Trip{
				{ID: "t1", ServiceID: "s1", RouteID: "r1"},
			},
			false,
		},

		{
			"missing trip_id",
			`
trip_id,service_id,route_id
,s1,r1`,
			nil, true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := &scratch{}
			err := ParseTrips(s, bytes.NewBufferString(tc.content[1:]))
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.trips, s.trips)
		})
	}
}
