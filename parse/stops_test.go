package parse

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextbus.dev/nextbus/model"
)

func TestParseStops(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		stops   []model.Stop
		err     bool
	}{
		{
			"basic",
			`
stop_id,stop_code,stop_name,stop_lat,stop_lon
stop_a,100,Main St,40.712800,-74.006000
stop_b,101,Elm St,40.713900,-74.002000`,
			[]model.Stop{
				{ID: "stop_a", Code: "100", Name: "Main St", Lat: 40.7128, Lon: -74.006},
				{ID: "stop_b", Code: "101", Name: "Elm St", Lat: 40.7139, Lon: -74.002},
			},
			false,
		},

		{
			"station hierarchy",
			`
stop_id,stop_name,stop_lat,stop_lon,location_type,parent_station,wheelchair_boarding
station,Central,40.7,-74.0,1,,1
platform,Central Platform 1,40.7,-74.0,0,station,1`,
			[]model.Stop{
				{ID: "station", Name: "Central", Lat: 40.7, Lon: -74.0, LocationType: 1, WheelchairBoarding: 1},
				{ID: "platform", Name: "Central Platform 1", Lat: 40.7, Lon: -74.0, ParentStation: "station", WheelchairBoarding: 1},
			},
			false,
		},

		{
			"duplicate stop_id keeps first",
			`
stop_id,stop_name,stop_lat,stop_lon
stop_a,Original,40.7,-74.0
stop_a,Impostor,41.0,-75.0`,
			[]model.Stop{
				{ID: "stop_a", Name: "Original", Lat: 40.7, Lon: -74.0},
			},
			false,
		},

		{
			"missing stop_id",
			`
stop_id,stop_name,stop_lat,stop_lon
,Main St,40.7,-74.0`,
			nil, true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := &scratch{}
			err := ParseStops(s, bytes.NewBufferString(tc.content[1:]))
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.stops, s.stops)
		})
	}
}
