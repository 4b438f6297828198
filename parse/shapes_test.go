package parse

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextbus.dev/nextbus/model"
)

func TestParseShapes(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		points  []model.ShapePoint
		err     bool
	}{
		{
			"two shapes",
			`
shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence
sh1,40.700000,-74.000000,1
sh1,40.710000,-74.010000,2
sh2,41.000000,-75.000000,1`,
			[]model.ShapePoint{
				{ShapeID: "sh1", Lat: 40.7, Lon: -74.0, Sequence: "1"},
				{ShapeID: "sh1", Lat: 40.71, Lon: -74.01, Sequence: "2"},
				{ShapeID: "sh2", Lat: 41.0, Lon: -75.0, Sequence: "1"},
			},
			false,
		},

		{
			"missing shape_id",
			`
shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence
,40.7,-74.0,1`,
			nil, true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := &scratch{}
			err := ParseShapes(s, bytes.NewBufferString(tc.content[1:]))
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.points, s.shapePoints)
			assert.False(t, s.inShapes)
		})
	}
}
