package parse

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextbus.dev/nextbus/model"
)

func TestNormalizeTime(t *testing.T) {
	for _, tc := range []struct {
		in  string
		out string
		err bool
	}{
		{"08:30:00", "08:30:00", false},
		{"8:5:3", "08:05:03", false},
		{" 8:05:03", "08:05:03", false},
		{"26:15:00", "26:15:00", false},
		{"99:59:59", "99:59:59", false},
		{"100:00:00", "", true},
		{"08:60:00", "", true},
		{"08:00:60", "", true},
		{"08:00", "", true},
		{"08:00:00:00", "", true},
		{"half past", "", true},
		{"", "", true},
	} {
		out, err := normalizeTime(tc.in)
		if tc.err {
			assert.Error(t, err, "input %q", tc.in)
		} else {
			assert.NoError(t, err, "input %q", tc.in)
			assert.Equal(t, tc.out, out)
		}
	}
}

func TestParseStopTimes(t *testing.T) {
	for _, tc := range []struct {
		name      string
		content   string
		stopTimes []model.StopTime
		err       bool
	}{
		{
			"basic",
			`
trip_id,stop_id,stop_sequence,arrival_time,departure_time,stop_headsign
t1,stop_a,1,8:00:00,08:00:30,Downtown
t1,stop_b,2,08:10:00,08:10:00,`,
			[]model.StopTime{
				{
					TripID:       "t1",
					StopID:       "stop_a",
					StopSequence: "1",
					Arrival:      "08:00:00",
					Departure:    "08:00:30",
					Headsign:     "Downtown",
				},
				{
					TripID:       "t1",
					StopID:       "stop_b",
					StopSequence: "2",
					Arrival:      "08:10:00",
					Departure:    "08:10:00",
				},
			},
			false,
		},

		{
			"past midnight",
			`
trip_id,stop_id,stop_sequence,arrival_time,departure_time
t1,stop_a,1,24:05:00,24:05:00`,
			[]model.StopTime{
				{
					TripID:       "t1",
					StopID:       "stop_a",
					StopSequence: "1",
					Arrival:      "24:05:00",
					Departure:    "24:05:00",
				},
			},
			false,
		},

		{
			"missing trip_id",
			`
trip_id,stop_id,stop_sequence,arrival_time,departure_time
,stop_a,1,08:00:00,08:00:00`,
			nil, true,
		},

		{
			"missing stop_id",
			`
trip_id,stop_id,stop_sequence,arrival_time,departure_time
t1,,1,08:00:00,08:00:00`,
			nil, true,
		},

		{
			"non-integer stop_sequence",
			`
trip_id,stop_id,stop_sequence,arrival_time,departure_time
t1,stop_a,first,08:00:00,08:00:00`,
			nil, true,
		},

		{
			"bad arrival_time",
			`
trip_id,stop_id,stop_sequence,arrival_time,departure_time
t1,stop_a,1,8am,08:00:00`,
			nil, true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := &scratch{}
			err := ParseStopTimes(s, bytes.NewBufferString(tc.content[1:]))
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.stopTimes, s.stopTimes)
			assert.False(t, s.inStopTimes)
		})
	}
}
