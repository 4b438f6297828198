package parse

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextbus.dev/nextbus/model"
)

func TestParseCalendarDates(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		dates   []model.CalendarDate
		err     bool
	}{
		{
			"mixed exceptions",
			`
service_id,date,exception_type
weekday,20240101,2
weekday,20240102,1
holiday,20240101,1`,
			[]model.CalendarDate{
				{ServiceID: "weekday", Date: "20240101", ExceptionType: model.ServiceRemoved},
				{ServiceID: "weekday", Date: "20240102", ExceptionType: model.ServiceAdded},
				{ServiceID: "holiday", Date: "20240101", ExceptionType: model.ServiceAdded},
			},
			false,
		},

		{
			"empty file",
			`
service_id,date,exception_type`,
			nil,
			false,
		},

		{
			"repeated rows all kept",
			`
service_id,date,exception_type
s1,20240101,1
s1,20240101,1`,
			[]model.CalendarDate{
				{ServiceID: "s1", Date: "20240101", ExceptionType: model.ServiceAdded},
				{ServiceID: "s1", Date: "20240101", ExceptionType: model.ServiceAdded},
			},
			false,
		},

		{
			"missing service_id",
			`
service_id,date,exception_type
,20240101,1`,
			nil, true,
		},

		{
			"malformed date",
			`
service_id,date,exception_type
s1,2024-01-01,1`,
			nil, true,
		},

		{
			"exception_type out of range",
			`
service_id,date,exception_type
s1,20240101,3`,
			nil, true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := &scratch{}
			err := ParseCalendarDates(s, bytes.NewBufferString(tc.content[1:]))
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.dates, s.calendarDates)
		})
	}
}
