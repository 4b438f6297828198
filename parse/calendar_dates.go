package parse

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"nextbus.dev/nextbus/model"
	"nextbus.dev/nextbus/storage"
)

type CalendarDateCSV struct {
	ServiceID     string `csv:"service_id"`
	Date          string `csv:"date"`
	ExceptionType int    `csv:"exception_type"`
}

// Calendar dates carry no primary key; every row is imported.
func ParseCalendarDates(store storage.Store, data io.Reader) error {
	calendarDateCsv := []*CalendarDateCSV{}
	if err := gocsv.Unmarshal(data, &calendarDateCsv); err != nil {
		return fmt.Errorf("unmarshaling calendar_dates csv: %w", err)
	}

	for i, cd := range calendarDateCsv {
		if cd.ServiceID == "" {
			return fmt.Errorf("missing service_id (row %d)", i+1)
		}

		if _, err := time.ParseInLocation("20060102", cd.Date, time.UTC); err != nil {
			return fmt.Errorf("parsing date '%s' (row %d): %w", cd.Date, i+1, err)
		}

		if cd.ExceptionType != model.ServiceAdded && cd.ExceptionType != model.ServiceRemoved {
			return fmt.Errorf("illegal exception_type: '%d' (row %d)", cd.ExceptionType, i+1)
		}

		err := store.WriteCalendarDate(&model.CalendarDate{
			ServiceID:     cd.ServiceID,
			Date:          cd.Date,
			ExceptionType: cd.ExceptionType,
		})
		if err != nil {
			return fmt.Errorf("writing calendar date: %w", err)
		}
	}

	return nil
}
