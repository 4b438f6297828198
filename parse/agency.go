package parse

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"nextbus.dev/nextbus/model"
	"nextbus.dev/nextbus/storage"
)

type AgencyCSV struct {
	ID       string `csv:"agency_id"`
	Name     string `csv:"agency_name"`
	URL      string `csv:"agency_url"`
	Timezone string `csv:"agency_timezone"`
	Phone    string `csv:"agency_phone"`
	Lang     string `csv:"agency_lang"`
}

func ParseAgency(store storage.Store, data io.Reader) error {
	agencyCsv := []*AgencyCSV{}
	if err := gocsv.Unmarshal(data, &agencyCsv); err != nil {
		return fmt.Errorf("unmarshaling agency csv: %w", err)
	}

	if len(agencyCsv) == 0 {
		return fmt.Errorf("no agency record found")
	}

	// Duplicated agency_ids are dropped, first occurrence wins.
	seen := map[string]bool{}
	for _, a := range agencyCsv {
		if a.ID == "" {
			return fmt.Errorf("missing agency_id")
		}
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true

		if a.Timezone == "" {
			return fmt.Errorf("missing agency_timezone")
		}
		if _, err := time.LoadLocation(a.Timezone); err != nil {
			return fmt.Errorf("agency_timezone '%s' is invalid: %w", a.Timezone, err)
		}

		err := store.WriteAgency(&model.Agency{
			ID:       a.ID,
			Name:     a.Name,
			URL:      a.URL,
			Timezone: a.Timezone,
			Phone:    a.Phone,
			Lang:     a.Lang,
		})
		if err != nil {
			return fmt.Errorf("writing agency: %w", err)
		}
	}

	return nil
}
