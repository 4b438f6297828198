package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"nextbus.dev/nextbus/model"
)

type SQLiteStore struct {
	db *sql.DB

	shapeInsertTx      *sql.Tx
	shapeInsertStmt    *sql.Stmt
	stopTimeInsertTx   *sql.Tx
	stopTimeInsertStmt *sql.Stmt
}

// Opens (or creates) a SQLite backed Store at path. An empty path
// gives an in-memory store, handy for tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	inMemory := path == ""
	if inMemory {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each pooled connection gets its own ":memory:" database, so
	// in-memory stores must stick to a single connection.
	if inMemory {
		db.SetMaxOpenConns(1)
	}

	return &SQLiteStore{db: db}, nil
}

// The frequencies table is created but never populated by the
// loader. It is reserved for headway based schedules.
const sqliteSchema = `
DROP TABLE IF EXISTS agency;
CREATE TABLE agency (
    agency_id TEXT NOT NULL PRIMARY KEY,
    agency_name TEXT,
    agency_url TEXT,
    agency_timezone TEXT,
    agency_phone TEXT,
    agency_lang TEXT
);

DROP TABLE IF EXISTS shapes;
CREATE TABLE shapes (
    shape_id TEXT,
    shape_pt_lat REAL,
    shape_pt_lon REAL,
    shape_pt_sequence TEXT
);
CREATE INDEX shapes_shape_id ON shapes (shape_id);

DROP TABLE IF EXISTS calendar_dates;
CREATE TABLE calendar_dates (
    service_id TEXT,
    date TEXT,
    exception_type INTEGER
);
CREATE INDEX calendar_dates_date ON calendar_dates (date);

DROP TABLE IF EXISTS routes;
CREATE TABLE routes (
    route_id TEXT NOT NULL PRIMARY KEY,
    route_short_name TEXT,
    route_long_name TEXT,
    route_type INTEGER,
    route_color TEXT,
    route_text_color TEXT
);

DROP TABLE IF EXISTS stops;
CREATE TABLE stops (
    stop_id TEXT NOT NULL PRIMARY KEY,
    stop_code TEXT,
    stop_name TEXT,
    stop_lat REAL,
    stop_lon REAL,
    location_type INTEGER,
    parent_station TEXT,
    wheelchair_boarding INTEGER
);

DROP TABLE IF EXISTS trips;
CREATE TABLE trips (
    trip_id TEXT NOT NULL PRIMARY KEY,
    service_id TEXT,
    route_id TEXT,
    trip_headsign TEXT,
    direction_id INTEGER,
    shape_id TEXT
);
CREATE INDEX trips_route_id ON trips (route_id);
CREATE INDEX trips_service_id ON trips (service_id);

DROP TABLE IF EXISTS stop_times;
CREATE TABLE stop_times (
    trip_id TEXT,
    stop_id TEXT,
    stop_sequence TEXT,
    arrival_time TEXT,
    departure_time TEXT,
    stop_headsign TEXT,
    pickup_type TEXT,
    drop_off_type TEXT,
    shape_dist_traveled TEXT,
    timepoint TEXT
);
CREATE INDEX stop_times_trip_id ON stop_times (trip_id);
CREATE INDEX stop_times_stop_id ON stop_times (stop_id);
CREATE INDEX stop_times_arrival_time ON stop_times (arrival_time);

DROP TABLE IF EXISTS frequencies;
CREATE TABLE frequencies (
    trip_id TEXT,
    start_time TEXT,
    end_time TEXT,
    headway_secs TEXT
);
`

func (s *SQLiteStore) Reset() error {
	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("resetting schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) WriteAgency(a *model.Agency) error {
	_, err := s.db.Exec(`
INSERT INTO agency (agency_id, agency_name, agency_url, agency_timezone, agency_phone, agency_lang)
VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.URL, a.Timezone, a.Phone, a.Lang,
	)
	if err != nil {
		return fmt.Errorf("inserting agency: %w", err)
	}
	return nil
}

func (s *SQLiteStore) WriteRoute(r *model.Route) error {
	_, err := s.db.Exec(`
INSERT INTO routes (route_id, route_short_name, route_long_name, route_type, route_color, route_text_color)
VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.ShortName, r.LongName, int(r.Type), r.Color, r.TextColor,
	)
	if err != nil {
		return fmt.Errorf("inserting route: %w", err)
	}
	return nil
}

func (s *SQLiteStore) WriteStop(stop *model.Stop) error {
	_, err := s.db.Exec(`
INSERT INTO stops (stop_id, stop_code, stop_name, stop_lat, stop_lon, location_type, parent_station, wheelchair_boarding)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stop.ID, stop.Code, stop.Name, stop.Lat, stop.Lon,
		stop.LocationType, stop.ParentStation, stop.WheelchairBoarding,
	)
	if err != nil {
		return fmt.Errorf("inserting stop: %w", err)
	}
	return nil
}

func (s *SQLiteStore) WriteTrip(t *model.Trip) error {
	_, err := s.db.Exec(`
INSERT INTO trips (trip_id, service_id, route_id, trip_headsign, direction_id, shape_id)
VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.ServiceID, t.RouteID, t.Headsign, t.DirectionID, t.ShapeID,
	)
	if err != nil {
		return fmt.Errorf("inserting trip: %w", err)
	}
	return nil
}

func (s *SQLiteStore) WriteCalendarDate(cd *model.CalendarDate) error {
	_, err := s.db.Exec(`
INSERT INTO calendar_dates (service_id, date, exception_type)
VALUES (?, ?, ?)`,
		cd.ServiceID, cd.Date, cd.ExceptionType,
	)
	if err != nil {
		return fmt.Errorf("inserting calendar date: %w", err)
	}
	return nil
}

func (s *SQLiteStore) BeginShapes() error {
	var err error
	s.shapeInsertTx, err = s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning shape insert transaction: %w", err)
	}

	s.shapeInsertStmt, err = s.shapeInsertTx.Prepare(`
INSERT INTO shapes (shape_id, shape_pt_lat, shape_pt_lon, shape_pt_sequence)
VALUES (?, ?, ?, ?)`)
	if err != nil {
		s.shapeInsertTx.Rollback()
		s.shapeInsertTx = nil
		return fmt.Errorf("preparing shape insert: %w", err)
	}

	return nil
}

func (s *SQLiteStore) WriteShapePoint(p *model.ShapePoint) error {
	_, err := s.shapeInsertStmt.Exec(p.ShapeID, p.Lat, p.Lon, p.Sequence)
	if err != nil {
		s.shapeInsertStmt.Close()
		s.shapeInsertTx.Rollback()
		s.shapeInsertTx = nil
		s.shapeInsertStmt = nil
		return fmt.Errorf("inserting shape point: %w", err)
	}
	return nil
}

func (s *SQLiteStore) EndShapes() error {
	s.shapeInsertStmt.Close()
	err := s.shapeInsertTx.Commit()
	if err != nil {
		return fmt.Errorf("committing shape insert transaction: %w", err)
	}
	s.shapeInsertTx = nil
	s.shapeInsertStmt = nil

	return nil
}

func (s *SQLiteStore) BeginStopTimes() error {
	var err error
	s.stopTimeInsertTx, err = s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning stop_time insert transaction: %w", err)
	}

	s.stopTimeInsertStmt, err = s.stopTimeInsertTx.Prepare(`
INSERT INTO stop_times (trip_id, stop_id, stop_sequence, arrival_time, departure_time, stop_headsign, pickup_type, drop_off_type, shape_dist_traveled, timepoint)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		s.stopTimeInsertTx.Rollback()
		s.stopTimeInsertTx = nil
		return fmt.Errorf("preparing stop_time insert: %w", err)
	}

	return nil
}

func (s *SQLiteStore) WriteStopTime(st *model.StopTime) error {
	_, err := s.stopTimeInsertStmt.Exec(
		st.TripID,
		st.StopID,
		st.StopSequence,
		st.Arrival,
		st.Departure,
		st.Headsign,
		st.PickupType,
		st.DropOffType,
		st.ShapeDistTraveled,
		st.Timepoint,
	)
	if err != nil {
		s.stopTimeInsertStmt.Close()
		s.stopTimeInsertTx.Rollback()
		s.stopTimeInsertTx = nil
		s.stopTimeInsertStmt = nil
		return fmt.Errorf("inserting stop_time: %w", err)
	}

	return nil
}

func (s *SQLiteStore) EndStopTimes() error {
	s.stopTimeInsertStmt.Close()
	err := s.stopTimeInsertTx.Commit()
	if err != nil {
		return fmt.Errorf("committing stop_time insert transaction: %w", err)
	}
	s.stopTimeInsertTx = nil
	s.stopTimeInsertStmt = nil

	return nil
}

// The active service set for a date: services added by an exception
// on that exact date, minus those removed. No weekly fallback.
const sqliteActiveServices = `
SELECT service_id FROM calendar_dates WHERE date = ? AND exception_type = 1
EXCEPT
SELECT service_id FROM calendar_dates WHERE date = ? AND exception_type = 2`

func (s *SQLiteStore) ActiveServices(date string) ([]string, error) {
	rows, err := s.db.Query(sqliteActiveServices, date, date)
	if err != nil {
		return nil, fmt.Errorf("querying for active services: %w", err)
	}
	defer rows.Close()

	serviceIDs := []string{}
	for rows.Next() {
		var serviceID string
		if err := rows.Scan(&serviceID); err != nil {
			return nil, fmt.Errorf("scanning active service: %w", err)
		}
		serviceIDs = append(serviceIDs, serviceID)
	}

	return serviceIDs, nil
}

func (s *SQLiteStore) Stops() ([]*model.Stop, error) {
	rows, err := s.db.Query(`
SELECT stop_id, stop_code, stop_name, stop_lat, stop_lon, location_type, parent_station, wheelchair_boarding
FROM stops`)
	if err != nil {
		return nil, fmt.Errorf("querying stops: %w", err)
	}
	defer rows.Close()

	stops := []*model.Stop{}
	for rows.Next() {
		stop := &model.Stop{}
		err := rows.Scan(
			&stop.ID,
			&stop.Code,
			&stop.Name,
			&stop.Lat,
			&stop.Lon,
			&stop.LocationType,
			&stop.ParentStation,
			&stop.WheelchairBoarding,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning stop: %w", err)
		}
		stops = append(stops, stop)
	}

	return stops, nil
}

func (s *SQLiteStore) Arrivals(filter ArrivalFilter) ([]*model.Arrival, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}

	rows, err := s.db.Query(`
WITH active AS (`+sqliteActiveServices+`)
SELECT
    st.stop_id,
    st.trip_id,
    t.route_id,
    t.trip_headsign,
    st.arrival_time
FROM stop_times st
INNER JOIN trips t ON st.trip_id = t.trip_id
WHERE st.stop_id = ?
  AND st.arrival_time > ?
  AND t.service_id IN (SELECT service_id FROM active)
ORDER BY st.arrival_time
LIMIT ?`,
		filter.Date, filter.Date, filter.StopID, filter.After, limit)
	if err != nil {
		return nil, fmt.Errorf("querying for arrivals: %w", err)
	}
	defer rows.Close()

	arrivals := []*model.Arrival{}
	for rows.Next() {
		a := &model.Arrival{}
		err := rows.Scan(&a.StopID, &a.TripID, &a.RouteID, &a.Headsign, &a.Time)
		if err != nil {
			return nil, fmt.Errorf("scanning arrival: %w", err)
		}
		arrivals = append(arrivals, a)
	}

	return arrivals, nil
}

func (s *SQLiteStore) NextTrip(routeID string, directionID int, date, after string, offset int) (string, error) {
	var tripID string
	err := s.db.QueryRow(`
WITH active AS (`+sqliteActiveServices+`),
today_trips AS (
    SELECT t.trip_id
    FROM trips t
    WHERE t.route_id = ?
      AND t.direction_id = ?
      AND t.service_id IN (SELECT service_id FROM active)
),
trip_times AS (
    SELECT st.trip_id, MIN(st.arrival_time) AS first_arrival
    FROM stop_times st
    INNER JOIN today_trips tt ON st.trip_id = tt.trip_id
    GROUP BY st.trip_id
)
SELECT trip_id
FROM trip_times
WHERE first_arrival > ?
ORDER BY first_arrival
LIMIT 1 OFFSET ?`,
		date, date, routeID, directionID, after, offset).Scan(&tripID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying for next trip: %w", err)
	}

	return tripID, nil
}

func (s *SQLiteStore) NextTripServing(routeID, stopID, date, after string) (string, int, error) {
	var tripID string
	var seq int
	err := s.db.QueryRow(`
WITH active AS (`+sqliteActiveServices+`),
today_trips AS (
    SELECT t.trip_id
    FROM trips t
    WHERE t.route_id = ?
      AND t.service_id IN (SELECT service_id FROM active)
)
SELECT st.trip_id, CAST(st.stop_sequence AS INTEGER)
FROM stop_times st
INNER JOIN today_trips tt ON st.trip_id = tt.trip_id
WHERE st.stop_id = ?
  AND st.arrival_time > ?
ORDER BY st.arrival_time
LIMIT 1`,
		date, date, routeID, stopID, after).Scan(&tripID, &seq)
	if err == sql.ErrNoRows {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("querying for next trip serving stop: %w", err)
	}

	return tripID, seq, nil
}

func (s *SQLiteStore) TripStops(tripID string, fromSeq int) ([]*model.TripStop, error) {
	rows, err := s.db.Query(`
SELECT
    st.stop_id,
    CAST(st.stop_sequence AS INTEGER) AS seq,
    stops.stop_name,
    st.arrival_time
FROM stop_times st
INNER JOIN stops ON st.stop_id = stops.stop_id
WHERE st.trip_id = ?
  AND CAST(st.stop_sequence AS INTEGER) >= ?
ORDER BY seq ASC`,
		tripID, fromSeq)
	if err != nil {
		return nil, fmt.Errorf("querying for trip stops: %w", err)
	}
	defer rows.Close()

	stops := []*model.TripStop{}
	for rows.Next() {
		ts := &model.TripStop{}
		err := rows.Scan(&ts.StopID, &ts.Sequence, &ts.StopName, &ts.Time)
		if err != nil {
			return nil, fmt.Errorf("scanning trip stop: %w", err)
		}
		stops = append(stops, ts)
	}

	return stops, nil
}

func (s *SQLiteStore) AgencyTimezone() (string, error) {
	var tz string
	err := s.db.QueryRow(`SELECT agency_timezone FROM agency LIMIT 1`).Scan(&tz)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying agency timezone: %w", err)
	}
	return tz, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
