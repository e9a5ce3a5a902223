package dataimporter

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nextride/nextride/pkg/util"
	"github.com/rs/zerolog/log"
)

const insertBatchSize = 500

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS agencies (
		agency_id TEXT PRIMARY KEY,
		agency_name TEXT NOT NULL,
		agency_url TEXT,
		agency_timezone TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS stops (
		stop_id TEXT PRIMARY KEY,
		stop_code TEXT NOT NULL,
		stop_name TEXT NOT NULL,
		stop_desc TEXT,
		city TEXT,
		stop_lat DOUBLE PRECISION,
		stop_lon DOUBLE PRECISION
	)`,
	`CREATE INDEX IF NOT EXISTS stops_stop_code ON stops (stop_code)`,
	`CREATE TABLE IF NOT EXISTS routes (
		route_id TEXT PRIMARY KEY,
		agency_id TEXT NOT NULL,
		route_short_name TEXT NOT NULL,
		route_long_name TEXT,
		route_desc TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS trips (
		trip_id TEXT PRIMARY KEY,
		route_id TEXT NOT NULL,
		service_id TEXT NOT NULL,
		trip_headsign TEXT,
		direction_id TEXT,
		wheelchair_accessible BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS stop_times (
		trip_id TEXT NOT NULL,
		stop_id TEXT NOT NULL,
		arrival_time INTEGER NOT NULL,
		departure_time INTEGER NOT NULL,
		stop_sequence INTEGER NOT NULL,
		PRIMARY KEY (trip_id, stop_sequence)
	)`,
	`CREATE INDEX IF NOT EXISTS stop_times_stop_id ON stop_times (stop_id)`,
	`CREATE TABLE IF NOT EXISTS calendar (
		service_id TEXT PRIMARY KEY,
		monday BOOLEAN NOT NULL,
		tuesday BOOLEAN NOT NULL,
		wednesday BOOLEAN NOT NULL,
		thursday BOOLEAN NOT NULL,
		friday BOOLEAN NOT NULL,
		saturday BOOLEAN NOT NULL,
		sunday BOOLEAN NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS calendar_dates (
		service_id TEXT NOT NULL,
		date DATE NOT NULL,
		exception_type INTEGER NOT NULL,
		PRIMARY KEY (service_id, date)
	)`,
}

// Import replaces the schedule tables with the contents of the parsed feed
// inside a single transaction, so readers either see the old feed or the new
// one and never a mix.
func (g *Schedule) Import(ctx context.Context, db *sql.DB) error {
	for _, statement := range schemaStatements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	transaction, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer transaction.Rollback()

	for _, table := range []string{"agencies", "stops", "routes", "trips", "stop_times", "calendar", "calendar_dates"} {
		if _, err := transaction.ExecContext(ctx, "TRUNCATE "+table); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}

	if err := g.importAgencies(ctx, transaction); err != nil {
		return err
	}
	if err := g.importStops(ctx, transaction); err != nil {
		return err
	}
	if err := g.importRoutes(ctx, transaction); err != nil {
		return err
	}
	if err := g.importTrips(ctx, transaction); err != nil {
		return err
	}
	if err := g.importStopTimes(ctx, transaction); err != nil {
		return err
	}
	if err := g.importCalendars(ctx, transaction); err != nil {
		return err
	}
	if err := g.importCalendarDates(ctx, transaction); err != nil {
		return err
	}

	return transaction.Commit()
}

func (g *Schedule) importAgencies(ctx context.Context, transaction *sql.Tx) error {
	log.Info().Int("count", len(g.Agencies)).Msg("Importing agencies")

	inserter := newBatchInserter(transaction, "agencies", []string{"agency_id", "agency_name", "agency_url", "agency_timezone"})
	for _, agency := range g.Agencies {
		if err := inserter.Add(ctx, agency.ID, agency.Name, agency.URL, agency.Timezone); err != nil {
			return err
		}
	}
	return inserter.Flush(ctx)
}

func (g *Schedule) importStops(ctx context.Context, transaction *sql.Tx) error {
	log.Info().Int("count", len(g.Stops)).Msg("Importing stops")

	inserter := newBatchInserter(transaction, "stops", []string{"stop_id", "stop_code", "stop_name", "stop_desc", "city", "stop_lat", "stop_lon"})
	for _, stop := range g.Stops {
		err := inserter.Add(ctx, stop.ID, stop.Code, stop.Name, stop.Description, CityFromDescription(stop.Description), stop.Latitude, stop.Longitude)
		if err != nil {
			return err
		}
	}
	return inserter.Flush(ctx)
}

func (g *Schedule) importRoutes(ctx context.Context, transaction *sql.Tx) error {
	log.Info().Int("count", len(g.Routes)).Msg("Importing routes")

	inserter := newBatchInserter(transaction, "routes", []string{"route_id", "agency_id", "route_short_name", "route_long_name", "route_desc"})
	for _, route := range g.Routes {
		if err := inserter.Add(ctx, route.ID, route.AgencyID, route.ShortName, route.LongName, route.Description); err != nil {
			return err
		}
	}
	return inserter.Flush(ctx)
}

func (g *Schedule) importTrips(ctx context.Context, transaction *sql.Tx) error {
	log.Info().Int("count", len(g.Trips)).Msg("Importing trips")

	inserter := newBatchInserter(transaction, "trips", []string{"trip_id", "route_id", "service_id", "trip_headsign", "direction_id", "wheelchair_accessible"})
	for _, trip := range g.Trips {
		err := inserter.Add(ctx, trip.ID, trip.RouteID, trip.ServiceID, trip.Headsign, trip.DirectionID, trip.WheelchairAccessible == "1")
		if err != nil {
			return err
		}
	}
	return inserter.Flush(ctx)
}

func (g *Schedule) importStopTimes(ctx context.Context, transaction *sql.Tx) error {
	log.Info().Int("count", len(g.StopTimes)).Msg("Importing stop times")

	skipped := 0
	inserter := newBatchInserter(transaction, "stop_times", []string{"trip_id", "stop_id", "arrival_time", "departure_time", "stop_sequence"})
	for _, stopTime := range g.StopTimes {
		arrivalSeconds := util.ParseDaySeconds(stopTime.ArrivalTime)
		departureSeconds := util.ParseDaySeconds(stopTime.DepartureTime)
		if arrivalSeconds < 0 {
			skipped += 1
			continue
		}
		if departureSeconds < 0 {
			departureSeconds = arrivalSeconds
		}

		err := inserter.Add(ctx, stopTime.TripID, stopTime.StopID, arrivalSeconds, departureSeconds, stopTime.StopSequence)
		if err != nil {
			return err
		}
	}

	if skipped > 0 {
		log.Warn().Int("count", skipped).Msg("Skipped stop times with unparseable arrival times")
	}

	return inserter.Flush(ctx)
}

func (g *Schedule) importCalendars(ctx context.Context, transaction *sql.Tx) error {
	log.Info().Int("count", len(g.Calendars)).Msg("Importing calendars")

	inserter := newBatchInserter(transaction, "calendar", []string{"service_id", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday", "start_date", "end_date"})
	for _, calendar := range g.Calendars {
		startDate, err := parseGTFSDate(calendar.StartDate)
		if err != nil {
			log.Warn().Str("service", calendar.ServiceID).Str("date", calendar.StartDate).Msg("Skipping calendar with bad start date")
			continue
		}
		endDate, err := parseGTFSDate(calendar.EndDate)
		if err != nil {
			log.Warn().Str("service", calendar.ServiceID).Str("date", calendar.EndDate).Msg("Skipping calendar with bad end date")
			continue
		}

		err = inserter.Add(ctx,
			calendar.ServiceID,
			calendar.Monday == 1, calendar.Tuesday == 1, calendar.Wednesday == 1, calendar.Thursday == 1,
			calendar.Friday == 1, calendar.Saturday == 1, calendar.Sunday == 1,
			startDate, endDate,
		)
		if err != nil {
			return err
		}
	}
	return inserter.Flush(ctx)
}

func (g *Schedule) importCalendarDates(ctx context.Context, transaction *sql.Tx) error {
	log.Info().Int("count", len(g.CalendarDates)).Msg("Importing calendar dates")

	inserter := newBatchInserter(transaction, "calendar_dates", []string{"service_id", "date", "exception_type"})
	for _, calendarDate := range g.CalendarDates {
		date, err := parseGTFSDate(calendarDate.Date)
		if err != nil {
			log.Warn().Str("service", calendarDate.ServiceID).Str("date", calendarDate.Date).Msg("Skipping calendar date with bad date")
			continue
		}

		if err := inserter.Add(ctx, calendarDate.ServiceID, date, calendarDate.ExceptionType); err != nil {
			return err
		}
	}
	return inserter.Flush(ctx)
}

func parseGTFSDate(value string) (time.Time, error) {
	return time.Parse("20060102", value)
}

// CityFromDescription pulls the city name out of a stop description of the
// form "רחוב: ... עיר: ... רציף: ... קומה: ...". Feeds that use plain
// descriptions yield an empty city.
func CityFromDescription(description string) string {
	_, after, found := strings.Cut(description, "עיר:")
	if !found {
		return ""
	}

	if city, _, cut := strings.Cut(after, "רציף:"); cut {
		after = city
	}

	return strings.Trim(strings.TrimSpace(after), ", ")
}

// batchInserter accumulates rows and writes them as multi-row INSERT
// statements. Duplicate keys within a feed are dropped instead of failing
// the import.
type batchInserter struct {
	transaction *sql.Tx
	table       string
	columns     []string

	values []interface{}
	rows   int
}

func newBatchInserter(transaction *sql.Tx, table string, columns []string) *batchInserter {
	return &batchInserter{
		transaction: transaction,
		table:       table,
		columns:     columns,
	}
}

func (b *batchInserter) Add(ctx context.Context, values ...interface{}) error {
	if len(values) != len(b.columns) {
		return fmt.Errorf("insert into %s: expected %d values, got %d", b.table, len(b.columns), len(values))
	}

	b.values = append(b.values, values...)
	b.rows += 1

	if b.rows >= insertBatchSize {
		return b.Flush(ctx)
	}
	return nil
}

func (b *batchInserter) Flush(ctx context.Context) error {
	if b.rows == 0 {
		return nil
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "INSERT INTO %s (%s) VALUES ", b.table, strings.Join(b.columns, ", "))

	placeholder := 1
	for row := 0; row < b.rows; row++ {
		if row > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString("(")
		for column := range b.columns {
			if column > 0 {
				builder.WriteString(", ")
			}
			fmt.Fprintf(&builder, "$%d", placeholder)
			placeholder += 1
		}
		builder.WriteString(")")
	}
	builder.WriteString(" ON CONFLICT DO NOTHING")

	_, err := b.transaction.ExecContext(ctx, builder.String(), b.values...)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", b.table, err)
	}

	b.values = b.values[:0]
	b.rows = 0
	return nil
}
