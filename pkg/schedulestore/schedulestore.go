package schedulestore

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/nextride/nextride/pkg/transit"
	"github.com/nextride/nextride/pkg/util"

	iso8601 "github.com/senseyeio/duration"
)

// Store provides read-only access to the relational static schedule. The
// schedule is populated by the data importer and assumed consistent - the
// store never writes.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetStop(ctx context.Context, stopCode string) (*transit.Stop, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT stop_id, stop_code, stop_name, COALESCE(stop_desc, ''), COALESCE(city, ''), stop_lat, stop_lon
		FROM stops
		WHERE stop_code = $1
		LIMIT 1`, stopCode)

	var stop transit.Stop
	var location transit.Location
	err := row.Scan(&stop.ID, &stop.Code, &stop.Name, &stop.Description, &stop.City, &location.Latitude, &location.Longitude)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, transit.ErrStopNotFound
	}
	if err != nil {
		return nil, &transit.StoreUnavailableError{Err: err}
	}

	stop.Location = &location

	return &stop, nil
}

// FindCandidates returns the (StopTime, Trip, Route, Stop) tuples whose
// scheduled arrival falls within [asOf, asOf+window], ascending by scheduled
// time. Because GTFS times can run past 24:00:00 the previous service day is
// always considered as well, and when the window crosses midnight so is the
// next one.
func (s *Store) FindCandidates(ctx context.Context, stopCode string, asOf time.Time, window time.Duration) ([]transit.ScheduleCandidate, error) {
	if _, err := s.GetStop(ctx, stopCode); err != nil {
		return nil, err
	}

	var candidates []transit.ScheduleCandidate

	for _, serviceDay := range lookupServiceDays(asOf, window) {
		dayCandidates, err := s.findCandidatesOnServiceDay(ctx, stopCode, serviceDay, asOf, window)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, dayCandidates...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ScheduledAt.Before(candidates[j].ScheduledAt)
	})

	return candidates, nil
}

// lookupServiceDays picks the service days whose trips can arrive within the
// window: the previous day (over-midnight trips), the current one, and the
// next one when the window itself crosses midnight.
func lookupServiceDays(asOf time.Time, window time.Duration) []time.Time {
	today := util.ServiceDayStart(asOf)

	days := []time.Time{today.AddDate(0, 0, -1), today}

	nextDayShift, _ := iso8601.ParseISO8601("P1D")
	tomorrow := util.ServiceDayStart(nextDayShift.Shift(today))
	if asOf.Add(window).After(tomorrow) || asOf.Add(window).Equal(tomorrow) {
		days = append(days, tomorrow)
	}

	return days
}

func (s *Store) findCandidatesOnServiceDay(ctx context.Context, stopCode string, serviceDay time.Time, asOf time.Time, window time.Duration) ([]transit.ScheduleCandidate, error) {
	serviceIDs, err := s.activeServiceIDs(ctx, serviceDay)
	if err != nil {
		return nil, err
	}
	if len(serviceIDs) == 0 {
		return nil, nil
	}

	// Window bounds expressed as seconds since this service day's midnight.
	dayStart := util.ServiceDayStart(serviceDay)
	lowSeconds := int(asOf.Sub(dayStart) / time.Second)
	highSeconds := lowSeconds + int(window/time.Second)

	if highSeconds < 0 {
		return nil, nil
	}
	if lowSeconds < 0 {
		lowSeconds = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT st.trip_id, st.stop_id, st.arrival_time, st.departure_time, st.stop_sequence,
		       t.route_id, t.service_id, COALESCE(t.trip_headsign, ''), COALESCE(t.direction_id, ''), t.wheelchair_accessible,
		       r.agency_id, r.route_short_name, COALESCE(r.route_long_name, ''), COALESCE(r.route_desc, ''),
		       s.stop_id, s.stop_code, s.stop_name, COALESCE(s.city, ''), s.stop_lat, s.stop_lon
		FROM stop_times st
		JOIN trips t ON t.trip_id = st.trip_id
		JOIN routes r ON r.route_id = t.route_id
		JOIN stops s ON s.stop_id = st.stop_id
		WHERE s.stop_code = $1
		  AND t.service_id = ANY($2)
		  AND st.arrival_time >= $3
		  AND st.arrival_time <= $4
		ORDER BY st.arrival_time ASC`,
		stopCode, serviceIDs, lowSeconds, highSeconds)
	if err != nil {
		return nil, &transit.StoreUnavailableError{Err: err}
	}
	defer rows.Close()

	var candidates []transit.ScheduleCandidate
	for rows.Next() {
		var candidate transit.ScheduleCandidate
		var location transit.Location

		err := rows.Scan(
			&candidate.StopTime.TripID, &candidate.StopTime.StopID, &candidate.StopTime.ArrivalSeconds, &candidate.StopTime.DepartureSeconds, &candidate.StopTime.Sequence,
			&candidate.Trip.RouteID, &candidate.Trip.ServiceID, &candidate.Trip.Headsign, &candidate.Trip.DirectionRef, &candidate.Trip.WheelchairAccessible,
			&candidate.Route.OperatorRef, &candidate.Route.LineName, &candidate.Route.LongName, &candidate.Route.Description,
			&candidate.Stop.ID, &candidate.Stop.Code, &candidate.Stop.Name, &candidate.Stop.City, &location.Latitude, &location.Longitude,
		)
		if err != nil {
			return nil, &transit.StoreUnavailableError{Err: err}
		}

		candidate.Trip.ID = candidate.StopTime.TripID
		candidate.Route.ID = candidate.Trip.RouteID
		candidate.Stop.Location = &location
		candidate.ScheduledAt = util.OnServiceDay(serviceDay, candidate.StopTime.ArrivalSeconds)

		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, &transit.StoreUnavailableError{Err: err}
	}

	return candidates, nil
}

// RouteSetForStop returns every line known to call at the stop on any service
// day, used to distinguish unscheduled live arrivals from entirely unknown
// lines.
func (s *Store) RouteSetForStop(ctx context.Context, stopCode string) (transit.RouteSet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT r.agency_id, r.route_short_name
		FROM stop_times st
		JOIN stops s ON s.stop_id = st.stop_id
		JOIN trips t ON t.trip_id = st.trip_id
		JOIN routes r ON r.route_id = t.route_id
		WHERE s.stop_code = $1`, stopCode)
	if err != nil {
		return nil, &transit.StoreUnavailableError{Err: err}
	}
	defer rows.Close()

	routeSet := transit.RouteSet{}
	for rows.Next() {
		var line transit.RouteLine
		if err := rows.Scan(&line.OperatorRef, &line.LineName); err != nil {
			return nil, &transit.StoreUnavailableError{Err: err}
		}
		routeSet[line] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, &transit.StoreUnavailableError{Err: err}
	}

	return routeSet, nil
}

// FindTripsForRoute supports route-centric queries. directionRef narrows the
// result to one alternative when non-empty.
func (s *Store) FindTripsForRoute(ctx context.Context, operatorRef string, lineName string, directionRef string) ([]transit.Trip, error) {
	query := `
		SELECT t.trip_id, t.route_id, t.service_id, COALESCE(t.trip_headsign, ''), COALESCE(t.direction_id, ''), t.wheelchair_accessible
		FROM trips t
		JOIN routes r ON r.route_id = t.route_id
		WHERE r.agency_id = $1 AND r.route_short_name = $2`
	args := []any{operatorRef, lineName}

	if directionRef != "" {
		query += ` AND t.direction_id = $3`
		args = append(args, directionRef)
	}
	query += ` ORDER BY t.trip_id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &transit.StoreUnavailableError{Err: err}
	}
	defer rows.Close()

	var trips []transit.Trip
	for rows.Next() {
		var trip transit.Trip
		err := rows.Scan(&trip.ID, &trip.RouteID, &trip.ServiceID, &trip.Headsign, &trip.DirectionRef, &trip.WheelchairAccessible)
		if err != nil {
			return nil, &transit.StoreUnavailableError{Err: err}
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, &transit.StoreUnavailableError{Err: err}
	}

	if len(trips) == 0 {
		return nil, transit.ErrRouteNotFound
	}

	return trips, nil
}

// StopIDsForCode maps a public stop code to its internal stop identifiers.
// Feeds occasionally reuse one code across platform child stops.
func (s *Store) StopIDsForCode(ctx context.Context, stopCode string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT stop_id FROM stops WHERE stop_code = $1`, stopCode)
	if err != nil {
		return nil, &transit.StoreUnavailableError{Err: err}
	}
	defer rows.Close()

	var stopIDs []string
	for rows.Next() {
		var stopID string
		if err := rows.Scan(&stopID); err != nil {
			return nil, &transit.StoreUnavailableError{Err: err}
		}
		stopIDs = append(stopIDs, stopID)
	}
	if err := rows.Err(); err != nil {
		return nil, &transit.StoreUnavailableError{Err: err}
	}

	stopIDs = util.RemoveDuplicateStrings(stopIDs, nil)
	if len(stopIDs) == 0 {
		return nil, transit.ErrStopNotFound
	}

	return stopIDs, nil
}

func (s *Store) RouteForTrip(ctx context.Context, tripID string) (*transit.Route, *transit.Trip, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT r.route_id, r.agency_id, r.route_short_name, COALESCE(r.route_long_name, ''), COALESCE(r.route_desc, ''),
		       t.trip_id, t.service_id, COALESCE(t.trip_headsign, ''), COALESCE(t.direction_id, ''), t.wheelchair_accessible
		FROM trips t
		JOIN routes r ON r.route_id = t.route_id
		WHERE t.trip_id = $1
		LIMIT 1`, tripID)

	var route transit.Route
	var trip transit.Trip
	err := row.Scan(
		&route.ID, &route.OperatorRef, &route.LineName, &route.LongName, &route.Description,
		&trip.ID, &trip.ServiceID, &trip.Headsign, &trip.DirectionRef, &trip.WheelchairAccessible,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, transit.ErrRouteNotFound
	}
	if err != nil {
		return nil, nil, &transit.StoreUnavailableError{Err: err}
	}

	trip.RouteID = route.ID

	return &route, &trip, nil
}

func (s *Store) activeServiceIDs(ctx context.Context, serviceDay time.Time) ([]string, error) {
	date := serviceDay.Format("2006-01-02")
	weekday := int(serviceDay.Weekday()) // 0 = Sunday

	rows, err := s.db.QueryContext(ctx, `
		WITH base AS (
			SELECT service_id FROM calendar
			WHERE start_date <= $1::date AND end_date >= $1::date
			  AND (
			    ($2 = 0 AND sunday) OR
			    ($2 = 1 AND monday) OR
			    ($2 = 2 AND tuesday) OR
			    ($2 = 3 AND wednesday) OR
			    ($2 = 4 AND thursday) OR
			    ($2 = 5 AND friday) OR
			    ($2 = 6 AND saturday)
			  )
		), added AS (
			SELECT service_id FROM calendar_dates WHERE date = $1::date AND exception_type = 1
		), removed AS (
			SELECT service_id FROM calendar_dates WHERE date = $1::date AND exception_type = 2
		)
		SELECT DISTINCT service_id FROM (
			SELECT service_id FROM base
			UNION
			SELECT service_id FROM added
		) merged
		WHERE service_id NOT IN (SELECT service_id FROM removed)`,
		date, weekday)
	if err != nil {
		return nil, &transit.StoreUnavailableError{Err: err}
	}
	defer rows.Close()

	var serviceIDs []string
	for rows.Next() {
		var serviceID string
		if err := rows.Scan(&serviceID); err != nil {
			return nil, &transit.StoreUnavailableError{Err: err}
		}
		serviceIDs = append(serviceIDs, serviceID)
	}
	if err := rows.Err(); err != nil {
		return nil, &transit.StoreUnavailableError{Err: err}
	}

	return serviceIDs, nil
}
