package util

import (
	"strconv"
	"strings"
	"time"
)

// ParseDaySeconds parses a GTFS HH:MM:SS time of day into seconds since
// service-day midnight. Hours may be 24 or higher for trips running past
// midnight. Returns -1 for unparseable input.
func ParseDaySeconds(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return -1
	}

	parts := strings.Split(value, ":")
	if len(parts) < 2 {
		return -1
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return -1
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return -1
	}

	seconds := 0
	if len(parts) > 2 {
		seconds, err = strconv.Atoi(parts[2])
		if err != nil {
			return -1
		}
	}

	if hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 {
		return -1
	}

	return hours*3600 + minutes*60 + seconds
}

// ServiceDayStart returns midnight of the service day containing dateTime.
func ServiceDayStart(dateTime time.Time) time.Time {
	return time.Date(dateTime.Year(), dateTime.Month(), dateTime.Day(), 0, 0, 0, 0, dateTime.Location())
}

// OnServiceDay resolves seconds since service-day midnight against a concrete
// day into an absolute timestamp.
func OnServiceDay(serviceDay time.Time, daySeconds int) time.Time {
	return ServiceDayStart(serviceDay).Add(time.Duration(daySeconds) * time.Second)
}
