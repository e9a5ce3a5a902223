package dataimporter

import (
	"archive/zip"
	"encoding/csv"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

type Schedule struct {
	Agencies      []Agency
	Stops         []Stop
	Routes        []Route
	Trips         []Trip
	StopTimes     []StopTime
	Calendars     []Calendar
	CalendarDates []CalendarDate
}

func ParseScheduleZip(path string) (*Schedule, error) {
	// Allow us to ignore those naughty records that have missing columns
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		return r
	})

	schedule := &Schedule{}

	fileMap := map[string]interface{}{
		"agency.txt":         &schedule.Agencies,
		"stops.txt":          &schedule.Stops,
		"routes.txt":         &schedule.Routes,
		"trips.txt":          &schedule.Trips,
		"stop_times.txt":     &schedule.StopTimes,
		"calendar.txt":       &schedule.Calendars,
		"calendar_dates.txt": &schedule.CalendarDates,
	}

	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	for _, zipFile := range archive.File {
		destination, exists := fileMap[zipFile.Name]
		if !exists {
			log.Debug().Str("file", zipFile.Name).Msg("Skipping unknown gtfs file")
			continue
		}

		log.Info().Str("file", zipFile.Name).Msg("Loading file")

		fileReader, err := zipFile.Open()
		if err != nil {
			return nil, err
		}

		err = gocsv.Unmarshal(fileReader, destination)
		fileReader.Close()
		if err != nil {
			log.Error().Str("file", zipFile.Name).Err(err).Msg("Failed to parse csv file")
			return nil, err
		}
	}

	return schedule, nil
}
