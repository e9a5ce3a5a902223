package dataimporter

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func writeTestArchive(t *testing.T) string {
	t.Helper()

	files := map[string]string{
		"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\n" +
			"5,Dan,http://www.dan.co.il,Asia/Jerusalem\n",
		"stops.txt": "stop_id,stop_code,stop_name,stop_desc,stop_lat,stop_lon,location_type,parent_station\n" +
			"s1,36601,Harbour Road, רחוב: הרצל 1 עיר: חיפה רציף: 2 ,32.794,34.989,0,\n",
		"routes.txt": "route_id,agency_id,route_short_name,route_long_name,route_desc,route_type\n" +
			"r1,5,18,Harbour-Central,10018-1-#,3\n",
		"trips.txt": "route_id,service_id,trip_id,trip_headsign,direction_id,wheelchair_accessible\n" +
			"r1,c1,t1,Central Station,1,1\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence,pickup_type,drop_off_type\n" +
			"t1,25:10:00,25:10:00,s1,4,0,0\n",
		"calendar.txt": "service_id,sunday,monday,tuesday,wednesday,thursday,friday,saturday,start_date,end_date\n" +
			"c1,1,1,1,1,1,0,0,20240101,20241231\n",
		"calendar_dates.txt": "service_id,date,exception_type\n" +
			"c1,20240415,2\n",
		"translations.txt": "trans_id,lang,translation\nfoo,EN,bar\n",
	}

	path := filepath.Join(t.TempDir(), "gtfs.zip")
	archiveFile, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	writer := zip.NewWriter(archiveFile)
	for name, contents := range files {
		entry, err := writer.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := entry.Write([]byte(contents)); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	if err := archiveFile.Close(); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestParseScheduleZip(t *testing.T) {
	schedule, err := ParseScheduleZip(writeTestArchive(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(schedule.Agencies) != 1 || schedule.Agencies[0].Name != "Dan" {
		t.Errorf("unexpected agencies %+v", schedule.Agencies)
	}
	if len(schedule.Stops) != 1 || schedule.Stops[0].Code != "36601" {
		t.Errorf("unexpected stops %+v", schedule.Stops)
	}
	if len(schedule.Routes) != 1 || schedule.Routes[0].ShortName != "18" {
		t.Errorf("unexpected routes %+v", schedule.Routes)
	}
	if len(schedule.Trips) != 1 || schedule.Trips[0].DirectionID != "1" {
		t.Errorf("unexpected trips %+v", schedule.Trips)
	}
	if len(schedule.StopTimes) != 1 || schedule.StopTimes[0].ArrivalTime != "25:10:00" {
		t.Errorf("unexpected stop times %+v", schedule.StopTimes)
	}
	if len(schedule.Calendars) != 1 || schedule.Calendars[0].Friday != 0 {
		t.Errorf("unexpected calendars %+v", schedule.Calendars)
	}
	if len(schedule.CalendarDates) != 1 || schedule.CalendarDates[0].ExceptionType != 2 {
		t.Errorf("unexpected calendar dates %+v", schedule.CalendarDates)
	}
}

func TestParseScheduleZipMissingArchive(t *testing.T) {
	if _, err := ParseScheduleZip(filepath.Join(t.TempDir(), "missing.zip")); err == nil {
		t.Error("expected an error for a missing archive")
	}
}

func TestCityFromDescription(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{" רחוב: הרצל 1 עיר: חיפה רציף: 2 ", "חיפה"},
		{"רחוב: יפו עיר: ירושלים", "ירושלים"},
		{"plain description", ""},
		{"", ""},
	}

	for _, c := range cases {
		if got := CityFromDescription(c.in); got != c.want {
			t.Errorf("CityFromDescription(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
