package gps

import "strconv"

// Fix represents a single GPS fix logged alongside a motion recording.
type Fix struct {
	Time       string  `json:"time"`        // e.g. "12:34:56"
	Date       string  `json:"date"`        // e.g. "2026-08-30"
	Latitude   float64 `json:"lat"`         // decimal degrees
	Longitude  float64 `json:"lon"`         // decimal degrees
	SpeedKnots float64 `json:"speed_knots"` // speed over ground
	CourseDeg  float64 `json:"course_deg"`  // course over ground
	Validity   string  `json:"validity"`    // "A" (valid) / "V" (void)
}

// CSVHeader is the column row of the sidecar GPS log.
func CSVHeader() []string {
	return []string{"time", "date", "lat", "lon", "speed_knots", "course_deg", "validity"}
}

// CSVRecord renders the fix as one sidecar log row, columns matching
// CSVHeader.
func (f Fix) CSVRecord() []string {
	return []string{
		f.Time,
		f.Date,
		strconv.FormatFloat(f.Latitude, 'f', -1, 64),
		strconv.FormatFloat(f.Longitude, 'f', -1, 64),
		strconv.FormatFloat(f.SpeedKnots, 'f', -1, 64),
		strconv.FormatFloat(f.CourseDeg, 'f', -1, 64),
		f.Validity,
	}
}
