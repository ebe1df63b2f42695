package inktime

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PhotoRecord is one scored photo from the metadata store.
type PhotoRecord struct {
	Path string
	// Date is "YYYY-MM-DD" as found in the EXIF datetime.
	Date string
	// MonthDay is "MM-DD", the "on this day" grouping key.
	MonthDay string
	Caption  string
	// MemoryScore ranks significance; UnknownScore when absent.
	MemoryScore float64

	Latitude  *float64
	Longitude *float64
	City      string
}

// UnknownScore is the memory score given to photos that were never scored.
const UnknownScore = -1.0

// ParseExifDate extracts "YYYY-MM-DD" from the datetime field of an EXIF JSON
// payload. Both "YYYY:MM:DD hh:mm:ss" and "YYYY-MM-DD ..." are accepted.
func ParseExifDate(exifJSON string) (string, bool) {
	if exifJSON == "" {
		return "", false
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(exifJSON), &data); err != nil {
		return "", false
	}
	v, ok := data["datetime"]
	if !ok || v == nil {
		return "", false
	}
	s := fmt.Sprint(v)
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", false
	}
	parts := strings.Split(strings.ReplaceAll(fields[0], ":", "-"), "-")
	if len(parts) < 3 {
		return "", false
	}
	return parts[0] + "-" + parts[1] + "-" + parts[2], true
}

// dateFields splits a "YYYY-MM-DD" date into numbers.
func dateFields(date string) (y, m, d int, err error) {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("date %q: want 3 fields", date)
	}
	if y, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("year: %w", err)
	}
	if m, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("month: %w", err)
	}
	if d, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, fmt.Errorf("day: %w", err)
	}
	return y, m, d, nil
}

// newRecord builds a PhotoRecord, returning false when the row has no usable
// date or is a screenshot.
func newRecord(path, exifJSON, caption string, score *float64, lat, lon *float64, city string) (PhotoRecord, bool) {
	if strings.Contains(strings.ToLower(path), "screenshot") {
		return PhotoRecord{}, false
	}
	date, ok := ParseExifDate(exifJSON)
	if !ok {
		return PhotoRecord{}, false
	}
	_, m, d, err := dateFields(date)
	if err != nil || m < 1 || m > 12 || d < 1 || d > 31 {
		return PhotoRecord{}, false
	}

	r := PhotoRecord{
		Path:        path,
		Date:        date,
		MonthDay:    fmt.Sprintf("%02d-%02d", m, d),
		Caption:     caption,
		MemoryScore: UnknownScore,
		Latitude:    lat,
		Longitude:   lon,
		City:        city,
	}
	if score != nil {
		r.MemoryScore = *score
	}
	return r, true
}

// FormatDate renders "2019-03-05" as "2019.3.5". Dates it cannot parse are
// returned unchanged.
func FormatDate(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) < 3 {
		return date
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return date
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s.%d.%d", parts[0], m, d)
}

// FormatLocation prefers the city name, then coordinates to 5 decimals.
func FormatLocation(lat, lon *float64, city string) string {
	if c := strings.TrimSpace(city); c != "" {
		return c
	}
	if lat == nil || lon == nil {
		return ""
	}
	return fmt.Sprintf("%.5f, %.5f", *lat, *lon)
}
