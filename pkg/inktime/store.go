package inktime

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"

	"k8s.io/klog/v2"
	_ "modernc.org/sqlite"
)

var recordQuery = `
	SELECT path, exif_json, side_caption, memory_score, exif_gps_lat, exif_gps_lon, exif_city
	FROM photo_scores
	WHERE exif_json IS NOT NULL`

// LoadRecords reads every dated, non-screenshot photo from the metadata store
// at dbPath. The store is opened read-only and must already exist.
func LoadRecords(dbPath string) ([]PhotoRecord, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("metadata store: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+(&url.URL{Path: dbPath}).EscapedPath()+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(recordQuery)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	found := []PhotoRecord{}
	skipped := 0
	for rows.Next() {
		var (
			path     string
			exifJSON sql.NullString
			caption  sql.NullString
			score    sql.NullFloat64
			lat, lon sql.NullFloat64
			city     sql.NullString
		)
		if err := rows.Scan(&path, &exifJSON, &caption, &score, &lat, &lon, &city); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		r, ok := newRecord(path, exifJSON.String, caption.String, nullFloat(score), nullFloat(lat), nullFloat(lon), city.String)
		if !ok {
			klog.V(2).Infof("skipping %s: screenshot or no usable date", path)
			skipped++
			continue
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	klog.V(1).Infof("loaded %d records from %s (%d skipped)", len(found), dbPath, skipped)
	return found, nil
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
