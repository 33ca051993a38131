package db

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/waterfall.report/internal/multibeam/navigation"
	"github.com/banshee-data/waterfall.report/internal/multibeam/survey"
)

// ErrSurveyNotFound is returned when a survey id is not in the catalogue.
var ErrSurveyNotFound = errors.New("survey not found")

// Survey is one catalogued run.
type Survey struct {
	ID                string
	Name              string
	Created           time.Time
	XResolution       float64
	YResolution       float64
	TotalRecords      int
	Pings             int
	BeamCount         int
	MinDepth          *float64
	MaxDepth          *float64
	Distance          float64
	PositioningSystem string
	OriginLat         *float64
	OriginLon         *float64
}

// RecordSurvey stores s and its track in one transaction. A new id is
// assigned when s.ID is empty, and Created defaults to now. It returns the
// stored id.
func (db *DB) RecordSurvey(s Survey, track []navigation.Sample) (string, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Created.IsZero() {
		s.Created = time.Now()
	}

	tx, err := db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO surveys (
			survey_id, name, created_unix, x_resolution, y_resolution,
			total_records, pings, beam_count, min_depth, max_depth,
			distance_m, positioning_system, origin_lat, origin_lon
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Created.Unix(), finite(s.XResolution), finite(s.YResolution),
		s.TotalRecords, s.Pings, s.BeamCount, s.MinDepth, s.MaxDepth,
		s.Distance, s.PositioningSystem, s.OriginLat, s.OriginLon,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert survey %s: %w", s.ID, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO track_points (
			survey_id, seq, time_unix, latitude, longitude, east_m, north_m, heading
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()
	for _, p := range track {
		var heading *float64
		if p.HasHeading {
			h := p.Heading
			heading = &h
		}
		if _, err := stmt.Exec(s.ID, p.Sequence, unixSeconds(p.Time), p.Latitude, p.Longitude, p.East, p.North, heading); err != nil {
			return "", fmt.Errorf("failed to insert track point %d: %w", p.Sequence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return s.ID, nil
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func unixSeconds(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.UnixNano()) / 1e9
}

func fromUnixSeconds(s float64) time.Time {
	if s == 0 {
		return time.Time{}
	}
	sec, frac := math.Modf(s)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC()
}

const surveyColumns = `survey_id, name, created_unix, x_resolution, y_resolution,
	total_records, pings, beam_count, min_depth, max_depth,
	distance_m, positioning_system, origin_lat, origin_lon`

func scanSurvey(row interface{ Scan(...any) error }) (Survey, error) {
	var (
		s       Survey
		created int64
	)
	err := row.Scan(&s.ID, &s.Name, &created, &s.XResolution, &s.YResolution,
		&s.TotalRecords, &s.Pings, &s.BeamCount, &s.MinDepth, &s.MaxDepth,
		&s.Distance, &s.PositioningSystem, &s.OriginLat, &s.OriginLon)
	if err != nil {
		return Survey{}, err
	}
	s.Created = time.Unix(created, 0).UTC()
	return s, nil
}

// Surveys lists catalogued runs, newest first.
func (db *DB) Surveys() ([]Survey, error) {
	rows, err := db.Query(`SELECT ` + surveyColumns + ` FROM surveys ORDER BY created_unix DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Survey
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSurvey returns the survey with the given id.
func (db *DB) GetSurvey(id string) (Survey, error) {
	s, err := scanSurvey(db.QueryRow(`SELECT `+surveyColumns+` FROM surveys WHERE survey_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Survey{}, fmt.Errorf("%w: %s", ErrSurveyNotFound, id)
	}
	return s, err
}

// Track returns the navigation track of a survey in sequence order.
func (db *DB) Track(id string) ([]navigation.Sample, error) {
	if _, err := db.GetSurvey(id); err != nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT seq, time_unix, latitude, longitude, east_m, north_m, heading
		FROM track_points WHERE survey_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []navigation.Sample
	for rows.Next() {
		var (
			p       navigation.Sample
			t       float64
			heading sql.NullFloat64
		)
		if err := rows.Scan(&p.Sequence, &t, &p.Latitude, &p.Longitude, &p.East, &p.North, &heading); err != nil {
			return nil, err
		}
		p.Time = fromUnixSeconds(t)
		p.Heading, p.HasHeading = heading.Float64, heading.Valid
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteSurvey removes a survey and its track.
func (db *DB) DeleteSurvey(id string) error {
	res, err := db.Exec(`DELETE FROM surveys WHERE survey_id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSurveyNotFound, id)
	}
	return nil
}

// SurveyFrom builds the catalogue entry and track for a completed run.
func SurveyFrom(sv *survey.Survey) (Survey, []navigation.Sample) {
	stats := sv.Stats()
	ext := sv.Extents()
	s := Survey{
		Name:              sv.Name(),
		XResolution:       stats.XResolution,
		YResolution:       stats.YResolution,
		TotalRecords:      stats.TotalRecords,
		Pings:             sv.Waterfall().Len(),
		BeamCount:         ext.BeamCount,
		Distance:          sv.Distance(),
		PositioningSystem: sv.PositioningSystem(),
	}
	if ext.Pings > 0 {
		lo, hi := ext.DepthRange()
		s.MinDepth, s.MaxDepth = &lo, &hi
	}
	if origin, ok := sv.Origin(); ok {
		s.OriginLat, s.OriginLon = &origin.Lat, &origin.Lon
	}
	return s, sv.Track().Samples()
}
