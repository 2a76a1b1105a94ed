package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/emberwatch/fireline/internal/models"
)

// ErrNotFound is returned when a fire ID has no stored perimeter.
var ErrNotFound = errors.New("perimeter not found")

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS perimeters (
			fire_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			year INTEGER NOT NULL,
			acres REAL NOT NULL,
			centroid_lat REAL NOT NULL,
			centroid_lon REAL NOT NULL,
			ignition DATETIME NOT NULL,
			containment DATETIME NOT NULL,
			duration_hours REAL NOT NULL,
			area_sq_km REAL NOT NULL,
			perimeter_km REAL NOT NULL,
			aspect_ratio REAL NOT NULL,
			compactness REAL NOT NULL,
			extents_km TEXT NOT NULL,
			dominant_bearing_deg REAL NOT NULL,
			growth_sq_km_per_hour REAL NOT NULL,
			spread_rate_kmh REAL NOT NULL,
			outer_ring TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_perimeters_name ON perimeters(name);
		CREATE INDEX IF NOT EXISTS idx_perimeters_year ON perimeters(year);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save upserts one processed perimeter keyed by fire ID. Reprocessing the
// same dataset is idempotent.
func (s *SQLiteStore) Save(ctx context.Context, p *models.ProcessedPerimeter) error {
	extents, err := json.Marshal(p.ExtentsKm)
	if err != nil {
		return fmt.Errorf("encode extents: %w", err)
	}
	ring, err := json.Marshal(p.Outer)
	if err != nil {
		return fmt.Errorf("encode outer ring: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO perimeters (
			fire_id, name, year, acres, centroid_lat, centroid_lon,
			ignition, containment, duration_hours, area_sq_km, perimeter_km,
			aspect_ratio, compactness, extents_km, dominant_bearing_deg,
			growth_sq_km_per_hour, spread_rate_kmh, outer_ring
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.FireID, p.Name, p.Year, p.Acres, p.Centroid.Latitude, p.Centroid.Longitude,
		p.Ignition, p.Containment, p.DurationHours, p.AreaSqKm, p.PerimeterKm,
		p.AspectRatio, p.Compactness, string(extents), p.DominantBearingDeg,
		p.GrowthSqKmPerHour, p.SpreadRateKmh, string(ring),
	)
	if err != nil {
		return fmt.Errorf("save perimeter %s: %w", p.FireID, err)
	}
	return nil
}

func (s *SQLiteStore) GetByFireID(ctx context.Context, fireID string) (*models.ProcessedPerimeter, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM perimeters WHERE fire_id = ?`, fireID)
	p, err := scanPerimeter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get perimeter %s: %w", fireID, err)
	}
	return p, nil
}

func (s *SQLiteStore) List(ctx context.Context, opts Filter) ([]models.ProcessedPerimeter, error) {
	query := selectColumns + ` FROM perimeters`
	var conds []string
	var args []any

	if opts.Name != "" {
		conds = append(conds, `UPPER(name) LIKE ?`)
		args = append(args, "%"+strings.ToUpper(opts.Name)+"%")
	}
	if opts.Year != nil {
		conds = append(conds, `year = ?`)
		args = append(args, *opts.Year)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY year DESC, name"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list perimeters: %w", err)
	}
	defer rows.Close()

	var out []models.ProcessedPerimeter
	for rows.Next() {
		p, err := scanPerimeter(rows)
		if err != nil {
			return nil, fmt.Errorf("list perimeters: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

const selectColumns = `SELECT fire_id, name, year, acres, centroid_lat, centroid_lon,
	ignition, containment, duration_hours, area_sq_km, perimeter_km,
	aspect_ratio, compactness, extents_km, dominant_bearing_deg,
	growth_sq_km_per_hour, spread_rate_kmh, outer_ring`

type scannable interface {
	Scan(dest ...any) error
}

func scanPerimeter(row scannable) (*models.ProcessedPerimeter, error) {
	var p models.ProcessedPerimeter
	var ignition, containment time.Time
	var extents, ring string

	err := row.Scan(
		&p.FireID, &p.Name, &p.Year, &p.Acres, &p.Centroid.Latitude, &p.Centroid.Longitude,
		&ignition, &containment, &p.DurationHours, &p.AreaSqKm, &p.PerimeterKm,
		&p.AspectRatio, &p.Compactness, &extents, &p.DominantBearingDeg,
		&p.GrowthSqKmPerHour, &p.SpreadRateKmh, &ring,
	)
	if err != nil {
		return nil, err
	}

	p.Ignition = ignition
	p.Containment = containment
	if err := json.Unmarshal([]byte(extents), &p.ExtentsKm); err != nil {
		return nil, fmt.Errorf("decode extents: %w", err)
	}
	if err := json.Unmarshal([]byte(ring), &p.Outer); err != nil {
		return nil, fmt.Errorf("decode outer ring: %w", err)
	}
	return &p, nil
}
