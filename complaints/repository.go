// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package complaints

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jcodagnone/hotmap/hotspot"
	"github.com/jcodagnone/hotmap/spatial"
	"github.com/jcodagnone/hotmap/utils/textutils"
	"github.com/uber/h3-go/v4"
)

// LocationFilter narrows the complaints handed to the clustering engine.
type LocationFilter struct {
	District string
	Status   string
	Since    time.Time
	Until    time.Time
	Viewport *spatial.Viewport
	Cell     h3.Cell
	// Limit caps the number of complaints returned, most recent first.
	Limit int
}

// Progress summarises the store contents.
type Progress struct {
	Total              int            `json:"total"`
	WithDistrict       int            `json:"with_district"`
	DistrictPercentage float64        `json:"district_percentage"`
	ByStatus           map[string]int `json:"by_status"`
}

// ComplaintRepository handles persistence of complaints.
type ComplaintRepository interface {
	// CreateSchema creates the complaints table
	CreateSchema() error

	// SaveComplaint upserts a complaint
	SaveComplaint(ctx context.Context, complaint *hotspot.GeoPoint) error

	// BulkInsert upserts a slice of complaints in one transaction
	BulkInsert(ctx context.Context, complaints []hotspot.GeoPoint) error

	// ListLocations returns complaints matching the filter, most recent first
	ListLocations(ctx context.Context, filter LocationFilter) ([]hotspot.GeoPoint, error)

	// GetAllSorted returns every complaint sorted by seq and id
	GetAllSorted(ctx context.Context) ([]hotspot.GeoPoint, error)

	// ListMissingDistrict returns complaints without a district, up to limit (0 means all)
	ListMissingDistrict(ctx context.Context, limit int) ([]hotspot.GeoPoint, error)

	// UpdateAddress fills the address fields of a complaint that are still empty
	UpdateAddress(ctx context.Context, id string, address *Address) error

	// Count returns the total number of complaints
	Count(ctx context.Context) (int, error)

	// Progress returns store statistics
	Progress(ctx context.Context) (*Progress, error)

	// DB returns the underlying database connection
	DB() *sql.DB
}

type sqlComplaintRepository struct {
	db *sql.DB
}

// NewComplaintRepository creates a new complaint repository.
func NewComplaintRepository(db *sql.DB) ComplaintRepository {
	return &sqlComplaintRepository{db: db}
}

// DB returns the underlying database connection for advanced queries.
func (r *sqlComplaintRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlComplaintRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS complaints (
			id VARCHAR PRIMARY KEY,
			seq INTEGER NOT NULL,
			description TEXT NOT NULL,
			category VARCHAR NOT NULL,
			sub_category VARCHAR NOT NULL,
			status VARCHAR NOT NULL,
			urgency VARCHAR NOT NULL,
			submission_date TIMESTAMP NOT NULL,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			district VARCHAR,
			city VARCHAR,
			locality VARCHAR,
			pin VARCHAR,
			h3_res4 BIGINT,
			h3_res5 BIGINT,
			h3_res6 BIGINT,
			h3_res7 BIGINT,
			h3_res8 BIGINT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)

	return err
}

func (r *sqlComplaintRepository) SaveComplaint(ctx context.Context, complaint *hotspot.GeoPoint) error {
	if complaint == nil {
		return errors.New("complaint can't be nil")
	}

	return r.BulkInsert(ctx, []hotspot.GeoPoint{*complaint})
}

func nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}

	return *s
}

func (r *sqlComplaintRepository) BulkInsert(ctx context.Context, complaints []hotspot.GeoPoint) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = errors.Join(err, rErr)
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO complaints(
			id,
			seq,
			description,
			category,
			sub_category,
			status,
			urgency,
			submission_date,
			latitude,
			longitude,
			district,
			city,
			locality,
			pin,
			h3_res4,
			h3_res5,
			h3_res6,
			h3_res7,
			h3_res8,
			updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			seq = excluded.seq,
			description = excluded.description,
			category = excluded.category,
			sub_category = excluded.sub_category,
			status = excluded.status,
			urgency = excluded.urgency,
			submission_date = excluded.submission_date,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			district = excluded.district,
			city = excluded.city,
			locality = excluded.locality,
			pin = excluded.pin,
			h3_res4 = excluded.h3_res4,
			h3_res5 = excluded.h3_res5,
			h3_res6 = excluded.h3_res6,
			h3_res7 = excluded.h3_res7,
			h3_res8 = excluded.h3_res8,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()

	for _, c := range complaints {
		if err = c.Point().Validate(); err != nil {
			return fmt.Errorf("complaint %s: %w", c.ID, err)
		}

		cells, cErr := c.Point().Cells()
		if cErr != nil {
			return fmt.Errorf("indexing complaint %s: %w", c.ID, cErr)
		}

		args := []any{
			c.ID,
			c.Seq,
			c.Description,
			c.Category,
			c.SubCategory,
			c.Status,
			c.Urgency,
			c.SubmissionDate.UTC(),
			c.Latitude,
			c.Longitude,
			nullable(c.District),
			nullable(c.City),
			nullable(c.Locality),
			nullable(c.Pin),
		}
		for _, cell := range cells {
			args = append(args, cell)
		}

		args = append(args, now)

		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting complaint %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

const baseSelect = `
	SELECT id, seq, description, category, sub_category, status, urgency,
	       submission_date, latitude, longitude, district, city, locality, pin
	FROM complaints
`

func fromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}

	return &s.String
}

func (r *sqlComplaintRepository) list(ctx context.Context, query string, args []any) ([]hotspot.GeoPoint, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	complaints := make([]hotspot.GeoPoint, 0)

	for rows.Next() {
		var (
			c                             hotspot.GeoPoint
			district, city, locality, pin sql.NullString
		)

		err := rows.Scan(
			&c.ID, &c.Seq, &c.Description, &c.Category, &c.SubCategory,
			&c.Status, &c.Urgency, &c.SubmissionDate,
			&c.Latitude, &c.Longitude,
			&district, &city, &locality, &pin,
		)
		if err != nil {
			return nil, err
		}

		c.SubmissionDate = c.SubmissionDate.UTC()
		c.District = fromNull(district)
		c.City = fromNull(city)
		c.Locality = fromNull(locality)
		c.Pin = fromNull(pin)

		complaints = append(complaints, c)
	}

	return complaints, rows.Err()
}

// where builds the WHERE clause for a filter.
func (f *LocationFilter) where() (string, []any, error) {
	var (
		clauses []string
		args    []any
	)

	if f.District != "" {
		clauses = append(clauses, "strip_accents(lower(trim(district))) = ?")
		args = append(args, textutils.LowerASCIIFolding(f.District))
	}

	if f.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, strings.ToUpper(strings.TrimSpace(f.Status)))
	}

	if !f.Since.IsZero() {
		clauses = append(clauses, "submission_date >= ?")
		args = append(args, f.Since.UTC())
	}

	if !f.Until.IsZero() {
		clauses = append(clauses, "submission_date < ?")
		args = append(args, f.Until.UTC())
	}

	if vp := f.Viewport; vp != nil {
		clauses = append(clauses, "latitude BETWEEN ? AND ?")
		args = append(args, vp.South, vp.North)

		if vp.CrossesAntimeridian() {
			clauses = append(clauses, "(longitude >= ? OR longitude <= ?)")
		} else {
			clauses = append(clauses, "longitude BETWEEN ? AND ?")
		}

		args = append(args, vp.West, vp.East)
	}

	if f.Cell != 0 {
		res := f.Cell.Resolution()
		if res < spatial.MinCellResolution || res > spatial.MaxCellResolution {
			return "", nil, fmt.Errorf("unsupported h3 resolution %d", res)
		}

		clauses = append(clauses, fmt.Sprintf("h3_res%d = ?", res))
		args = append(args, int64(f.Cell))
	}

	if len(clauses) == 0 {
		return "", nil, nil
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func (r *sqlComplaintRepository) ListLocations(ctx context.Context, filter LocationFilter) ([]hotspot.GeoPoint, error) {
	where, args, err := filter.where()
	if err != nil {
		return nil, err
	}

	query := baseSelect + where + " ORDER BY submission_date DESC, id"

	if filter.Limit > 0 {
		query += " LIMIT ?"

		args = append(args, filter.Limit)
	}

	return r.list(ctx, query, args)
}

func (r *sqlComplaintRepository) GetAllSorted(ctx context.Context) ([]hotspot.GeoPoint, error) {
	return r.list(ctx, baseSelect+" ORDER BY seq, id", nil)
}

func (r *sqlComplaintRepository) ListMissingDistrict(ctx context.Context, limit int) ([]hotspot.GeoPoint, error) {
	query := baseSelect + " WHERE district IS NULL OR trim(district) = '' ORDER BY seq, id"

	var args []any
	if limit > 0 {
		query += " LIMIT ?"

		args = append(args, limit)
	}

	return r.list(ctx, query, args)
}

func (r *sqlComplaintRepository) UpdateAddress(ctx context.Context, id string, address *Address) error {
	if address == nil {
		return errors.New("address can't be nil")
	}

	field := func(s string) any {
		return nullable(&s)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE complaints
		SET district = CASE WHEN district IS NULL OR trim(district) = '' THEN ? ELSE district END,
		    city = COALESCE(city, ?),
		    locality = COALESCE(locality, ?),
		    pin = COALESCE(pin, ?),
		    updated_at = ?
		WHERE id = ?
	`,
		field(address.District),
		field(address.City),
		field(address.Locality),
		field(address.Pin),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating address of %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating address of %s: %w", id, err)
	}

	if affected == 0 {
		return fmt.Errorf("complaint %s not found", id)
	}

	return nil
}

func (r *sqlComplaintRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM complaints",
	).Scan(&count)

	return count, err
}

func (r *sqlComplaintRepository) Progress(ctx context.Context) (*Progress, error) {
	progress := &Progress{ByStatus: make(map[string]int)}

	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE district IS NOT NULL AND trim(district) != '')
		FROM complaints
	`).Scan(&progress.Total, &progress.WithDistrict)
	if err != nil {
		return nil, fmt.Errorf("counting complaints: %w", err)
	}

	if progress.Total > 0 {
		progress.DistrictPercentage = (float64(progress.WithDistrict) / float64(progress.Total)) * 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM complaints
		GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("counting complaints by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int
		)

		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}

		progress.ByStatus[status] = count
	}

	return progress, rows.Err()
}
