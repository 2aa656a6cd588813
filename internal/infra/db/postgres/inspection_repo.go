package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"

	domain "github.com/bryanwahyu/salvage-vision/internal/domain/inspection"
)

type InspectionRepository struct {
	db *sql.DB
}

func NewInspectionRepository(db *sql.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// InsertUser creates a new user-owned record. Every analysis by a signed-in
// user is a new historical row, so there is no conflict clause.
func (r *InspectionRepository) InsertUser(ctx context.Context, ins *domain.Inspection) (domain.InspectionID, error) {
	const q = `
INSERT INTO user_inspections
  (id, user_id, vehicle_url, vehicle_name, vin, thumbnail_url, image_urls, health_score, inspection_data, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING id;`

	data, err := json.Marshal(ins.Parts)
	if err != nil {
		return "", err
	}
	created := ins.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	var id string
	err = r.db.QueryRowContext(ctx, q,
		string(ins.ID), ins.UserID, ins.VehicleURL, ins.VehicleName, ins.VIN,
		ins.ThumbnailURL, pq.Array(ins.ImageURLs), ins.HealthScore, data, created,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return domain.InspectionID(id), nil
}

// UpsertDemo writes to the demo partition keyed on vehicle_url; re-analyzing
// the same listing replaces the previous record.
func (r *InspectionRepository) UpsertDemo(ctx context.Context, ins *domain.Inspection) (domain.InspectionID, error) {
	const q = `
INSERT INTO inspections
  (id, user_id, vehicle_url, vehicle_name, vin, thumbnail_url, image_urls, health_score, inspection_data, created_at)
VALUES ($1,NULL,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (vehicle_url) DO UPDATE SET
  vehicle_name = EXCLUDED.vehicle_name,
  vin = EXCLUDED.vin,
  thumbnail_url = EXCLUDED.thumbnail_url,
  image_urls = EXCLUDED.image_urls,
  health_score = EXCLUDED.health_score,
  inspection_data = EXCLUDED.inspection_data,
  created_at = EXCLUDED.created_at
RETURNING id;`

	data, err := json.Marshal(ins.Parts)
	if err != nil {
		return "", err
	}
	created := ins.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	var id string
	err = r.db.QueryRowContext(ctx, q,
		string(ins.ID), ins.VehicleURL, ins.VehicleName, ins.VIN,
		ins.ThumbnailURL, pq.Array(ins.ImageURLs), ins.HealthScore, data, created,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return domain.InspectionID(id), nil
}

// DemoHistory returns demo records newest first.
func (r *InspectionRepository) DemoHistory(ctx context.Context, limit int) ([]*domain.Inspection, error) {
	const q = `
SELECT id, vehicle_url, vehicle_name, vin, thumbnail_url, image_urls, health_score, inspection_data, created_at
FROM inspections
WHERE user_id IS NULL
ORDER BY created_at DESC
LIMIT $1;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInspections(rows, "", true)
}

// UserHistory returns a user's records newest first.
func (r *InspectionRepository) UserHistory(ctx context.Context, userID string, limit int) ([]*domain.Inspection, error) {
	const q = `
SELECT id, vehicle_url, vehicle_name, vin, thumbnail_url, image_urls, health_score, inspection_data, created_at
FROM user_inspections
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInspections(rows, userID, false)
}

// GetDemo looks up one demo record by id.
func (r *InspectionRepository) GetDemo(ctx context.Context, id domain.InspectionID) (*domain.Inspection, error) {
	const q = `
SELECT id, vehicle_url, vehicle_name, vin, thumbnail_url, image_urls, health_score, inspection_data, created_at
FROM inspections
WHERE id = $1 AND user_id IS NULL
LIMIT 1;`
	ins, err := scanOneInspection(r.db.QueryRowContext(ctx, q, string(id)), "", true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return ins, err
}

// GetUser looks up one record owned by the given user.
func (r *InspectionRepository) GetUser(ctx context.Context, userID string, id domain.InspectionID) (*domain.Inspection, error) {
	const q = `
SELECT id, vehicle_url, vehicle_name, vin, thumbnail_url, image_urls, health_score, inspection_data, created_at
FROM user_inspections
WHERE id = $1 AND user_id = $2
LIMIT 1;`
	ins, err := scanOneInspection(r.db.QueryRowContext(ctx, q, string(id), userID), userID, false)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return ins, err
}

// SaveFeedback upserts a per-part annotation.
func (r *InspectionRepository) SaveFeedback(ctx context.Context, fb *domain.Feedback) error {
	const q = `
INSERT INTO inspection_feedback
  (inspection_id, part_code, user_id, rating, comment, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (inspection_id, part_code, user_id) DO UPDATE SET
  rating = EXCLUDED.rating,
  comment = EXCLUDED.comment;`

	created := fb.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		string(fb.InspectionID), string(fb.PartCode), fb.UserID, fb.Rating, fb.Comment, created,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOneInspection(row rowScanner, userID string, isDemo bool) (*domain.Inspection, error) {
	var (
		ins     domain.Inspection
		urls    []string
		data    []byte
		created time.Time
	)
	if err := row.Scan(
		&ins.ID, &ins.VehicleURL, &ins.VehicleName, &ins.VIN, &ins.ThumbnailURL,
		pq.Array(&urls), &ins.HealthScore, &data, &created,
	); err != nil {
		return nil, err
	}
	ins.ImageURLs = urls
	ins.CreatedAt = created
	ins.UserID = userID
	ins.IsDemo = isDemo
	if len(data) > 0 {
		if err := json.Unmarshal(data, &ins.Parts); err != nil {
			// tolerate legacy rows with free-form analysis payloads
			ins.Parts = nil
		}
	}
	return &ins, nil
}

func scanInspections(rows *sql.Rows, userID string, isDemo bool) ([]*domain.Inspection, error) {
	var out []*domain.Inspection
	for rows.Next() {
		ins, err := scanOneInspection(rows, userID, isDemo)
		if err != nil {
			return nil, err
		}
		out = append(out, ins)
	}
	return out, rows.Err()
}
