package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	domain "github.com/bryanwahyu/salvage-vision/internal/domain/inspection"
)

// InspectionRepository is the MySQL mirror of the Postgres repository.
// image_urls and inspection_data are stored as JSON columns.
type InspectionRepository struct {
	db *sql.DB
}

func NewInspectionRepository(db *sql.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

func (r *InspectionRepository) InsertUser(ctx context.Context, ins *domain.Inspection) (domain.InspectionID, error) {
	const q = `
INSERT INTO user_inspections
  (id, user_id, vehicle_url, vehicle_name, vin, thumbnail_url, image_urls, health_score, inspection_data, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?);`

	urls, data, err := marshalPayload(ins)
	if err != nil {
		return "", err
	}
	created := ins.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = r.db.ExecContext(ctx, q,
		string(ins.ID), ins.UserID, ins.VehicleURL, ins.VehicleName, ins.VIN,
		ins.ThumbnailURL, urls, ins.HealthScore, data, created,
	)
	if err != nil {
		return "", err
	}
	return ins.ID, nil
}

func (r *InspectionRepository) UpsertDemo(ctx context.Context, ins *domain.Inspection) (domain.InspectionID, error) {
	const q = `
INSERT INTO inspections
  (id, user_id, vehicle_url, vehicle_name, vin, thumbnail_url, image_urls, health_score, inspection_data, created_at)
VALUES (?,NULL,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  vehicle_name=VALUES(vehicle_name), vin=VALUES(vin), thumbnail_url=VALUES(thumbnail_url),
  image_urls=VALUES(image_urls), health_score=VALUES(health_score),
  inspection_data=VALUES(inspection_data), created_at=VALUES(created_at);`

	urls, data, err := marshalPayload(ins)
	if err != nil {
		return "", err
	}
	created := ins.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	if _, err := r.db.ExecContext(ctx, q,
		string(ins.ID), ins.VehicleURL, ins.VehicleName, ins.VIN,
		ins.ThumbnailURL, urls, ins.HealthScore, data, created,
	); err != nil {
		return "", err
	}

	// on conflict the surviving row keeps its original id
	var id string
	if err := r.db.QueryRowContext(ctx,
		`SELECT id FROM inspections WHERE vehicle_url = ? LIMIT 1;`, ins.VehicleURL,
	).Scan(&id); err != nil {
		return "", err
	}
	return domain.InspectionID(id), nil
}

func (r *InspectionRepository) DemoHistory(ctx context.Context, limit int) ([]*domain.Inspection, error) {
	const q = `
SELECT id, vehicle_url, vehicle_name, vin, thumbnail_url, image_urls, health_score, inspection_data, created_at
FROM inspections
WHERE user_id IS NULL
ORDER BY created_at DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInspections(rows, "", true)
}

func (r *InspectionRepository) UserHistory(ctx context.Context, userID string, limit int) ([]*domain.Inspection, error) {
	const q = `
SELECT id, vehicle_url, vehicle_name, vin, thumbnail_url, image_urls, health_score, inspection_data, created_at
FROM user_inspections
WHERE user_id = ?
ORDER BY created_at DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInspections(rows, userID, false)
}

func (r *InspectionRepository) GetDemo(ctx context.Context, id domain.InspectionID) (*domain.Inspection, error) {
	const q = `
SELECT id, vehicle_url, vehicle_name, vin, thumbnail_url, image_urls, health_score, inspection_data, created_at
FROM inspections
WHERE id = ? AND user_id IS NULL
LIMIT 1;`
	ins, err := scanOneInspection(r.db.QueryRowContext(ctx, q, string(id)), "", true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return ins, err
}

func (r *InspectionRepository) GetUser(ctx context.Context, userID string, id domain.InspectionID) (*domain.Inspection, error) {
	const q = `
SELECT id, vehicle_url, vehicle_name, vin, thumbnail_url, image_urls, health_score, inspection_data, created_at
FROM user_inspections
WHERE id = ? AND user_id = ?
LIMIT 1;`
	ins, err := scanOneInspection(r.db.QueryRowContext(ctx, q, string(id), userID), userID, false)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return ins, err
}

func (r *InspectionRepository) SaveFeedback(ctx context.Context, fb *domain.Feedback) error {
	const q = `
INSERT INTO inspection_feedback
  (inspection_id, part_code, user_id, rating, comment, created_at)
VALUES (?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  rating=VALUES(rating), comment=VALUES(comment);`

	created := fb.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		string(fb.InspectionID), string(fb.PartCode), fb.UserID, fb.Rating, fb.Comment, created,
	)
	return err
}

func marshalPayload(ins *domain.Inspection) ([]byte, []byte, error) {
	urls, err := json.Marshal(ins.ImageURLs)
	if err != nil {
		return nil, nil, err
	}
	data, err := json.Marshal(ins.Parts)
	if err != nil {
		return nil, nil, err
	}
	return urls, data, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOneInspection(row rowScanner, userID string, isDemo bool) (*domain.Inspection, error) {
	var (
		ins     domain.Inspection
		urls    []byte
		data    []byte
		created time.Time
	)
	if err := row.Scan(
		&ins.ID, &ins.VehicleURL, &ins.VehicleName, &ins.VIN, &ins.ThumbnailURL,
		&urls, &ins.HealthScore, &data, &created,
	); err != nil {
		return nil, err
	}
	ins.CreatedAt = created
	ins.UserID = userID
	ins.IsDemo = isDemo
	if len(urls) > 0 {
		_ = json.Unmarshal(urls, &ins.ImageURLs)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &ins.Parts); err != nil {
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
