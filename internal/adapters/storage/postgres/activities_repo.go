package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pet-adoption-hub/internal/domain/activities"
	"pet-adoption-hub/internal/ports/storage"
)

// ActivitiesRepo guarda cada actividad como documento JSONB.
type ActivitiesRepo struct {
	db *sql.DB
}

func NewActivitiesRepo(db *sql.DB) *ActivitiesRepo {
	return &ActivitiesRepo{db: db}
}

func (r *ActivitiesRepo) Create(ctx context.Context, a activities.Activity) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO activities (id, start_time, doc, version) VALUES ($1,$2,$3,$4)
	`, a.ID, a.StartTime, doc, a.Version)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	return err
}

func (r *ActivitiesRepo) Update(ctx context.Context, a activities.Activity) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE activities
		SET start_time = $3, doc = $4, version = version + 1
		WHERE id = $1 AND version = $2
	`, a.ID, a.Version, a.StartTime, doc)
	if err != nil {
		return err
	}
	return checkUpdated(ctx, r.db, res, "activities", a.ID)
}

func (r *ActivitiesRepo) GetByID(ctx context.Context, id string) (activities.Activity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT doc, version FROM activities WHERE id = $1`, id)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return activities.Activity{}, storage.ErrNotFound
	}
	return a, err
}

func (r *ActivitiesRepo) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]activities.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT doc, version FROM activities
		WHERE start_time > $1
		ORDER BY start_time ASC
		LIMIT $2
	`, from, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]activities.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanActivity(s scanner) (activities.Activity, error) {
	var (
		doc     []byte
		version int
	)
	if err := s.Scan(&doc, &version); err != nil {
		return activities.Activity{}, err
	}
	var a activities.Activity
	if err := json.Unmarshal(doc, &a); err != nil {
		return activities.Activity{}, fmt.Errorf("decode activity: %w", err)
	}
	a.Version = version
	return a, nil
}
