package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pet-adoption-hub/internal/domain/shelters"
	"pet-adoption-hub/internal/ports/storage"
)

type SheltersRepo struct {
	db *sql.DB
}

func NewSheltersRepo(db *sql.DB) *SheltersRepo {
	return &SheltersRepo{db: db}
}

func (r *SheltersRepo) Create(ctx context.Context, s shelters.Shelter) error {
	counted, err := json.Marshal(nonNil(s.Stats.CountedApplications))
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO shelters (
			id, owner_user_id,
			name, email, phone, city, website,
			total_adoptions, counted_applications,
			created_at, updated_at, version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		s.ID,
		s.OwnerUserID,
		s.Name,
		s.Email,
		s.Phone,
		s.City,
		s.Website,
		s.Stats.TotalAdoptions,
		counted,
		s.CreatedAt,
		s.UpdatedAt,
		s.Version,
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	return err
}

func (r *SheltersRepo) Update(ctx context.Context, s shelters.Shelter) error {
	counted, err := json.Marshal(nonNil(s.Stats.CountedApplications))
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE shelters
		SET
			name = $3,
			email = $4,
			phone = $5,
			city = $6,
			website = $7,
			total_adoptions = $8,
			counted_applications = $9,
			updated_at = $10,
			version = version + 1
		WHERE id = $1 AND version = $2
	`,
		s.ID,
		s.Version,
		s.Name,
		s.Email,
		s.Phone,
		s.City,
		s.Website,
		s.Stats.TotalAdoptions,
		counted,
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return checkUpdated(ctx, r.db, res, "shelters", s.ID)
}

func (r *SheltersRepo) GetByID(ctx context.Context, id string) (shelters.Shelter, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id,
			name, email, phone, city, website,
			total_adoptions, counted_applications,
			created_at, updated_at, version
		FROM shelters
		WHERE id = $1
	`, id)

	var (
		s       shelters.Shelter
		counted []byte
	)
	if err := row.Scan(
		&s.ID,
		&s.OwnerUserID,
		&s.Name,
		&s.Email,
		&s.Phone,
		&s.City,
		&s.Website,
		&s.Stats.TotalAdoptions,
		&counted,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.Version,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return shelters.Shelter{}, storage.ErrNotFound
		}
		return shelters.Shelter{}, err
	}
	if len(counted) > 0 {
		if err := json.Unmarshal(counted, &s.Stats.CountedApplications); err != nil {
			return shelters.Shelter{}, fmt.Errorf("decode counted_applications: %w", err)
		}
	}
	return s, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
