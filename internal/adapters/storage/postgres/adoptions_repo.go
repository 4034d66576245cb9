package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pet-adoption-hub/internal/domain/adoptions"
	"pet-adoption-hub/internal/ports/storage"
)

// AdoptionsRepo guarda cada solicitud como documento JSONB. Las columnas
// sueltas (pet_id, applicant_id, status) existen para filtrar e indexar.
type AdoptionsRepo struct {
	db *sql.DB
}

func NewAdoptionsRepo(db *sql.DB) *AdoptionsRepo {
	return &AdoptionsRepo{db: db}
}

func (r *AdoptionsRepo) Create(ctx context.Context, a adoptions.Application) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode application: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO adoptions (id, pet_id, applicant_id, shelter_id, status, submitted_at, doc, version)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		a.ID,
		a.PetID,
		a.ApplicantID,
		a.ShelterID,
		a.Status,
		a.SubmittedAt,
		doc,
		a.Version,
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	return err
}

func (r *AdoptionsRepo) Update(ctx context.Context, a adoptions.Application) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode application: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE adoptions
		SET status = $3, doc = $4, version = version + 1
		WHERE id = $1 AND version = $2
	`,
		a.ID,
		a.Version,
		a.Status,
		doc,
	)
	if err != nil {
		return err
	}
	return checkUpdated(ctx, r.db, res, "adoptions", a.ID)
}

func (r *AdoptionsRepo) GetByID(ctx context.Context, id string) (adoptions.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT doc, version FROM adoptions WHERE id = $1`, id)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return adoptions.Application{}, storage.ErrNotFound
	}
	return a, err
}

func (r *AdoptionsRepo) ListByPet(ctx context.Context, petID string) ([]adoptions.Application, error) {
	return r.list(ctx, `SELECT doc, version FROM adoptions WHERE pet_id = $1 ORDER BY submitted_at ASC`, petID)
}

func (r *AdoptionsRepo) ListByApplicant(ctx context.Context, applicantID string) ([]adoptions.Application, error) {
	return r.list(ctx, `SELECT doc, version FROM adoptions WHERE applicant_id = $1 ORDER BY submitted_at ASC`, applicantID)
}

func (r *AdoptionsRepo) list(ctx context.Context, q string, arg string) ([]adoptions.Application, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]adoptions.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanApplication(s scanner) (adoptions.Application, error) {
	var (
		doc     []byte
		version int
	)
	if err := s.Scan(&doc, &version); err != nil {
		return adoptions.Application{}, err
	}
	var a adoptions.Application
	if err := json.Unmarshal(doc, &a); err != nil {
		return adoptions.Application{}, fmt.Errorf("decode application: %w", err)
	}
	a.Version = version
	return a, nil
}
