package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-adoption-hub/internal/domain/pets"
	"pet-adoption-hub/internal/ports/storage"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, shelter_id,
	name, species, breed, sex,
	birth_date, description,
	adoption_fee, adoption_status, adoption_date, adoption_history,
	created_at, updated_at, version`

// historyRow es el formato JSONB de adoption_history.
type historyRow struct {
	ApplicationID string     `json:"application_id"`
	AdopterID     string     `json:"adopter_id"`
	AdoptedAt     time.Time  `json:"adopted_at"`
	ReturnedAt    *time.Time `json:"returned_at,omitempty"`
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	history, err := encodeHistory(p.AdoptionHistory)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		p.ID,
		p.ShelterID,
		p.Name,
		p.Species,
		p.Breed,
		p.Sex,
		toNullDate(p.BirthDate),
		p.Description,
		p.AdoptionFee,
		p.AdoptionStatus,
		toNullDate(p.AdoptionDate),
		history,
		p.CreatedAt,
		p.UpdatedAt,
		p.Version,
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	history, err := encodeHistory(p.AdoptionHistory)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $3,
			species = $4,
			breed = $5,
			sex = $6,
			birth_date = $7,
			description = $8,
			adoption_fee = $9,
			adoption_status = $10,
			adoption_date = $11,
			adoption_history = $12,
			updated_at = $13,
			version = version + 1
		WHERE id = $1 AND version = $2
	`,
		p.ID,
		p.Version,
		p.Name,
		p.Species,
		p.Breed,
		p.Sex,
		toNullDate(p.BirthDate),
		p.Description,
		p.AdoptionFee,
		p.AdoptionStatus,
		toNullDate(p.AdoptionDate),
		history,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return checkUpdated(ctx, r.db, res, "pets", p.ID)
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, storage.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	p, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, storage.ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) List(ctx context.Context, f pets.ListFilter) ([]pets.Pet, error) {
	where := []string{"1=1"}
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ShelterID != "" {
		add("shelter_id = $%d", f.ShelterID)
	}
	if f.Species != "" {
		add("species = $%d", f.Species)
	}
	if f.Status != "" {
		add("adoption_status = $%d", f.Status)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	q := `SELECT ` + petColumns + ` FROM pets WHERE ` + strings.Join(where, " AND ") +
		fmt.Sprintf(` ORDER BY created_at ASC LIMIT $%d`, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(s scanner) (pets.Pet, error) {
	var (
		p       pets.Pet
		bd, ad  sql.NullTime
		history []byte
	)
	if err := s.Scan(
		&p.ID,
		&p.ShelterID,
		&p.Name,
		&p.Species,
		&p.Breed,
		&p.Sex,
		&bd,
		&p.Description,
		&p.AdoptionFee,
		&p.AdoptionStatus,
		&ad,
		&history,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Version,
	); err != nil {
		return pets.Pet{}, err
	}

	if bd.Valid {
		t := bd.Time
		// ojo: birth_date es date, pgx lo puede mapear a time.Time midnight UTC
		p.BirthDate = &t
	}
	if ad.Valid {
		t := ad.Time
		p.AdoptionDate = &t
	}

	var rows []historyRow
	if len(history) > 0 {
		if err := json.Unmarshal(history, &rows); err != nil {
			return pets.Pet{}, fmt.Errorf("decode adoption_history: %w", err)
		}
	}
	p.AdoptionHistory = make([]pets.AdoptionRecord, 0, len(rows))
	for _, h := range rows {
		p.AdoptionHistory = append(p.AdoptionHistory, pets.AdoptionRecord{
			ApplicationID: h.ApplicationID,
			AdopterID:     h.AdopterID,
			AdoptedAt:     h.AdoptedAt,
			ReturnedAt:    h.ReturnedAt,
		})
	}
	return p, nil
}

func encodeHistory(in []pets.AdoptionRecord) ([]byte, error) {
	rows := make([]historyRow, 0, len(in))
	for _, h := range in {
		rows = append(rows, historyRow{
			ApplicationID: h.ApplicationID,
			AdopterID:     h.AdopterID,
			AdoptedAt:     h.AdoptedAt,
			ReturnedAt:    h.ReturnedAt,
		})
	}
	return json.Marshal(rows)
}

// birth_date y adoption_date pueden ser NULL, los pasamos como NullTime
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
