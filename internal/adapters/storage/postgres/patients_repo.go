package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"peds-medsafety/internal/domain/patients"
)

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) error {
	allergies, err := json.Marshal(p.Allergies)
	if err != nil {
		return err
	}
	conditions, err := json.Marshal(p.Conditions)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO patients (
			id, name,
			age_years, weight_kg, height_cm,
			allergies, conditions,
			notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		p.ID,
		p.Name,
		p.AgeYears,
		p.WeightKg,
		p.HeightCm,
		string(allergies),
		string(conditions),
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return patients.Patient{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, name,
			age_years, weight_kg, height_cm,
			allergies, conditions,
			notes,
			created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)

	p, err := scanPatient(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return patients.Patient{}, ErrNotFound
		}
		return patients.Patient{}, err
	}
	return p, nil
}

func (r *PatientsRepo) List(ctx context.Context) ([]patients.Patient, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, name,
			age_years, weight_kg, height_cm,
			allergies, conditions,
			notes,
			created_at, updated_at
		FROM patients
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (patients.Patient, error) {
	var p patients.Patient
	var allergies, conditions string

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.AgeYears,
		&p.WeightKg,
		&p.HeightCm,
		&allergies,
		&conditions,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return patients.Patient{}, err
	}

	if err := json.Unmarshal([]byte(allergies), &p.Allergies); err != nil {
		return patients.Patient{}, err
	}
	if err := json.Unmarshal([]byte(conditions), &p.Conditions); err != nil {
		return patients.Patient{}, err
	}
	return p, nil
}
