package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"peds-medsafety/internal/domain/drugs"
)

type DrugsRepo struct {
	db *sql.DB
}

func NewDrugsRepo(db *sql.DB) *DrugsRepo {
	return &DrugsRepo{db: db}
}

func (r *DrugsRepo) Create(ctx context.Context, d drugs.Drug) error {
	routes, err := json.Marshal(d.Guideline.Routes)
	if err != nil {
		return err
	}
	warnings, err := json.Marshal(d.Warnings)
	if err != nil {
		return err
	}
	contras, err := json.Marshal(d.Contraindications)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO drugs (
			id, name, category,
			weight_based, dose_per_m2, max_daily_per_kg,
			routes, frequency,
			warnings, contraindications,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		d.ID,
		d.Name,
		string(d.Category),
		d.Guideline.WeightBased,
		d.Guideline.DosePerM2,
		d.Guideline.MaxDailyPerKg,
		string(routes),
		d.Guideline.Frequency,
		string(warnings),
		string(contras),
		d.CreatedAt,
		d.UpdatedAt,
	)
	return err
}

func (r *DrugsRepo) GetByID(ctx context.Context, id string) (drugs.Drug, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return drugs.Drug{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, name, category,
			weight_based, dose_per_m2, max_daily_per_kg,
			routes, frequency,
			warnings, contraindications,
			created_at, updated_at
		FROM drugs
		WHERE id = $1
	`, id)

	d, err := scanDrug(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return drugs.Drug{}, ErrNotFound
		}
		return drugs.Drug{}, err
	}
	return d, nil
}

func (r *DrugsRepo) List(ctx context.Context) ([]drugs.Drug, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, name, category,
			weight_based, dose_per_m2, max_daily_per_kg,
			routes, frequency,
			warnings, contraindications,
			created_at, updated_at
		FROM drugs
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]drugs.Drug, 0)
	for rows.Next() {
		d, err := scanDrug(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDrug(row rowScanner) (drugs.Drug, error) {
	var d drugs.Drug
	var category, routes, warnings, contras string

	if err := row.Scan(
		&d.ID,
		&d.Name,
		&category,
		&d.Guideline.WeightBased,
		&d.Guideline.DosePerM2,
		&d.Guideline.MaxDailyPerKg,
		&routes,
		&d.Guideline.Frequency,
		&warnings,
		&contras,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return drugs.Drug{}, err
	}

	d.Category = drugs.Category(category)
	if err := json.Unmarshal([]byte(routes), &d.Guideline.Routes); err != nil {
		return drugs.Drug{}, err
	}
	if err := json.Unmarshal([]byte(warnings), &d.Warnings); err != nil {
		return drugs.Drug{}, err
	}
	if err := json.Unmarshal([]byte(contras), &d.Contraindications); err != nil {
		return drugs.Drug{}, err
	}
	return d, nil
}
