package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"peds-medsafety/internal/domain/prescriptions"
)

type PrescriptionsRepo struct {
	db *sql.DB
}

func NewPrescriptionsRepo(db *sql.DB) *PrescriptionsRepo {
	return &PrescriptionsRepo{db: db}
}

func (r *PrescriptionsRepo) Create(ctx context.Context, p prescriptions.Prescription) error {
	timeline, err := json.Marshal(p.Timeline)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO prescriptions (
			id, patient_id, drug_id, prescriber_id,
			dosage, quantity, route, frequency,
			status, priority, notes,
			timeline,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		p.ID,
		p.PatientID,
		p.DrugID,
		p.PrescriberID,
		p.Dosage,
		p.Quantity,
		p.Route,
		p.Frequency,
		string(p.Status),
		string(p.Priority),
		p.Notes,
		string(timeline),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PrescriptionsRepo) GetByID(ctx context.Context, id string) (prescriptions.Prescription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return prescriptions.Prescription{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, patient_id, drug_id, prescriber_id,
			dosage, quantity, route, frequency,
			status, priority, notes,
			timeline,
			created_at, updated_at
		FROM prescriptions
		WHERE id = $1
	`, id)

	p, err := scanPrescription(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return prescriptions.Prescription{}, ErrNotFound
		}
		return prescriptions.Prescription{}, err
	}
	return p, nil
}

func (r *PrescriptionsRepo) ListByPatient(ctx context.Context, patientID string) ([]prescriptions.Prescription, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, patient_id, drug_id, prescriber_id,
			dosage, quantity, route, frequency,
			status, priority, notes,
			timeline,
			created_at, updated_at
		FROM prescriptions
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]prescriptions.Prescription, 0)
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update condiciona el write al estado previo: la cláusula status = prev es
// el detector de conflicto para transiciones concurrentes.
func (r *PrescriptionsRepo) Update(ctx context.Context, p prescriptions.Prescription, prev prescriptions.Status) error {
	timeline, err := json.Marshal(p.Timeline)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE prescriptions
		SET status = $1, notes = $2, timeline = $3, updated_at = $4
		WHERE id = $5 AND status = $6
	`,
		string(p.Status),
		p.Notes,
		string(timeline),
		p.UpdatedAt,
		p.ID,
		string(prev),
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		// Distinguir "no existe" de "otra transición ganó".
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM prescriptions WHERE id = $1`, p.ID).Scan(&one)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return prescriptions.ErrConflict
	}
	return nil
}

func scanPrescription(row rowScanner) (prescriptions.Prescription, error) {
	var p prescriptions.Prescription
	var status, priority, timeline string

	if err := row.Scan(
		&p.ID,
		&p.PatientID,
		&p.DrugID,
		&p.PrescriberID,
		&p.Dosage,
		&p.Quantity,
		&p.Route,
		&p.Frequency,
		&status,
		&priority,
		&p.Notes,
		&timeline,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return prescriptions.Prescription{}, err
	}

	p.Status = prescriptions.Status(status)
	p.Priority = prescriptions.Priority(priority)
	if err := json.Unmarshal([]byte(timeline), &p.Timeline); err != nil {
		return prescriptions.Prescription{}, err
	}
	return p, nil
}
