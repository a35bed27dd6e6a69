package patients

import "time"

// Patient representa el snapshot pediátrico que consumen el evaluador de dosis
// y el flujo de prescripciones. Es inmutable una vez cargado: los componentes
// core nunca lo modifican.
type Patient struct {
	ID string

	Name     string
	AgeYears int     // años cumplidos (>= 0)
	WeightKg float64 // > 0
	HeightCm *float64

	Allergies  []string
	Conditions []string

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
