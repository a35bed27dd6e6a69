package drugs

import "time"

// Guideline es el bloque de dosificación tal como viene del vademécum:
// los rangos llegan como texto libre ("10-15", "40 mg/kg/día") y se
// interpretan recién en el evaluador, vía ParseRange.
type Guideline struct {
	WeightBased   string   // mg/kg por dosis, ej: "10-15"
	DosePerM2     *float64 // mg por m² de superficie corporal (opcional)
	MaxDailyPerKg string   // mg/kg/día, ej: "75"

	Routes    []Route
	Frequency string // texto libre: "cada 8h", etc.
}

// Drug representa el snapshot de un fármaco del formulario.
// Inmutable para los componentes core.
type Drug struct {
	ID   string
	Name string

	Category  Category
	Guideline Guideline

	Warnings          []string
	Contraindications []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasRoute informa si la vía está declarada en la guía del fármaco.
func (d Drug) HasRoute(r Route) bool {
	for _, dr := range d.Guideline.Routes {
		if dr == r {
			return true
		}
	}
	return false
}
