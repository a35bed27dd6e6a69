package prescriptions

import (
	"time"

	"peds-medsafety/internal/ports/auth"
)

// Actor es quien ejecuta una acción de workflow.
type Actor struct {
	ID   string
	Role auth.Role
}

// TimelineEntry es un evento del historial de la receta. El timeline es
// append-only: las entradas nunca se editan ni se borran.
type TimelineEntry struct {
	Event     Event
	ActorID   string
	ActorRole auth.Role
	Timestamp time.Time
	Notes     string
}

// Prescription es el registro de una receta pediátrica y su timeline.
type Prescription struct {
	ID string

	PatientID    string
	DrugID       string
	PrescriberID string

	Dosage    string // texto, ej "318.8 mg"
	Quantity  int
	Route     string
	Frequency string

	Status   Status
	Priority Priority
	Notes    string

	Timeline []TimelineEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}
