package prescriptions

import (
	"context"
	"strings"
	"time"

	"peds-medsafety/internal/ports/auth"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	PatientID string
	DrugID    string
	Dosage    string
	Quantity  int
	Route     string
	Frequency string
	Priority  Priority
	Notes     string
}

// Create registra una receta nueva en pending. Crear es una acción de doctor;
// la entrada `created` del timeline queda como primer evento del log.
func (s *Service) Create(ctx context.Context, prescriber Actor, in CreateInput) (Prescription, error) {
	if strings.TrimSpace(prescriber.ID) == "" {
		return Prescription{}, ErrInvalidInput
	}
	if prescriber.Role != auth.RoleDoctor {
		return Prescription{}, ErrUnauthorizedTransition
	}
	if strings.TrimSpace(in.PatientID) == "" || strings.TrimSpace(in.DrugID) == "" {
		return Prescription{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Dosage) == "" || in.Quantity <= 0 {
		return Prescription{}, ErrInvalidInput
	}

	prio := in.Priority
	if prio == "" {
		prio = PriorityNormal
	}
	if !validPriority(prio) {
		return Prescription{}, ErrInvalidInput
	}

	now := s.now()
	p := Prescription{
		ID:           uuid.NewString(),
		PatientID:    strings.TrimSpace(in.PatientID),
		DrugID:       strings.TrimSpace(in.DrugID),
		PrescriberID: prescriber.ID,
		Dosage:       strings.TrimSpace(in.Dosage),
		Quantity:     in.Quantity,
		Route:        strings.TrimSpace(in.Route),
		Frequency:    strings.TrimSpace(in.Frequency),
		Status:       StatusPending,
		Priority:     prio,
		Notes:        strings.TrimSpace(in.Notes),
		Timeline: []TimelineEntry{{
			Event:     EventCreated,
			ActorID:   prescriber.ID,
			ActorRole: prescriber.Role,
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Prescription{}, err
	}
	return p, nil
}

// Transition carga la receta, aplica la acción vía la tabla y persiste con
// chequeo optimista sobre el estado previo.
func (s *Service) Transition(ctx context.Context, id string, act Action, actor Actor, notes string) (Prescription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Prescription{}, ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Prescription{}, err
	}

	updated, err := Apply(p, act, actor, s.now(), notes)
	if err != nil {
		return Prescription{}, err
	}

	if err := s.repo.Update(ctx, updated, p.Status); err != nil {
		return Prescription{}, err
	}
	return updated, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Prescription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Prescription{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Prescription, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPatient(ctx, patientID)
}
