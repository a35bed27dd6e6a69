package alerts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
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

type RecordInput struct {
	PatientID      string
	PrescriptionID string
	Severity       Severity
	Priority       EventPriority
	Summary        string
	Detail         string
}

// Record clasifica y encola la alerta. La clasificación viene de Classify;
// acá solo se agrega identidad y timestamp.
func (s *Service) Record(ctx context.Context, in RecordInput) (Alert, error) {
	if strings.TrimSpace(in.Summary) == "" {
		return Alert{}, ErrInvalidInput
	}

	sev := in.Severity
	if sev == "" {
		sev = SeverityInfo
	}
	prio := in.Priority
	if prio == "" {
		prio = PriorityNormal
	}

	a := Alert{
		ID:             uuid.NewString(),
		PatientID:      strings.TrimSpace(in.PatientID),
		PrescriptionID: strings.TrimSpace(in.PrescriptionID),
		Severity:       sev,
		Channel:        Classify(sev, prio),
		Summary:        strings.TrimSpace(in.Summary),
		Detail:         strings.TrimSpace(in.Detail),
		FiredAt:        s.now(),
	}

	if err := s.repo.Append(ctx, a); err != nil {
		return Alert{}, err
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, limit int) ([]Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return s.repo.List(ctx, limit)
}
