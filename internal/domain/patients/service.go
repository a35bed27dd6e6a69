package patients

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

type CreateInput struct {
	Name       string
	AgeYears   int
	WeightKg   float64
	HeightCm   *float64
	Allergies  []string
	Conditions []string
	Notes      string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Patient, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Patient{}, ErrInvalidInput
	}
	if in.AgeYears < 0 {
		return Patient{}, ErrInvalidInput
	}
	// Peso > 0 es precondición de todo el cálculo de dosis; se rechaza acá,
	// en el borde, no dentro del evaluador.
	if in.WeightKg <= 0 {
		return Patient{}, ErrInvalidInput
	}
	if in.HeightCm != nil && *in.HeightCm <= 0 {
		return Patient{}, ErrInvalidInput
	}

	now := s.now()
	p := Patient{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(in.Name),
		AgeYears:   in.AgeYears,
		WeightKg:   in.WeightKg,
		HeightCm:   in.HeightCm,
		Allergies:  normalizeLabels(in.Allergies),
		Conditions: normalizeLabels(in.Conditions),
		Notes:      strings.TrimSpace(in.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Patient{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Patient, error) {
	return s.repo.List(ctx)
}

// normalizeLabels limpia espacios y descarta duplicados conservando el orden.
func normalizeLabels(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, raw := range in {
		l := strings.TrimSpace(raw)
		if l == "" {
			continue
		}
		key := strings.ToLower(l)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, l)
	}
	return out
}
