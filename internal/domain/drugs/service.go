package drugs

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
	Name              string
	Category          Category
	WeightBased       string
	DosePerM2         *float64
	MaxDailyPerKg     string
	Routes            []Route
	Frequency         string
	Warnings          []string
	Contraindications []string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Drug, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Drug{}, ErrInvalidInput
	}
	if !validCategory(in.Category) {
		return Drug{}, ErrInvalidInput
	}
	if len(in.Routes) == 0 {
		return Drug{}, ErrInvalidInput
	}
	routes := make([]Route, 0, len(in.Routes))
	for _, r := range in.Routes {
		if !validRoute(r) {
			return Drug{}, ErrInvalidInput
		}
		routes = append(routes, r)
	}
	if in.DosePerM2 != nil && *in.DosePerM2 <= 0 {
		return Drug{}, ErrInvalidInput
	}

	now := s.now()
	d := Drug{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(in.Name),
		Category: in.Category,
		Guideline: Guideline{
			WeightBased:   strings.TrimSpace(in.WeightBased),
			DosePerM2:     in.DosePerM2,
			MaxDailyPerKg: strings.TrimSpace(in.MaxDailyPerKg),
			Routes:        routes,
			Frequency:     strings.TrimSpace(in.Frequency),
		},
		Warnings:          trimAll(in.Warnings),
		Contraindications: trimAll(in.Contraindications),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return Drug{}, err
	}
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Drug, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Drug{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Drug, error) {
	return s.repo.List(ctx)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
