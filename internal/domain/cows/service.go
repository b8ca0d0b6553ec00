package cows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
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
	Name           string
	Age            int
	LactationStage string
	Photo          string

	MilkVolume     float64
	FatPercent     float64
	ProteinPercent float64
	LactosePercent float64
	PH             float64
}

// UpdateInput: punteros para PATCH real, nil = no tocar.
type UpdateInput struct {
	Name           *string
	Age            *int
	LactationStage *string
	Photo          *string

	MilkVolume     *float64
	FatPercent     *float64
	ProteinPercent *float64
	LactosePercent *float64
	PH             *float64
}

func (in UpdateInput) empty() bool {
	return in.Name == nil && in.Age == nil && in.LactationStage == nil && in.Photo == nil &&
		in.MilkVolume == nil && in.FatPercent == nil && in.ProteinPercent == nil &&
		in.LactosePercent == nil && in.PH == nil
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Cow, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Cow{}, ErrInvalidInput
	}

	now := s.now()
	c := Cow{
		OwnerUserID:    ownerUserID,
		Name:           strings.TrimSpace(in.Name),
		Age:            in.Age,
		LactationStage: strings.TrimSpace(in.LactationStage),
		Photo:          strings.TrimSpace(in.Photo),
		MilkVolume:     in.MilkVolume,
		FatPercent:     in.FatPercent,
		ProteinPercent: in.ProteinPercent,
		LactosePercent: in.LactosePercent,
		PH:             in.PH,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := validate(c); err != nil {
		return Cow{}, err
	}

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return Cow{}, fmt.Errorf("next cow id: %w", err)
	}
	c.ID = id

	if err := s.repo.Create(ctx, c); err != nil {
		return Cow{}, err
	}
	return c, nil
}

// GetForOwner trae la vaca y valida que pertenezca a ownerUserID.
func (s *Service) GetForOwner(ctx context.Context, id, ownerUserID string) (Cow, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.TrimSpace(ownerUserID) == "" {
		return Cow{}, ErrInvalidInput
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Cow{}, err
	}
	if c.OwnerUserID != ownerUserID {
		return Cow{}, ErrForbidden
	}
	return c, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Cow, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

func (s *Service) Update(ctx context.Context, id, ownerUserID string, in UpdateInput) (Cow, error) {
	if in.empty() {
		return Cow{}, ErrInvalidInput
	}

	c, err := s.GetForOwner(ctx, id, ownerUserID)
	if err != nil {
		return Cow{}, err
	}

	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Age != nil {
		c.Age = *in.Age
	}
	if in.LactationStage != nil {
		c.LactationStage = strings.TrimSpace(*in.LactationStage)
	}
	if in.Photo != nil {
		c.Photo = strings.TrimSpace(*in.Photo)
	}
	if in.MilkVolume != nil {
		c.MilkVolume = *in.MilkVolume
	}
	if in.FatPercent != nil {
		c.FatPercent = *in.FatPercent
	}
	if in.ProteinPercent != nil {
		c.ProteinPercent = *in.ProteinPercent
	}
	if in.LactosePercent != nil {
		c.LactosePercent = *in.LactosePercent
	}
	if in.PH != nil {
		c.PH = *in.PH
	}

	if err := validate(c); err != nil {
		return Cow{}, err
	}

	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		return Cow{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerUserID string) error {
	c, err := s.GetForOwner(ctx, id, ownerUserID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, c.ID)
}

type ImportResult struct {
	Created []Cow
	Skipped []string // nombres que el dueño ya tenía
}

// Import carga un lote (seed). Las vacas cuyo nombre ya existe para el dueño se saltean.
func (s *Service) Import(ctx context.Context, ownerUserID string, items []CreateInput) (ImportResult, error) {
	res := ImportResult{Created: make([]Cow, 0), Skipped: make([]string, 0)}

	existing, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return res, err
	}
	names := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		names[strings.ToLower(c.Name)] = struct{}{}
	}

	for _, in := range items {
		key := strings.ToLower(strings.TrimSpace(in.Name))
		if _, dup := names[key]; dup {
			res.Skipped = append(res.Skipped, strings.TrimSpace(in.Name))
			continue
		}

		c, err := s.Create(ctx, ownerUserID, in)
		if err != nil {
			return res, fmt.Errorf("import %q: %w", in.Name, err)
		}
		names[key] = struct{}{}
		res.Created = append(res.Created, c)
	}
	return res, nil
}

func validate(c Cow) error {
	if c.Name == "" {
		return ErrInvalidInput
	}
	if c.Age < 0 || c.MilkVolume < 0 || c.PH < 0 {
		return ErrInvalidInput
	}
	for _, pct := range []float64{c.FatPercent, c.ProteinPercent, c.LactosePercent} {
		if pct < 0 || pct > 100 {
			return ErrInvalidInput
		}
	}
	return nil
}
