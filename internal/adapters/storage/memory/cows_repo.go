package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"smartmilk/internal/domain/cows"
)

type cowRepo struct {
	mu   sync.RWMutex
	seq  int64
	byID map[string]cows.Cow
}

func NewCowRepo() cows.Repository {
	return &cowRepo{
		byID: make(map[string]cows.Cow),
	}
}

func (r *cowRepo) NextID(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	return cows.FormatID(r.seq), nil
}

func (r *cowRepo) Create(ctx context.Context, c cows.Cow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("cow id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("cow already exists")
	}
	// ids cargados a mano (seed) no deben chocar con la secuencia
	if n, ok := cows.ParseID(c.ID); ok && n > r.seq {
		r.seq = n
	}
	r.byID[c.ID] = c
	return nil
}

func (r *cowRepo) Update(ctx context.Context, c cows.Cow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[c.ID]; !exists {
		return cows.ErrNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *cowRepo) GetByID(ctx context.Context, id string) (cows.Cow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return cows.Cow{}, cows.ErrNotFound
	}
	return c, nil
}

func (r *cowRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]cows.Cow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]cows.Cow, 0)
	for _, c := range r.byID {
		if c.OwnerUserID == ownerUserID {
			out = append(out, c)
		}
	}

	// created_at desc, igual que postgres; empate por id desc
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		ni, _ := cows.ParseID(out[i].ID)
		nj, _ := cows.ParseID(out[j].ID)
		return ni > nj
	})

	return out, nil
}

func (r *cowRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return cows.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
