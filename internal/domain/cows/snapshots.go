package cows

import (
	"context"

	"smartmilk/internal/domain/herd"
)

// Snapshots expone el rodeo del dueño como mediciones para el motor de alertas.
// Implementa herd.HerdSource (herd no importa cows).
func (s *Service) Snapshots(ctx context.Context, ownerUserID string) ([]herd.CowSnapshot, error) {
	items, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	out := make([]herd.CowSnapshot, 0, len(items))
	for _, c := range items {
		out = append(out, ToSnapshot(c))
	}
	return out, nil
}

func ToSnapshot(c Cow) herd.CowSnapshot {
	return herd.CowSnapshot{
		ID:             c.ID,
		Name:           c.Name,
		MilkVolume:     c.MilkVolume,
		FatPercent:     c.FatPercent,
		ProteinPercent: c.ProteinPercent,
		LactosePercent: c.LactosePercent,
		PH:             c.PH,
	}
}
