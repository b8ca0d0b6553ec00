package cows

import "time"

// Cow es el registro de una vaca con su última medición de leche.
type Cow struct {
	ID          string // COW001, COW002, ...
	OwnerUserID string

	Name           string
	Age            int
	LactationStage string
	Photo          string

	MilkVolume     float64 // litros
	FatPercent     float64
	ProteinPercent float64
	LactosePercent float64
	PH             float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
