package herd

import "time"

// CowSnapshot es la medición vigente de una vaca.
// Campos numéricos ausentes llegan como 0 (zero value).
type CowSnapshot struct {
	ID   string
	Name string

	MilkVolume     float64 // litros
	FatPercent     float64
	ProteinPercent float64
	LactosePercent float64
	PH             float64
}

// AlertMessage es el set cerrado de condiciones que puede reportar el evaluador.
type AlertMessage string

const (
	MessageHighFat     AlertMessage = "High fat content"
	MessageLowFat      AlertMessage = "Low fat content"
	MessageLowProtein  AlertMessage = "Low protein content"
	MessageLowLactose  AlertMessage = "Low lactose content"
	MessageHighPH      AlertMessage = "High pH (possible mastitis)"
	MessageLowPH       AlertMessage = "Low pH (possible acidosis)"
	MessageLowMilkProd AlertMessage = "Low milk production"
)

// Severity
// @Enum warning, danger
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

type Alert struct {
	CowID     string
	Message   AlertMessage
	Severity  Severity
	Timestamp time.Time // momento de evaluación, no de medición
}

// Priority
// @Enum High, Medium, Low
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Rank ordena High(1) < Medium(2) < Low(3). Valores desconocidos van al final.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

type Recommendation struct {
	CowID    string
	Message  string
	Priority Priority
}
