package herd

// Rule es una regla de umbral fijo sobre una sola vaca.
// Las reglas son independientes: una vaca puede disparar varias en la misma pasada.
type Rule struct {
	Message  AlertMessage
	Severity Severity
	Trigger  func(c CowSnapshot) bool
}

// Umbrales
const (
	HighFatThreshold    = 4.0
	LowProteinThreshold = 3.0
	LowMilkThreshold    = 10.0
	LowFatThreshold     = 3.0
	LowLactoseThreshold = 4.2
	HighPHThreshold     = 6.8
	LowPHThreshold      = 6.4
	OptimalPH           = 6.7
)

// DefaultRules devuelve las reglas base (grasa alta, proteína baja, poca leche).
func DefaultRules() []Rule {
	return []Rule{
		{
			Message:  MessageHighFat,
			Severity: SeverityWarning,
			Trigger:  func(c CowSnapshot) bool { return c.FatPercent > HighFatThreshold },
		},
		{
			Message:  MessageLowProtein,
			Severity: SeverityDanger,
			Trigger:  func(c CowSnapshot) bool { return c.ProteinPercent < LowProteinThreshold },
		},
		{
			Message:  MessageLowMilkProd,
			Severity: SeverityWarning,
			Trigger:  func(c CowSnapshot) bool { return c.MilkVolume < LowMilkThreshold },
		},
	}
}

// ExtendedRules agrega grasa baja, lactosa baja y pH fuera de rango.
// Son opt-in (config rules.extended): con snapshots incompletos (ceros)
// disparan alertas "low" espurias.
func ExtendedRules() []Rule {
	return append(DefaultRules(),
		Rule{
			Message:  MessageLowFat,
			Severity: SeverityWarning,
			Trigger:  func(c CowSnapshot) bool { return c.FatPercent < LowFatThreshold },
		},
		Rule{
			Message:  MessageLowLactose,
			Severity: SeverityWarning,
			Trigger:  func(c CowSnapshot) bool { return c.LactosePercent < LowLactoseThreshold },
		},
		Rule{
			Message:  MessageHighPH,
			Severity: SeverityDanger,
			Trigger:  func(c CowSnapshot) bool { return c.PH > HighPHThreshold },
		},
		Rule{
			Message:  MessageLowPH,
			Severity: SeverityDanger,
			Trigger:  func(c CowSnapshot) bool { return c.PH < LowPHThreshold },
		},
	)
}

// RulesFor elige el set de reglas según el flag de configuración.
func RulesFor(extended bool) []Rule {
	if extended {
		return ExtendedRules()
	}
	return DefaultRules()
}
