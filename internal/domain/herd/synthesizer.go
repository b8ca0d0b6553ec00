package herd

import (
	"fmt"
	"sort"
	"strings"
)

// CowLookup resuelve una vaca por ID. Se usa solo para el nombre en el texto.
type CowLookup func(id string) (CowSnapshot, bool)

// LookupFrom arma un CowLookup sobre un slice en memoria.
func LookupFrom(cows []CowSnapshot) CowLookup {
	byID := make(map[string]CowSnapshot, len(cows))
	for _, c := range cows {
		byID[c.ID] = c
	}
	return func(id string) (CowSnapshot, bool) {
		c, ok := byID[id]
		return c, ok
	}
}

// Synthesizer agrupa alertas por vaca y arma una recomendación priorizada por cada una.
type Synthesizer struct {
	remedies map[AlertMessage]Remedy
}

func NewSynthesizer() *Synthesizer {
	return &Synthesizer{remedies: DefaultRemedies()}
}

// Synthesize devuelve una recomendación por vaca con al menos una alerta,
// ordenadas High, Medium, Low (estable). Nunca devuelve nil.
func (s *Synthesizer) Synthesize(alerts []Alert, lookup CowLookup) []Recommendation {
	out := make([]Recommendation, 0)

	// Agrupar preservando el orden de primera aparición.
	order := make([]string, 0)
	byCow := make(map[string][]Alert)
	for _, a := range alerts {
		if _, seen := byCow[a.CowID]; !seen {
			order = append(order, a.CowID)
		}
		byCow[a.CowID] = append(byCow[a.CowID], a)
	}

	for _, cowID := range order {
		out = append(out, s.forCow(cowID, byCow[cowID], lookup))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	return out
}

func (s *Synthesizer) forCow(cowID string, alerts []Alert, lookup CowLookup) Recommendation {
	name := UnknownCowName
	if lookup != nil {
		if c, ok := lookup(cowID); ok {
			name = c.Name
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "For %s (%s), we recommend:", name, cowID)

	hasNutritionIssue := false
	hasHealthIssue := false

	for _, a := range alerts {
		r, ok := s.remedies[a.Message]
		if !ok {
			continue
		}
		b.WriteString("\n- ")
		b.WriteString(r.Fragment)

		switch r.Kind {
		case IssueNutrition:
			hasNutritionIssue = true
		case IssueHealth:
			hasHealthIssue = true
		}
	}

	if hasNutritionIssue {
		b.WriteString("\n- " + dietReviewFragment)
	}
	if hasHealthIssue {
		b.WriteString("\n- " + vetExamFragment)
	}
	b.WriteString("\n- " + monitorFragment)

	priority := PriorityLow
	switch {
	case hasHealthIssue:
		priority = PriorityHigh
	case hasNutritionIssue:
		priority = PriorityMedium
	}

	return Recommendation{
		CowID:    cowID,
		Message:  b.String(),
		Priority: priority,
	}
}
