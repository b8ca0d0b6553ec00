package herd

import "math"

type FarmStats struct {
	TotalCows int
	TotalMilk float64

	AverageMilkVolume     float64
	AverageFatPercent     float64
	AverageProteinPercent float64
	AverageLactosePercent float64
	AveragePH             float64

	AlertCount   int
	DangerCount  int
	WarningCount int
}

// ComputeStats agrega totales y promedios del rodeo. Sin vacas, los promedios quedan en 0.
func ComputeStats(cows []CowSnapshot, alerts []Alert) FarmStats {
	st := FarmStats{TotalCows: len(cows), AlertCount: len(alerts)}

	for _, a := range alerts {
		switch a.Severity {
		case SeverityDanger:
			st.DangerCount++
		case SeverityWarning:
			st.WarningCount++
		}
	}

	if len(cows) == 0 {
		return st
	}

	var fat, protein, lactose, ph float64
	for _, c := range cows {
		st.TotalMilk += c.MilkVolume
		fat += c.FatPercent
		protein += c.ProteinPercent
		lactose += c.LactosePercent
		ph += c.PH
	}

	n := float64(len(cows))
	st.AverageMilkVolume = st.TotalMilk / n
	st.AverageFatPercent = fat / n
	st.AverageProteinPercent = protein / n
	st.AverageLactosePercent = lactose / n
	st.AveragePH = ph / n
	return st
}

// Performer es la vaca que lidera una métrica del reporte.
type Performer struct {
	CowID string
	Name  string
	Value float64
}

type TopPerformers struct {
	MilkVolume     *Performer
	FatPercent     *Performer
	ProteinPercent *Performer
	LactosePercent *Performer
	OptimalPH      *Performer // pH más cercano a OptimalPH
}

type AlertCount struct {
	Message AlertMessage
	Count   int
}

type Report struct {
	Stats           FarmStats
	TopPerformers   TopPerformers
	MostCommonAlert AlertMessage // vacío si no hay alertas
	AlertBreakdown  []AlertCount // orden de primera aparición
}

// BuildReport arma el resumen diario + top performers + resumen de alertas.
// En empates gana la primera vaca / el primer mensaje visto.
func BuildReport(cows []CowSnapshot, alerts []Alert) Report {
	rep := Report{
		Stats:          ComputeStats(cows, alerts),
		AlertBreakdown: make([]AlertCount, 0),
	}

	rep.TopPerformers = TopPerformers{
		MilkVolume:     maxBy(cows, func(c CowSnapshot) float64 { return c.MilkVolume }),
		FatPercent:     maxBy(cows, func(c CowSnapshot) float64 { return c.FatPercent }),
		ProteinPercent: maxBy(cows, func(c CowSnapshot) float64 { return c.ProteinPercent }),
		LactosePercent: maxBy(cows, func(c CowSnapshot) float64 { return c.LactosePercent }),
		OptimalPH:      closestPH(cows),
	}

	idx := map[AlertMessage]int{}
	for _, a := range alerts {
		i, ok := idx[a.Message]
		if !ok {
			idx[a.Message] = len(rep.AlertBreakdown)
			rep.AlertBreakdown = append(rep.AlertBreakdown, AlertCount{Message: a.Message, Count: 1})
			continue
		}
		rep.AlertBreakdown[i].Count++
	}

	best := 0
	for _, ac := range rep.AlertBreakdown {
		if ac.Count > best {
			best = ac.Count
			rep.MostCommonAlert = ac.Message
		}
	}

	return rep
}

func maxBy(cows []CowSnapshot, metric func(CowSnapshot) float64) *Performer {
	var top *Performer
	for _, c := range cows {
		v := metric(c)
		if top == nil || v > top.Value {
			top = &Performer{CowID: c.ID, Name: c.Name, Value: v}
		}
	}
	return top
}

func closestPH(cows []CowSnapshot) *Performer {
	var top *Performer
	bestDist := math.Inf(1)
	for _, c := range cows {
		d := math.Abs(OptimalPH - c.PH)
		if d < bestDist {
			bestDist = d
			top = &Performer{CowID: c.ID, Name: c.Name, Value: c.PH}
		}
	}
	return top
}
