package herd

// IssueKind clasifica el remedio para calcular la prioridad.
type IssueKind int

const (
	IssueNone IssueKind = iota
	IssueNutrition
	IssueHealth
)

type Remedy struct {
	Fragment string
	Kind     IssueKind
}

const (
	UnknownCowName = "Unknown Cow"

	dietReviewFragment = "Review overall diet balance with a nutritionist."
	vetExamFragment    = "Schedule veterinary examination as soon as possible."
	monitorFragment    = "Monitor closely for the next 3 days and record any changes."
)

// DefaultRemedies mapea cada mensaje de alerta a su acción sugerida.
func DefaultRemedies() map[AlertMessage]Remedy {
	return map[AlertMessage]Remedy{
		MessageHighFat: {
			Fragment: "Reduce energy-dense feeds and increase fiber intake with more hay.",
			Kind:     IssueNutrition,
		},
		MessageLowFat: {
			Fragment: "Increase energy-dense feeds like corn and barley.",
			Kind:     IssueNutrition,
		},
		MessageLowProtein: {
			Fragment: "Add protein supplements like soybean meal or canola meal.",
			Kind:     IssueNutrition,
		},
		MessageLowLactose: {
			Fragment: "Increase grain feeding slightly to boost carbohydrate intake.",
			Kind:     IssueNutrition,
		},
		MessageHighPH: {
			Fragment: "Immediate veterinary check for mastitis. Isolate the cow and check for udder inflammation.",
			Kind:     IssueHealth,
		},
		MessageLowPH: {
			Fragment: "Check for signs of acidosis. Provide buffers like sodium bicarbonate.",
			Kind:     IssueHealth,
		},
		MessageLowMilkProd: {
			Fragment: "Evaluate feed intake, health status, and environmental stressors.",
			Kind:     IssueNone,
		},
	}
}
