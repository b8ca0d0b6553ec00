package herd

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// Evaluator aplica una tabla de reglas a cada vaca de forma independiente.
// No guarda estado entre llamadas; es seguro para uso concurrente.
type Evaluator struct {
	rules []Rule
	now   func() time.Time
}

// NewEvaluator crea un evaluador. Sin reglas explícitas usa DefaultRules().
func NewEvaluator(rules ...Rule) *Evaluator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Evaluator{
		rules: rules,
		now:   time.Now,
	}
}

// Evaluate devuelve una alerta por cada regla disparada, en orden de vaca y luego de regla.
// Nunca devuelve nil.
func (e *Evaluator) Evaluate(cows []CowSnapshot) []Alert {
	out := make([]Alert, 0)
	ts := e.now()
	for _, c := range cows {
		out = append(out, e.evaluateOne(c, ts)...)
	}
	return out
}

// EvaluateConcurrent produce el mismo resultado que Evaluate pero reparte las vacas
// entre workers. Cada vaca escribe en su propio slot, así el orden final es el de entrada.
func (e *Evaluator) EvaluateConcurrent(ctx context.Context, cows []CowSnapshot, workers int) ([]Alert, error) {
	if workers <= 0 {
		workers = defaultWorkers
	}

	ts := e.now()
	perCow := make([][]Alert, len(cows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range cows {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perCow[i] = e.evaluateOne(cows[i], ts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Con cows vacío no corre ninguna goroutine; un ctx ya cancelado igual se reporta.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Alert, 0)
	for _, alerts := range perCow {
		out = append(out, alerts...)
	}
	return out, nil
}

func (e *Evaluator) evaluateOne(c CowSnapshot, ts time.Time) []Alert {
	var out []Alert
	for _, r := range e.rules {
		if r.Trigger == nil || !r.Trigger(c) {
			continue
		}
		out = append(out, Alert{
			CowID:     c.ID,
			Message:   r.Message,
			Severity:  r.Severity,
			Timestamp: ts,
		})
	}
	return out
}
