package herd

import (
	"context"
	"errors"
	"strings"

	"smartmilk/internal/platform/logger"
	"smartmilk/internal/platform/metrics"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// HerdSource entrega los snapshots de un dueño.
// Lo implementa cows.Service; se define acá para evitar ciclos de imports.
type HerdSource interface {
	Snapshots(ctx context.Context, ownerUserID string) ([]CowSnapshot, error)
}

// Publisher notifica alertas nuevas (Kafka en prod, no-op en dev).
type Publisher interface {
	PublishAlerts(ctx context.Context, ownerUserID string, alerts []Alert) error
}

type NopPublisher struct{}

func (NopPublisher) PublishAlerts(context.Context, string, []Alert) error { return nil }

type FarmInfo struct {
	Name     string
	Location string
}

type Options struct {
	Farm      FarmInfo
	Rules     []Rule // vacío => DefaultRules()
	Publisher Publisher
	Logger    logger.Logger
}

type Service struct {
	source      HerdSource
	evaluator   *Evaluator
	synthesizer *Synthesizer
	publisher   Publisher
	farm        FarmInfo
	log         logger.Logger
}

func NewService(source HerdSource, opts Options) *Service {
	pub := opts.Publisher
	if pub == nil {
		pub = NopPublisher{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		source:      source,
		evaluator:   NewEvaluator(opts.Rules...),
		synthesizer: NewSynthesizer(),
		publisher:   pub,
		farm:        opts.Farm,
		log:         log.With(map[string]any{"component": "herd"}),
	}
}

type Overview struct {
	Farm   FarmInfo
	Stats  FarmStats
	Alerts []Alert
	Lookup CowLookup
}

type Assessment struct {
	Stats           FarmStats
	Alerts          []Alert
	Recommendations []Recommendation
	Lookup          CowLookup
}

func (s *Service) Overview(ctx context.Context, ownerUserID string) (Overview, error) {
	cows, err := s.snapshots(ctx, ownerUserID)
	if err != nil {
		return Overview{}, err
	}
	alerts := s.evaluate(cows)
	return Overview{
		Farm:   s.farm,
		Stats:  ComputeStats(cows, alerts),
		Alerts: alerts,
		Lookup: LookupFrom(cows),
	}, nil
}

func (s *Service) Alerts(ctx context.Context, ownerUserID string) ([]Alert, CowLookup, error) {
	cows, err := s.snapshots(ctx, ownerUserID)
	if err != nil {
		return nil, nil, err
	}
	return s.evaluate(cows), LookupFrom(cows), nil
}

func (s *Service) Recommendations(ctx context.Context, ownerUserID string) ([]Recommendation, error) {
	cows, err := s.snapshots(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	return s.synthesize(s.evaluate(cows), LookupFrom(cows)), nil
}

func (s *Service) Report(ctx context.Context, ownerUserID string) (Report, error) {
	cows, err := s.snapshots(ctx, ownerUserID)
	if err != nil {
		return Report{}, err
	}
	return BuildReport(cows, s.evaluate(cows)), nil
}

// Assess evalúa snapshots arbitrarios (sin persistencia ni dueño).
func (s *Service) Assess(cows []CowSnapshot) Assessment {
	alerts := s.evaluate(cows)
	lookup := LookupFrom(cows)
	return Assessment{
		Stats:           ComputeStats(cows, alerts),
		Alerts:          alerts,
		Recommendations: s.synthesize(alerts, lookup),
		Lookup:          lookup,
	}
}

// Inspect evalúa una vaca recién escrita y publica sus alertas.
// Un fallo del publisher se loguea; no debe romper el alta/edición.
func (s *Service) Inspect(ctx context.Context, ownerUserID string, c CowSnapshot) []Alert {
	alerts := s.evaluate([]CowSnapshot{c})
	if len(alerts) == 0 {
		return alerts
	}

	if err := s.publisher.PublishAlerts(ctx, ownerUserID, alerts); err != nil {
		metrics.AlertsPublished.WithLabelValues("failed").Add(float64(len(alerts)))
		s.log.Warn("publish alerts failed", map[string]any{
			"cow_id": c.ID,
			"alerts": len(alerts),
			"error":  err.Error(),
		})
		return alerts
	}

	metrics.AlertsPublished.WithLabelValues("success").Add(float64(len(alerts)))
	return alerts
}

func (s *Service) snapshots(ctx context.Context, ownerUserID string) ([]CowSnapshot, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return nil, ErrInvalidInput
	}
	return s.source.Snapshots(ctx, ownerUserID)
}

func (s *Service) evaluate(cows []CowSnapshot) []Alert {
	alerts := s.evaluator.Evaluate(cows)
	for _, a := range alerts {
		metrics.AlertsRaised.WithLabelValues(string(a.Message), string(a.Severity)).Inc()
	}
	return alerts
}

func (s *Service) synthesize(alerts []Alert, lookup CowLookup) []Recommendation {
	recs := s.synthesizer.Synthesize(alerts, lookup)
	for _, r := range recs {
		metrics.RecommendationsBuilt.WithLabelValues(string(r.Priority)).Inc()
	}
	return recs
}
