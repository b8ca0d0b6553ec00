package herd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smartmilk/internal/middleware"
	"smartmilk/internal/platform/logger"
	"smartmilk/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	byOwner map[string][]CowSnapshot
	err     error
}

func (f fakeSource) Snapshots(_ context.Context, ownerUserID string) ([]CowSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byOwner[ownerUserID], nil
}

type fakePublisher struct {
	calls int
	last  []Alert
	err   error
}

func (p *fakePublisher) PublishAlerts(_ context.Context, _ string, alerts []Alert) error {
	p.calls++
	p.last = alerts
	return p.err
}

var testHerd = []CowSnapshot{
	{ID: "COW001", Name: "Bessie", MilkVolume: 25, FatPercent: 3.8, ProteinPercent: 3.2, LactosePercent: 4.7, PH: 6.7},
	{ID: "COW002", Name: "Rosie", MilkVolume: 20, FatPercent: 4.6, ProteinPercent: 3.4, LactosePercent: 4.6, PH: 6.6},
	{ID: "COW003", Name: "Daisy", MilkVolume: 7, FatPercent: 3.5, ProteinPercent: 2.6, LactosePercent: 4.5, PH: 6.7},
}

func newTestService(pub Publisher, log logger.Logger) *Service {
	return NewService(fakeSource{byOwner: map[string][]CowSnapshot{"u1": testHerd}}, Options{
		Farm:      FarmInfo{Name: "SmartMilk Dairy Farm", Location: "Farm Location"},
		Publisher: pub,
		Logger:    log,
	})
}

func TestService_Overview(t *testing.T) {
	svc := newTestService(nil, nil)

	ov, err := svc.Overview(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "SmartMilk Dairy Farm", ov.Farm.Name)
	assert.Equal(t, 3, ov.Stats.TotalCows)
	assert.Equal(t, 3, ov.Stats.AlertCount)
	assert.Equal(t, 1, ov.Stats.DangerCount)
	require.Len(t, ov.Alerts, 3)

	c, ok := ov.Lookup("COW003")
	require.True(t, ok)
	assert.Equal(t, "Daisy", c.Name)

	_, err = svc.Overview(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_RecommendationsAndMetrics(t *testing.T) {
	svc := newTestService(nil, nil)
	before := testutil.ToFloat64(metrics.RecommendationsBuilt.WithLabelValues(string(PriorityMedium)))
	beforeRaised := testutil.ToFloat64(metrics.AlertsRaised.WithLabelValues(string(MessageLowProtein), string(SeverityDanger)))

	recs, err := svc.Recommendations(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "COW002", recs[0].CowID)
	assert.Equal(t, "COW003", recs[1].CowID)

	after := testutil.ToFloat64(metrics.RecommendationsBuilt.WithLabelValues(string(PriorityMedium)))
	assert.Equal(t, before+2, after)
	afterRaised := testutil.ToFloat64(metrics.AlertsRaised.WithLabelValues(string(MessageLowProtein), string(SeverityDanger)))
	assert.Equal(t, beforeRaised+1, afterRaised)
}

func TestService_SourceError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(fakeSource{err: boom}, Options{})

	_, _, err := svc.Alerts(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	_, err = svc.Report(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
}

func TestService_Assess(t *testing.T) {
	a := newTestService(nil, nil).Assess(testHerd)
	assert.Equal(t, 3, a.Stats.TotalCows)
	assert.Len(t, a.Alerts, 3)
	assert.Len(t, a.Recommendations, 2)

	empty := newTestService(nil, nil).Assess(nil)
	assert.NotNil(t, empty.Alerts)
	assert.NotNil(t, empty.Recommendations)
}

func TestService_Inspect_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(pub, nil)
	before := testutil.ToFloat64(metrics.AlertsPublished.WithLabelValues("success"))

	alerts := svc.Inspect(context.Background(), "u1", testHerd[2])
	require.Len(t, alerts, 2)
	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, alerts, pub.last)
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.AlertsPublished.WithLabelValues("success")))

	// Sin alertas no se publica nada.
	assert.Empty(t, svc.Inspect(context.Background(), "u1", testHerd[0]))
	assert.Equal(t, 1, pub.calls)
}

func TestService_Inspect_PublisherFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatJSON, Out: &buf})
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := newTestService(pub, log)
	before := testutil.ToFloat64(metrics.AlertsPublished.WithLabelValues("failed"))

	alerts := svc.Inspect(context.Background(), "u1", testHerd[1])
	require.Len(t, alerts, 1)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AlertsPublished.WithLabelValues("failed")))
	assert.Contains(t, buf.String(), `"message":"publish alerts failed"`)
	assert.Contains(t, buf.String(), `"cow_id":"COW002"`)
	assert.Contains(t, buf.String(), `"component":"herd"`)
}

func TestHandlers_Farm(t *testing.T) {
	svc := newTestService(nil, nil)
	r := chi.NewRouter()
	r.Use(middleware.AuthContext(nil))
	RegisterRoutes(r, svc)

	do := func(method, path, userID, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if userID != "" {
			req.Header.Set(middleware.DebugUserHeader, userID)
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	rr := do(http.MethodGet, "/farm", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(http.MethodGet, "/farm", "u1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"SmartMilk Dairy Farm"`)
	assert.Contains(t, rr.Body.String(), `"cow_name":"Daisy"`)

	rr = do(http.MethodGet, "/farm/alerts", "u1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"message":"Low protein content"`)
	assert.Contains(t, rr.Body.String(), `"severity":"danger"`)

	rr = do(http.MethodGet, "/farm/report", "u1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"top_performers":{"milk_volume":{"cow_id":"COW001"`)

	rr = do(http.MethodGet, "/farm/recommendations", "nobody", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = do(http.MethodPost, "/farm/assess", "", `[{"id":"COW9","name":"Z","milk_volume":4,"protein_percent":3.5}]`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"priority":"Low"`)

	rr = do(http.MethodPost, "/farm/assess", "", `{`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	big := `[{"id":"COW1","name":"` + strings.Repeat("a", maxAssessBody) + `"}]`
	rr = do(http.MethodPost, "/farm/assess", "", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}
