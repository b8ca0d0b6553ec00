package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"smartmilk/internal/platform/logger"
	"smartmilk/internal/platform/metrics"
	"smartmilk/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	valid map[string]auth.Claims
}

func (f fakeVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	c, ok := f.valid[token]
	if !ok {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	return c, nil
}

// whoAmI responde el user id de las claims o 401.
func whoAmI(w http.ResponseWriter, r *http.Request) {
	c, ok := GetClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	_, _ = w.Write([]byte(c.UserID))
}

func TestAuthContext_DevMode(t *testing.T) {
	h := AuthContext(nil)(http.HandlerFunc(whoAmI))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DebugUserHeader, "  u-42 ")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u-42", rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthContext_WithVerifier(t *testing.T) {
	v := fakeVerifier{valid: map[string]auth.Claims{"good": {UserID: "u1", Email: "ana@farm.io"}}}
	h := AuthContext(v)(http.HandlerFunc(whoAmI))

	cases := []struct {
		name   string
		header map[string]string
		status int
		body   string
	}{
		{"valid bearer", map[string]string{"Authorization": "Bearer good"}, http.StatusOK, "u1"},
		{"case insensitive scheme", map[string]string{"Authorization": "bearer good"}, http.StatusOK, "u1"},
		{"invalid token", map[string]string{"Authorization": "Bearer bad"}, http.StatusUnauthorized, ""},
		{"basic scheme", map[string]string{"Authorization": "Basic good"}, http.StatusUnauthorized, ""},
		{"debug header ignored", map[string]string{DebugUserHeader: "u1"}, http.StatusUnauthorized, ""},
		{"no header", nil, http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.body, rr.Body.String())
		})
	}
}

func TestGetClaims_Empty(t *testing.T) {
	_, ok := GetClaims(context.Background())
	assert.False(t, ok)

	c, ok := GetClaims(WithClaims(context.Background(), auth.Claims{UserID: "x"}))
	require.True(t, ok)
	assert.Equal(t, "x", c.UserID)
}

func TestRecovery_Returns500AndLogs(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatJSON, Out: &buf})
	before := testutil.ToFloat64(metrics.PanicsRecovered.WithLabelValues("http_handler"))

	h := Recovery(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/cows", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, buf.String(), `"message":"panic recovered"`)
	assert.Contains(t, buf.String(), `"panic":"boom"`)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.PanicsRecovered.WithLabelValues("http_handler")))
}

func TestRecovery_RepanicsAbortHandler(t *testing.T) {
	h := Recovery(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		rec := recover()
		err, ok := rec.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, http.ErrAbortHandler))
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	t.Fatal("expected re-panic")
}

func TestLogging_RecordsRoutePattern(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Info, Format: logger.FormatJSON, Out: &buf})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(Logging(log))
	r.Get("/cows/{cowID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/cows/{cowID}", "418"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/cows/COW001", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	out := buf.String()
	assert.Contains(t, out, `"message":"request completed"`)
	assert.Contains(t, out, `"route":"/cows/{cowID}"`)
	assert.Contains(t, out, `"path":"/cows/COW001"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"request_id":"`)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/cows/{cowID}", "418")))
}
