package cows

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"smartmilk/internal/domain/herd"
	"smartmilk/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	seq  int64
	byID map[string]Cow
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Cow{}}
}

func (r *testRepo) NextID(ctx context.Context) (string, error) {
	r.seq++
	return FormatID(r.seq), nil
}

func (r *testRepo) Create(ctx context.Context, c Cow) error {
	if _, ok := r.byID[c.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) Update(ctx context.Context, c Cow) error {
	if _, ok := r.byID[c.ID]; !ok {
		return ErrNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Cow, error) {
	c, ok := r.byID[id]
	if !ok {
		return Cow{}, ErrNotFound
	}
	return c, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Cow, error) {
	out := make([]Cow, 0)
	for _, c := range r.byID {
		if c.OwnerUserID == ownerUserID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *testRepo) {
	t.Helper()
	repo := newTestRepo()
	svc := NewService(repo)
	now := time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func bessie() CreateInput {
	return CreateInput{
		Name:           "  Bessie ",
		Age:            4,
		LactationStage: "Peak",
		MilkVolume:     25.5,
		FatPercent:     3.8,
		ProteinPercent: 3.2,
		LactosePercent: 4.7,
		PH:             6.7,
	}
}

// -------------------------
// Service
// -------------------------

func TestService_Create_AssignsSequentialIDs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c1, err := svc.Create(ctx, "u1", bessie())
	require.NoError(t, err)
	assert.Equal(t, "COW001", c1.ID)
	assert.Equal(t, "Bessie", c1.Name)
	assert.Equal(t, "u1", c1.OwnerUserID)
	assert.Equal(t, c1.CreatedAt, c1.UpdatedAt)

	in := bessie()
	in.Name = "Daisy"
	c2, err := svc.Create(ctx, "u1", in)
	require.NoError(t, err)
	assert.Equal(t, "COW002", c2.ID)
}

func TestService_Create_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := map[string]func(*CreateInput){
		"empty name":       func(in *CreateInput) { in.Name = "   " },
		"negative age":     func(in *CreateInput) { in.Age = -1 },
		"negative volume":  func(in *CreateInput) { in.MilkVolume = -0.1 },
		"fat over 100":     func(in *CreateInput) { in.FatPercent = 101 },
		"negative protein": func(in *CreateInput) { in.ProteinPercent = -2 },
		"negative ph":      func(in *CreateInput) { in.PH = -6.5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := bessie()
			mutate(&in)
			_, err := svc.Create(ctx, "u1", in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := svc.Create(ctx, "", bessie())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetForOwner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, "u1", bessie())
	require.NoError(t, err)

	got, err := svc.GetForOwner(ctx, c.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	_, err = svc.GetForOwner(ctx, c.ID, "u2")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetForOwner(ctx, "COW999", "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Update_PartialFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, "u1", bessie())
	require.NoError(t, err)

	later := c.CreatedAt.Add(time.Hour)
	svc.now = func() time.Time { return later }

	fat := 4.3
	updated, err := svc.Update(ctx, c.ID, "u1", UpdateInput{FatPercent: &fat})
	require.NoError(t, err)
	assert.Equal(t, 4.3, updated.FatPercent)
	assert.Equal(t, c.Name, updated.Name)
	assert.Equal(t, c.MilkVolume, updated.MilkVolume)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.Equal(t, c.CreatedAt, updated.CreatedAt)

	_, err = svc.Update(ctx, c.ID, "u1", UpdateInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad := 120.0
	_, err = svc.Update(ctx, c.ID, "u1", UpdateInput{LactosePercent: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(ctx, c.ID, "u2", UpdateInput{FatPercent: &fat})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Delete(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, "u1", bessie())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, c.ID, "u2"), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, c.ID, "u1"))
	assert.Empty(t, repo.byID)
	assert.ErrorIs(t, svc.Delete(ctx, c.ID, "u1"), ErrNotFound)
}

func TestService_Import_SkipsExistingNames(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", bessie())
	require.NoError(t, err)

	daisy := bessie()
	daisy.Name = "Daisy"
	dup := bessie()
	dup.Name = "bessie"

	res, err := svc.Import(ctx, "u1", []CreateInput{dup, daisy, daisy})
	require.NoError(t, err)
	require.Len(t, res.Created, 1)
	assert.Equal(t, "Daisy", res.Created[0].Name)
	assert.Equal(t, []string{"bessie", "Daisy"}, res.Skipped)
}

func TestService_Snapshots(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, "u1", bessie())
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u2", bessie())
	require.NoError(t, err)

	snaps, err := svc.Snapshots(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []herd.CowSnapshot{{
		ID:             c.ID,
		Name:           "Bessie",
		MilkVolume:     25.5,
		FatPercent:     3.8,
		ProteinPercent: 3.2,
		LactosePercent: 4.7,
		PH:             6.7,
	}}, snaps)
}

// -------------------------
// Handlers
// -------------------------

type recordingInspector struct {
	calls []herd.CowSnapshot
}

func (i *recordingInspector) Inspect(ctx context.Context, ownerUserID string, c herd.CowSnapshot) []herd.Alert {
	i.calls = append(i.calls, c)
	return herd.NewEvaluator().Evaluate([]herd.CowSnapshot{c})
}

func newTestRouter(t *testing.T) (http.Handler, *recordingInspector) {
	t.Helper()
	svc, _ := newTestService(t)
	insp := &recordingInspector{}

	r := chi.NewRouter()
	r.Use(middleware.AuthContext(nil))
	RegisterRoutes(r, svc, insp)
	return r, insp
}

func doReq(t *testing.T, h http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.DebugUserHeader, userID)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandlers_CreateReturnsAlerts(t *testing.T) {
	h, insp := newTestRouter(t)

	rr := doReq(t, h, http.MethodPost, "/cows", "u1",
		`{"name":"Rosie","milk_volume":8,"fat_percent":4.5,"protein_percent":2.8,"lactose_percent":4.6,"ph":6.6}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"id":"COW001"`)
	assert.Contains(t, rr.Body.String(), string(herd.MessageHighFat))
	assert.Contains(t, rr.Body.String(), string(herd.MessageLowProtein))
	assert.Contains(t, rr.Body.String(), string(herd.MessageLowMilkProd))
	require.Len(t, insp.calls, 1)
	assert.Equal(t, "COW001", insp.calls[0].ID)
}

func TestHandlers_AuthAndOwnership(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := doReq(t, h, http.MethodGet, "/cows", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doReq(t, h, http.MethodPost, "/cows", "u1", `{"name":"Rosie","milk_volume":20}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doReq(t, h, http.MethodGet, "/cows/COW001", "u2", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doReq(t, h, http.MethodGet, "/cows/COW404", "u1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doReq(t, h, http.MethodPatch, "/cows/COW001", "u1", `{"ph":6.9}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"ph":6.9`)

	rr = doReq(t, h, http.MethodPut, "/cows/COW001", "u1", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doReq(t, h, http.MethodDelete, "/cows/COW001", "u1", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = doReq(t, h, http.MethodGet, "/cows", "u1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}
