package cows

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"smartmilk/internal/domain/herd"
	"smartmilk/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// Inspector evalúa una vaca recién escrita (herd.Service).
type Inspector interface {
	Inspect(ctx context.Context, ownerUserID string, c herd.CowSnapshot) []herd.Alert
}

func RegisterRoutes(r chi.Router, svc *Service, inspector Inspector) {
	r.Route("/cows", func(cr chi.Router) {
		cr.Post("/", createCowHandler(svc, inspector))
		cr.Get("/", listCowsHandler(svc))

		cr.Get("/{cowID}", getCowHandler(svc))
		cr.Put("/{cowID}", updateCowHandler(svc, inspector))
		cr.Patch("/{cowID}", updateCowHandler(svc, inspector))
		cr.Delete("/{cowID}", deleteCowHandler(svc))
	})
}

type createCowRequest struct {
	Name           string  `json:"name"`
	Age            int     `json:"age"`
	LactationStage string  `json:"lactation_stage"`
	Photo          string  `json:"photo"`
	MilkVolume     float64 `json:"milk_volume"`
	FatPercent     float64 `json:"fat_percent"`
	ProteinPercent float64 `json:"protein_percent"`
	LactosePercent float64 `json:"lactose_percent"`
	PH             float64 `json:"ph"`
}

type updateCowRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name           *string  `json:"name"`
	Age            *int     `json:"age"`
	LactationStage *string  `json:"lactation_stage"`
	Photo          *string  `json:"photo"`
	MilkVolume     *float64 `json:"milk_volume"`
	FatPercent     *float64 `json:"fat_percent"`
	ProteinPercent *float64 `json:"protein_percent"`
	LactosePercent *float64 `json:"lactose_percent"`
	PH             *float64 `json:"ph"`
}

type cowResponse struct {
	ID             string    `json:"id"`
	OwnerUserID    string    `json:"owner_user_id"`
	Name           string    `json:"name"`
	Age            int       `json:"age"`
	LactationStage string    `json:"lactation_stage"`
	Photo          string    `json:"photo"`
	MilkVolume     float64   `json:"milk_volume"`
	FatPercent     float64   `json:"fat_percent"`
	ProteinPercent float64   `json:"protein_percent"`
	LactosePercent float64   `json:"lactose_percent"`
	PH             float64   `json:"ph"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// cowWriteResponse acompaña la vaca con las alertas que disparó la escritura.
type cowWriteResponse struct {
	Cow    cowResponse     `json:"cow"`
	Alerts []alertResponse `json:"alerts"`
}

type alertResponse struct {
	Message   herd.AlertMessage `json:"message"`
	Severity  herd.Severity     `json:"severity"`
	Timestamp time.Time         `json:"timestamp"`
}

// createCowHandler godoc
// @Summary Alta de vaca
// @Description Registra una vaca con su última medición. Devuelve las alertas que dispara.
// @Tags cows
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createCowRequest true "Vaca"
// @Success 201 {object} cowWriteResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /cows [post]
func createCowHandler(svc *Service, inspector Inspector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req createCowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.Create(r.Context(), userID, CreateInput{
			Name:           req.Name,
			Age:            req.Age,
			LactationStage: req.LactationStage,
			Photo:          req.Photo,
			MilkVolume:     req.MilkVolume,
			FatPercent:     req.FatPercent,
			ProteinPercent: req.ProteinPercent,
			LactosePercent: req.LactosePercent,
			PH:             req.PH,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, cowWriteResponse{
			Cow:    toCowResponse(c),
			Alerts: inspect(r.Context(), inspector, userID, c),
		})
	}
}

func listCowsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		items, err := svc.ListByOwner(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]cowResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCowResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getCowHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		c, err := svc.GetForOwner(r.Context(), chi.URLParam(r, "cowID"), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCowResponse(c))
	}
}

// PUT y PATCH comparten semántica parcial.
func updateCowHandler(svc *Service, inspector Inspector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req updateCowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "cowID"), userID, UpdateInput{
			Name:           req.Name,
			Age:            req.Age,
			LactationStage: req.LactationStage,
			Photo:          req.Photo,
			MilkVolume:     req.MilkVolume,
			FatPercent:     req.FatPercent,
			ProteinPercent: req.ProteinPercent,
			LactosePercent: req.LactosePercent,
			PH:             req.PH,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, cowWriteResponse{
			Cow:    toCowResponse(c),
			Alerts: inspect(r.Context(), inspector, userID, c),
		})
	}
}

func deleteCowHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "cowID"), userID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func inspect(ctx context.Context, inspector Inspector, userID string, c Cow) []alertResponse {
	out := make([]alertResponse, 0)
	if inspector == nil {
		return out
	}
	for _, a := range inspector.Inspect(ctx, userID, ToSnapshot(c)) {
		out = append(out, alertResponse{Message: a.Message, Severity: a.Severity, Timestamp: a.Timestamp})
	}
	return out
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "invalid input", http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "cow not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toCowResponse(c Cow) cowResponse {
	return cowResponse{
		ID:             c.ID,
		OwnerUserID:    c.OwnerUserID,
		Name:           c.Name,
		Age:            c.Age,
		LactationStage: c.LactationStage,
		Photo:          c.Photo,
		MilkVolume:     c.MilkVolume,
		FatPercent:     c.FatPercent,
		ProteinPercent: c.ProteinPercent,
		LactosePercent: c.LactosePercent,
		PH:             c.PH,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
