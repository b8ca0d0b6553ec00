package herd

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"smartmilk/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// maxAssessBody acota /farm/assess, que no exige usuario.
const maxAssessBody = 1 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/farm", func(fr chi.Router) {
		fr.Get("/", overviewHandler(svc))
		fr.Get("/alerts", listAlertsHandler(svc))
		fr.Get("/recommendations", listRecommendationsHandler(svc))
		fr.Get("/report", reportHandler(svc))

		// Evaluación sin persistencia: no requiere usuario
		fr.Post("/assess", assessHandler(svc))
	})
}

// snapshotRequest es una medición enviada para evaluar.
type snapshotRequest struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	MilkVolume     float64 `json:"milk_volume"`
	FatPercent     float64 `json:"fat_percent"`
	ProteinPercent float64 `json:"protein_percent"`
	LactosePercent float64 `json:"lactose_percent"`
	PH             float64 `json:"ph"`
}

// alertResponse representa una alerta de salud/producción.
type alertResponse struct {
	CowID     string       `json:"cow_id"`
	CowName   string       `json:"cow_name"`
	Message   AlertMessage `json:"message"`
	Severity  Severity     `json:"severity" enums:"warning,danger"`
	Timestamp time.Time    `json:"timestamp"`
}

// recommendationResponse representa la recomendación para una vaca.
type recommendationResponse struct {
	CowID    string   `json:"cow_id"`
	Message  string   `json:"message"`
	Priority Priority `json:"priority" enums:"High,Medium,Low"`
}

type statsResponse struct {
	TotalCows             int     `json:"total_cows"`
	TotalMilk             float64 `json:"total_milk"`
	AverageMilkVolume     float64 `json:"average_milk_volume"`
	AverageFatPercent     float64 `json:"average_fat_percent"`
	AverageProteinPercent float64 `json:"average_protein_percent"`
	AverageLactosePercent float64 `json:"average_lactose_percent"`
	AveragePH             float64 `json:"average_ph"`
	AlertCount            int     `json:"alert_count"`
	DangerCount           int     `json:"danger_count"`
	WarningCount          int     `json:"warning_count"`
}

type overviewResponse struct {
	Name     string          `json:"name"`
	Location string          `json:"location"`
	Stats    statsResponse   `json:"stats"`
	Alerts   []alertResponse `json:"alerts"`
}

type performerResponse struct {
	CowID string  `json:"cow_id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type topPerformersResponse struct {
	MilkVolume     *performerResponse `json:"milk_volume"`
	FatPercent     *performerResponse `json:"fat_percent"`
	ProteinPercent *performerResponse `json:"protein_percent"`
	LactosePercent *performerResponse `json:"lactose_percent"`
	OptimalPH      *performerResponse `json:"optimal_ph"`
}

type reportResponse struct {
	Stats           statsResponse         `json:"stats"`
	TopPerformers   topPerformersResponse `json:"top_performers"`
	MostCommonAlert AlertMessage          `json:"most_common_alert,omitempty"`
	AlertBreakdown  []alertCountItem      `json:"alert_breakdown"`
}

type alertCountItem struct {
	Message AlertMessage `json:"message"`
	Count   int          `json:"count"`
}

type assessmentResponse struct {
	Stats           statsResponse            `json:"stats"`
	Alerts          []alertResponse          `json:"alerts"`
	Recommendations []recommendationResponse `json:"recommendations"`
}

// overviewHandler godoc
// @Summary Resumen de la granja
// @Description Estadísticas agregadas y alertas vigentes del rodeo del usuario autenticado.
// @Tags farm
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} overviewResponse
// @Failure 401 {string} string "unauthorized"
// @Router /farm [get]
func overviewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		ov, err := svc.Overview(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, overviewResponse{
			Name:     ov.Farm.Name,
			Location: ov.Farm.Location,
			Stats:    toStatsResponse(ov.Stats),
			Alerts:   toAlertResponses(ov.Alerts, ov.Lookup),
		})
	}
}

func listAlertsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		alerts, lookup, err := svc.Alerts(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toAlertResponses(alerts, lookup))
	}
}

// listRecommendationsHandler godoc
// @Summary Recomendaciones priorizadas
// @Description Una recomendación por vaca con alertas, ordenadas High, Medium, Low.
// @Tags farm
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} recommendationResponse
// @Failure 401 {string} string "unauthorized"
// @Router /farm/recommendations [get]
func listRecommendationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		recs, err := svc.Recommendations(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toRecommendationResponses(recs))
	}
}

func reportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		rep, err := svc.Report(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		var out reportResponse
		out.Stats = toStatsResponse(rep.Stats)
		out.TopPerformers.MilkVolume = toPerformerResponse(rep.TopPerformers.MilkVolume)
		out.TopPerformers.FatPercent = toPerformerResponse(rep.TopPerformers.FatPercent)
		out.TopPerformers.ProteinPercent = toPerformerResponse(rep.TopPerformers.ProteinPercent)
		out.TopPerformers.LactosePercent = toPerformerResponse(rep.TopPerformers.LactosePercent)
		out.TopPerformers.OptimalPH = toPerformerResponse(rep.TopPerformers.OptimalPH)
		out.MostCommonAlert = rep.MostCommonAlert
		out.AlertBreakdown = make([]alertCountItem, 0, len(rep.AlertBreakdown))
		for _, ac := range rep.AlertBreakdown {
			out.AlertBreakdown = append(out.AlertBreakdown, alertCountItem{Message: ac.Message, Count: ac.Count})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// assessHandler godoc
// @Summary Evaluar mediciones
// @Description Evalúa una lista de mediciones sin persistirlas y devuelve alertas y recomendaciones.
// @Tags farm
// @Accept json
// @Produce json
// @Param payload body []snapshotRequest true "Mediciones a evaluar"
// @Success 200 {object} assessmentResponse
// @Failure 400 {string} string "invalid json"
// @Failure 413 {string} string "payload too large"
// @Router /farm/assess [post]
func assessHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxAssessBody)

		var req []snapshotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		cows := make([]CowSnapshot, 0, len(req))
		for _, s := range req {
			cows = append(cows, CowSnapshot{
				ID:             strings.TrimSpace(s.ID),
				Name:           strings.TrimSpace(s.Name),
				MilkVolume:     s.MilkVolume,
				FatPercent:     s.FatPercent,
				ProteinPercent: s.ProteinPercent,
				LactosePercent: s.LactosePercent,
				PH:             s.PH,
			})
		}

		a := svc.Assess(cows)
		writeJSON(w, http.StatusOK, assessmentResponse{
			Stats:           toStatsResponse(a.Stats),
			Alerts:          toAlertResponses(a.Alerts, a.Lookup),
			Recommendations: toRecommendationResponses(a.Recommendations),
		})
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

func toAlertResponses(alerts []Alert, lookup CowLookup) []alertResponse {
	out := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		name := UnknownCowName
		if lookup != nil {
			if c, ok := lookup(a.CowID); ok {
				name = c.Name
			}
		}
		out = append(out, alertResponse{
			CowID:     a.CowID,
			CowName:   name,
			Message:   a.Message,
			Severity:  a.Severity,
			Timestamp: a.Timestamp,
		})
	}
	return out
}

func toRecommendationResponses(recs []Recommendation) []recommendationResponse {
	out := make([]recommendationResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, recommendationResponse{
			CowID:    rec.CowID,
			Message:  rec.Message,
			Priority: rec.Priority,
		})
	}
	return out
}

func toStatsResponse(s FarmStats) statsResponse {
	return statsResponse{
		TotalCows:             s.TotalCows,
		TotalMilk:             s.TotalMilk,
		AverageMilkVolume:     s.AverageMilkVolume,
		AverageFatPercent:     s.AverageFatPercent,
		AverageProteinPercent: s.AverageProteinPercent,
		AverageLactosePercent: s.AverageLactosePercent,
		AveragePH:             s.AveragePH,
		AlertCount:            s.AlertCount,
		DangerCount:           s.DangerCount,
		WarningCount:          s.WarningCount,
	}
}

func toPerformerResponse(p *Performer) *performerResponse {
	if p == nil {
		return nil
	}
	return &performerResponse{CowID: p.CowID, Name: p.Name, Value: p.Value}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
