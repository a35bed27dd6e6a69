package dosage

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"peds-medsafety/internal/domain/alerts"
	"peds-medsafety/internal/domain/drugs"
	"peds-medsafety/internal/domain/patients"
	"peds-medsafety/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, patientsSvc *patients.Service, drugsSvc *drugs.Service, alertsSvc *alerts.Service) {
	r.Post("/dosage/calculate", calculateHandler(patientsSvc, drugsSvc, alertsSvc))
}

type calculateRequest struct {
	PatientID string      `json:"patient_id"`
	DrugID    string      `json:"drug_id"`
	Route     drugs.Route `json:"route" enums:"oral,intravenous,intramuscular,topical,inhaled,rectal"`
}

type calculateResponse struct {
	WeightBasedDose      float64        `json:"weight_based_dose"`
	BSABasedDose         *float64       `json:"bsa_based_dose,omitempty"`
	MaxDailyDose         float64        `json:"max_daily_dose"`
	RecommendedDose      float64        `json:"recommended_dose"`
	Route                drugs.Route    `json:"route"`
	Frequency            string         `json:"frequency"`
	Warnings             []string       `json:"warnings"`
	Level                Level          `json:"level"`
	GuidelineUnavailable bool           `json:"guideline_unavailable"`
	Channel              alerts.Channel `json:"channel"`
}

// calculateHandler godoc
// @Summary Calcular dosis pediátrica
// @Description Calcula dosis por peso (y por BSA si hay talla y guía por m²), máximo diario y veredicto de seguridad. Un veredicto danger vuelve clasificado como `interrupting`: la UI debe frenar al actor antes de seguir. El cálculo no se persiste.
// @Tags dosage
// @Accept json
// @Produce json
// @Param payload body calculateRequest true "Paciente, fármaco y vía"
// @Success 200 {object} calculateResponse
// @Failure 400 {string} string "invalid json / peso no positivo / vía no soportada"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "patient/drug not found"
// @Router /dosage/calculate [post]
func calculateHandler(patientsSvc *patients.Service, drugsSvc *drugs.Service, alertsSvc *alerts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req calculateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := patientsSvc.GetByID(r.Context(), req.PatientID)
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		d, err := drugsSvc.GetByID(r.Context(), req.DrugID)
		if err != nil {
			http.Error(w, "drug not found", http.StatusNotFound)
			return
		}

		res, err := Evaluate(p, d, req.Route)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		sev := severityFor(res.Level)
		channel := alerts.Classify(sev, alerts.PriorityNormal)
		if res.Level != LevelSafe {
			// Best-effort: el veredicto ya va en la respuesta.
			_, _ = alertsSvc.Record(r.Context(), alerts.RecordInput{
				PatientID: p.ID,
				Severity:  sev,
				Summary:   fmt.Sprintf("Veredicto %s para %s en %s", res.Level, d.Name, p.Name),
				Detail:    strings.Join(res.Warnings, "; "),
			})
		}

		writeJSON(w, http.StatusOK, calculateResponse{
			WeightBasedDose:      res.WeightBasedDose,
			BSABasedDose:         res.BSABasedDose,
			MaxDailyDose:         res.MaxDailyDose,
			RecommendedDose:      res.RecommendedDose,
			Route:                res.Route,
			Frequency:            res.Frequency,
			Warnings:             res.Warnings,
			Level:                res.Level,
			GuidelineUnavailable: res.GuidelineUnavailable,
			Channel:              channel,
		})
	}
}

func severityFor(l Level) alerts.Severity {
	switch l {
	case LevelDanger:
		return alerts.SeverityDanger
	case LevelCaution:
		return alerts.SeverityCaution
	default:
		return alerts.SeverityInfo
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
