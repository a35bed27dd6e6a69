package alerts

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"peds-medsafety/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/alerts", listAlertsHandler(svc))
}

type alertResponse struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patient_id,omitempty"`
	PrescriptionID string    `json:"prescription_id,omitempty"`
	Severity       Severity  `json:"severity"`
	Channel        Channel   `json:"channel"`
	Summary        string    `json:"summary"`
	Detail         string    `json:"detail,omitempty"`
	FiredAt        time.Time `json:"fired_at"`
}

// listAlertsHandler godoc
// @Summary Feed de alertas
// @Description Devuelve las alertas encoladas (pasivas e interrupciones ya emitidas), más reciente primero.
// @Tags alerts
// @Produce json
// @Param limit query int false "Máximo de alertas a devolver (1-200). Por defecto 50"
// @Success 200 {array} alertResponse
// @Failure 401 {string} string "unauthorized"
// @Router /alerts [get]
func listAlertsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
				limit = n
			}
		}

		items, err := svc.List(r.Context(), limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]alertResponse, 0, len(items))
		for _, a := range items {
			out = append(out, alertResponse{
				ID:             a.ID,
				PatientID:      a.PatientID,
				PrescriptionID: a.PrescriptionID,
				Severity:       a.Severity,
				Channel:        a.Channel,
				Summary:        a.Summary,
				Detail:         a.Detail,
				FiredAt:        a.FiredAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
