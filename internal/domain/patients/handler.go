package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"peds-medsafety/internal/middleware"
	"peds-medsafety/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/patients", func(pr chi.Router) {
		pr.Post("/", createPatientHandler(svc))
		pr.Get("/", listPatientsHandler(svc))
		pr.Get("/{patientID}", getPatientHandler(svc))
	})
}

// createPatientRequest es el cuerpo para registrar un paciente pediátrico.
type createPatientRequest struct {
	Name       string   `json:"name"`
	AgeYears   int      `json:"age_years"`
	WeightKg   float64  `json:"weight_kg"`
	HeightCm   *float64 `json:"height_cm,omitempty"`
	Allergies  []string `json:"allergies"`
	Conditions []string `json:"conditions"`
	Notes      string   `json:"notes"`
}

type patientResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	AgeYears   int      `json:"age_years"`
	WeightKg   float64  `json:"weight_kg"`
	HeightCm   *float64 `json:"height_cm,omitempty"`
	Allergies  []string `json:"allergies"`
	Conditions []string `json:"conditions"`
	Notes      string   `json:"notes,omitempty"`
}

// createPatientHandler godoc
// @Summary Registrar paciente pediátrico
// @Description Registra el snapshot de un paciente (edad, peso, talla, alergias, condiciones). Solo el rol `doctor` puede registrar pacientes. Autenticación: `X-Debug-User-ID` + `X-Debug-Role` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags patients
// @Accept json
// @Produce json
// @Param payload body createPatientRequest true "Datos del paciente; weight_kg debe ser > 0"
// @Success 201 {object} patientResponse
// @Failure 400 {string} string "invalid json / datos fuera de rango"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /patients [post]
func createPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.Role != auth.RoleDoctor {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			Name:       req.Name,
			AgeYears:   req.AgeYears,
			WeightKg:   req.WeightKg,
			HeightCm:   req.HeightCm,
			Allergies:  req.Allergies,
			Conditions: req.Conditions,
			Notes:      req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

// getPatientHandler godoc
// @Summary Obtener paciente
// @Tags patients
// @Produce json
// @Param patientID path string true "ID del paciente"
// @Success 200 {object} patientResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID} [get]
func getPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

// listPatientsHandler godoc
// @Summary Listar pacientes
// @Tags patients
// @Produce json
// @Success 200 {array} patientResponse
// @Failure 401 {string} string "unauthorized"
// @Router /patients [get]
func listPatientsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]patientResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPatientResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toPatientResponse(p Patient) patientResponse {
	return patientResponse{
		ID:         p.ID,
		Name:       p.Name,
		AgeYears:   p.AgeYears,
		WeightKg:   p.WeightKg,
		HeightCm:   p.HeightCm,
		Allergies:  p.Allergies,
		Conditions: p.Conditions,
		Notes:      p.Notes,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
