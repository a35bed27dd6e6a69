package prescriptions

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"peds-medsafety/internal/domain/alerts"
	"peds-medsafety/internal/domain/dosage"
	"peds-medsafety/internal/domain/drugs"
	"peds-medsafety/internal/domain/patients"
	"peds-medsafety/internal/middleware"
	"peds-medsafety/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, patientsSvc *patients.Service, drugsSvc *drugs.Service, alertsSvc *alerts.Service) {
	r.Route("/prescriptions", func(pr chi.Router) {
		pr.Post("/", createPrescriptionHandler(svc, patientsSvc, drugsSvc, alertsSvc))
		pr.Get("/{prescriptionID}", getPrescriptionHandler(svc))

		pr.Post("/{prescriptionID}/send", transitionHandler(svc, alertsSvc, ActionSend))
		pr.Post("/{prescriptionID}/verify", transitionHandler(svc, alertsSvc, ActionVerify))
		pr.Post("/{prescriptionID}/dispense", transitionHandler(svc, alertsSvc, ActionDispense))
		pr.Post("/{prescriptionID}/administer", transitionHandler(svc, alertsSvc, ActionAdminister))
	})

	r.Get("/patients/{patientID}/prescriptions", listByPatientHandler(svc))
}

// createPrescriptionRequest es el cuerpo para emitir una receta.
// Si dosage viene vacío se usa la dosis recomendada por el evaluador.
type createPrescriptionRequest struct {
	PatientID string   `json:"patient_id"`
	DrugID    string   `json:"drug_id"`
	Route     string   `json:"route"`
	Dosage    string   `json:"dosage"`
	Quantity  int      `json:"quantity"`
	Frequency string   `json:"frequency"`
	Priority  Priority `json:"priority" enums:"normal,urgent,stat"`
	Notes     string   `json:"notes"`
}

type timelineEntryResponse struct {
	Event     Event     `json:"event"`
	ActorID   string    `json:"actor_id"`
	ActorRole auth.Role `json:"actor_role"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

type prescriptionResponse struct {
	ID           string                  `json:"id"`
	PatientID    string                  `json:"patient_id"`
	DrugID       string                  `json:"drug_id"`
	PrescriberID string                  `json:"prescriber_id"`
	Dosage       string                  `json:"dosage"`
	Quantity     int                     `json:"quantity"`
	Route        string                  `json:"route"`
	Frequency    string                  `json:"frequency"`
	Status       Status                  `json:"status"`
	Priority     Priority                `json:"priority"`
	Notes        string                  `json:"notes,omitempty"`
	Timeline     []timelineEntryResponse `json:"timeline"`

	// Veredicto del cálculo al momento de emitir (solo en la creación).
	Safety *safetyResponse `json:"safety,omitempty"`
}

type safetyResponse struct {
	RecommendedDose float64        `json:"recommended_dose"`
	MaxDailyDose    float64        `json:"max_daily_dose"`
	Level           dosage.Level   `json:"level"`
	Warnings        []string       `json:"warnings"`
	Channel         alerts.Channel `json:"channel"`
}

// createPrescriptionHandler godoc
// @Summary Emitir receta
// @Description Crea la receta en estado `pending` (acción de doctor) y corre el evaluador de dosis. Un veredicto danger no bloquea la creación: se devuelve clasificado como `interrupting` para que la UI frene al actor.
// @Tags prescriptions
// @Accept json
// @Produce json
// @Param payload body createPrescriptionRequest true "Datos de la receta"
// @Success 201 {object} prescriptionResponse
// @Failure 400 {string} string "invalid json / vía no soportada / datos fuera de rango"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "solo doctor puede emitir"
// @Failure 404 {string} string "patient/drug not found"
// @Router /prescriptions [post]
func createPrescriptionHandler(svc *Service, patientsSvc *patients.Service, drugsSvc *drugs.Service, alertsSvc *alerts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPrescriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		pat, err := patientsSvc.GetByID(r.Context(), req.PatientID)
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		drug, err := drugsSvc.GetByID(r.Context(), req.DrugID)
		if err != nil {
			http.Error(w, "drug not found", http.StatusNotFound)
			return
		}

		calc, err := dosage.Evaluate(pat, drug, drugs.Route(strings.TrimSpace(req.Route)))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		dosageText := strings.TrimSpace(req.Dosage)
		if dosageText == "" {
			dosageText = fmt.Sprintf("%.1f mg", calc.RecommendedDose)
		}
		freq := strings.TrimSpace(req.Frequency)
		if freq == "" {
			freq = calc.Frequency
		}

		p, err := svc.Create(r.Context(), Actor{ID: claims.UserID, Role: claims.Role}, CreateInput{
			PatientID: pat.ID,
			DrugID:    drug.ID,
			Dosage:    dosageText,
			Quantity:  req.Quantity,
			Route:     string(calc.Route),
			Frequency: freq,
			Priority:  req.Priority,
			Notes:     req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		channel := alerts.Classify(severityFor(calc.Level), eventPriority(p.Priority))
		if calc.Level != dosage.LevelSafe {
			// Encolado best-effort: la receta ya quedó emitida.
			_, _ = alertsSvc.Record(r.Context(), alerts.RecordInput{
				PatientID:      pat.ID,
				PrescriptionID: p.ID,
				Severity:       severityFor(calc.Level),
				Priority:       eventPriority(p.Priority),
				Summary:        fmt.Sprintf("Veredicto %s al recetar %s a %s", calc.Level, drug.Name, pat.Name),
				Detail:         strings.Join(calc.Warnings, "; "),
			})
		}

		resp := toPrescriptionResponse(p)
		resp.Safety = &safetyResponse{
			RecommendedDose: calc.RecommendedDose,
			MaxDailyDose:    calc.MaxDailyDose,
			Level:           calc.Level,
			Warnings:        calc.Warnings,
			Channel:         channel,
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

type transitionRequest struct {
	Notes string `json:"notes"`
}

// transitionHandler godoc
// @Summary Transicionar receta
// @Description Ejecuta send/verify/dispense/administer según la tabla de transiciones. El rol sale de los claims; `administer` exige notes no vacías. Repetir una acción ya aplicada falla con 409, nunca se acepta en silencio.
// @Tags prescriptions
// @Accept json
// @Produce json
// @Param prescriptionID path string true "ID de la receta"
// @Param payload body transitionRequest false "Notas de la transición (obligatorias en administer)"
// @Success 200 {object} prescriptionResponse
// @Failure 400 {string} string "notes requeridas / input inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "rol no autorizado para la transición"
// @Failure 404 {string} string "prescription not found"
// @Failure 409 {string} string "estado no admite la transición / conflicto concurrente"
// @Router /prescriptions/{prescriptionID}/{action} [post]
func transitionHandler(svc *Service, alertsSvc *alerts.Service, act Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req transitionRequest
		if r.Body != nil {
			// Body opcional salvo administer; el decode tolera EOF.
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		id := chi.URLParam(r, "prescriptionID")
		if _, err := svc.GetByID(r.Context(), id); err != nil {
			http.Error(w, "prescription not found", http.StatusNotFound)
			return
		}

		p, err := svc.Transition(r.Context(), id, act, Actor{ID: claims.UserID, Role: claims.Role}, req.Notes)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		_, _ = alertsSvc.Record(r.Context(), alerts.RecordInput{
			PatientID:      p.PatientID,
			PrescriptionID: p.ID,
			Severity:       alerts.SeverityInfo,
			Priority:       eventPriority(p.Priority),
			Summary:        fmt.Sprintf("Receta %s: %s por %s", p.ID, act, claims.Role),
		})

		writeJSON(w, http.StatusOK, toPrescriptionResponse(p))
	}
}

// getPrescriptionHandler godoc
// @Summary Obtener receta con timeline
// @Tags prescriptions
// @Produce json
// @Param prescriptionID path string true "ID de la receta"
// @Success 200 {object} prescriptionResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "prescription not found"
// @Router /prescriptions/{prescriptionID} [get]
func getPrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "prescriptionID"))
		if err != nil {
			http.Error(w, "prescription not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toPrescriptionResponse(p))
	}
}

// listByPatientHandler godoc
// @Summary Listar recetas de un paciente
// @Tags prescriptions
// @Produce json
// @Param patientID path string true "ID del paciente"
// @Success 200 {array} prescriptionResponse
// @Failure 401 {string} string "unauthorized"
// @Router /patients/{patientID}/prescriptions [get]
func listByPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByPatient(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]prescriptionResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPrescriptionResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func severityFor(l dosage.Level) alerts.Severity {
	switch l {
	case dosage.LevelDanger:
		return alerts.SeverityDanger
	case dosage.LevelCaution:
		return alerts.SeverityCaution
	default:
		return alerts.SeverityInfo
	}
}

// eventPriority: las recetas stat se tratan como eventos high para la
// política de alertas.
func eventPriority(p Priority) alerts.EventPriority {
	if p == PriorityStat {
		return alerts.PriorityHigh
	}
	return alerts.PriorityNormal
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthorizedTransition):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPrescriptionResponse(p Prescription) prescriptionResponse {
	tl := make([]timelineEntryResponse, 0, len(p.Timeline))
	for _, e := range p.Timeline {
		tl = append(tl, timelineEntryResponse{
			Event:     e.Event,
			ActorID:   e.ActorID,
			ActorRole: e.ActorRole,
			Timestamp: e.Timestamp,
			Notes:     e.Notes,
		})
	}
	return prescriptionResponse{
		ID:           p.ID,
		PatientID:    p.PatientID,
		DrugID:       p.DrugID,
		PrescriberID: p.PrescriberID,
		Dosage:       p.Dosage,
		Quantity:     p.Quantity,
		Route:        p.Route,
		Frequency:    p.Frequency,
		Status:       p.Status,
		Priority:     p.Priority,
		Notes:        p.Notes,
		Timeline:     tl,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
