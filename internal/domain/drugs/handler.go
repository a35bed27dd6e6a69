package drugs

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
	r.Route("/drugs", func(dr chi.Router) {
		dr.Post("/", createDrugHandler(svc))
		dr.Get("/", listDrugsHandler(svc))
		dr.Get("/{drugID}", getDrugHandler(svc))
	})
}

// createDrugRequest es el cuerpo para dar de alta un fármaco en el formulario.
type createDrugRequest struct {
	Name              string   `json:"name"`
	Category          Category `json:"category" enums:"nsaids,antibiotics,analgesics,antihistamines,corticosteroids,other"`
	WeightBased       string   `json:"weight_based"`     // mg/kg, ej "10-15"
	DosePerM2         *float64 `json:"dose_per_m2,omitempty"`
	MaxDailyPerKg     string   `json:"max_daily_per_kg"` // mg/kg/día, ej "75"
	Routes            []Route  `json:"routes"`
	Frequency         string   `json:"frequency"`
	Warnings          []string `json:"warnings"`
	Contraindications []string `json:"contraindications"`
}

type drugResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Category          Category `json:"category"`
	WeightBased       string   `json:"weight_based"`
	DosePerM2         *float64 `json:"dose_per_m2,omitempty"`
	MaxDailyPerKg     string   `json:"max_daily_per_kg"`
	Routes            []Route  `json:"routes"`
	Frequency         string   `json:"frequency"`
	Warnings          []string `json:"warnings"`
	Contraindications []string `json:"contraindications"`
}

// createDrugHandler godoc
// @Summary Alta de fármaco en formulario
// @Description Registra un fármaco con su bloque de dosificación. Los rangos (mg/kg, mg/kg/día) se aceptan como texto y se interpretan al calcular. Solo rol `pharmacist`.
// @Tags drugs
// @Accept json
// @Produce json
// @Param payload body createDrugRequest true "Datos del fármaco"
// @Success 201 {object} drugResponse
// @Failure 400 {string} string "invalid json / categoría o vía inválida"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /drugs [post]
func createDrugHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.Role != auth.RolePharmacist {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createDrugRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.Create(r.Context(), CreateInput{
			Name:              req.Name,
			Category:          req.Category,
			WeightBased:       req.WeightBased,
			DosePerM2:         req.DosePerM2,
			MaxDailyPerKg:     req.MaxDailyPerKg,
			Routes:            req.Routes,
			Frequency:         req.Frequency,
			Warnings:          req.Warnings,
			Contraindications: req.Contraindications,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toDrugResponse(d))
	}
}

// getDrugHandler godoc
// @Summary Obtener fármaco
// @Tags drugs
// @Produce json
// @Param drugID path string true "ID del fármaco"
// @Success 200 {object} drugResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "drug not found"
// @Router /drugs/{drugID} [get]
func getDrugHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		d, err := svc.GetByID(r.Context(), chi.URLParam(r, "drugID"))
		if err != nil {
			http.Error(w, "drug not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toDrugResponse(d))
	}
}

// listDrugsHandler godoc
// @Summary Listar formulario
// @Tags drugs
// @Produce json
// @Success 200 {array} drugResponse
// @Failure 401 {string} string "unauthorized"
// @Router /drugs [get]
func listDrugsHandler(svc *Service) http.HandlerFunc {
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

		out := make([]drugResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDrugResponse(d))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toDrugResponse(d Drug) drugResponse {
	return drugResponse{
		ID:                d.ID,
		Name:              d.Name,
		Category:          d.Category,
		WeightBased:       d.Guideline.WeightBased,
		DosePerM2:         d.Guideline.DosePerM2,
		MaxDailyPerKg:     d.Guideline.MaxDailyPerKg,
		Routes:            d.Guideline.Routes,
		Frequency:         d.Guideline.Frequency,
		Warnings:          d.Warnings,
		Contraindications: d.Contraindications,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
